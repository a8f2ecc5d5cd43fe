package main

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/gokatarajesh/quizpin/db/migrations"
	"github.com/gokatarajesh/quizpin/internal/config"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply or inspect the Postgres schema migrations",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Store.Driver != config.DriverPostgres {
				logger.Info().Str("driver", cfg.Store.Driver).Msg("schema is created on open; nothing to migrate")
				return nil
			}

			db, err := sql.Open("pgx", cfg.Postgres.ConnString())
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			ctx := commandContext(cmd)
			if err := db.PingContext(ctx); err != nil {
				return fmt.Errorf("ping database: %w", err)
			}
			logger.Info().
				Str("host", cfg.Postgres.Host).
				Int("port", cfg.Postgres.Port).
				Str("database", cfg.Postgres.Database).
				Msg("connected to database")

			goose.SetBaseFS(migrations.FS)
			goose.SetTableName("goose_db_version")
			if err := goose.SetDialect("postgres"); err != nil {
				return err
			}

			switch args[0] {
			case "up":
				if err := goose.UpContext(ctx, db, "."); err != nil {
					return fmt.Errorf("run migrations up: %w", err)
				}
				logger.Info().Msg("migrations applied successfully")
			case "down":
				if err := goose.DownContext(ctx, db, "."); err != nil {
					return fmt.Errorf("run migrations down: %w", err)
				}
				logger.Info().Msg("migrations rolled back successfully")
			case "status":
				if err := goose.StatusContext(ctx, db, "."); err != nil {
					return fmt.Errorf("migration status: %w", err)
				}
			default:
				return fmt.Errorf("unknown migrate command %q (use up, down or status)", args[0])
			}
			return nil
		},
	}
	return cmd
}
