package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizpin/internal/config"
	"github.com/gokatarajesh/quizpin/internal/db/repository"
	"github.com/gokatarajesh/quizpin/internal/db/sqlite"
	"github.com/gokatarajesh/quizpin/internal/quizset"
	"github.com/gokatarajesh/quizpin/internal/server"
)

// Store is an opened backend together with its health check and shutdown hook.
type Store struct {
	quizset.Store
	Pinger server.Pinger
	Close  func()
}

// OpenStore connects the backend selected by STORE_DRIVER.
func OpenStore(ctx context.Context, cfg *config.App, logger zerolog.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		logger.Info().Str("path", cfg.Store.SQLitePath).Msg("using sqlite store")
		return &Store{
			Store:  db,
			Pinger: db,
			Close: func() {
				if err := db.Close(); err != nil {
					logger.Error().Err(err).Msg("sqlite close error")
				}
			},
		}, nil
	default:
		pool, err := pgxpool.New(ctx, cfg.Postgres.ConnString())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		logger.Info().Str("host", cfg.Postgres.Host).Str("database", cfg.Postgres.Database).Msg("using postgres store")
		return &Store{
			Store:  repository.NewStore(pool),
			Pinger: pool,
			Close:  pool.Close,
		}, nil
	}
}
