package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gokatarajesh/quizpin/internal/config"
	"github.com/gokatarajesh/quizpin/internal/logging"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "quizctl",
		Short:        "Operations tool for the quizpin service",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("env-file", "configs/.env", "dotenv file loaded outside production")

	root.AddCommand(newMigrateCmd())
	root.AddCommand(newBackfillCmd())
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newTokenCmd())
	return root
}

// loadConfig reads the optional dotenv file and parses the environment.
func loadConfig(cmd *cobra.Command) (*config.App, zerolog.Logger, error) {
	if os.Getenv("APP_ENV") != "production" {
		if path, _ := cmd.Flags().GetString("env-file"); path != "" {
			// a missing file is fine; the environment may be complete already
			_ = godotenv.Load(path)
		}
	}
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	logger := logging.WithLevel(logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Name+"-ctl", cfg.Env), cfg.LogLevel)
	return cfg, logger, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
