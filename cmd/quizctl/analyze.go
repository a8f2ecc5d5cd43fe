package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/gokatarajesh/quizpin/internal/analytics"
	"github.com/gokatarajesh/quizpin/internal/app"
)

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <question-id>",
		Short: "Print answer statistics and a difficulty suggestion for a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)
			store, err := app.OpenStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			analysis, err := analytics.NewAggregator(store, store, logger).Analyze(ctx, args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(analysis)
		},
	}
}
