package main

import (
	"github.com/spf13/cobra"

	"github.com/gokatarajesh/quizpin/internal/app"
	"github.com/gokatarajesh/quizpin/internal/pin"
	"github.com/gokatarajesh/quizpin/internal/quizset"
)

func newBackfillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backfill-pins",
		Short: "Assign PINs to question sets that have none",
		Args:  cobra.NoArgs,
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

			pins := pin.NewAllocator(store, pin.Options{Length: cfg.PIN.Length, MaxAttempts: cfg.PIN.MaxAttempts}, logger)
			n, err := quizset.NewService(store, store, pins, logger).BackfillPINs(ctx)
			if err != nil {
				return err
			}
			printf(cmd, "assigned %d pins\n", n)
			return nil
		},
	}
}
