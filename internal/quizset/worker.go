package quizset

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// BackfillWorker periodically assigns PINs to sets stored without one.
type BackfillWorker struct {
	svc      *Service
	logger   zerolog.Logger
	interval time.Duration
}

func NewBackfillWorker(svc *Service, interval time.Duration, logger zerolog.Logger) *BackfillWorker {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &BackfillWorker{
		svc:      svc,
		logger:   logger.With().Str("component", "pin_backfill_worker").Logger(),
		interval: interval,
	}
}

// Run blocks until context cancellation.
func (w *BackfillWorker) Run(ctx context.Context) error {
	if w.svc == nil {
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// run immediately
	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *BackfillWorker) tick(ctx context.Context) {
	n, err := w.svc.BackfillPINs(ctx)
	if err != nil {
		w.logger.Warn().Err(err).Int("assigned", n).Msg("pin backfill failed")
		return
	}
	if n > 0 {
		w.logger.Info().Int("assigned", n).Msg("pin backfill complete")
	}
}
