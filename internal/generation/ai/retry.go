package ai

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizpin/internal/generation"
	"github.com/gokatarajesh/quizpin/internal/quizset"
)

// RetryProvider retries provider outages with exponential backoff and jitter.
// Rejected requests are returned immediately.
type RetryProvider struct {
	inner  generation.Provider
	config RetryConfig
	logger zerolog.Logger
	sleep  func(context.Context, time.Duration) error
}

// WithRetry wraps p unless the config allows a single attempt only.
func WithRetry(p generation.Provider, cfg RetryConfig, logger zerolog.Logger) generation.Provider {
	cfg = cfg.withDefaults()
	if cfg.MaxAttempts <= 1 {
		return p
	}
	return &RetryProvider{inner: p, config: cfg, logger: logger, sleep: sleepCtx}
}

func (r *RetryProvider) Name() string { return r.inner.Name() }

func (r *RetryProvider) Generate(ctx context.Context, key quizset.GenerationKey) ([]generation.GeneratedQuestion, error) {
	var lastErr error
	for attempt := range r.config.MaxAttempts {
		out, err := r.inner.Generate(ctx, key)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !retryable(err) || attempt == r.config.MaxAttempts-1 {
			break
		}

		wait := r.backoff(attempt)
		r.logger.Warn().Err(err).
			Str("provider", r.inner.Name()).
			Int("attempt", attempt+1).
			Dur("wait", wait).
			Msg("generation failed, retrying")
		if err := r.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var upstream *quizset.UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Kind == quizset.UpstreamUnavailable
	}
	return true
}

func (r *RetryProvider) backoff(attempt int) time.Duration {
	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}
	// ±20% jitter
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
