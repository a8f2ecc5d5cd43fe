package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizpin/internal/analytics"
	"github.com/gokatarajesh/quizpin/internal/auth/jwt"
	"github.com/gokatarajesh/quizpin/internal/config"
	"github.com/gokatarajesh/quizpin/internal/generation"
	"github.com/gokatarajesh/quizpin/internal/generation/ai"
	"github.com/gokatarajesh/quizpin/internal/logging"
	"github.com/gokatarajesh/quizpin/internal/pin"
	"github.com/gokatarajesh/quizpin/internal/play"
	"github.com/gokatarajesh/quizpin/internal/quizset"
	"github.com/gokatarajesh/quizpin/internal/server"
)

const lockPrefix = "quizpin:generation:"

// Application aggregates shared infrastructure (store, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	store *Store
	redis *redis.Client
	http  *http.Server

	backfill  *quizset.BackfillWorker
	bgCancels []context.CancelFunc
}

type redisPinger struct{ client *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error { return p.client.Ping(ctx).Err() }

// New bootstraps the logger, the store, optional Redis and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.WithLevel(logging.New(cfg.Name, cfg.Env), cfg.LogLevel)
	logger.Info().Msg("starting application bootstrap")

	store, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	deps := []server.Pinger{store.Pinger}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		deps = append(deps, redisPinger{client: redisClient})
	}

	provider, err := ai.New(ctx, ai.Config{
		Provider:    cfg.Generation.Provider,
		Model:       cfg.Generation.Model,
		APIKey:      cfg.Generation.APIKey,
		BaseURL:     cfg.Generation.BaseURL,
		Timeout:     cfg.Generation.Timeout,
		Temperature: cfg.Generation.Temperature,
		MaxTokens:   cfg.Generation.MaxTokens,
		Retry: ai.RetryConfig{
			MaxAttempts: cfg.Generation.RetryAttempts,
			InitialWait: cfg.Generation.RetryWait,
		},
	}, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("build generation provider: %w", err)
	}

	genOpts := generation.ServiceOptions{LockTTL: cfg.Generation.LockTTL}
	if cfg.Generation.LockEnabled && redisClient != nil {
		genOpts.Locker = generation.NewRedisLocker(redisClient, lockPrefix, logger)
		logger.Info().Msg("generation lock enabled")
	}

	tokens := jwt.NewManager(jwt.TokenConfig{
		AccessSecret: []byte(cfg.Security.JWTSecret),
		AccessTTL:    cfg.Security.TokenTTL,
		Issuer:       cfg.Security.JWTIssuer,
	})

	pins := pin.NewAllocator(store, pin.Options{
		Length:      cfg.PIN.Length,
		MaxAttempts: cfg.PIN.MaxAttempts,
	}, logger)
	sets := quizset.NewService(store, store, pins, logger)
	gen := generation.NewService(generation.NewCache(store, store, logger), provider, sets, genOpts, logger)
	recorder := play.NewRecorder(store, store, play.NewLedger(store, logger), logger)
	aggregator := analytics.NewAggregator(store, store, logger)
	history := analytics.NewReconstructor(store, analytics.HistoryOptions{
		PageSize:    cfg.History.PageSize,
		Concurrency: cfg.History.Concurrency,
	}, logger)

	router := server.NewRouter(logger, tokens, deps, server.Handlers{
		Sets:       quizset.NewHTTPHandlers(sets, logger),
		Generation: generation.NewHTTPHandlers(gen, logger),
		Play:       play.NewHTTPHandlers(recorder, logger),
		Analytics:  analytics.NewHTTPHandlers(aggregator, history, logger),
	})
	apiServer := server.NewHTTPServer(cfg.HTTPAddr, logger, router, logging.Middleware(logger))

	var backfill *quizset.BackfillWorker
	if interval := cfg.PIN.BackfillInterval; interval > 0 {
		backfill = quizset.NewBackfillWorker(sets, interval, logger)
	}

	return &Application{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		redis:     redisClient,
		http:      apiServer,
		backfill:  backfill,
		bgCancels: make([]context.CancelFunc, 0, 1),
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	for _, cancel := range a.bgCancels {
		cancel()
	}

	a.store.Close()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	if a.backfill != nil {
		bgCtx, cancel := context.WithCancel(ctx)
		a.bgCancels = append(a.bgCancels, cancel)
		go func() {
			if err := a.backfill.Run(bgCtx); err != nil && err != context.Canceled {
				a.logger.Warn().Err(err).Msg("pin backfill worker stopped")
			}
		}()
	}
}
