package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizpin/internal/analytics"
	"github.com/gokatarajesh/quizpin/internal/auth"
	"github.com/gokatarajesh/quizpin/internal/generation"
	"github.com/gokatarajesh/quizpin/internal/play"
	"github.com/gokatarajesh/quizpin/internal/quizset"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers bundles the feature handlers mounted on the API mux.
type Handlers struct {
	Sets       *quizset.HTTPHandlers
	Generation *generation.HTTPHandlers
	Play       *play.HTTPHandlers
	Analytics  *analytics.HTTPHandlers
}

// NewRouter wires base routes (health, metrics) and the feature routes.
func NewRouter(logger zerolog.Logger, tokens auth.TokenValidator, deps []Pinger, h Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		for _, dep := range deps {
			if err := dep.Ping(r.Context()); err != nil {
				logger.Error().Err(err).Msg("dependency ping failed")
				http.Error(w, "upstream error", http.StatusBadGateway)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	authed := func(fn http.HandlerFunc) http.Handler { return auth.RequireAuth(fn) }
	admin := func(fn http.HandlerFunc) http.Handler { return auth.RequireAdmin(fn) }

	if h.Sets != nil {
		mux.Handle("POST /v1/sets", authed(h.Sets.CreateSet))
		mux.HandleFunc("GET /v1/sets/{pin}", h.Sets.GetSet)
		mux.HandleFunc("GET /v1/sets/{pin}/questions", h.Sets.PlayQuestions)
		mux.Handle("POST /v1/sets/{id}/verify", admin(h.Sets.VerifySet))
		mux.Handle("POST /v1/questions/{id}/archive", admin(h.Sets.ArchiveQuestion))
		mux.Handle("POST /v1/questions/{id}/difficulty", admin(h.Sets.ApplyDifficulty))
	}
	if h.Generation != nil {
		mux.Handle("POST /v1/generate", authed(h.Generation.Generate))
	}
	if h.Play != nil {
		mux.Handle("POST /v1/attempts", authed(h.Play.Submit))
	}
	if h.Analytics != nil {
		mux.Handle("GET /v1/questions/{id}/analytics", admin(h.Analytics.QuestionAnalytics))
		mux.Handle("GET /v1/users/me/history", authed(h.Analytics.MyHistory))
	}

	var handler http.Handler = mux
	handler = auth.AuthMiddleware(tokens, logger)(handler)
	return handler
}

// NewHTTPServer wraps the router with request logging.
func NewHTTPServer(addr string, logger zerolog.Logger, router http.Handler, middleware ...func(http.Handler) http.Handler) *http.Server {
	handler := router
	for _, mw := range middleware {
		handler = mw(handler)
	}
	return &http.Server{
		Addr:    addr,
		Handler: handler,
	}
}
