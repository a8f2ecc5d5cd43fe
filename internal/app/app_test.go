package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/quizpin/internal/config"
)

func sqliteConfig() *config.App {
	return &config.App{
		Name:     "quizpin-test",
		Env:      "test",
		LogLevel: "error",
		Store:    config.Store{Driver: config.DriverSQLite, SQLitePath: ":memory:"},
		Security: config.Security{JWTSecret: "secret"},
		Generation: config.Generation{
			Provider: "mock",
		},
	}
}

func TestNewWiresSQLiteStack(t *testing.T) {
	instance, err := New(context.Background(), sqliteConfig())
	require.NoError(t, err)
	t.Cleanup(instance.store.Close)

	rec := httptest.NewRecorder()
	instance.http.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	instance.http.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/generate", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	cfg := sqliteConfig()
	cfg.Generation.Provider = "carrier-pigeon"

	_, err := New(context.Background(), cfg)
	assert.ErrorContains(t, err, "carrier-pigeon")
}
