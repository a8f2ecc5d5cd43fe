package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PG_USER", "quiz")
	t.Setenv("PG_DATABASE", "quiz")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "quizpin", cfg.Name)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 6, cfg.PIN.Length)
	assert.Equal(t, 10, cfg.PIN.MaxAttempts)
	assert.Equal(t, 50, cfg.History.PageSize)
	assert.Equal(t, "gemini", cfg.Generation.Provider)
	assert.Equal(t, 30*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, time.Hour, cfg.Security.TokenTTL)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Contains(t, cfg.Postgres.ConnString(), "dbname=quiz")
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORE_DRIVER", "sqlite")

	_, err := Load(context.Background())
	assert.Error(t, err)
}

func TestLoadValidatesStore(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	t.Run("postgres needs credentials", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "postgres")
		t.Setenv("PG_USER", "")
		_, err := Load(context.Background())
		assert.ErrorContains(t, err, "PG_USER")
	})

	t.Run("sqlite", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", " SQLite ")
		t.Setenv("SQLITE_PATH", ":memory:")
		cfg, err := Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, DriverSQLite, cfg.Store.Driver)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "mongo")
		_, err := Load(context.Background())
		assert.ErrorContains(t, err, "mongo")
	})
}

func TestLoadLockNeedsRedis(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("GENERATION_LOCK_ENABLED", "true")

	_, err := Load(context.Background())
	assert.ErrorContains(t, err, "REDIS_ADDR")

	t.Setenv("REDIS_ADDR", "localhost:6379")
	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.True(t, cfg.Generation.LockEnabled)
}
