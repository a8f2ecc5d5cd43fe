package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"quizpin"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	LogLevel                string        `env:"LOG_LEVEL" envDefault:"info"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Store      Store
	Postgres   Postgres
	Redis      Redis
	Security   Security
	Generation Generation
	PIN        PIN
	History    History
}

// Store selects the persistence backend.
type Store struct {
	Driver     string `env:"STORE_DRIVER" envDefault:"postgres"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"quizpin.db"`
}

// Postgres captures connection info for the SQL database. Only read when
// the postgres driver is selected.
type Postgres struct {
	Host     string `env:"PG_HOST" envDefault:"localhost"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER" envDefault:""`
	Password string `env:"PG_PASSWORD" envDefault:""`
	Database string `env:"PG_DATABASE" envDefault:""`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"PG_MAX_CONNS" envDefault:"10"`
}

// ConnString renders the pgx keyword/value connection string.
func (p Postgres) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode, p.MaxConns)
}

// Redis backs the optional generation lock. An empty address disables it.
type Redis struct {
	Addr     string `env:"REDIS_ADDR" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Security stores secrets for token verification.
type Security struct {
	JWTSecret string        `env:"JWT_SECRET,notEmpty"`
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:"quizpin"`
	TokenTTL  time.Duration `env:"JWT_ACCESS_TTL" envDefault:"1h"`
}

// Generation configures the question provider and the duplicate-call lock.
type Generation struct {
	Provider      string        `env:"GENERATION_PROVIDER" envDefault:"gemini"`
	Model         string        `env:"GENERATION_MODEL" envDefault:""`
	APIKey        string        `env:"GENERATION_API_KEY" envDefault:""`
	BaseURL       string        `env:"GENERATION_BASE_URL" envDefault:""`
	Timeout       time.Duration `env:"GENERATION_TIMEOUT" envDefault:"30s"`
	Temperature   float64       `env:"GENERATION_TEMPERATURE" envDefault:"0.7"`
	MaxTokens     int           `env:"GENERATION_MAX_TOKENS" envDefault:"4096"`
	RetryAttempts int           `env:"GENERATION_RETRY_ATTEMPTS" envDefault:"3"`
	RetryWait     time.Duration `env:"GENERATION_RETRY_WAIT" envDefault:"500ms"`
	LockEnabled   bool          `env:"GENERATION_LOCK_ENABLED" envDefault:"false"`
	LockTTL       time.Duration `env:"GENERATION_LOCK_TTL" envDefault:"30s"`
}

// PIN tunes the set code allocator. A zero BackfillInterval disables the
// background backfill worker.
type PIN struct {
	Length           int           `env:"PIN_LENGTH" envDefault:"6"`
	MaxAttempts      int           `env:"PIN_MAX_ATTEMPTS" envDefault:"10"`
	BackfillInterval time.Duration `env:"PIN_BACKFILL_INTERVAL" envDefault:"10m"`
}

// History bounds the history endpoint.
type History struct {
	PageSize    int `env:"HISTORY_PAGE_SIZE" envDefault:"50"`
	Concurrency int `env:"HISTORY_CONCURRENCY" envDefault:"4"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *App) validate() error {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	switch c.Store.Driver {
	case DriverPostgres:
		if c.Postgres.User == "" || c.Postgres.Database == "" {
			return fmt.Errorf("PG_USER and PG_DATABASE are required for the postgres store")
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Generation.LockEnabled && c.Redis.Addr == "" {
		return fmt.Errorf("GENERATION_LOCK_ENABLED requires REDIS_ADDR")
	}
	return nil
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *App) IsProduction() bool {
	return c.Env == "production"
}
