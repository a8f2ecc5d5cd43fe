package ai

import "time"

// Provider names accepted by New.
const (
	ProviderNone      = ""
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderHTTP      = "http"
	ProviderMock      = "mock"
)

// Config selects and configures the generation backend.
type Config struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
	Retry       RetryConfig
}

// RetryConfig controls retries of provider outages.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Temperature <= 0 {
		c.Temperature = 0.7
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 4096
	}
	return c
}

func (r RetryConfig) withDefaults() RetryConfig {
	if r.MaxAttempts <= 0 {
		r.MaxAttempts = 1
	}
	if r.InitialWait <= 0 {
		r.InitialWait = 500 * time.Millisecond
	}
	if r.MaxWait <= 0 {
		r.MaxWait = 5 * time.Second
	}
	if r.Multiplier <= 1 {
		r.Multiplier = 2
	}
	return r
}
