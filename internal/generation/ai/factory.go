package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizpin/internal/generation"
)

// New builds the configured provider wrapped with retries. It returns a nil
// provider when generation is disabled or the provider has no API key,
// so generation requests fail as unavailable.
func New(ctx context.Context, cfg Config, logger zerolog.Logger) (generation.Provider, error) {
	var (
		p   generation.Provider
		err error
	)
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if !knownProvider(name) {
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Provider)
	}
	if name != ProviderNone && name != ProviderHTTP && name != ProviderMock && cfg.APIKey == "" {
		logger.Warn().Str("provider", name).Msg("generation API key missing, generation disabled")
		return nil, nil
	}
	switch name {
	case ProviderNone:
		return nil, nil
	case ProviderGemini:
		p, err = NewGeminiProvider(ctx, cfg)
	case ProviderOpenAI:
		p, err = NewOpenAIProvider(cfg)
	case ProviderAnthropic:
		p, err = NewAnthropicProvider(cfg)
	case ProviderHTTP:
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("http generator requires a base URL")
		}
		p = NewGenerator(cfg, logger)
	case ProviderMock:
		return MockProvider{}, nil
	}
	if err != nil {
		return nil, err
	}
	logger.Info().Str("provider", p.Name()).Str("model", cfg.Model).Msg("question generation enabled")
	return WithRetry(p, cfg.Retry, logger), nil
}

func knownProvider(name string) bool {
	switch name {
	case ProviderNone, ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderHTTP, ProviderMock:
		return true
	}
	return false
}
