package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizpin/internal/generation"
	"github.com/gokatarajesh/quizpin/internal/quizset"
)

// Generator calls a standalone generator service over HTTP.
type Generator struct {
	httpClient  *http.Client
	config      Config
	logger      zerolog.Logger
	generateURL string
}

var _ generation.Provider = (*Generator)(nil)

func NewGenerator(cfg Config, logger zerolog.Logger) *Generator {
	cfg = cfg.withDefaults()
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	return &Generator{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config:      cfg,
		logger:      logger.With().Str("component", "ai_generator").Logger(),
		generateURL: base + "/generate",
	}
}

func (g *Generator) Name() string { return ProviderHTTP }

// Generate posts the normalized key and validates the returned batch.
func (g *Generator) Generate(ctx context.Context, key quizset.GenerationKey) ([]generation.GeneratedQuestion, error) {
	if g.config.BaseURL == "" {
		return nil, upstreamFromStatus(ProviderHTTP, 0, errors.New("generator endpoint not configured"))
	}

	body, err := json.Marshal(generatorRequest{
		Topic:      key.Topic,
		Count:      key.Count,
		Difficulty: key.Difficulty,
		Type:       key.Type,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.generateURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.config.APIKey)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, upstreamFromStatus(ProviderHTTP, 0, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, upstreamFromStatus(ProviderHTTP, 0, fmt.Errorf("read generator payload: %w", err))
	}

	if resp.StatusCode >= 300 {
		g.logger.Warn().Int("status", resp.StatusCode).Str("topic", key.Topic).Msg("generator rejected request")
		return nil, upstreamFromStatus(ProviderHTTP, resp.StatusCode, fmt.Errorf("generator returned status %d", resp.StatusCode))
	}

	return parseBatch(ProviderHTTP, payload)
}

type generatorRequest struct {
	Topic      string `json:"topic"`
	Count      int    `json:"count"`
	Difficulty string `json:"difficulty"`
	Type       string `json:"type"`
}
