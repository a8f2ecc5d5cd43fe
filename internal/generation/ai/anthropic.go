package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/gokatarajesh/quizpin/internal/generation"
	"github.com/gokatarajesh/quizpin/internal/quizset"
)

const defaultAnthropicModel = "claude-haiku-4-5-20251001"

// AnthropicProvider generates questions with the Anthropic Messages API.
type AnthropicProvider struct {
	client *anthropic.Client
	model  string
	cfg    Config
}

var _ generation.Provider = (*AnthropicProvider)(nil)

func NewAnthropicProvider(cfg Config) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)
	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}
	return &AnthropicProvider{client: &client, model: model, cfg: cfg.withDefaults()}, nil
}

func (p *AnthropicProvider) Name() string { return ProviderAnthropic }

func (p *AnthropicProvider) Generate(ctx context.Context, key quizset.GenerationKey) ([]generation.GeneratedQuestion, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(p.cfg.MaxTokens),
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{{
			Role:    anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(buildPrompt(key))},
		}},
		Temperature: anthropic.Float(p.cfg.Temperature),
		OutputConfig: anthropic.OutputConfigParam{
			Format: anthropic.JSONOutputFormatParam{Schema: questionBatchSchema},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, mapAnthropicError(err)
	}
	for _, block := range msg.Content {
		if block.Type == "text" {
			return parseBatch(ProviderAnthropic, []byte(block.Text))
		}
	}
	return nil, invalidResponse(ProviderAnthropic, errors.New("no text content in response"))
}

func mapAnthropicError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return upstreamFromStatus(ProviderAnthropic, apiErr.StatusCode, err)
	}
	return upstreamFromStatus(ProviderAnthropic, 0, err)
}
