package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/gokatarajesh/quizpin/internal/generation"
	"github.com/gokatarajesh/quizpin/internal/quizset"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIProvider generates questions through the OpenAI chat API or any
// compatible endpoint set via BaseURL.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	cfg    Config
}

var _ generation.Provider = (*OpenAIProvider)(nil)

func NewOpenAIProvider(cfg Config) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  model,
		cfg:    cfg.withDefaults(),
	}, nil
}

func (p *OpenAIProvider) Name() string { return ProviderOpenAI }

func (p *OpenAIProvider) Generate(ctx context.Context, key quizset.GenerationKey) ([]generation.GeneratedQuestion, error) {
	schemaBytes, err := json.Marshal(questionBatchSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(key)},
		},
		MaxCompletionTokens: p.cfg.MaxTokens,
		Temperature:         float32(p.cfg.Temperature),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName,
				Schema: json.RawMessage(schemaBytes),
				Strict: true,
			},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, invalidResponse(ProviderOpenAI, errors.New("no choices in response"))
	}
	return parseBatch(ProviderOpenAI, []byte(resp.Choices[0].Message.Content))
}

func mapOpenAIError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return upstreamFromStatus(ProviderOpenAI, apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return upstreamFromStatus(ProviderOpenAI, reqErr.HTTPStatusCode, err)
	}
	return upstreamFromStatus(ProviderOpenAI, 0, err)
}
