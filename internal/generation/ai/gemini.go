package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/gokatarajesh/quizpin/internal/generation"
	"github.com/gokatarajesh/quizpin/internal/quizset"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiProvider generates questions with the Google Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
	cfg    Config
}

var _ generation.Provider = (*GeminiProvider)(nil)

func NewGeminiProvider(ctx context.Context, cfg Config) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiProvider{client: client, model: model, cfg: cfg.withDefaults()}, nil
}

func (p *GeminiProvider) Name() string { return ProviderGemini }

func (p *GeminiProvider) Generate(ctx context.Context, key quizset.GenerationKey) ([]generation.GeneratedQuestion, error) {
	temp := float32(p.cfg.Temperature)
	config := &genai.GenerateContentConfig{
		Temperature:       &temp,
		MaxOutputTokens:   int32(p.cfg.MaxTokens),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    buildGeminiSchema(questionBatchSchema),
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
	}
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: buildPrompt(key)}},
	}}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	result, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return nil, mapGeminiError(err)
	}
	return parseBatch(ProviderGemini, []byte(result.Text()))
}

// buildGeminiSchema converts a JSON Schema map into the SDK's schema type.
func buildGeminiSchema(def map[string]any) *genai.Schema {
	schema := &genai.Schema{}
	if t, ok := def["type"].(string); ok {
		schema.Type = geminiType(t)
	}
	if desc, ok := def["description"].(string); ok {
		schema.Description = desc
	}
	if props, ok := def["properties"].(map[string]any); ok {
		schema.Properties = make(map[string]*genai.Schema, len(props))
		for name, v := range props {
			if prop, ok := v.(map[string]any); ok {
				schema.Properties[name] = buildGeminiSchema(prop)
			}
		}
	}
	if required, ok := def["required"].([]any); ok {
		for _, r := range required {
			if s, ok := r.(string); ok {
				schema.Required = append(schema.Required, s)
			}
		}
	}
	if items, ok := def["items"].(map[string]any); ok {
		schema.Items = buildGeminiSchema(items)
	}
	return schema
}

func geminiType(t string) genai.Type {
	switch t {
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

func mapGeminiError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		return upstreamFromStatus(ProviderGemini, apiErr.Code, err)
	}
	return upstreamFromStatus(ProviderGemini, 0, err)
}
