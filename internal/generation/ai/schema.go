package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/gokatarajesh/quizpin/internal/generation"
	"github.com/gokatarajesh/quizpin/internal/quizset"
)

const schemaName = "question_batch"

// questionBatchSchema is the structured-output contract shared by every provider.
var questionBatchSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"questions": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"question": map[string]any{
						"type":        "string",
						"description": "The question text.",
					},
					"options": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Answer choices for multiple choice or true/false; empty for short answer.",
					},
					"correctAnswer": map[string]any{
						"type":        "string",
						"description": "The correct answer, matching one option when options are given.",
					},
					"explanation": map[string]any{
						"type":        "string",
						"description": "A short explanation of why the answer is correct.",
					},
				},
				"required": []any{"question", "options", "correctAnswer", "explanation"},
			},
		},
	},
	"required": []any{"questions"},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func batchSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler expects decoded JSON values.
		raw, err := json.Marshal(questionBatchSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		url := "schema://" + schemaName + ".json"
		if err := c.AddResource(url, doc); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(url)
	})
	return compiled, compileErr
}

type batch struct {
	Questions []generation.GeneratedQuestion `json:"questions"`
}

// parseBatch validates provider output against the batch schema and decodes it.
// A bare array is accepted and treated as the questions list.
func parseBatch(provider string, content []byte) ([]generation.GeneratedQuestion, error) {
	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return nil, invalidResponse(provider, errors.New("empty response"))
	}
	if strings.HasPrefix(trimmed, "[") {
		trimmed = `{"questions":` + trimmed + `}`
	}

	var doc any
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return nil, invalidResponse(provider, fmt.Errorf("invalid JSON: %w", err))
	}
	schema, err := batchSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, invalidResponse(provider, fmt.Errorf("schema validation: %w", err))
	}

	var out batch
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return nil, invalidResponse(provider, err)
	}
	return out.Questions, nil
}

func invalidResponse(provider string, err error) error {
	return &quizset.UpstreamError{
		Kind:       quizset.UpstreamUnavailable,
		Provider:   provider,
		StatusCode: http.StatusBadGateway,
		Err:        err,
	}
}

// upstreamFromStatus classifies a provider HTTP status. Rate limits and
// server failures are outages; other statuses mean the request was rejected.
func upstreamFromStatus(provider string, status int, err error) error {
	kind := quizset.UpstreamClient
	if status == 0 || status == http.StatusTooManyRequests || status >= 500 {
		kind = quizset.UpstreamUnavailable
	}
	return &quizset.UpstreamError{Kind: kind, Provider: provider, StatusCode: status, Err: err}
}
