package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/gokatarajesh/quizpin/internal/generation"
	"github.com/gokatarajesh/quizpin/internal/quizset"
)

// MockProvider returns deterministic placeholder questions. It backs local
// development without an API key.
type MockProvider struct{}

var _ generation.Provider = MockProvider{}

func (MockProvider) Name() string { return ProviderMock }

func (MockProvider) Generate(ctx context.Context, key quizset.GenerationKey) ([]generation.GeneratedQuestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	qType := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(key.Type))
	out := make([]generation.GeneratedQuestion, 0, key.Count)
	for i := 1; i <= key.Count; i++ {
		q := generation.GeneratedQuestion{
			Explanation: fmt.Sprintf("Placeholder explanation %d for %s.", i, key.Topic),
		}
		switch qType {
		case "truefalse":
			q.Question = fmt.Sprintf("Statement %d about %s is true.", i, key.Topic)
			q.Options = []string{"True", "False"}
			q.CorrectAnswer = "True"
		case "shortanswer", "freeform":
			q.Question = fmt.Sprintf("Name fact %d about %s.", i, key.Topic)
			q.CorrectAnswer = fmt.Sprintf("fact %d", i)
		default:
			q.Question = fmt.Sprintf("Question %d about %s?", i, key.Topic)
			q.Options = []string{"Option A", "Option B", "Option C", "Option D"}
			q.CorrectAnswer = q.Options[(i-1)%len(q.Options)]
		}
		out = append(out, q)
	}
	return out, nil
}
