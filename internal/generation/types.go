package generation

import (
	"context"

	"github.com/gokatarajesh/quizpin/internal/quizset"
)

// Provider is the external content generator, called only on a cache miss.
// Failures should be *quizset.UpstreamError.
type Provider interface {
	Name() string
	Generate(ctx context.Context, key quizset.GenerationKey) ([]GeneratedQuestion, error)
}

// GeneratedQuestion is one item as returned by a provider.
type GeneratedQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Item is a materialized question handed back to the caller.
type Item struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Request is the raw generation request before normalization.
type Request struct {
	Topic      string
	Count      int
	Difficulty string
	Type       string
	UserID     string
}

// Result carries the questions and the PIN of the set that holds them.
// ExistingPIN repeats PIN on a cache hit.
type Result struct {
	Questions   []Item `json:"data"`
	FromCache   bool   `json:"fromCache"`
	PIN         string `json:"pin"`
	SetID       string `json:"setId"`
	ExistingPIN string `json:"existingPin,omitempty"`
}

func materialize(q quizset.Question) Item {
	options := make([]string, 0, len(q.Answer.Options))
	for _, o := range q.Answer.Options {
		options = append(options, o.Text)
	}
	return Item{
		ID:            q.ID,
		Question:      q.Content,
		Options:       options,
		CorrectAnswer: quizset.CorrectAnswerText(q),
		Explanation:   q.Explanation,
	}
}
