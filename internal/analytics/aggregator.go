package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/gokatarajesh/quizpin/internal/quizset"
)

// Suggestion thresholds, in whole percent of correct answers.
const (
	EasyThreshold   = 70
	MediumThreshold = 40
)

type questionFinder interface {
	QuestionByID(ctx context.Context, id string) (quizset.Question, error)
}

type usageByQuestion interface {
	UsageByQuestion(ctx context.Context, questionID string) ([]quizset.UsageEntry, error)
}

// Entry is one ledger event with its derived correctness.
type Entry struct {
	Answer     string    `json:"answer"`
	AnsweredAt time.Time `json:"answeredAt"`
	AttemptID  string    `json:"attemptId"`
	Correct    bool      `json:"correct"`
}

// UserStats summarises one user's answers to a question.
type UserStats struct {
	UserID          string  `json:"userId"`
	TotalAttempts   int     `json:"totalAttempts"`
	CorrectAttempts int     `json:"correctAttempts"`
	Ratio           float64 `json:"ratio"`
	RatioText       string  `json:"ratioText"`
	Entries         []Entry `json:"entries"`
}

// Analysis is the aggregate view of a question's ledger. AggregateRate is nil
// when nobody has answered; SuggestedDifficulty is empty unless it differs
// from the current label.
type Analysis struct {
	QuestionID          string      `json:"questionId"`
	Difficulty          string      `json:"difficulty"`
	TotalAttempts       int         `json:"totalAttempts"`
	CorrectAttempts     int         `json:"correctAttempts"`
	AggregateRate       *float64    `json:"aggregateRate,omitempty"`
	SuggestedDifficulty string      `json:"suggestedDifficulty,omitempty"`
	PerUser             []UserStats `json:"perUser"`
}

// Aggregator turns a question's usage ledger into statistics.
type Aggregator struct {
	questions questionFinder
	usage     usageByQuestion
	logger    zerolog.Logger
	tracer    trace.Tracer
}

func NewAggregator(questions questionFinder, usage usageByQuestion, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		questions: questions,
		usage:     usage,
		logger:    logger.With().Str("component", "analytics").Logger(),
		tracer:    otelTracer(),
	}
}

func otelTracer() trace.Tracer {
	return otel.Tracer("github.com/gokatarajesh/quizpin/internal/analytics")
}

// Analyze reads the ledger of questionID and scores it against the question's
// current answer key.
func (a *Aggregator) Analyze(ctx context.Context, questionID string) (Analysis, error) {
	ctx, span := a.tracer.Start(ctx, "analytics.Analyze", trace.WithAttributes(attribute.String("quiz.question_id", questionID)))
	defer span.End()

	q, err := a.questions.QuestionByID(ctx, questionID)
	if err != nil {
		return Analysis{}, err
	}
	entries, err := a.usage.UsageByQuestion(ctx, q.ID)
	if err != nil {
		return Analysis{}, fmt.Errorf("load usage: %w", err)
	}

	out := Summarize(q, entries)
	span.SetAttributes(attribute.Int("quiz.entries", out.TotalAttempts))
	a.logger.Debug().
		Str("question_id", q.ID).
		Int("entries", out.TotalAttempts).
		Str("suggested", out.SuggestedDifficulty).
		Msg("question analyzed")
	return out, nil
}

// Summarize scores entries for q. Users appear in order of their first entry.
func Summarize(q quizset.Question, entries []quizset.UsageEntry) Analysis {
	out := Analysis{
		QuestionID: q.ID,
		Difficulty: string(q.Difficulty),
		PerUser:    []UserStats{},
	}

	index := make(map[string]int)
	for _, e := range entries {
		correct := quizset.IsCorrect(q, e.Answer)
		i, ok := index[e.UserID]
		if !ok {
			i = len(out.PerUser)
			index[e.UserID] = i
			out.PerUser = append(out.PerUser, UserStats{UserID: e.UserID})
		}
		stats := &out.PerUser[i]
		stats.TotalAttempts++
		out.TotalAttempts++
		if correct {
			stats.CorrectAttempts++
			out.CorrectAttempts++
		}
		stats.Entries = append(stats.Entries, Entry{
			Answer:     e.Answer,
			AnsweredAt: e.AnsweredAt,
			AttemptID:  e.AttemptID,
			Correct:    correct,
		})
	}

	for i := range out.PerUser {
		s := &out.PerUser[i]
		s.Ratio = float64(s.CorrectAttempts) / float64(s.TotalAttempts)
		s.RatioText = fmt.Sprintf("%d/%d", s.CorrectAttempts, s.TotalAttempts)
	}

	if out.TotalAttempts == 0 {
		return out
	}
	rate := float64(out.CorrectAttempts) / float64(out.TotalAttempts)
	out.AggregateRate = &rate
	if suggested := SuggestDifficulty(rate); suggested != q.Difficulty {
		out.SuggestedDifficulty = string(suggested)
	}
	return out
}

// SuggestDifficulty maps a correct-answer rate in [0,1] to a difficulty label.
// The rate is rounded to a whole percent before comparing.
func SuggestDifficulty(rate float64) quizset.Difficulty {
	percent := int(math.Round(rate * 100))
	switch {
	case percent >= EasyThreshold:
		return quizset.DifficultyEasy
	case percent >= MediumThreshold:
		return quizset.DifficultyMedium
	default:
		return quizset.DifficultyHard
	}
}
