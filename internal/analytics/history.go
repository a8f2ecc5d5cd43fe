package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/gokatarajesh/quizpin/internal/quizset"
)

const (
	DefaultPageSize    = 50
	DefaultConcurrency = 4
)

// HistoryStore is the read surface the reconstructor needs.
type HistoryStore interface {
	AttemptsByUser(ctx context.Context, userID string, limit int) ([]quizset.Attempt, error)
	SetByPIN(ctx context.Context, pin string) (quizset.Set, error)
	UsageByAttempt(ctx context.Context, attemptID string) ([]quizset.UsageEntry, error)
	QuestionsByIDs(ctx context.Context, ids []string, includeArchived bool) ([]quizset.Question, error)
}

// Detail is one answered question inside an attempt.
type Detail struct {
	QuestionID    string `json:"questionId"`
	Content       string `json:"content"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	Correct       bool   `json:"correct"`
}

// Summary is one reconstructed attempt.
type Summary struct {
	AttemptID    string    `json:"attemptId"`
	PIN          string    `json:"pin"`
	SetTitle     string    `json:"setTitle"`
	CompletedAt  time.Time `json:"completedAt"`
	CorrectCount int       `json:"correctCount"`
	TotalCount   int       `json:"totalCount"`
	Details      []Detail  `json:"details"`
}

// HistoryOptions bounds a history fetch.
type HistoryOptions struct {
	PageSize    int
	Concurrency int
}

// Reconstructor rebuilds a user's play history from attempts and the ledger.
type Reconstructor struct {
	store  HistoryStore
	opts   HistoryOptions
	logger zerolog.Logger
	tracer trace.Tracer
}

func NewReconstructor(store HistoryStore, opts HistoryOptions, logger zerolog.Logger) *Reconstructor {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Reconstructor{
		store:  store,
		opts:   opts,
		logger: logger.With().Str("component", "history").Logger(),
		tracer: otelTracer(),
	}
}

// HistoryFor returns the user's most recent attempts, newest first. A set that
// no longer exists is shown under its PIN instead of failing the fetch.
func (r *Reconstructor) HistoryFor(ctx context.Context, userID string) ([]Summary, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, quizset.Invalid("userId", "user id is required")
	}

	ctx, span := r.tracer.Start(ctx, "analytics.HistoryFor")
	defer span.End()

	attempts, err := r.store.AttemptsByUser(ctx, userID, r.opts.PageSize)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	span.SetAttributes(attribute.Int("quiz.attempts", len(attempts)))

	sets, err := r.resolveSets(ctx, attempts)
	if err != nil {
		return nil, err
	}

	out := make([]Summary, len(attempts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)
	for i, a := range attempts {
		g.Go(func() error {
			set, ok := sets[a.PIN]
			s, err := r.summarize(gctx, a, set, ok)
			if err != nil {
				return fmt.Errorf("attempt %s: %w", a.ID, err)
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// resolveSets looks up each distinct PIN once. Missing sets are left out of the map.
func (r *Reconstructor) resolveSets(ctx context.Context, attempts []quizset.Attempt) (map[string]quizset.Set, error) {
	var (
		mu   sync.Mutex
		sets = make(map[string]quizset.Set)
		seen = make(map[string]bool)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)
	for _, a := range attempts {
		if seen[a.PIN] {
			continue
		}
		seen[a.PIN] = true
		pin := a.PIN
		g.Go(func() error {
			set, err := r.store.SetByPIN(gctx, pin)
			if errors.Is(err, quizset.ErrNotFound) {
				r.logger.Debug().Str("pin", pin).Msg("set for historical pin no longer exists")
				return nil
			}
			if err != nil {
				return fmt.Errorf("resolve set %s: %w", pin, err)
			}
			mu.Lock()
			sets[pin] = set
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sets, nil
}

func (r *Reconstructor) summarize(ctx context.Context, a quizset.Attempt, set quizset.Set, found bool) (Summary, error) {
	s := Summary{
		AttemptID:   a.ID,
		PIN:         a.PIN,
		SetTitle:    a.PIN,
		CompletedAt: a.CompletedAt,
		Details:     []Detail{},
	}

	entries, err := r.store.UsageByAttempt(ctx, a.ID)
	if err != nil {
		return Summary{}, fmt.Errorf("load usage: %w", err)
	}

	// first entry per question wins
	answers := make(map[string]string, len(entries))
	var order []string
	for _, e := range entries {
		if found && !set.Contains(e.QuestionID) {
			continue
		}
		if _, dup := answers[e.QuestionID]; dup {
			continue
		}
		answers[e.QuestionID] = e.Answer
		order = append(order, e.QuestionID)
	}

	if found {
		s.SetTitle = set.Title
		s.TotalCount = len(set.QuestionIDs)
		order = order[:0]
		for _, id := range set.QuestionIDs {
			if _, ok := answers[id]; ok {
				order = append(order, id)
			}
		}
	} else {
		s.TotalCount = len(order)
	}
	if len(order) == 0 {
		return s, nil
	}

	questions, err := r.store.QuestionsByIDs(ctx, order, true)
	if err != nil {
		return Summary{}, fmt.Errorf("load questions: %w", err)
	}
	for _, q := range quizset.OrderByReference(order, questions) {
		answer := answers[q.ID]
		correct := quizset.IsCorrect(q, answer)
		if correct {
			s.CorrectCount++
		}
		s.Details = append(s.Details, Detail{
			QuestionID:    q.ID,
			Content:       q.Content,
			UserAnswer:    answer,
			CorrectAnswer: quizset.CorrectAnswerText(q),
			Correct:       correct,
		})
	}
	return s, nil
}
