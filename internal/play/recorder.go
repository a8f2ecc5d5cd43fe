package play

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gokatarajesh/quizpin/internal/metrics"
	"github.com/gokatarajesh/quizpin/internal/quizset"
)

type setFinder interface {
	SetByPIN(ctx context.Context, pin string) (quizset.Set, error)
}

type attemptCreator interface {
	CreateAttempt(ctx context.Context, attempt quizset.Attempt) (quizset.Attempt, error)
}

// Answer is one (question, answer text) pair from a finished play session.
type Answer struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

// SubmitRequest is a completed play session.
type SubmitRequest struct {
	PIN     string
	UserID  string
	Answers []Answer
}

// Recorder creates one attempt per submission and drives the ledger writes.
type Recorder struct {
	sets     setFinder
	attempts attemptCreator
	ledger   *Ledger
	logger   zerolog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

func NewRecorder(sets setFinder, attempts attemptCreator, ledger *Ledger, logger zerolog.Logger) *Recorder {
	return &Recorder{
		sets:     sets,
		attempts: attempts,
		ledger:   ledger,
		logger:   logger.With().Str("component", "attempt_recorder").Logger(),
		tracer:   otel.Tracer("github.com/gokatarajesh/quizpin/internal/play"),
		now:      time.Now,
	}
}

// Submit records the attempt and its answers. A failed or foreign answer never
// fails the submission; already written entries stay if ctx is cancelled midway.
func (r *Recorder) Submit(ctx context.Context, req SubmitRequest) (attempt quizset.Attempt, err error) {
	pin := quizset.NormalizePIN(req.PIN)
	if pin == "" {
		return quizset.Attempt{}, quizset.Invalid("pin", "missing pin or answers")
	}
	if len(req.Answers) == 0 {
		return quizset.Attempt{}, quizset.Invalid("answers", "missing pin or answers")
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return quizset.Attempt{}, quizset.Invalid("userId", "user id is required")
	}

	ctx, span := r.tracer.Start(ctx, "play.Submit", trace.WithAttributes(
		attribute.String("quiz.pin", pin),
		attribute.Int("quiz.answers", len(req.Answers)),
	))
	defer func() {
		if err != nil && !errors.Is(err, quizset.ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	set, err := r.sets.SetByPIN(ctx, pin)
	if err != nil {
		return quizset.Attempt{}, err
	}

	attempt, err = r.attempts.CreateAttempt(ctx, quizset.Attempt{
		ID:          uuid.NewString(),
		UserID:      userID,
		PIN:         set.PIN,
		CompletedAt: r.now().UTC(),
	})
	if err != nil {
		return quizset.Attempt{}, fmt.Errorf("create attempt: %w", err)
	}
	metrics.AttemptsRecorded.Inc()

	recorded, skipped := 0, 0
	for _, a := range req.Answers {
		if err := ctx.Err(); err != nil {
			r.logger.Warn().Str("attempt_id", attempt.ID).Int("recorded", recorded).Msg("submission abandoned")
			return attempt, err
		}
		ok, err := r.ledger.Append(ctx, set, quizset.UsageEntry{
			QuestionID: a.QuestionID,
			UserID:     userID,
			Answer:     strings.TrimSpace(a.Answer),
			AnsweredAt: attempt.CompletedAt,
			AttemptID:  attempt.ID,
		})
		if err != nil {
			r.logger.Warn().Err(err).Str("attempt_id", attempt.ID).Msg("ledger append failed")
		}
		if ok {
			recorded++
		} else {
			skipped++
		}
	}

	span.SetAttributes(attribute.Int("quiz.recorded", recorded))
	r.logger.Info().
		Str("attempt_id", attempt.ID).
		Str("pin", attempt.PIN).
		Str("user_id", userID).
		Int("recorded", recorded).
		Int("skipped", skipped).
		Msg("attempt recorded")
	return attempt, nil
}
