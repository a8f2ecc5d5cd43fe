package quizset

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizpin/internal/metrics"
)

const backfillBatchSize = 100

// PINAssigner hands out a unique PIN and persists it through the callback,
// retrying with a fresh candidate when persist reports ErrDuplicatePIN.
type PINAssigner interface {
	Assign(ctx context.Context, persist func(pin string) error) (string, error)
}

// Service is the authoring and play-delivery path over the store.
type Service struct {
	sets      SetStore
	questions QuestionStore
	pins      PINAssigner
	logger    zerolog.Logger
	now       func() time.Time
}

// NewService wires the authoring path.
func NewService(sets SetStore, questions QuestionStore, pins PINAssigner, logger zerolog.Logger) *Service {
	return &Service{
		sets:      sets,
		questions: questions,
		pins:      pins,
		logger:    logger.With().Str("component", "quizset").Logger(),
		now:       time.Now,
	}
}

// CreateSetRequest carries already-normalized questions for a new set.
type CreateSetRequest struct {
	Title       string
	Description string
	Category    string
	Questions   []Question
	CreatedBy   string
	Generation  *GenerationKey
}

// CreateSet stores the questions, then the set under a freshly allocated PIN.
func (s *Service) CreateSet(ctx context.Context, req CreateSetRequest) (Set, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return Set{}, Invalid("title", "title is required")
	}
	if len(req.Questions) == 0 {
		return Set{}, Invalid("questions", "at least one question is required")
	}

	ids := make([]string, 0, len(req.Questions))
	for _, q := range req.Questions {
		q.ID = uuid.NewString()
		if q.Difficulty == "" {
			q.Difficulty = DifficultyMedium
		}
		stored, err := s.questions.CreateQuestion(ctx, q)
		if err != nil {
			return Set{}, fmt.Errorf("create question: %w", err)
		}
		ids = append(ids, stored.ID)
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = DefaultCategory
	}
	set := Set{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Category:    category,
		QuestionIDs: ids,
		CreatedBy:   req.CreatedBy,
		Generation:  req.Generation,
		CreatedAt:   s.now().UTC(),
	}

	var created Set
	_, err := s.pins.Assign(ctx, func(pin string) error {
		set.PIN = pin
		var err error
		created, err = s.sets.CreateSet(ctx, set)
		return err
	})
	if err != nil {
		return Set{}, err
	}

	source := "manual"
	if req.Generation != nil {
		source = "generated"
	}
	metrics.SetsCreated.WithLabelValues(source).Inc()
	s.logger.Info().
		Str("set_id", created.ID).
		Str("pin", created.PIN).
		Int("questions", len(ids)).
		Str("source", source).
		Msg("question set created")
	return created, nil
}

// SetByPIN resolves a PIN typed by a user.
func (s *Service) SetByPIN(ctx context.Context, pin string) (Set, error) {
	pin = NormalizePIN(pin)
	if pin == "" {
		return Set{}, Invalid("pin", "pin is required")
	}
	return s.sets.SetByPIN(ctx, pin)
}

// PlayQuestions returns the set and its non-archived questions in play order.
func (s *Service) PlayQuestions(ctx context.Context, pin string) (Set, []Question, error) {
	set, err := s.SetByPIN(ctx, pin)
	if err != nil {
		return Set{}, nil, err
	}
	if len(set.QuestionIDs) == 0 {
		return set, []Question{}, nil
	}
	qs, err := s.questions.QuestionsByIDs(ctx, set.QuestionIDs, false)
	if err != nil {
		return Set{}, nil, fmt.Errorf("load questions: %w", err)
	}
	return set, OrderByReference(set.QuestionIDs, qs), nil
}

// ArchiveQuestion hides a question from play without touching its ledger.
func (s *Service) ArchiveQuestion(ctx context.Context, questionID string, archived bool) (Question, error) {
	return s.questions.SetQuestionArchived(ctx, questionID, archived)
}

// VerifySet toggles the verification flag.
func (s *Service) VerifySet(ctx context.Context, setID string, verified bool) (Set, error) {
	return s.sets.SetVerified(ctx, setID, verified)
}

// ApplyDifficulty records an explicit admin decision on a question's difficulty.
func (s *Service) ApplyDifficulty(ctx context.Context, questionID, difficulty string) (Question, error) {
	d, ok := ParseDifficulty(difficulty)
	if !ok {
		return Question{}, Invalid("difficulty", "difficulty must be easy, medium or hard")
	}
	return s.questions.SetQuestionDifficulty(ctx, questionID, d)
}

// BackfillPINs assigns PINs to every set that lacks one and returns how many were assigned.
func (s *Service) BackfillPINs(ctx context.Context) (int, error) {
	total := 0
	for {
		pending, err := s.sets.SetsWithoutPIN(ctx, backfillBatchSize)
		if err != nil {
			return total, fmt.Errorf("list sets without pin: %w", err)
		}
		if len(pending) == 0 {
			return total, nil
		}

		assigned := 0
		for _, set := range pending {
			pin, err := s.pins.Assign(ctx, func(pin string) error {
				return s.sets.AssignPIN(ctx, set.ID, pin)
			})
			if errors.Is(err, ErrNotFound) {
				// assigned concurrently by someone else
				continue
			}
			if err != nil {
				return total, fmt.Errorf("assign pin to %s: %w", set.ID, err)
			}
			s.logger.Info().Str("set_id", set.ID).Str("pin", pin).Msg("pin backfilled")
			assigned++
		}
		total += assigned
		if assigned == 0 {
			return total, nil
		}
	}
}
