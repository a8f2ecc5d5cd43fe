package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gokatarajesh/quizpin/internal/metrics"
	"github.com/gokatarajesh/quizpin/internal/quizset"
)

const generatedCategory = "AI Generated"

type setCreator interface {
	CreateSet(ctx context.Context, req quizset.CreateSetRequest) (quizset.Set, error)
}

// ServiceOptions configures the optional advisory lock. With a nil Locker
// two identical concurrent misses both generate and both persist.
type ServiceOptions struct {
	Locker       Locker
	LockTTL      time.Duration
	LockWait     time.Duration
	PollInterval time.Duration
}

// Service decides whether a generation request needs the external provider.
type Service struct {
	cache    *Cache
	provider Provider
	creator  setCreator
	opts     ServiceOptions
	logger   zerolog.Logger
	tracer   trace.Tracer
}

// NewService wires the cache, the provider (nil when none is configured) and
// the authoring path used to persist generated sets.
func NewService(cache *Cache, provider Provider, creator setCreator, opts ServiceOptions, logger zerolog.Logger) *Service {
	if opts.LockTTL <= 0 {
		opts.LockTTL = 30 * time.Second
	}
	if opts.LockWait <= 0 {
		opts.LockWait = 5 * time.Second
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 250 * time.Millisecond
	}
	return &Service{
		cache:    cache,
		provider: provider,
		creator:  creator,
		opts:     opts,
		logger:   logger.With().Str("component", "generation").Logger(),
		tracer:   otel.Tracer("github.com/gokatarajesh/quizpin/internal/generation"),
	}
}

// Generate serves the request from a cached set when one matches the
// normalized tuple, otherwise calls the provider and persists a new set.
func (s *Service) Generate(ctx context.Context, req Request) (result Result, err error) {
	key, err := quizset.NormalizeGenerationKey(req.Topic, req.Count, req.Difficulty, req.Type)
	if err != nil {
		return Result{}, err
	}

	ctx, span := s.tracer.Start(ctx, "generation.Generate", trace.WithAttributes(
		attribute.String("generation.topic", key.Topic),
		attribute.Int("generation.count", key.Count),
		attribute.String("generation.difficulty", key.Difficulty),
		attribute.String("generation.type", key.Type),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.Bool("generation.from_cache", result.FromCache))
		span.End()
	}()

	if hit, ok, err := s.cache.Lookup(ctx, key); err != nil {
		return Result{}, err
	} else if ok {
		return fromHit(hit), nil
	}

	if s.provider == nil {
		return Result{}, &quizset.UpstreamError{
			Kind:     quizset.UpstreamUnavailable,
			Provider: "none",
			Err:      errors.New("no generation provider configured"),
		}
	}

	if s.opts.Locker != nil {
		release, acquired, err := s.opts.Locker.Acquire(ctx, lockKey(key), s.opts.LockTTL)
		if err != nil {
			s.logger.Warn().Err(err).Msg("generation lock unavailable, continuing without it")
		}
		if acquired {
			defer release()
			// The previous holder may have persisted while we waited.
			if hit, ok, err := s.cache.Lookup(ctx, key); err != nil {
				return Result{}, err
			} else if ok {
				return fromHit(hit), nil
			}
		} else if err == nil {
			if hit, ok, err := s.waitForPeer(ctx, key); err != nil {
				return Result{}, err
			} else if ok {
				return fromHit(hit), nil
			}
		}
	}

	return s.generateAndPersist(ctx, key, req.UserID)
}

func (s *Service) waitForPeer(ctx context.Context, key quizset.GenerationKey) (Hit, bool, error) {
	deadline := time.NewTimer(s.opts.LockWait)
	defer deadline.Stop()
	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return Hit{}, false, ctx.Err()
		case <-deadline.C:
			s.logger.Debug().Str("topic", key.Topic).Msg("peer generation did not finish in time")
			return Hit{}, false, nil
		case <-ticker.C:
			hit, ok, err := s.cache.Lookup(ctx, key)
			if err != nil || ok {
				return hit, ok, err
			}
		}
	}
}

func (s *Service) generateAndPersist(ctx context.Context, key quizset.GenerationKey, userID string) (Result, error) {
	name := s.provider.Name()
	generated, err := s.provider.Generate(ctx, key)
	if err != nil {
		metrics.ProviderCalls.WithLabelValues(name, "error").Inc()
		var uerr *quizset.UpstreamError
		if errors.As(err, &uerr) || errors.Is(err, context.Canceled) {
			return Result{}, err
		}
		return Result{}, &quizset.UpstreamError{Kind: quizset.UpstreamUnavailable, Provider: name, Err: err}
	}
	metrics.ProviderCalls.WithLabelValues(name, "ok").Inc()

	questions := make([]quizset.Question, 0, len(generated))
	for _, g := range generated {
		content := strings.TrimSpace(g.Question)
		if content == "" {
			continue
		}
		q := quizset.Question{
			Content:     content,
			Difficulty:  difficultyFor(key),
			Explanation: strings.TrimSpace(g.Explanation),
			Answer:      quizset.FreeForm(strings.TrimSpace(g.CorrectAnswer)),
		}
		if len(g.Options) > 0 {
			q.Answer = quizset.Choices(quizset.OptionsFromText(g.Options, g.CorrectAnswer), strings.TrimSpace(g.CorrectAnswer))
		}
		questions = append(questions, q)
		if len(questions) == key.Count {
			break
		}
	}
	if len(questions) == 0 {
		return Result{}, &quizset.UpstreamError{
			Kind:       quizset.UpstreamUnavailable,
			Provider:   name,
			StatusCode: http.StatusBadGateway,
			Err:        errors.New("provider returned no usable questions"),
		}
	}

	set, err := s.creator.CreateSet(ctx, quizset.CreateSetRequest{
		Title:      key.Topic,
		Category:   generatedCategory,
		Questions:  questions,
		CreatedBy:  userID,
		Generation: &key,
	})
	if err != nil {
		return Result{}, fmt.Errorf("persist generated set: %w", err)
	}

	items := make([]Item, 0, len(questions))
	for i, q := range questions {
		q.ID = set.QuestionIDs[i]
		items = append(items, materialize(q))
	}
	s.logger.Info().
		Str("provider", name).
		Str("topic", key.Topic).
		Str("pin", set.PIN).
		Int("questions", len(items)).
		Msg("generated question set")
	return Result{Questions: items, PIN: set.PIN, SetID: set.ID}, nil
}

// difficultyFor maps the requested label onto a question difficulty when it is one.
func difficultyFor(key quizset.GenerationKey) quizset.Difficulty {
	if d, ok := quizset.ParseDifficulty(key.Difficulty); ok {
		return d
	}
	return quizset.DifficultyMedium
}

func fromHit(hit Hit) Result {
	items := make([]Item, 0, len(hit.Questions))
	for _, q := range hit.Questions {
		items = append(items, materialize(q))
	}
	return Result{Questions: items, FromCache: true, PIN: hit.Set.PIN, SetID: hit.Set.ID, ExistingPIN: hit.Set.PIN}
}
