package generation

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizpin/internal/metrics"
	"github.com/gokatarajesh/quizpin/internal/quizset"
)

type setFinder interface {
	SetByGenerationKey(ctx context.Context, key quizset.GenerationKey) (quizset.Set, error)
}

type questionLoader interface {
	QuestionsByIDs(ctx context.Context, ids []string, includeArchived bool) ([]quizset.Question, error)
}

// Cache answers generation requests from sets persisted by earlier generations.
// It reads straight from the store on every call.
type Cache struct {
	sets      setFinder
	questions questionLoader
	logger    zerolog.Logger
}

// Hit is a cached set with its live (non-archived) questions in stored order.
type Hit struct {
	Set       quizset.Set
	Questions []quizset.Question
}

func NewCache(sets setFinder, questions questionLoader, logger zerolog.Logger) *Cache {
	return &Cache{
		sets:      sets,
		questions: questions,
		logger:    logger.With().Str("component", "generation_cache").Logger(),
	}
}

// Lookup normalizes key and returns the newest matching set. A set with no
// references is a miss; a set whose questions are all archived is a hit with
// no questions.
func (c *Cache) Lookup(ctx context.Context, key quizset.GenerationKey) (Hit, bool, error) {
	key, err := quizset.NormalizeGenerationKey(key.Topic, key.Count, key.Difficulty, key.Type)
	if err != nil {
		return Hit{}, false, err
	}

	set, err := c.sets.SetByGenerationKey(ctx, key)
	if errors.Is(err, quizset.ErrNotFound) {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return Hit{}, false, nil
	}
	if err != nil {
		return Hit{}, false, fmt.Errorf("find cached set: %w", err)
	}
	if len(set.QuestionIDs) == 0 {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return Hit{}, false, nil
	}

	qs, err := c.questions.QuestionsByIDs(ctx, set.QuestionIDs, false)
	if err != nil {
		return Hit{}, false, fmt.Errorf("load cached questions: %w", err)
	}
	ordered := quizset.OrderByReference(set.QuestionIDs, qs)
	if len(ordered) == 0 {
		c.logger.Debug().Str("set_id", set.ID).Msg("cached set fully archived")
	}

	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return Hit{Set: set, Questions: ordered}, true, nil
}
