// Package quizsettest provides an in-memory quizset.Store for tests.
package quizsettest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gokatarajesh/quizpin/internal/quizset"
)

// Store keeps everything in maps guarded by one mutex. PIN uniqueness is
// enforced the same way the SQL stores enforce it.
type Store struct {
	mu        sync.Mutex
	sets      map[string]quizset.Set
	order     []string
	questions map[string]quizset.Question
	usage     []quizset.UsageEntry
	attempts  []quizset.Attempt

	// AppendErr, when set, is consulted before every ledger append.
	AppendErr func(quizset.UsageEntry) error
	// Clock stamps CreatedAt when the caller left it zero.
	Clock func() time.Time
}

var _ quizset.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		sets:      map[string]quizset.Set{},
		questions: map[string]quizset.Question{},
		Clock:     time.Now,
	}
}

// PutQuestion stores a question as-is, for arranging fixtures.
func (s *Store) PutQuestion(q quizset.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[q.ID] = q
}

// PutSet stores a set as-is, bypassing the PIN uniqueness check.
func (s *Store) PutSet(set quizset.Set) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sets[set.ID]; !ok {
		s.order = append(s.order, set.ID)
	}
	s.sets[set.ID] = set
}

// Usage returns a copy of every ledger entry in append order.
func (s *Store) Usage() []quizset.UsageEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]quizset.UsageEntry(nil), s.usage...)
}

// Attempts returns a copy of every attempt in creation order.
func (s *Store) Attempts() []quizset.Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]quizset.Attempt(nil), s.attempts...)
}

// Sets returns every set in creation order.
func (s *Store) Sets() []quizset.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]quizset.Set, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.sets[id])
	}
	return out
}

func (s *Store) CreateSet(_ context.Context, set quizset.Set) (quizset.Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if set.PIN != "" && s.pinTaken(set.PIN) {
		return quizset.Set{}, quizset.ErrDuplicatePIN
	}
	if set.CreatedAt.IsZero() {
		set.CreatedAt = s.Clock()
	}
	set.QuestionIDs = append([]string(nil), set.QuestionIDs...)
	s.sets[set.ID] = set
	s.order = append(s.order, set.ID)
	return set, nil
}

func (s *Store) pinTaken(pin string) bool {
	for _, existing := range s.sets {
		if existing.PIN == pin {
			return true
		}
	}
	return false
}

func (s *Store) SetByID(_ context.Context, id string) (quizset.Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[id]
	if !ok {
		return quizset.Set{}, quizset.ErrNotFound
	}
	return set, nil
}

func (s *Store) SetByPIN(_ context.Context, pin string) (quizset.Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, set := range s.sets {
		if pin != "" && set.PIN == pin {
			return set, nil
		}
	}
	return quizset.Set{}, quizset.ErrNotFound
}

func (s *Store) SetByGenerationKey(_ context.Context, key quizset.GenerationKey) (quizset.Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.order) - 1; i >= 0; i-- {
		set := s.sets[s.order[i]]
		if set.Generation != nil && *set.Generation == key {
			return set, nil
		}
	}
	return quizset.Set{}, quizset.ErrNotFound
}

func (s *Store) AssignPIN(_ context.Context, setID, pin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[setID]
	if !ok || set.PIN != "" {
		return quizset.ErrNotFound
	}
	if s.pinTaken(pin) {
		return quizset.ErrDuplicatePIN
	}
	set.PIN = pin
	s.sets[setID] = set
	return nil
}

func (s *Store) SetsWithoutPIN(_ context.Context, limit int) ([]quizset.Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []quizset.Set
	for _, id := range s.order {
		if len(out) >= limit {
			break
		}
		if set := s.sets[id]; set.PIN == "" {
			out = append(out, set)
		}
	}
	return out, nil
}

func (s *Store) SetVerified(_ context.Context, setID string, verified bool) (quizset.Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[setID]
	if !ok {
		return quizset.Set{}, quizset.ErrNotFound
	}
	set.Verified = verified
	s.sets[setID] = set
	return set, nil
}

func (s *Store) CreateQuestion(_ context.Context, q quizset.Question) (quizset.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = s.Clock()
	}
	s.questions[q.ID] = q
	return q, nil
}

func (s *Store) QuestionByID(_ context.Context, id string) (quizset.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[id]
	if !ok {
		return quizset.Question{}, quizset.ErrNotFound
	}
	return q, nil
}

// QuestionsByIDs deliberately returns questions sorted by id so callers
// cannot rely on the store preserving reference order.
func (s *Store) QuestionsByIDs(_ context.Context, ids []string, includeArchived bool) ([]quizset.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []quizset.Question
	seen := map[string]bool{}
	for _, id := range ids {
		q, ok := s.questions[id]
		if !ok || seen[id] || (q.Archived && !includeArchived) {
			continue
		}
		seen[id] = true
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SetQuestionArchived(_ context.Context, id string, archived bool) (quizset.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[id]
	if !ok {
		return quizset.Question{}, quizset.ErrNotFound
	}
	q.Archived = archived
	s.questions[id] = q
	return q, nil
}

func (s *Store) SetQuestionDifficulty(_ context.Context, id string, difficulty quizset.Difficulty) (quizset.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[id]
	if !ok {
		return quizset.Question{}, quizset.ErrNotFound
	}
	q.Difficulty = difficulty
	s.questions[id] = q
	return q, nil
}

func (s *Store) AppendUsage(_ context.Context, entry quizset.UsageEntry) error {
	if s.AppendErr != nil {
		if err := s.AppendErr(entry); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usage = append(s.usage, entry)
	return nil
}

func (s *Store) UsageByQuestion(_ context.Context, questionID string) ([]quizset.UsageEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []quizset.UsageEntry
	for _, e := range s.usage {
		if e.QuestionID == questionID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) UsageByAttempt(_ context.Context, attemptID string) ([]quizset.UsageEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []quizset.UsageEntry
	for _, e := range s.usage {
		if e.AttemptID == attemptID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) CreateAttempt(_ context.Context, attempt quizset.Attempt) (quizset.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, attempt)
	return attempt, nil
}

func (s *Store) AttemptsByUser(_ context.Context, userID string, limit int) ([]quizset.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []quizset.Attempt
	for _, a := range s.attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
