package quizset

import "context"

// SetStore persists question sets. Lookups return ErrNotFound on a miss and
// writes that violate PIN uniqueness return ErrDuplicatePIN.
type SetStore interface {
	CreateSet(ctx context.Context, set Set) (Set, error)
	SetByID(ctx context.Context, id string) (Set, error)
	SetByPIN(ctx context.Context, pin string) (Set, error)
	// SetByGenerationKey returns the most recently created set with this tuple.
	SetByGenerationKey(ctx context.Context, key GenerationKey) (Set, error)
	AssignPIN(ctx context.Context, setID, pin string) error
	SetsWithoutPIN(ctx context.Context, limit int) ([]Set, error)
	SetVerified(ctx context.Context, setID string, verified bool) (Set, error)
}

// QuestionStore persists questions.
type QuestionStore interface {
	CreateQuestion(ctx context.Context, q Question) (Question, error)
	QuestionByID(ctx context.Context, id string) (Question, error)
	// QuestionsByIDs returns the matching questions in no particular order.
	QuestionsByIDs(ctx context.Context, ids []string, includeArchived bool) ([]Question, error)
	SetQuestionArchived(ctx context.Context, id string, archived bool) (Question, error)
	SetQuestionDifficulty(ctx context.Context, id string, difficulty Difficulty) (Question, error)
}

// LedgerStore is the append-only usage ledger. Entries are never updated or removed.
type LedgerStore interface {
	AppendUsage(ctx context.Context, entry UsageEntry) error
	UsageByQuestion(ctx context.Context, questionID string) ([]UsageEntry, error)
	UsageByAttempt(ctx context.Context, attemptID string) ([]UsageEntry, error)
}

// AttemptStore persists play attempts.
type AttemptStore interface {
	CreateAttempt(ctx context.Context, attempt Attempt) (Attempt, error)
	// AttemptsByUser returns the newest attempts first.
	AttemptsByUser(ctx context.Context, userID string, limit int) ([]Attempt, error)
}

// Store bundles every persistence contract.
type Store interface {
	SetStore
	QuestionStore
	LedgerStore
	AttemptStore
}
