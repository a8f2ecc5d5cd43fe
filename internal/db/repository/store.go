package repository

import (
	sqlcgen "github.com/gokatarajesh/quizpin/internal/db/sqlc"
	"github.com/gokatarajesh/quizpin/internal/quizset"
)

// Store is the Postgres implementation of quizset.Store.
type Store struct {
	*SetRepository
	*QuestionRepository
	*LedgerRepository
	*AttemptRepository
}

var _ quizset.Store = (*Store)(nil)

func NewStore(db sqlcgen.DBTX) *Store {
	q := sqlcgen.New(db)
	return &Store{
		SetRepository:      NewSetRepository(q),
		QuestionRepository: NewQuestionRepository(q),
		LedgerRepository:   NewLedgerRepository(q),
		AttemptRepository:  NewAttemptRepository(q),
	}
}
