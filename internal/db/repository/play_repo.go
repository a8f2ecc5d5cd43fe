package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/gokatarajesh/quizpin/internal/db/sqlc"
	"github.com/gokatarajesh/quizpin/internal/quizset"
)

type ledgerStore interface {
	AppendQuestionUsage(ctx context.Context, arg sqlcgen.AppendQuestionUsageParams) error
	ListUsageByQuestion(ctx context.Context, questionID pgtype.UUID) ([]sqlcgen.QuestionUsage, error)
	ListUsageByAttempt(ctx context.Context, attemptID pgtype.UUID) ([]sqlcgen.QuestionUsage, error)
}

// LedgerRepository appends to and reads the question_usage table. The table
// rejects UPDATE and DELETE through a trigger.
type LedgerRepository struct {
	store ledgerStore
}

func NewLedgerRepository(store ledgerStore) *LedgerRepository {
	return &LedgerRepository{store: store}
}

func (r *LedgerRepository) AppendUsage(ctx context.Context, entry quizset.UsageEntry) error {
	qid, ok := parseUUID(entry.QuestionID)
	if !ok {
		return fmt.Errorf("invalid question id %q", entry.QuestionID)
	}
	aid, ok := parseUUID(entry.AttemptID)
	if !ok {
		return fmt.Errorf("invalid attempt id %q", entry.AttemptID)
	}
	return mapErr(r.store.AppendQuestionUsage(ctx, sqlcgen.AppendQuestionUsageParams{
		QuestionID: qid,
		UserID:     entry.UserID,
		Answer:     entry.Answer,
		AnsweredAt: timestamptz(entry.AnsweredAt),
		AttemptID:  aid,
	}))
}

func (r *LedgerRepository) UsageByQuestion(ctx context.Context, questionID string) ([]quizset.UsageEntry, error) {
	u, ok := parseUUID(questionID)
	if !ok {
		return []quizset.UsageEntry{}, nil
	}
	rows, err := r.store.ListUsageByQuestion(ctx, u)
	if err != nil {
		return nil, mapErr(err)
	}
	return usageRows(rows), nil
}

func (r *LedgerRepository) UsageByAttempt(ctx context.Context, attemptID string) ([]quizset.UsageEntry, error) {
	u, ok := parseUUID(attemptID)
	if !ok {
		return []quizset.UsageEntry{}, nil
	}
	rows, err := r.store.ListUsageByAttempt(ctx, u)
	if err != nil {
		return nil, mapErr(err)
	}
	return usageRows(rows), nil
}

func usageRows(rows []sqlcgen.QuestionUsage) []quizset.UsageEntry {
	out := make([]quizset.UsageEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, usageFromRow(row))
	}
	return out
}

type attemptStore interface {
	CreatePlayAttempt(ctx context.Context, arg sqlcgen.CreatePlayAttemptParams) (sqlcgen.PlayAttempt, error)
	ListAttemptsByUser(ctx context.Context, arg sqlcgen.ListAttemptsByUserParams) ([]sqlcgen.PlayAttempt, error)
}

// AttemptRepository persists play attempts.
type AttemptRepository struct {
	store attemptStore
}

func NewAttemptRepository(store attemptStore) *AttemptRepository {
	return &AttemptRepository{store: store}
}

func (r *AttemptRepository) CreateAttempt(ctx context.Context, attempt quizset.Attempt) (quizset.Attempt, error) {
	id, ok := parseUUID(attempt.ID)
	if !ok {
		return quizset.Attempt{}, fmt.Errorf("invalid attempt id %q", attempt.ID)
	}
	row, err := r.store.CreatePlayAttempt(ctx, sqlcgen.CreatePlayAttemptParams{
		ID:          id,
		UserID:      attempt.UserID,
		Pin:         attempt.PIN,
		CompletedAt: timestamptz(attempt.CompletedAt),
	})
	if err != nil {
		return quizset.Attempt{}, mapErr(err)
	}
	return attemptFromRow(row), nil
}

func (r *AttemptRepository) AttemptsByUser(ctx context.Context, userID string, limit int) ([]quizset.Attempt, error) {
	rows, err := r.store.ListAttemptsByUser(ctx, sqlcgen.ListAttemptsByUserParams{UserID: userID, PageLimit: int32(limit)})
	if err != nil {
		return nil, mapErr(err)
	}
	out := make([]quizset.Attempt, 0, len(rows))
	for _, row := range rows {
		out = append(out, attemptFromRow(row))
	}
	return out, nil
}
