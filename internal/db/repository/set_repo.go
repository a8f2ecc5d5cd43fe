package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/gokatarajesh/quizpin/internal/db/sqlc"
	"github.com/gokatarajesh/quizpin/internal/quizset"
)

type setStore interface {
	CreateQuestionSet(ctx context.Context, arg sqlcgen.CreateQuestionSetParams) (pgtype.UUID, error)
	GetSetByID(ctx context.Context, id pgtype.UUID) (sqlcgen.SetOverview, error)
	GetSetByPin(ctx context.Context, pin pgtype.Text) (sqlcgen.SetOverview, error)
	GetLatestSetByGenerator(ctx context.Context, arg sqlcgen.GetLatestSetByGeneratorParams) (sqlcgen.SetOverview, error)
	AssignSetPin(ctx context.Context, arg sqlcgen.AssignSetPinParams) (int64, error)
	ListSetsWithoutPin(ctx context.Context, limit int32) ([]sqlcgen.SetOverview, error)
	SetSetVerified(ctx context.Context, arg sqlcgen.SetSetVerifiedParams) (int64, error)
}

// SetRepository wraps sqlc queries for question sets and their ordered references.
type SetRepository struct {
	store setStore
}

func NewSetRepository(store setStore) *SetRepository {
	return &SetRepository{store: store}
}

// CreateSet inserts the set and its reference list in one statement.
func (r *SetRepository) CreateSet(ctx context.Context, set quizset.Set) (quizset.Set, error) {
	id, ok := parseUUID(set.ID)
	if !ok {
		return quizset.Set{}, fmt.Errorf("invalid set id %q", set.ID)
	}
	refs := make([]pgtype.UUID, 0, len(set.QuestionIDs))
	for _, qid := range set.QuestionIDs {
		u, ok := parseUUID(qid)
		if !ok {
			return quizset.Set{}, fmt.Errorf("invalid question id %q", qid)
		}
		refs = append(refs, u)
	}

	params := sqlcgen.CreateQuestionSetParams{
		ID:          id,
		Pin:         textOrNull(set.PIN),
		Title:       set.Title,
		Description: set.Description,
		Category:    set.Category,
		Verified:    set.Verified,
		CreatedBy:   set.CreatedBy,
		CreatedAt:   timestamptz(set.CreatedAt),
		QuestionIds: refs,
	}
	if g := set.Generation; g != nil {
		params.GeneratorTopic = pgtype.Text{String: g.Topic, Valid: true}
		params.GeneratorCount = pgtype.Int4{Int32: int32(g.Count), Valid: true}
		params.GeneratorDifficulty = pgtype.Text{String: g.Difficulty, Valid: true}
		params.GeneratorType = pgtype.Text{String: g.Type, Valid: true}
	}

	if _, err := r.store.CreateQuestionSet(ctx, params); err != nil {
		return quizset.Set{}, mapErr(err)
	}
	set.CreatedAt = params.CreatedAt.Time
	return set, nil
}

func (r *SetRepository) SetByID(ctx context.Context, id string) (quizset.Set, error) {
	u, ok := parseUUID(id)
	if !ok {
		return quizset.Set{}, quizset.ErrNotFound
	}
	row, err := r.store.GetSetByID(ctx, u)
	if err != nil {
		return quizset.Set{}, mapErr(err)
	}
	return setFromOverview(row), nil
}

func (r *SetRepository) SetByPIN(ctx context.Context, pin string) (quizset.Set, error) {
	row, err := r.store.GetSetByPin(ctx, pgtype.Text{String: pin, Valid: true})
	if err != nil {
		return quizset.Set{}, mapErr(err)
	}
	return setFromOverview(row), nil
}

func (r *SetRepository) SetByGenerationKey(ctx context.Context, key quizset.GenerationKey) (quizset.Set, error) {
	row, err := r.store.GetLatestSetByGenerator(ctx, sqlcgen.GetLatestSetByGeneratorParams{
		GeneratorTopic:      pgtype.Text{String: key.Topic, Valid: true},
		GeneratorCount:      pgtype.Int4{Int32: int32(key.Count), Valid: true},
		GeneratorDifficulty: pgtype.Text{String: key.Difficulty, Valid: true},
		GeneratorType:       pgtype.Text{String: key.Type, Valid: true},
	})
	if err != nil {
		return quizset.Set{}, mapErr(err)
	}
	return setFromOverview(row), nil
}

// AssignPIN sets the PIN of a set that has none. ErrNotFound covers both an
// unknown set and one that already carries a PIN.
func (r *SetRepository) AssignPIN(ctx context.Context, setID, pin string) error {
	u, ok := parseUUID(setID)
	if !ok {
		return quizset.ErrNotFound
	}
	n, err := r.store.AssignSetPin(ctx, sqlcgen.AssignSetPinParams{
		Pin: pgtype.Text{String: pin, Valid: true},
		ID:  u,
	})
	if err != nil {
		return mapErr(err)
	}
	if n == 0 {
		return quizset.ErrNotFound
	}
	return nil
}

func (r *SetRepository) SetsWithoutPIN(ctx context.Context, limit int) ([]quizset.Set, error) {
	rows, err := r.store.ListSetsWithoutPin(ctx, int32(limit))
	if err != nil {
		return nil, mapErr(err)
	}
	out := make([]quizset.Set, 0, len(rows))
	for _, row := range rows {
		out = append(out, setFromOverview(row))
	}
	return out, nil
}

func (r *SetRepository) SetVerified(ctx context.Context, setID string, verified bool) (quizset.Set, error) {
	u, ok := parseUUID(setID)
	if !ok {
		return quizset.Set{}, quizset.ErrNotFound
	}
	n, err := r.store.SetSetVerified(ctx, sqlcgen.SetSetVerifiedParams{Verified: verified, ID: u})
	if err != nil {
		return quizset.Set{}, mapErr(err)
	}
	if n == 0 {
		return quizset.Set{}, quizset.ErrNotFound
	}
	return r.SetByID(ctx, setID)
}
