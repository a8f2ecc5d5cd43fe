package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/gokatarajesh/quizpin/internal/db/sqlc"
	"github.com/gokatarajesh/quizpin/internal/quizset"
)

type questionStore interface {
	InsertQuestion(ctx context.Context, arg sqlcgen.InsertQuestionParams) (sqlcgen.Question, error)
	GetQuestion(ctx context.Context, id pgtype.UUID) (sqlcgen.Question, error)
	GetQuestionsByIDs(ctx context.Context, arg sqlcgen.GetQuestionsByIDsParams) ([]sqlcgen.Question, error)
	SetQuestionArchived(ctx context.Context, arg sqlcgen.SetQuestionArchivedParams) (sqlcgen.Question, error)
	SetQuestionDifficulty(ctx context.Context, arg sqlcgen.SetQuestionDifficultyParams) (sqlcgen.Question, error)
}

// QuestionRepository wraps sqlc queries for question access.
type QuestionRepository struct {
	store questionStore
}

func NewQuestionRepository(store questionStore) *QuestionRepository {
	return &QuestionRepository{store: store}
}

func (r *QuestionRepository) CreateQuestion(ctx context.Context, q quizset.Question) (quizset.Question, error) {
	id, ok := parseUUID(q.ID)
	if !ok {
		return quizset.Question{}, fmt.Errorf("invalid question id %q", q.ID)
	}
	options, err := encodeOptions(q)
	if err != nil {
		return quizset.Question{}, err
	}
	kind := q.Answer.Kind
	if kind == "" {
		kind = quizset.AnswerFreeForm
	}
	row, err := r.store.InsertQuestion(ctx, sqlcgen.InsertQuestionParams{
		ID:            id,
		Content:       q.Content,
		AnswerKind:    string(kind),
		Options:       options,
		CorrectAnswer: q.Answer.Text,
		Difficulty:    string(q.Difficulty),
		Explanation:   q.Explanation,
		Verified:      q.Verified,
		Archived:      q.Archived,
		CreatedAt:     timestamptz(q.CreatedAt),
	})
	if err != nil {
		return quizset.Question{}, mapErr(err)
	}
	return questionFromRow(row)
}

func (r *QuestionRepository) QuestionByID(ctx context.Context, id string) (quizset.Question, error) {
	u, ok := parseUUID(id)
	if !ok {
		return quizset.Question{}, quizset.ErrNotFound
	}
	row, err := r.store.GetQuestion(ctx, u)
	if err != nil {
		return quizset.Question{}, mapErr(err)
	}
	return questionFromRow(row)
}

// QuestionsByIDs ignores ids that are not valid UUIDs.
func (r *QuestionRepository) QuestionsByIDs(ctx context.Context, ids []string, includeArchived bool) ([]quizset.Question, error) {
	keys := make([]pgtype.UUID, 0, len(ids))
	for _, id := range ids {
		if u, ok := parseUUID(id); ok {
			keys = append(keys, u)
		}
	}
	if len(keys) == 0 {
		return []quizset.Question{}, nil
	}
	rows, err := r.store.GetQuestionsByIDs(ctx, sqlcgen.GetQuestionsByIDsParams{Ids: keys, IncludeArchived: includeArchived})
	if err != nil {
		return nil, mapErr(err)
	}
	out := make([]quizset.Question, 0, len(rows))
	for _, row := range rows {
		q, err := questionFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func (r *QuestionRepository) SetQuestionArchived(ctx context.Context, id string, archived bool) (quizset.Question, error) {
	u, ok := parseUUID(id)
	if !ok {
		return quizset.Question{}, quizset.ErrNotFound
	}
	row, err := r.store.SetQuestionArchived(ctx, sqlcgen.SetQuestionArchivedParams{Archived: archived, ID: u})
	if err != nil {
		return quizset.Question{}, mapErr(err)
	}
	return questionFromRow(row)
}

func (r *QuestionRepository) SetQuestionDifficulty(ctx context.Context, id string, difficulty quizset.Difficulty) (quizset.Question, error) {
	u, ok := parseUUID(id)
	if !ok {
		return quizset.Question{}, quizset.ErrNotFound
	}
	row, err := r.store.SetQuestionDifficulty(ctx, sqlcgen.SetQuestionDifficultyParams{Difficulty: string(difficulty), ID: u})
	if err != nil {
		return quizset.Question{}, mapErr(err)
	}
	return questionFromRow(row)
}
