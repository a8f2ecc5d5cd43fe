package sqlcgen

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getQuestion = `-- name: GetQuestion :one
SELECT id, content, answer_kind, options, correct_answer, difficulty, explanation, verified, archived, created_at FROM questions WHERE id = $1
`

func (q *Queries) GetQuestion(ctx context.Context, id pgtype.UUID) (Question, error) {
	row := q.db.QueryRow(ctx, getQuestion, id)
	var i Question
	err := row.Scan(
		&i.ID,
		&i.Content,
		&i.AnswerKind,
		&i.Options,
		&i.CorrectAnswer,
		&i.Difficulty,
		&i.Explanation,
		&i.Verified,
		&i.Archived,
		&i.CreatedAt,
	)
	return i, err
}

const getQuestionsByIDs = `-- name: GetQuestionsByIDs :many
SELECT id, content, answer_kind, options, correct_answer, difficulty, explanation, verified, archived, created_at FROM questions
WHERE id = ANY($1::uuid[])
  AND ($2::boolean OR NOT archived)
`

type GetQuestionsByIDsParams struct {
	Ids             []pgtype.UUID
	IncludeArchived bool
}

func (q *Queries) GetQuestionsByIDs(ctx context.Context, arg GetQuestionsByIDsParams) ([]Question, error) {
	rows, err := q.db.Query(ctx, getQuestionsByIDs, arg.Ids, arg.IncludeArchived)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Question
	for rows.Next() {
		var i Question
		if err := rows.Scan(
			&i.ID,
			&i.Content,
			&i.AnswerKind,
			&i.Options,
			&i.CorrectAnswer,
			&i.Difficulty,
			&i.Explanation,
			&i.Verified,
			&i.Archived,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertQuestion = `-- name: InsertQuestion :one
INSERT INTO questions (
    id, content, answer_kind, options, correct_answer, difficulty, explanation, verified, archived, created_at
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10
)
RETURNING id, content, answer_kind, options, correct_answer, difficulty, explanation, verified, archived, created_at
`

type InsertQuestionParams struct {
	ID            pgtype.UUID
	Content       string
	AnswerKind    string
	Options       []byte
	CorrectAnswer string
	Difficulty    string
	Explanation   string
	Verified      bool
	Archived      bool
	CreatedAt     pgtype.Timestamptz
}

func (q *Queries) InsertQuestion(ctx context.Context, arg InsertQuestionParams) (Question, error) {
	row := q.db.QueryRow(ctx, insertQuestion,
		arg.ID,
		arg.Content,
		arg.AnswerKind,
		arg.Options,
		arg.CorrectAnswer,
		arg.Difficulty,
		arg.Explanation,
		arg.Verified,
		arg.Archived,
		arg.CreatedAt,
	)
	var i Question
	err := row.Scan(
		&i.ID,
		&i.Content,
		&i.AnswerKind,
		&i.Options,
		&i.CorrectAnswer,
		&i.Difficulty,
		&i.Explanation,
		&i.Verified,
		&i.Archived,
		&i.CreatedAt,
	)
	return i, err
}

const setQuestionArchived = `-- name: SetQuestionArchived :one
UPDATE questions SET archived = $1 WHERE id = $2 RETURNING id, content, answer_kind, options, correct_answer, difficulty, explanation, verified, archived, created_at
`

type SetQuestionArchivedParams struct {
	Archived bool
	ID       pgtype.UUID
}

func (q *Queries) SetQuestionArchived(ctx context.Context, arg SetQuestionArchivedParams) (Question, error) {
	row := q.db.QueryRow(ctx, setQuestionArchived, arg.Archived, arg.ID)
	var i Question
	err := row.Scan(
		&i.ID,
		&i.Content,
		&i.AnswerKind,
		&i.Options,
		&i.CorrectAnswer,
		&i.Difficulty,
		&i.Explanation,
		&i.Verified,
		&i.Archived,
		&i.CreatedAt,
	)
	return i, err
}

const setQuestionDifficulty = `-- name: SetQuestionDifficulty :one
UPDATE questions SET difficulty = $1 WHERE id = $2 RETURNING id, content, answer_kind, options, correct_answer, difficulty, explanation, verified, archived, created_at
`

type SetQuestionDifficultyParams struct {
	Difficulty string
	ID         pgtype.UUID
}

func (q *Queries) SetQuestionDifficulty(ctx context.Context, arg SetQuestionDifficultyParams) (Question, error) {
	row := q.db.QueryRow(ctx, setQuestionDifficulty, arg.Difficulty, arg.ID)
	var i Question
	err := row.Scan(
		&i.ID,
		&i.Content,
		&i.AnswerKind,
		&i.Options,
		&i.CorrectAnswer,
		&i.Difficulty,
		&i.Explanation,
		&i.Verified,
		&i.Archived,
		&i.CreatedAt,
	)
	return i, err
}
