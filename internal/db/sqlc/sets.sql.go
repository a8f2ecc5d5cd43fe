package sqlcgen

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const assignSetPin = `-- name: AssignSetPin :execrows
UPDATE question_sets SET pin = $1 WHERE id = $2 AND pin IS NULL
`

type AssignSetPinParams struct {
	Pin pgtype.Text
	ID  pgtype.UUID
}

func (q *Queries) AssignSetPin(ctx context.Context, arg AssignSetPinParams) (int64, error) {
	result, err := q.db.Exec(ctx, assignSetPin, arg.Pin, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const createQuestionSet = `-- name: CreateQuestionSet :one
WITH new_set AS (
    INSERT INTO question_sets (
        id, pin, title, description, category, verified, created_by,
        generator_topic, generator_count, generator_difficulty, generator_type, created_at
    ) VALUES (
        $1, $2, $3, $4, $5, $6, $7,
        $8, $9, $10, $11, $12
    )
    RETURNING id
), refs AS (
    INSERT INTO set_questions (set_id, position, question_id)
    SELECT new_set.id, t.ord::integer, t.qid
    FROM new_set, unnest($13::uuid[]) WITH ORDINALITY AS t(qid, ord)
    RETURNING set_id
)
SELECT id FROM new_set
`

type CreateQuestionSetParams struct {
	ID                  pgtype.UUID
	Pin                 pgtype.Text
	Title               string
	Description         string
	Category            string
	Verified            bool
	CreatedBy           string
	GeneratorTopic      pgtype.Text
	GeneratorCount      pgtype.Int4
	GeneratorDifficulty pgtype.Text
	GeneratorType       pgtype.Text
	CreatedAt           pgtype.Timestamptz
	QuestionIds         []pgtype.UUID
}

func (q *Queries) CreateQuestionSet(ctx context.Context, arg CreateQuestionSetParams) (pgtype.UUID, error) {
	row := q.db.QueryRow(ctx, createQuestionSet,
		arg.ID,
		arg.Pin,
		arg.Title,
		arg.Description,
		arg.Category,
		arg.Verified,
		arg.CreatedBy,
		arg.GeneratorTopic,
		arg.GeneratorCount,
		arg.GeneratorDifficulty,
		arg.GeneratorType,
		arg.CreatedAt,
		arg.QuestionIds,
	)
	var id pgtype.UUID
	err := row.Scan(&id)
	return id, err
}

const getLatestSetByGenerator = `-- name: GetLatestSetByGenerator :one
SELECT id, pin, title, description, category, verified, created_by, generator_topic, generator_count, generator_difficulty, generator_type, created_at, question_ids FROM set_overview
WHERE generator_topic = $1
  AND generator_count = $2
  AND generator_difficulty = $3
  AND generator_type = $4
ORDER BY created_at DESC
LIMIT 1
`

type GetLatestSetByGeneratorParams struct {
	GeneratorTopic      pgtype.Text
	GeneratorCount      pgtype.Int4
	GeneratorDifficulty pgtype.Text
	GeneratorType       pgtype.Text
}

func (q *Queries) GetLatestSetByGenerator(ctx context.Context, arg GetLatestSetByGeneratorParams) (SetOverview, error) {
	row := q.db.QueryRow(ctx, getLatestSetByGenerator,
		arg.GeneratorTopic,
		arg.GeneratorCount,
		arg.GeneratorDifficulty,
		arg.GeneratorType,
	)
	var i SetOverview
	err := row.Scan(
		&i.ID,
		&i.Pin,
		&i.Title,
		&i.Description,
		&i.Category,
		&i.Verified,
		&i.CreatedBy,
		&i.GeneratorTopic,
		&i.GeneratorCount,
		&i.GeneratorDifficulty,
		&i.GeneratorType,
		&i.CreatedAt,
		&i.QuestionIds,
	)
	return i, err
}

const getSetByID = `-- name: GetSetByID :one
SELECT id, pin, title, description, category, verified, created_by, generator_topic, generator_count, generator_difficulty, generator_type, created_at, question_ids FROM set_overview WHERE id = $1
`

func (q *Queries) GetSetByID(ctx context.Context, id pgtype.UUID) (SetOverview, error) {
	row := q.db.QueryRow(ctx, getSetByID, id)
	var i SetOverview
	err := row.Scan(
		&i.ID,
		&i.Pin,
		&i.Title,
		&i.Description,
		&i.Category,
		&i.Verified,
		&i.CreatedBy,
		&i.GeneratorTopic,
		&i.GeneratorCount,
		&i.GeneratorDifficulty,
		&i.GeneratorType,
		&i.CreatedAt,
		&i.QuestionIds,
	)
	return i, err
}

const getSetByPin = `-- name: GetSetByPin :one
SELECT id, pin, title, description, category, verified, created_by, generator_topic, generator_count, generator_difficulty, generator_type, created_at, question_ids FROM set_overview WHERE pin = $1
`

func (q *Queries) GetSetByPin(ctx context.Context, pin pgtype.Text) (SetOverview, error) {
	row := q.db.QueryRow(ctx, getSetByPin, pin)
	var i SetOverview
	err := row.Scan(
		&i.ID,
		&i.Pin,
		&i.Title,
		&i.Description,
		&i.Category,
		&i.Verified,
		&i.CreatedBy,
		&i.GeneratorTopic,
		&i.GeneratorCount,
		&i.GeneratorDifficulty,
		&i.GeneratorType,
		&i.CreatedAt,
		&i.QuestionIds,
	)
	return i, err
}

const listSetsWithoutPin = `-- name: ListSetsWithoutPin :many
SELECT id, pin, title, description, category, verified, created_by, generator_topic, generator_count, generator_difficulty, generator_type, created_at, question_ids FROM set_overview WHERE pin IS NULL ORDER BY created_at LIMIT $1
`

func (q *Queries) ListSetsWithoutPin(ctx context.Context, limit int32) ([]SetOverview, error) {
	rows, err := q.db.Query(ctx, listSetsWithoutPin, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SetOverview
	for rows.Next() {
		var i SetOverview
		if err := rows.Scan(
			&i.ID,
			&i.Pin,
			&i.Title,
			&i.Description,
			&i.Category,
			&i.Verified,
			&i.CreatedBy,
			&i.GeneratorTopic,
			&i.GeneratorCount,
			&i.GeneratorDifficulty,
			&i.GeneratorType,
			&i.CreatedAt,
			&i.QuestionIds,
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

const setSetVerified = `-- name: SetSetVerified :execrows
UPDATE question_sets SET verified = $1 WHERE id = $2
`

type SetSetVerifiedParams struct {
	Verified bool
	ID       pgtype.UUID
}

func (q *Queries) SetSetVerified(ctx context.Context, arg SetSetVerifiedParams) (int64, error) {
	result, err := q.db.Exec(ctx, setSetVerified, arg.Verified, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
