package sqlcgen

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const appendQuestionUsage = `-- name: AppendQuestionUsage :exec
INSERT INTO question_usage (question_id, user_id, answer, answered_at, attempt_id)
VALUES ($1, $2, $3, $4, $5)
`

type AppendQuestionUsageParams struct {
	QuestionID pgtype.UUID
	UserID     string
	Answer     string
	AnsweredAt pgtype.Timestamptz
	AttemptID  pgtype.UUID
}

func (q *Queries) AppendQuestionUsage(ctx context.Context, arg AppendQuestionUsageParams) error {
	_, err := q.db.Exec(ctx, appendQuestionUsage,
		arg.QuestionID,
		arg.UserID,
		arg.Answer,
		arg.AnsweredAt,
		arg.AttemptID,
	)
	return err
}

const createPlayAttempt = `-- name: CreatePlayAttempt :one
INSERT INTO play_attempts (id, user_id, pin, completed_at)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, pin, completed_at
`

type CreatePlayAttemptParams struct {
	ID          pgtype.UUID
	UserID      string
	Pin         string
	CompletedAt pgtype.Timestamptz
}

func (q *Queries) CreatePlayAttempt(ctx context.Context, arg CreatePlayAttemptParams) (PlayAttempt, error) {
	row := q.db.QueryRow(ctx, createPlayAttempt,
		arg.ID,
		arg.UserID,
		arg.Pin,
		arg.CompletedAt,
	)
	var i PlayAttempt
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Pin,
		&i.CompletedAt,
	)
	return i, err
}

const listAttemptsByUser = `-- name: ListAttemptsByUser :many
SELECT id, user_id, pin, completed_at FROM play_attempts
WHERE user_id = $1
ORDER BY completed_at DESC, id
LIMIT $2
`

type ListAttemptsByUserParams struct {
	UserID    string
	PageLimit int32
}

func (q *Queries) ListAttemptsByUser(ctx context.Context, arg ListAttemptsByUserParams) ([]PlayAttempt, error) {
	rows, err := q.db.Query(ctx, listAttemptsByUser, arg.UserID, arg.PageLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PlayAttempt
	for rows.Next() {
		var i PlayAttempt
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.Pin,
			&i.CompletedAt,
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

const listUsageByAttempt = `-- name: ListUsageByAttempt :many
SELECT id, question_id, user_id, answer, answered_at, attempt_id FROM question_usage WHERE attempt_id = $1 ORDER BY id
`

func (q *Queries) ListUsageByAttempt(ctx context.Context, attemptID pgtype.UUID) ([]QuestionUsage, error) {
	rows, err := q.db.Query(ctx, listUsageByAttempt, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []QuestionUsage
	for rows.Next() {
		var i QuestionUsage
		if err := rows.Scan(
			&i.ID,
			&i.QuestionID,
			&i.UserID,
			&i.Answer,
			&i.AnsweredAt,
			&i.AttemptID,
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

const listUsageByQuestion = `-- name: ListUsageByQuestion :many
SELECT id, question_id, user_id, answer, answered_at, attempt_id FROM question_usage WHERE question_id = $1 ORDER BY id
`

func (q *Queries) ListUsageByQuestion(ctx context.Context, questionID pgtype.UUID) ([]QuestionUsage, error) {
	rows, err := q.db.Query(ctx, listUsageByQuestion, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []QuestionUsage
	for rows.Next() {
		var i QuestionUsage
		if err := rows.Scan(
			&i.ID,
			&i.QuestionID,
			&i.UserID,
			&i.Answer,
			&i.AnsweredAt,
			&i.AttemptID,
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
