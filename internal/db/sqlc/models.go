package sqlcgen

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type PlayAttempt struct {
	ID          pgtype.UUID
	UserID      string
	Pin         string
	CompletedAt pgtype.Timestamptz
}

type Question struct {
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

type QuestionSet struct {
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
}

type QuestionUsage struct {
	ID         int64
	QuestionID pgtype.UUID
	UserID     string
	Answer     string
	AnsweredAt pgtype.Timestamptz
	AttemptID  pgtype.UUID
}

type SetOverview struct {
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

type SetQuestion struct {
	SetID      pgtype.UUID
	Position   int32
	QuestionID pgtype.UUID
}
