package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/gokatarajesh/quizpin/internal/db/sqlc"
	"github.com/gokatarajesh/quizpin/internal/quizset"
)

const (
	uniqueViolation = "23505"
	pinConstraint   = "question_sets_pin_key"
)

// mapErr translates driver errors into the store contract.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return quizset.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == pinConstraint {
		return quizset.ErrDuplicatePIN
	}
	return err
}

func parseUUID(id string) (pgtype.UUID, bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, false
	}
	return pgtype.UUID{Bytes: u, Valid: true}, true
}

func uuidString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}

func textOrNull(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func timestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		t = time.Now()
	}
	return pgtype.Timestamptz{Time: t.UTC(), Valid: true}
}

func setFromOverview(row sqlcgen.SetOverview) quizset.Set {
	ids := make([]string, 0, len(row.QuestionIds))
	for _, id := range row.QuestionIds {
		ids = append(ids, uuidString(id))
	}
	set := quizset.Set{
		ID:          uuidString(row.ID),
		PIN:         row.Pin.String,
		Title:       row.Title,
		Description: row.Description,
		Category:    row.Category,
		QuestionIDs: ids,
		Verified:    row.Verified,
		CreatedBy:   row.CreatedBy,
		CreatedAt:   row.CreatedAt.Time,
	}
	if row.GeneratorTopic.Valid {
		set.Generation = &quizset.GenerationKey{
			Topic:      row.GeneratorTopic.String,
			Count:      int(row.GeneratorCount.Int32),
			Difficulty: row.GeneratorDifficulty.String,
			Type:       row.GeneratorType.String,
		}
	}
	return set
}

func questionFromRow(row sqlcgen.Question) (quizset.Question, error) {
	q := quizset.Question{
		ID:          uuidString(row.ID),
		Content:     row.Content,
		Difficulty:  quizset.Difficulty(row.Difficulty),
		Explanation: row.Explanation,
		Verified:    row.Verified,
		Archived:    row.Archived,
		CreatedAt:   row.CreatedAt.Time,
		Answer:      quizset.FreeForm(row.CorrectAnswer),
	}
	if quizset.AnswerKind(row.AnswerKind) == quizset.AnswerChoices {
		var options []quizset.Option
		if err := json.Unmarshal(row.Options, &options); err != nil {
			return quizset.Question{}, fmt.Errorf("decode options of %s: %w", q.ID, err)
		}
		q.Answer = quizset.Choices(options, row.CorrectAnswer)
	}
	return q, nil
}

func encodeOptions(q quizset.Question) ([]byte, error) {
	options := q.Answer.Options
	if options == nil {
		options = []quizset.Option{}
	}
	return json.Marshal(options)
}

func usageFromRow(row sqlcgen.QuestionUsage) quizset.UsageEntry {
	return quizset.UsageEntry{
		QuestionID: uuidString(row.QuestionID),
		UserID:     row.UserID,
		Answer:     row.Answer,
		AnsweredAt: row.AnsweredAt.Time,
		AttemptID:  uuidString(row.AttemptID),
	}
}

func attemptFromRow(row sqlcgen.PlayAttempt) quizset.Attempt {
	return quizset.Attempt{
		ID:          uuidString(row.ID),
		UserID:      row.UserID,
		PIN:         row.Pin,
		CompletedAt: row.CompletedAt.Time,
	}
}
