package quizset

import (
	"strings"
	"time"
)

// Difficulty is the authored difficulty label of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty lowercases and validates a difficulty label.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, true
	default:
		return "", false
	}
}

// AnswerKind tags how a question defines its correct answer.
type AnswerKind string

const (
	AnswerChoices  AnswerKind = "choices"
	AnswerFreeForm AnswerKind = "free_form"
)

// Option is one selectable answer of a choices question.
type Option struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// AnswerKey is decided once at ingestion and carried unchanged to every read site.
// Choices questions may also carry the authored answer string in Text.
type AnswerKey struct {
	Kind    AnswerKind
	Options []Option
	Text    string
}

// FreeForm builds an answer key with a single correct-answer string.
func FreeForm(answer string) AnswerKey {
	return AnswerKey{Kind: AnswerFreeForm, Text: answer}
}

// Choices builds an answer key over an option list.
func Choices(options []Option, answer string) AnswerKey {
	return AnswerKey{Kind: AnswerChoices, Options: options, Text: answer}
}

// Question is a single quiz item. Its usage ledger lives in the ledger store.
type Question struct {
	ID          string
	Content     string
	Answer      AnswerKey
	Difficulty  Difficulty
	Explanation string
	Verified    bool
	Archived    bool
	CreatedAt   time.Time
}

// GenerationKey is the normalized (topic, count, difficulty, type) tuple.
type GenerationKey struct {
	Topic      string
	Count      int
	Difficulty string
	Type       string
}

// Set is a question set. PIN is empty until one has been assigned.
type Set struct {
	ID          string
	PIN         string
	Title       string
	Description string
	Category    string
	QuestionIDs []string
	Verified    bool
	CreatedBy   string
	Generation  *GenerationKey
	CreatedAt   time.Time
}

// Contains reports whether questionID is part of the set's reference list.
func (s Set) Contains(questionID string) bool {
	for _, id := range s.QuestionIDs {
		if id == questionID {
			return true
		}
	}
	return false
}

// Attempt is one completed play session. Immutable once created.
type Attempt struct {
	ID          string
	UserID      string
	PIN         string
	CompletedAt time.Time
}

// UsageEntry is one answer event in a question's ledger.
type UsageEntry struct {
	QuestionID string
	UserID     string
	Answer     string
	AnsweredAt time.Time
	AttemptID  string
}
