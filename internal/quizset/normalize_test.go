package quizset_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/quizpin/internal/quizset"
)

func TestNormalizeGenerationKey(t *testing.T) {
	cases := []struct {
		name             string
		topic            string
		count            int
		difficulty, kind string
		want             quizset.GenerationKey
	}{
		{"defaults", "  history ", 0, "", "", quizset.GenerationKey{Topic: "history", Count: 5, Difficulty: "medium", Type: "multiple_choice"}},
		{"clamp high", "t", 50, "hard", "mc", quizset.GenerationKey{Topic: "t", Count: 10, Difficulty: "hard", Type: "mc"}},
		{"clamp low", "t", -3, " easy ", " tf ", quizset.GenerationKey{Topic: "t", Count: 1, Difficulty: "easy", Type: "tf"}},
		{"in range", "t", 5, "medium", "mc", quizset.GenerationKey{Topic: "t", Count: 5, Difficulty: "medium", Type: "mc"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := quizset.NormalizeGenerationKey(tc.topic, tc.count, tc.difficulty, tc.kind)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeGenerationKeyRequiresTopic(t *testing.T) {
	_, err := quizset.NormalizeGenerationKey("   ", 5, "", "")

	var verr *quizset.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "topic", verr.Field)
}

func TestNormalizePIN(t *testing.T) {
	assert.Equal(t, "ABC234", quizset.NormalizePIN("  abc234 "))
	assert.Equal(t, "", quizset.NormalizePIN("   "))
}

func TestNormalizeQuestionStringOptions(t *testing.T) {
	q, ok := quizset.NormalizeQuestion(quizset.RawQuestion{
		Question:      "Capital of France?",
		Options:       json.RawMessage(`[" London ", "Paris ", "Rome"]`),
		CorrectAnswer: " Paris",
		Difficulty:    "EASY",
		Explanation:   " It is. ",
	})

	require.True(t, ok)
	assert.Equal(t, "Capital of France?", q.Content)
	assert.Equal(t, quizset.AnswerChoices, q.Answer.Kind)
	assert.Equal(t, []quizset.Option{
		{Text: "London"},
		{Text: "Paris", IsCorrect: true},
		{Text: "Rome"},
	}, q.Answer.Options)
	assert.Equal(t, "Paris", q.Answer.Text)
	assert.Equal(t, quizset.DifficultyEasy, q.Difficulty)
	assert.Equal(t, "It is.", q.Explanation)
}

func TestNormalizeQuestionObjectOptions(t *testing.T) {
	q, ok := quizset.NormalizeQuestion(quizset.RawQuestion{
		Content: "Pick the noble gas",
		Options: json.RawMessage(`[{"text":"Neon","isCorrect":true},{"option":"Iron"}]`),
	})

	require.True(t, ok)
	assert.Equal(t, quizset.AnswerChoices, q.Answer.Kind)
	assert.Equal(t, []quizset.Option{{Text: "Neon", IsCorrect: true}, {Text: "Iron"}}, q.Answer.Options)
	assert.Equal(t, quizset.DifficultyMedium, q.Difficulty)
}

func TestNormalizeQuestionFreeForm(t *testing.T) {
	q, ok := quizset.NormalizeQuestion(quizset.RawQuestion{Content: "2+2?", CorrectAnswer: " 4 ", Difficulty: "impossible"})

	require.True(t, ok)
	assert.Equal(t, quizset.FreeForm("4"), q.Answer)
	assert.Equal(t, quizset.DifficultyMedium, q.Difficulty)
}

func TestNormalizeQuestionWithoutContent(t *testing.T) {
	_, ok := quizset.NormalizeQuestion(quizset.RawQuestion{CorrectAnswer: "x"})
	assert.False(t, ok)
}

func TestParseDifficulty(t *testing.T) {
	d, ok := quizset.ParseDifficulty(" Hard ")
	assert.True(t, ok)
	assert.Equal(t, quizset.DifficultyHard, d)

	_, ok = quizset.ParseDifficulty("trivial")
	assert.False(t, ok)
}
