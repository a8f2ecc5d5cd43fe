package quizset

import (
	"encoding/json"
	"strings"
)

const (
	DefaultGenerationCount = 5
	MaxGenerationCount     = 10
	DefaultGenerationType  = "multiple_choice"
	DefaultCategory        = "Other"
)

// NormalizePIN trims and upper-cases user-supplied PIN input.
func NormalizePIN(pin string) string {
	return strings.ToUpper(strings.TrimSpace(pin))
}

// NormalizeGenerationKey trims labels, applies defaults and clamps the count.
// A zero count means "not given" and falls back to the default.
func NormalizeGenerationKey(topic string, count int, difficulty, qType string) (GenerationKey, error) {
	key := GenerationKey{
		Topic:      strings.TrimSpace(topic),
		Count:      count,
		Difficulty: strings.TrimSpace(difficulty),
		Type:       strings.TrimSpace(qType),
	}
	if key.Topic == "" {
		return GenerationKey{}, Invalid("topic", "topic is required")
	}
	switch {
	case key.Count == 0:
		key.Count = DefaultGenerationCount
	case key.Count < 1:
		key.Count = 1
	case key.Count > MaxGenerationCount:
		key.Count = MaxGenerationCount
	}
	if key.Difficulty == "" {
		key.Difficulty = string(DifficultyMedium)
	}
	if key.Type == "" {
		key.Type = DefaultGenerationType
	}
	return key, nil
}

// RawQuestion is an authoring payload before ingestion. Options may be a list
// of strings or a list of {text, isCorrect} objects.
type RawQuestion struct {
	Content       string          `json:"content"`
	Question      string          `json:"question"`
	Options       json.RawMessage `json:"options,omitempty"`
	CorrectAnswer string          `json:"correctAnswer"`
	Difficulty    string          `json:"difficulty"`
	Explanation   string          `json:"explanation"`
}

type rawOption struct {
	Text      string `json:"text"`
	Option    string `json:"option"`
	IsCorrect bool   `json:"isCorrect"`
}

// NormalizeQuestion turns a raw payload into a Question with a fixed answer kind.
// It reports false when the payload has no content.
func NormalizeQuestion(raw RawQuestion) (Question, bool) {
	content := strings.TrimSpace(raw.Content)
	if content == "" {
		content = strings.TrimSpace(raw.Question)
	}
	if content == "" {
		return Question{}, false
	}

	correct := strings.TrimSpace(raw.CorrectAnswer)
	difficulty, ok := ParseDifficulty(raw.Difficulty)
	if !ok {
		difficulty = DifficultyMedium
	}

	q := Question{
		Content:     content,
		Difficulty:  difficulty,
		Explanation: strings.TrimSpace(raw.Explanation),
		Answer:      FreeForm(correct),
	}
	if options := decodeOptions(raw.Options, correct); len(options) > 0 {
		q.Answer = Choices(options, correct)
	}
	return q, true
}

func decodeOptions(data json.RawMessage, correct string) []Option {
	if len(data) == 0 {
		return nil
	}

	var texts []string
	if err := json.Unmarshal(data, &texts); err == nil {
		return OptionsFromText(texts, correct)
	}

	var objects []rawOption
	if err := json.Unmarshal(data, &objects); err != nil {
		return nil
	}
	options := make([]Option, 0, len(objects))
	for _, o := range objects {
		text := o.Text
		if text == "" {
			text = o.Option
		}
		options = append(options, Option{Text: text, IsCorrect: o.IsCorrect})
	}
	return options
}

// OptionsFromText flags the option whose trimmed text equals the trimmed correct answer.
func OptionsFromText(texts []string, correct string) []Option {
	correct = strings.TrimSpace(correct)
	options := make([]Option, 0, len(texts))
	for _, t := range texts {
		text := strings.TrimSpace(t)
		options = append(options, Option{Text: text, IsCorrect: text == correct})
	}
	return options
}
