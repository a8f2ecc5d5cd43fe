package quizset

import "strings"

// IsCorrect applies the exact-trim rule: no case folding, empty answers never match.
func IsCorrect(q Question, answer string) bool {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return false
	}
	if text := strings.TrimSpace(q.Answer.Text); text != "" && answer == text {
		return true
	}
	for _, o := range q.Answer.Options {
		if o.IsCorrect && answer == strings.TrimSpace(o.Text) {
			return true
		}
	}
	return false
}

// CorrectAnswerText returns the display form of the correct answer.
func CorrectAnswerText(q Question) string {
	if q.Answer.Text != "" {
		return q.Answer.Text
	}
	for _, o := range q.Answer.Options {
		if o.IsCorrect {
			return o.Text
		}
	}
	return ""
}

// OrderByReference arranges questions to follow ids. Ids with no matching
// question (archived or missing) are left out.
func OrderByReference(ids []string, questions []Question) []Question {
	byID := make(map[string]Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	ordered := make([]Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			ordered = append(ordered, q)
		}
	}
	return ordered
}
