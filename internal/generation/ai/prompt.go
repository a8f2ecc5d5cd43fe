package ai

import (
	"fmt"
	"strings"

	"github.com/gokatarajesh/quizpin/internal/quizset"
)

const systemPrompt = "You are an experienced educator who writes clear, accurate quiz questions. Respond with JSON only."

func buildPrompt(key quizset.GenerationKey) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write %d quiz questions about %q.\n", key.Count, key.Topic)
	fmt.Fprintf(&b, "Difficulty: %s.\n", key.Difficulty)
	fmt.Fprintf(&b, "Question type: %s.\n\n", key.Type)
	b.WriteString("Rules:\n")
	b.WriteString("- Multiple choice: give exactly 4 entries in \"options\".\n")
	b.WriteString("- True/false: give the 2 entries \"True\" and \"False\" in \"options\".\n")
	b.WriteString("- Short answer: leave \"options\" empty.\n")
	b.WriteString("- \"correctAnswer\" must repeat the correct option text exactly when options are given.\n")
	b.WriteString("Return an object {\"questions\": [...]} where every item has question, options, correctAnswer and explanation.\n")
	return b.String()
}
