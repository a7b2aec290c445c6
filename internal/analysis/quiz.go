// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/knowledge-agent/pkg/types"
)

// ParseQuiz decodes a Knowledge Check reply of the form
// {"questions": [{"question", "options", "correct_index"}]}.
func ParseQuiz(content string) (types.Quiz, error) {
	var doc struct {
		Questions *[]types.QuizQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(StripFences(content)), &doc); err != nil {
		return types.Quiz{}, err
	}
	if doc.Questions == nil {
		return types.Quiz{}, errors.New(`missing "questions" array`)
	}
	for i, q := range *doc.Questions {
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return types.Quiz{}, fmt.Errorf("question %d: correct_index %d outside its %d options", i+1, q.CorrectIndex, len(q.Options))
		}
	}
	return types.Quiz{Questions: *doc.Questions}, nil
}

// QuizMarkdown renders quiz as numbered questions with lettered options and
// the answer letter after each.
func QuizMarkdown(quiz types.Quiz) string {
	var b strings.Builder
	for i, q := range quiz.Questions {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		fmt.Fprintf(&b, "**Q%d. %s**\n\n", i+1, q.Question)
		for j, opt := range q.Options {
			fmt.Fprintf(&b, "- **%s.** %s\n", types.OptionLetter(j), opt)
		}
		fmt.Fprintf(&b, "\n**Correct:** %s\n", q.Answer())
	}
	return b.String()
}
