package formatter

import (
	"fmt"
	"strings"

	"github.com/studia-app/studia/internal/assist"
)

// FormatQuiz renders a quiz with lettered options. Answers go last so the
// questions can be attempted first.
func FormatQuiz(q *assist.Quiz) string {
	var b strings.Builder
	b.WriteString(Header("Quiz: " + q.Topic))
	b.WriteString("\n")

	for i, question := range q.Questions {
		fmt.Fprintf(&b, "%s %s\n", Bold(fmt.Sprintf("%d.", i+1)), question.Question)
		for j, opt := range question.Options {
			fmt.Fprintf(&b, "   %s %s\n", Dim(optionLetter(j)+")"), opt)
		}
		b.WriteString("\n")
	}

	b.WriteString(Header("Answers"))
	b.WriteString("\n")
	for i, question := range q.Questions {
		fmt.Fprintf(&b, "%s %s", Bold(fmt.Sprintf("%d.", i+1)), StyleGreen.Render(optionLetter(question.AnswerIndex)))
		if question.Explanation != "" {
			fmt.Fprintf(&b, " %s", Dim(question.Explanation))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func optionLetter(i int) string {
	return string(rune('a' + i))
}
