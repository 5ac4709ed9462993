package explain

import (
	"fmt"
	"strings"

	"github.com/abhisek/ripasso/internal/bank"
)

const systemPrompt = `You are a concise medical educator reviewing a multiple-choice exam question with a student who has just finished a timed quiz. Explain the reasoning behind the answer key. Do not question the answer key.`

func buildUserMessage(q bank.Question) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Question: %s\n\nOptions:\n", q.Text)
	for _, opt := range q.Options {
		fmt.Fprintf(&b, "%s) %s\n", opt.Letter, opt.Text)
	}

	correct := make([]string, len(q.Correct))
	for i, l := range q.Correct {
		correct[i] = string(l)
	}
	fmt.Fprintf(&b, "\nCorrect: %s\n", strings.Join(correct, ", "))

	if q.Explanation != "" {
		fmt.Fprintf(&b, "\nAuthor's note: %s\n", q.Explanation)
	}

	b.WriteString(`
Instructions:
1. Summarize the fact the question tests.
2. Explain why the correct option(s) are right.
3. For every other option, give one sentence on why it is wrong, using its letter.
4. Plain text only. No markdown.`)

	return b.String()
}
