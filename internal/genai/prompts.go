package genai

import (
	"strings"
)

// PersonaPrompt opens every fallback preamble.
const PersonaPrompt = "You are an expert HR assistant."

// PolicyExcerpt is a policy passage offered to the model as grounding.
type PolicyExcerpt struct {
	Title string
	Text  string
}

// BuildPreamble returns the system preamble for a general question. The
// user's text is sent separately and unchanged.
func BuildPreamble(company, language string, excerpts []PolicyExcerpt) string {
	var b strings.Builder
	b.WriteString(PersonaPrompt)
	if company != "" {
		b.WriteString(" You work for ")
		b.WriteString(company)
		b.WriteString(" and answer employees' questions about HR matters.")
	}
	b.WriteString(" Be concise and professional. If you do not know an answer, say so and suggest contacting the HR team.")
	b.WriteString(" Never invent employee data such as salaries or leave balances.")
	if language == "ar" {
		b.WriteString(" Reply in Arabic.")
	}

	if len(excerpts) > 0 {
		b.WriteString("\n\nRelevant excerpts from the company Code of Conduct:\n")
		for _, e := range excerpts {
			b.WriteString("\n## ")
			b.WriteString(e.Title)
			b.WriteString("\n")
			b.WriteString(strings.TrimSpace(e.Text))
			b.WriteString("\n")
		}
		b.WriteString("\nPrefer these excerpts over general knowledge when they apply.")
	}
	return b.String()
}
