package ollama

import (
	"strings"

	"github.com/docuvault/redactsvc/internal/core/domain"
)

const maxSnippet = 4000

func buildClassificationPrompt(text string, choices []domain.DocTypeProfile) string {
	snippet := text
	if len(snippet) > maxSnippet {
		snippet = snippet[:maxSnippet]
	}

	var b strings.Builder
	b.WriteString(`You are a document classifier for a redaction workflow.
Pick exactly one doc_type from the configured list below, and one of its
sub_types if any applies (empty string otherwise).
Return strict JSON object with keys:
doc_type (string), sub_type (string), confidence (number from 0 to 1), summary (string).
No markdown, no extra keys.

Configured document types:
`)
	for _, p := range choices {
		b.WriteString("- ")
		b.WriteString(p.Name)
		if p.Description != "" {
			b.WriteString(" (")
			b.WriteString(p.Description)
			b.WriteString(")")
		}
		if names := p.SubTypeNames(); len(names) > 0 {
			b.WriteString("; sub_types: ")
			b.WriteString(strings.Join(names, ", "))
		}
		b.WriteString("\n")
	}

	b.WriteString("\nDocument:\n")
	b.WriteString(snippet)
	return b.String()
}
