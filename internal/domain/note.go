package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// Note is a polished transcript: a title plus the structured sections the
// language model extracts from the raw text.
type Note struct {
	Title       string
	KeyPoints   []string
	ActionItems []string
	Transcript  string
}

// Markdown renders the note as a markdown document with title, key points,
// optional action items and the transcript itself.
func (n Note) Markdown() string {
	var b strings.Builder

	title := n.Title
	if title == "" {
		title = "Untitled"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	b.WriteString("## Key Points\n")
	for _, point := range n.KeyPoints {
		fmt.Fprintf(&b, "- %s\n", point)
	}
	b.WriteString("\n")

	if len(n.ActionItems) > 0 {
		b.WriteString("## Action Items\n")
		for _, item := range n.ActionItems {
			fmt.Fprintf(&b, "- [ ] %s\n", item)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Transcript\n\n")
	if n.Transcript == "" {
		b.WriteString("No transcript available.")
	} else {
		b.WriteString(n.Transcript)
	}

	return b.String()
}

// SafeTitle returns the note title reduced to characters that are safe in a
// filename: alphanumerics, spaces, dashes and underscores. Everything else
// becomes an underscore.
func (n Note) SafeTitle() string {
	title := n.Title
	if title == "" {
		title = "untitled"
	}

	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
