// Package format renders evaluation summaries as terminal or Markdown tables.
package format

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Style controls the table output format.
type Style int

const (
	ASCII    Style = iota // Box-drawn terminal tables
	Markdown              // GitHub-flavoured Markdown tables
)

// ParseStyle maps an output format name to a table style.
// "markdown" and "md" select Markdown; anything else renders ASCII.
func ParseStyle(s string) Style {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return Markdown
	}
	return ASCII
}

// newWriter returns a go-pretty writer that keeps header and footer text as given
func newWriter() table.Writer {
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault

	w := table.NewWriter()
	w.SetStyle(style)
	return w
}

func render(w table.Writer, s Style) string {
	if s == Markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}

// percent formats a 0-100 score with one decimal
func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// truncate shortens s to maxLen runes, ending in "..." when cut
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
