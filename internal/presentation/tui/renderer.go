package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/aretw0/romote/pkg/dispatch"
	"github.com/aretw0/romote/pkg/registry"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return nil
	}
	return r.Render
}

// NewTableRenderer draws the command table as styled markdown and falls
// back to the plain layout if glamour is unavailable or fails.
func NewTableRenderer() dispatch.TableRenderer {
	render := NewRenderer()
	return func(specs []registry.Spec) string {
		if render == nil {
			return dispatch.PlainTable(specs)
		}
		out, err := render(MarkdownTable(specs))
		if err != nil {
			return dispatch.PlainTable(specs)
		}
		return strings.TrimRight(out, "\n")
	}
}

// MarkdownTable formats specs as a two-column markdown table.
func MarkdownTable(specs []registry.Spec) string {
	var b strings.Builder
	b.WriteString("| Command | Action |\n| :--- | ---: |\n")
	for _, s := range specs {
		fmt.Fprintf(&b, "| `%s` | %s |\n", escapeCell(s.Token), escapeCell(s.Description))
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
