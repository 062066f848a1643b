package dispatch

import (
	"fmt"
	"strings"

	"github.com/aretw0/romote/pkg/registry"
)

// TableRenderer formats the command table shown before each prompt.
type TableRenderer func(specs []registry.Spec) string

const (
	tableWidth = 40
	halfWidth  = tableWidth / 2
)

// PlainTable renders two fixed-width columns.
func PlainTable(specs []registry.Spec) string {
	var b strings.Builder
	b.WriteString(center("COMMAND", halfWidth))
	b.WriteString(center("ACTION", halfWidth))
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("-", tableWidth+1))
	for _, s := range specs {
		fmt.Fprintf(&b, "\n%-*s:%*s", halfWidth, s.Token, halfWidth, s.Description)
	}
	return b.String()
}

func center(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
