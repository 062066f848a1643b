package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/romote/pkg/connect"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []string
	CurrentState  string
}

// GenerateMermaid renders the connection state machine as a Mermaid
// state diagram. Cancellation edges are drawn without a label.
func GenerateMermaid(edges []connect.Edge, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")
	sb.WriteString(fmt.Sprintf("    [*] --> %s\n", connect.StateIdle))

	for _, e := range edges {
		if e.To == connect.StateCancelled {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", e.From, e.To))
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s --> %s : %s\n", e.From, e.To, sanitizeLabel(e.Label)))
	}

	sb.WriteString(fmt.Sprintf("    %s --> [*]\n", connect.StateEstablished))
	sb.WriteString(fmt.Sprintf("    %s --> [*]\n", connect.StateCancelled))

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000\n")

		visited := make(map[string]bool)
		for _, s := range overlay.VisitedStates {
			if s != "" && !visited[s] && s != overlay.CurrentState {
				visited[s] = true
				sb.WriteString(fmt.Sprintf("    class %s visited\n", s))
			}
		}
		if overlay.CurrentState != "" {
			sb.WriteString(fmt.Sprintf("    class %s current\n", overlay.CurrentState))
		}
	}

	return sb.String()
}

// sanitizeLabel keeps transition labels on one line and free of the
// characters Mermaid treats as syntax.
func sanitizeLabel(s string) string {
	s = strings.ReplaceAll(s, ":", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
