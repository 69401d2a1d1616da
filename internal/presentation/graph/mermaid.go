package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/stepwise/pkg/domain"
)

const maxLabel = 48

// GenerateMermaid produces a Mermaid flowchart of a group's simplification chain.
// Each item links to the item it was simplified from:
// - Original: ((Circle))
// - Simplification: [Rectangle]
// Understood items and items with a request in flight get their own class.
func GenerateMermaid(g domain.Group) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	// parents[level] is the id of the latest item seen at that level.
	parents := map[int]string{}
	var understood, active []string

	for i, it := range g.Items {
		id := fmt.Sprintf("s%d", it.ID)
		label := fmt.Sprintf("Step %d <br/> %s", i+1, escapeLabel(it.Description))

		opener, closer := "[", "]"
		if it.Level == 0 {
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, label, closer))

		if parent, ok := parents[it.Level-1]; ok && it.Level > 0 {
			sb.WriteString(fmt.Sprintf("    %s -- \"simplify\" --> %s\n", parent, id))
		}
		parents[it.Level] = id

		if it.Understood {
			understood = append(understood, id)
		}
		if it.Simplifying {
			active = append(active, id)
		}
	}

	if len(understood) > 0 || len(active) > 0 {
		sb.WriteString("\n    %% State Styles\n")
		sb.WriteString("    classDef understood fill:#e8f5e9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef active fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, id := range understood {
			sb.WriteString(fmt.Sprintf("    class %s understood;\n", id))
		}
		for _, id := range active {
			sb.WriteString(fmt.Sprintf("    class %s active;\n", id))
		}
	}

	return sb.String()
}

func escapeLabel(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, "\"", "'")
	if r := []rune(s); len(r) > maxLabel {
		s = string(r[:maxLabel-3]) + "..."
	}
	return s
}
