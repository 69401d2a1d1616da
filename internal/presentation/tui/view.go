package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/stepwise/pkg/domain"
)

// EmptyState is shown when the timeline has no groups.
const EmptyState = "No questions yet. Ask a question to get started!"

// Markdown renders the whole timeline. Group and step numbers are the
// 1-based positions the REPL commands take.
func Markdown(v domain.View) string {
	var sb strings.Builder

	mode := "Delete Off"
	if v.DeleteMode {
		mode = "Delete On"
	}

	if len(v.Groups) == 0 {
		sb.WriteString("_" + EmptyState + "_\n\n")
		sb.WriteString("`" + mode + "`\n")
		return sb.String()
	}

	for gi, g := range v.Groups {
		writeGroup(&sb, gi, g, v.DeleteMode)
	}
	sb.WriteString("---\n\n`" + mode + "`\n")
	return sb.String()
}

func writeGroup(sb *strings.Builder, gi int, g domain.Group, deleteMode bool) {
	steps := "steps"
	if len(g.Items) == 1 {
		steps = "step"
	}

	toggle := "▶"
	if g.Expanded {
		toggle = "▼"
	}

	fmt.Fprintf(sb, "## %s %d. %s", toggle, gi+1, g.Title)
	if g.Understood {
		sb.WriteString(" ✓")
	}
	fmt.Fprintf(sb, " _(%d %s)_", len(g.Items), steps)
	if deleteMode {
		fmt.Fprintf(sb, " `× delete %d`", g.ID)
	}
	sb.WriteString("\n\n")

	if !g.Expanded {
		return
	}

	for ii, it := range g.Items {
		writeItem(sb, ii, it)
	}
}

func writeItem(sb *strings.Builder, ii int, it domain.Item) {
	fmt.Fprintf(sb, "### Step %d", ii+1)
	if it.IsNew {
		sb.WriteString(" ✨")
	}
	sb.WriteString("\n\n")

	if it.Level > 0 {
		times := "once"
		if it.Level > 1 {
			times = fmt.Sprintf("%d times", it.Level)
		}
		fmt.Fprintf(sb, "> Simplified %s from original\n\n", times)
	}

	sb.WriteString(it.Description + "\n\n")

	actions := make([]string, 0, 3)
	if it.Understood {
		actions = append(actions, "`✓ Understood`")
	} else {
		actions = append(actions, "`○ I understand`")
	}
	switch {
	case it.Simplified:
		actions = append(actions, "`✓ Simplified`", "`⟳ Regenerate`")
	case it.Simplifying:
		actions = append(actions, "`☰ Simplifying...`")
	case it.Understood:
		actions = append(actions, "~~`☰ Simplify`~~")
	default:
		actions = append(actions, "`☰ Simplify`")
	}
	sb.WriteString(strings.Join(actions, " ") + "\n\n")
}
