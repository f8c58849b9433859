package components

import (
	"strings"

	"github.com/Rorical/DocPilot/internal/models"
	"github.com/Rorical/DocPilot/ui/styles"
)

const maxPreviewLines = 12

// RenderConfirmation draws the choices for the pending confirmation. Side
// actions appear only when the agent offered them on this turn.
func RenderConfirmation(pending *models.Pending, turn models.Turn) string {
	if pending == nil {
		return ""
	}

	keyStyle := styles.KeyStyle()
	var b strings.Builder

	b.WriteString(pending.Type.Label())
	if turn.FileName != "" {
		b.WriteString(" (" + turn.FileName + ")")
	}
	b.WriteString("\n")

	if turn.Preview != "" {
		b.WriteString(styles.PreviewStyle().Render(truncateLines(turn.Preview, maxPreviewLines)) + "\n")
	}

	choices := []string{keyStyle.Render("[y]") + " yes", keyStyle.Render("[n]") + " no"}
	if pending.AllowRegenerate {
		choices = append(choices, keyStyle.Render("[r]")+" regenerate")
	}
	if pending.AllowSkip {
		choices = append(choices, keyStyle.Render("[s]")+" skip preview")
	}
	b.WriteString(strings.Join(choices, "  "))

	return styles.ConfirmStyle().Render(b.String()) + "\n"
}

func truncateLines(text string, max int) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) <= max {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[:max], "\n") + "\n..."
}
