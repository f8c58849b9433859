package components

import (
	"strings"

	"github.com/Rorical/DocPilot/internal/models"
	"github.com/Rorical/DocPilot/internal/utils"
	"github.com/Rorical/DocPilot/ui/styles"
)

func RenderBanner(lines []string) string {
	var b strings.Builder
	programStyle := styles.ProgramStyle()
	for _, line := range lines {
		b.WriteString(programStyle.Render(line) + "\n")
	}
	if len(lines) > 0 {
		b.WriteString("\n")
	}
	return b.String()
}

func RenderMessages(turns []models.Turn) string {
	var b strings.Builder

	userStyle := styles.UserStyle()
	agentStyle := styles.AgentStyle()
	errorStyle := styles.ErrorStyle()

	for _, turn := range turns {
		switch {
		case turn.Sender == models.SenderUser:
			b.WriteString(userStyle.Render("You: "+turn.Text) + "\n\n")
		case turn.Failed:
			b.WriteString(errorStyle.Render(turn.Text) + "\n\n")
		case turn.Sender == models.SenderAgent:
			b.WriteString(agentStyle.Render("Agent: "+utils.RenderMarkdown(turn.Text)) + "\n\n")
		}
	}

	return b.String()
}
