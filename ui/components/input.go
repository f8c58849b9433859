package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/Rorical/DocPilot/ui/styles"
)

// RenderInput shows the spinner in place of the prompt while a request is in flight.
func RenderInput(input textinput.Model, sp spinner.Model, loading bool, width int) string {
	view := input.View()
	if loading {
		view = sp.View() + " waiting for the agent... " + view
	}
	return styles.InputStyle(width).Render(view)
}
