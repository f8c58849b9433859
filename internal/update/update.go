package update

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/DocPilot/internal/eventbus"
	"github.com/Rorical/DocPilot/internal/models"
)

// Widgets are the bubbles components owned by the tea model.
type Widgets struct {
	Input   textinput.Model
	Spinner spinner.Model
}

func HandleUpdateWithEventBus(appModel *models.AppModel, w *Widgets, msg tea.Msg, eb *eventbus.EventBus) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return HandleKeyMsgWithEventBus(appModel, &w.Input, msg, eb)
	case tea.WindowSizeMsg:
		HandleWindowSizeMsg(appModel, &w.Input, msg)
		return nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		w.Spinner, cmd = w.Spinner.Update(msg)
		return cmd
	case CoreEventMsg:
		return HandleCoreEvent(appModel, msg)
	}

	// Cursor blink and other widget messages
	var cmd tea.Cmd
	w.Input, cmd = w.Input.Update(msg)
	return cmd
}
