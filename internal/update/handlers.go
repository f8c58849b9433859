package update

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/DocPilot/internal/eventbus"
	"github.com/Rorical/DocPilot/internal/models"
)

const sessionInvalidStatus = "Session invalid: update your credential with 'docpilot profile edit'"

// HandleKeyMsgWithEventBus handles keyboard input using event bus
func HandleKeyMsgWithEventBus(appModel *models.AppModel, input *textinput.Model, keyMsg tea.KeyMsg, eb *eventbus.EventBus) tea.Cmd {
	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return tea.Quit
	case tea.KeyEnter:
		text := strings.TrimSpace(input.Value())
		if text == "" {
			return nil
		}
		if send(appModel, eb, eventbus.SendMessageEvent{Message: text}) {
			input.Reset()
		}
		return nil
	}

	// With an empty input box, single keys answer the pending confirmation.
	if appModel.Pending != nil && input.Value() == "" {
		if event, ok := confirmationKey(keyMsg.String()); ok {
			send(appModel, eb, event)
			return nil
		}
	}

	var cmd tea.Cmd
	*input, cmd = input.Update(keyMsg)
	return cmd
}

func confirmationKey(key string) (eventbus.UIEvent, bool) {
	switch key {
	case "y":
		return eventbus.ConfirmationResponseEvent{Approved: true}, true
	case "n":
		return eventbus.ConfirmationResponseEvent{Approved: false}, true
	case "r":
		return eventbus.RegenerateEvent{}, true
	case "s":
		return eventbus.SkipPreviewEvent{}, true
	}
	return nil, false
}

func send(appModel *models.AppModel, eb *eventbus.EventBus, event eventbus.UIEvent) bool {
	if err := eb.SendToCore(event); err != nil {
		appModel.Status = "Error sending to core: " + err.Error()
		return false
	}
	return true
}

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.StateUpdateEvent:
		appModel.Turns = event.Turns
		appModel.Pending = event.Pending
		appModel.Loading = event.InFlight
		appModel.Status = statusFor(appModel)

	case eventbus.ActionRejectedEvent:
		appModel.Status = "Ignored " + event.Action + ": " + event.Reason.Error()

	case eventbus.SessionStatusEvent:
		appModel.SessionValid = event.Valid
		if event.Valid {
			if event.UserID != "" {
				appModel.Banner = append(appModel.Banner, "Signed in as "+event.UserID)
			}
			appModel.Status = statusFor(appModel)
		} else {
			appModel.Status = sessionInvalidStatus
		}
	}

	return nil
}

func statusFor(appModel *models.AppModel) string {
	switch {
	case appModel.Loading:
		return "Processing"
	case !appModel.SessionValid:
		return sessionInvalidStatus
	case appModel.Pending != nil:
		return "Waiting for confirmation"
	}
	return "Ready"
}

func HandleWindowSizeMsg(appModel *models.AppModel, input *textinput.Model, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
	if w := sizeMsg.Width - 8; w > 0 {
		input.Width = w
	}
}
