package update

import (
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/DocPilot/internal/eventbus"
	"github.com/Rorical/DocPilot/internal/models"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func drain(eb *eventbus.EventBus) []eventbus.UIEvent {
	var out []eventbus.UIEvent
	for {
		select {
		case ev := <-eb.UIToCore():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func newInput() textinput.Model {
	in := textinput.New()
	in.Focus()
	return in
}

func TestEnterSendsTrimmedMessage(t *testing.T) {
	eb := eventbus.NewEventBus()
	defer eb.Close()
	app := &models.AppModel{SessionValid: true}
	input := newInput()
	input.SetValue("  summarize my notes ")

	HandleKeyMsgWithEventBus(app, &input, tea.KeyMsg{Type: tea.KeyEnter}, eb)

	events := drain(eb)
	require.Len(t, events, 1)
	assert.Equal(t, eventbus.SendMessageEvent{Message: "summarize my notes"}, events[0])
	assert.Empty(t, input.Value())
}

func TestEnterOnBlankInputSendsNothing(t *testing.T) {
	eb := eventbus.NewEventBus()
	defer eb.Close()
	app := &models.AppModel{}
	input := newInput()
	input.SetValue("   ")

	HandleKeyMsgWithEventBus(app, &input, tea.KeyMsg{Type: tea.KeyEnter}, eb)
	assert.Empty(t, drain(eb))
}

func TestConfirmationKeys(t *testing.T) {
	tests := []struct {
		key  rune
		want eventbus.UIEvent
	}{
		{'y', eventbus.ConfirmationResponseEvent{Approved: true}},
		{'n', eventbus.ConfirmationResponseEvent{Approved: false}},
		{'r', eventbus.RegenerateEvent{}},
		{'s', eventbus.SkipPreviewEvent{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			eb := eventbus.NewEventBus()
			defer eb.Close()
			app := &models.AppModel{Pending: &models.Pending{TurnID: 2, Type: models.ConfirmDocCreate}}
			input := newInput()

			HandleKeyMsgWithEventBus(app, &input, runeKey(tt.key), eb)

			events := drain(eb)
			require.Len(t, events, 1)
			assert.Equal(t, tt.want, events[0])
			assert.Empty(t, input.Value())
		})
	}
}

func TestKeysTypeWhenNothingPending(t *testing.T) {
	eb := eventbus.NewEventBus()
	defer eb.Close()
	app := &models.AppModel{}
	input := newInput()

	HandleKeyMsgWithEventBus(app, &input, runeKey('y'), eb)

	assert.Empty(t, drain(eb))
	assert.Equal(t, "y", input.Value())
}

func TestHandleCoreEventStatus(t *testing.T) {
	app := &models.AppModel{SessionValid: true}

	HandleCoreEvent(app, CoreEventMsg{Event: eventbus.StateUpdateEvent{InFlight: true}})
	assert.True(t, app.Loading)
	assert.Equal(t, "Processing", app.Status)

	turns := []models.Turn{{ID: 1, Sender: models.SenderAgent, NeedsConfirmation: true, Confirmation: models.ConfirmMoveDoc}}
	HandleCoreEvent(app, CoreEventMsg{Event: eventbus.StateUpdateEvent{
		Turns:   turns,
		Pending: &models.Pending{TurnID: 1, Type: models.ConfirmMoveDoc},
	}})
	assert.False(t, app.Loading)
	assert.Equal(t, "Waiting for confirmation", app.Status)
	turn, ok := app.PendingTurn()
	require.True(t, ok)
	assert.Equal(t, uint64(1), turn.ID)

	HandleCoreEvent(app, CoreEventMsg{Event: eventbus.ActionRejectedEvent{Action: "regenerate", Reason: errors.New("not offered")}})
	assert.Equal(t, "Ignored regenerate: not offered", app.Status)

	HandleCoreEvent(app, CoreEventMsg{Event: eventbus.SessionStatusEvent{Valid: false}})
	assert.False(t, app.SessionValid)
	assert.Equal(t, sessionInvalidStatus, app.Status)
}
