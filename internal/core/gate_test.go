package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/DocPilot/internal/models"
)

func TestDerivePending(t *testing.T) {
	agent := func(mut func(*models.Turn)) models.Turn {
		turn := models.Turn{ID: 7, Sender: models.SenderAgent, Text: "ok?", NeedsConfirmation: true}
		mut(&turn)
		return turn
	}

	tests := []struct {
		name string
		turn models.Turn
		ok   bool
		want *models.Pending
	}{
		{
			name: "empty log",
			ok:   false,
		},
		{
			name: "user turn",
			turn: models.Turn{ID: 1, Sender: models.SenderUser, NeedsConfirmation: true, Confirmation: models.ConfirmMoveDoc},
			ok:   true,
		},
		{
			name: "agent turn without confirmation",
			turn: agent(func(t *models.Turn) { t.NeedsConfirmation = false; t.Confirmation = models.ConfirmMoveDoc }),
			ok:   true,
		},
		{
			name: "unknown type fails open",
			turn: agent(func(t *models.Turn) { t.Confirmation = models.ConfirmNone }),
			ok:   true,
		},
		{
			name: "error turn",
			turn: agent(func(t *models.Turn) { t.Failed = true; t.Confirmation = models.ConfirmPreviewGen }),
			ok:   true,
		},
		{
			name: "preview generation ignores side actions",
			turn: agent(func(t *models.Turn) {
				t.Confirmation = models.ConfirmPreviewGen
				t.AllowRegenerate = true
				t.AllowSkip = true
			}),
			ok:   true,
			want: &models.Pending{TurnID: 7, Type: models.ConfirmPreviewGen},
		},
		{
			name: "move",
			turn: agent(func(t *models.Turn) { t.Confirmation = models.ConfirmMoveDoc }),
			ok:   true,
			want: &models.Pending{TurnID: 7, Type: models.ConfirmMoveDoc},
		},
		{
			name: "doc create with side actions",
			turn: agent(func(t *models.Turn) {
				t.Confirmation = models.ConfirmDocCreate
				t.AllowRegenerate = true
			}),
			ok:   true,
			want: &models.Pending{TurnID: 7, Type: models.ConfirmDocCreate, AllowRegenerate: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DerivePending(tt.turn, tt.ok)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestParseConfirmationType(t *testing.T) {
	assert.Equal(t, models.ConfirmPreviewGen, models.ParseConfirmationType("preview_gen"))
	assert.Equal(t, models.ConfirmDocCreate, models.ParseConfirmationType("doc_create"))
	assert.Equal(t, models.ConfirmMoveDoc, models.ParseConfirmationType("moveDoc"))
	assert.Equal(t, models.ConfirmNone, models.ParseConfirmationType("movedoc"))
	assert.Equal(t, models.ConfirmNone, models.ParseConfirmationType(""))
}

func TestMessageLogAppendOnly(t *testing.T) {
	l := NewMessageLog()
	_, ok := l.Last()
	assert.False(t, ok)

	a := l.Append(models.Turn{Sender: models.SenderUser, Text: "a"})
	b := l.Append(models.Turn{ID: 99, Sender: models.SenderAgent, Text: "b"})
	assert.Less(t, a.ID, b.ID)
	assert.NotEqual(t, uint64(99), b.ID, "IDs are assigned by the log")

	turns := l.Turns()
	turns[0].Text = "mutated"
	assert.Equal(t, "a", l.Turns()[0].Text)

	last, ok := l.Last()
	require.True(t, ok)
	assert.Equal(t, b, last)
	assert.Equal(t, 2, l.Len())
}
