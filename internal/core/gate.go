package core

import (
	"github.com/Rorical/DocPilot/internal/models"
)

// DerivePending computes the outstanding confirmation from the last turn of
// the log. ok is false when the log is empty.
//
// Only agent turns that ask for confirmation with a recognized type gate the
// conversation. Side actions are taken from this turn alone and are only
// offered for document creation.
func DerivePending(last models.Turn, ok bool) *models.Pending {
	if !ok || !last.IsAgent() || last.Failed || !last.NeedsConfirmation {
		return nil
	}

	pending := &models.Pending{TurnID: last.ID, Type: last.Confirmation}
	switch last.Confirmation {
	case models.ConfirmPreviewGen, models.ConfirmMoveDoc:
	case models.ConfirmDocCreate:
		pending.AllowRegenerate = last.AllowRegenerate
		pending.AllowSkip = last.AllowSkip
	default:
		return nil
	}
	return pending
}
