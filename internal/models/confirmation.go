package models

// ConfirmationType is the closed set of actions an agent turn can gate on.
type ConfirmationType int

const (
	ConfirmNone ConfirmationType = iota
	ConfirmPreviewGen
	ConfirmDocCreate
	ConfirmMoveDoc
)

// Wire names used by the agent backend.
const (
	wirePreviewGen = "preview_gen"
	wireDocCreate  = "doc_create"
	wireMoveDoc    = "moveDoc"
)

// ParseConfirmationType maps the backend's confirmationType string onto the
// closed set. Unknown or empty values become ConfirmNone.
func ParseConfirmationType(s string) ConfirmationType {
	switch s {
	case wirePreviewGen:
		return ConfirmPreviewGen
	case wireDocCreate:
		return ConfirmDocCreate
	case wireMoveDoc:
		return ConfirmMoveDoc
	default:
		return ConfirmNone
	}
}

func (c ConfirmationType) String() string {
	switch c {
	case ConfirmPreviewGen:
		return wirePreviewGen
	case ConfirmDocCreate:
		return wireDocCreate
	case ConfirmMoveDoc:
		return wireMoveDoc
	}
	return "none"
}

// Label is the human wording shown next to the confirmation buttons.
func (c ConfirmationType) Label() string {
	switch c {
	case ConfirmPreviewGen:
		return "Generate a preview?"
	case ConfirmDocCreate:
		return "Create this document?"
	case ConfirmMoveDoc:
		return "Move this document?"
	}
	return ""
}

// Pending is the outstanding confirmation context derived from the last turn.
type Pending struct {
	TurnID          uint64
	Type            ConfirmationType
	AllowRegenerate bool
	AllowSkip       bool
}
