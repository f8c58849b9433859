package models

type Sender int

const (
	SenderUser Sender = iota
	SenderAgent
	// SenderProgram lines are local banners rendered by the UI, never logged.
	SenderProgram
)

func (s Sender) String() string {
	switch s {
	case SenderUser:
		return "user"
	case SenderAgent:
		return "agent"
	case SenderProgram:
		return "program"
	}
	return "unknown"
}

// Turn is one chat bubble. Turns are immutable once appended to the log.
type Turn struct {
	ID     uint64
	Sender Sender
	Text   string

	NeedsConfirmation bool
	Confirmation      ConfirmationType
	AllowRegenerate   bool
	AllowSkip         bool

	// Preview details reported alongside a confirmation, if any.
	FileName string
	Preview  string

	RequestID string // request that produced this agent turn
	Failed    bool   // synthetic error turn
}

// IsAgent reports whether the turn was authored by the agent (including error turns).
func (t Turn) IsAgent() bool {
	return t.Sender == SenderAgent
}
