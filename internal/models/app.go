package models

// AppModel represents the UI state - only local UI concerns
type AppModel struct {
	Banner       []string // Program lines shown above the conversation
	Turns        []Turn   // Snapshot of the message log from core
	Pending      *Pending // Confirmation offered by the last agent turn
	Status       string   // Status bar text
	Loading      bool     // A request is in flight
	Width        int      // Terminal width
	Height       int      // Terminal height
	SessionValid bool     // Cleared when the backend rejects our credential
}

// PendingTurn returns the turn the pending confirmation refers to.
func (m *AppModel) PendingTurn() (Turn, bool) {
	if m.Pending == nil || len(m.Turns) == 0 {
		return Turn{}, false
	}
	last := m.Turns[len(m.Turns)-1]
	if last.ID != m.Pending.TurnID {
		return Turn{}, false
	}
	return last, true
}
