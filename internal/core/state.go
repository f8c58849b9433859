package core

import (
	"sync"

	"github.com/Rorical/DocPilot/internal/models"
)

// State is the derived controller state, useful for tests and the status bar.
type State int

const (
	StateIdle State = iota
	StateAwaitingResponse
	StateAwaitingConfirmation
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingResponse:
		return "awaiting_response"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	}
	return "unknown"
}

// Snapshot is a read-only copy of the conversation handed to the UI.
type Snapshot struct {
	Turns    []models.Turn
	Pending  *models.Pending
	InFlight bool
}

func (s Snapshot) State() State {
	switch {
	case s.InFlight:
		return StateAwaitingResponse
	case s.Pending != nil:
		return StateAwaitingConfirmation
	}
	return StateIdle
}

// Conversation is the aggregate owned by the controller: the message log and
// the in-flight flag. Pending is never stored, it is derived from the log.
type Conversation struct {
	mu       sync.RWMutex
	log      *MessageLog
	inFlight bool
}

func NewConversation() *Conversation {
	return &Conversation{log: NewMessageLog()}
}

// pendingLocked must be called with mu held.
func (c *Conversation) pendingLocked() *models.Pending {
	if c.inFlight {
		return nil
	}
	last, ok := c.log.Last()
	return DerivePending(last, ok)
}

func (c *Conversation) Pending() *models.Pending {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pendingLocked()
}

func (c *Conversation) InFlight() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inFlight
}

func (c *Conversation) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Turns:    c.log.Turns(),
		Pending:  c.pendingLocked(),
		InFlight: c.inFlight,
	}
}

// Begin acquires the in-flight slot. check runs under the lock against the
// current pending confirmation; a non-nil result aborts without any change.
// When echo is non-empty a user turn is appended atomically with acquisition.
func (c *Conversation) Begin(check func(p *models.Pending) error, echo string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		return reject(ErrBusy)
	}
	if check != nil {
		if err := check(c.pendingLocked()); err != nil {
			return err
		}
	}

	c.inFlight = true
	if echo != "" {
		c.log.Append(models.Turn{Sender: models.SenderUser, Text: echo})
	}
	return nil
}

// FinishWithReply appends the agent turn and releases the in-flight slot.
func (c *Conversation) FinishWithReply(turn models.Turn) models.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()

	turn.Sender = models.SenderAgent
	stored := c.log.Append(turn)
	c.inFlight = false
	return stored
}

// FinishWithError appends a synthetic error turn, clears pending and releases
// the in-flight slot.
func (c *Conversation) FinishWithError(text string) models.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := c.log.Append(models.Turn{
		Sender: models.SenderAgent,
		Text:   text,
		Failed: true,
	})
	c.inFlight = false
	return stored
}

// Release frees the in-flight slot if no finish step ran.
func (c *Conversation) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
}
