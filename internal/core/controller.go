package core

import (
	"context"
	"errors"
	"strings"

	"github.com/Rorical/DocPilot/internal/logger"
	"github.com/Rorical/DocPilot/internal/models"
	"github.com/Rorical/DocPilot/internal/transport"
)

// Transport sends one turn to the agent backend.
type Transport interface {
	Send(ctx context.Context, turn transport.TurnRequest) (*transport.AgentReply, error)
}

// SessionNotifier is told when the backend rejects the credential.
type SessionNotifier interface {
	OnUnauthenticated()
}

// Observer receives a snapshot whenever the conversation changes.
type Observer interface {
	StateChanged(snapshot Snapshot)
}

type ControllerOptions struct {
	Transport Transport
	Session   SessionNotifier
	Observer  Observer
	Logger    logger.Logger
}

// Controller is the single entry point for the UI. At most one request is in
// flight; submissions made meanwhile are rejected, never queued.
type Controller struct {
	conv      *Conversation
	transport Transport
	session   SessionNotifier
	observer  Observer
	log       logger.Logger
}

func NewController(opts ControllerOptions) *Controller {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{
		conv:      NewConversation(),
		transport: opts.Transport,
		session:   opts.Session,
		observer:  opts.Observer,
		log:       log,
	}
}

// SetObserver replaces the observer. Call before the first submission.
func (c *Controller) SetObserver(o Observer) {
	c.observer = o
}

func (c *Controller) Snapshot() Snapshot {
	return c.conv.Snapshot()
}

func (c *Controller) State() State {
	return c.conv.Snapshot().State()
}

func (c *Controller) Pending() *models.Pending {
	return c.conv.Pending()
}

// SubmitMessage echoes text as a user turn and sends it. Backend failures end
// up as an error turn; only local rejections are returned.
func (c *Controller) SubmitMessage(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return reject(ErrEmptyMessage)
	}
	if err := c.conv.Begin(nil, text); err != nil {
		return c.rejected("message", err)
	}
	c.exchange(ctx, "message", transport.TurnRequest{Message: text})
	return nil
}

// SubmitConfirmation answers the pending confirmation.
func (c *Controller) SubmitConfirmation(ctx context.Context, choice bool) error {
	if err := c.conv.Begin(requirePending, ""); err != nil {
		return c.rejected("confirmation", err)
	}
	c.exchange(ctx, "confirmation", transport.TurnRequest{Confirmation: &choice})
	return nil
}

// SubmitRegenerate asks for a new preview of the pending document.
func (c *Controller) SubmitRegenerate(ctx context.Context) error {
	check := func(p *models.Pending) error {
		if p == nil {
			return reject(ErrNoPendingConfirmation)
		}
		if !p.AllowRegenerate {
			return reject(ErrRegenerateNotOffered)
		}
		return nil
	}
	if err := c.conv.Begin(check, ""); err != nil {
		return c.rejected("regenerate", err)
	}
	c.exchange(ctx, "regenerate", transport.TurnRequest{Regenerate: true})
	return nil
}

// SubmitSkipPreview creates the pending document without a preview.
func (c *Controller) SubmitSkipPreview(ctx context.Context) error {
	check := func(p *models.Pending) error {
		if p == nil {
			return reject(ErrNoPendingConfirmation)
		}
		if !p.AllowSkip {
			return reject(ErrSkipNotOffered)
		}
		return nil
	}
	if err := c.conv.Begin(check, ""); err != nil {
		return c.rejected("skip_preview", err)
	}
	c.exchange(ctx, "skip_preview", transport.TurnRequest{SkipPreview: true})
	return nil
}

func requirePending(p *models.Pending) error {
	if p == nil {
		return reject(ErrNoPendingConfirmation)
	}
	return nil
}

func (c *Controller) rejected(action string, err error) error {
	c.log.Debug("core", "submission rejected", map[string]interface{}{
		"action": action,
		"reason": err.Error(),
	})
	return err
}

// exchange runs with the in-flight slot held and always releases it.
func (c *Controller) exchange(ctx context.Context, action string, req transport.TurnRequest) {
	defer c.conv.Release()
	c.notify()

	reply, err := c.transport.Send(ctx, req)
	if err == nil && reply == nil {
		err = &transport.Error{Kind: transport.KindProtocol, Message: "empty response"}
	}

	if err != nil {
		c.fail(action, err)
		c.notify()
		return
	}

	stored := c.conv.FinishWithReply(turnFromReply(reply))
	c.log.Info("core", "agent turn appended", map[string]interface{}{
		"action":       action,
		"turn_id":      stored.ID,
		"request_id":   stored.RequestID,
		"confirmation": stored.Confirmation.String(),
	})
	c.notify()
}

func (c *Controller) fail(action string, err error) {
	text := "Error: request failed"
	var te *transport.Error
	if errors.As(err, &te) {
		text = "Error: " + te.UserMessage()
	}

	stored := c.conv.FinishWithError(text)
	c.log.Warn("core", "turn failed", map[string]interface{}{
		"action":  action,
		"turn_id": stored.ID,
		"kind":    transport.KindOf(err).String(),
		"error":   err.Error(),
	})

	if transport.IsAuth(err) && c.session != nil {
		c.session.OnUnauthenticated()
	}
}

func (c *Controller) notify() {
	if c.observer != nil {
		c.observer.StateChanged(c.conv.Snapshot())
	}
}

func turnFromReply(reply *transport.AgentReply) models.Turn {
	turn := models.Turn{
		Sender:            models.SenderAgent,
		Text:              reply.Message,
		NeedsConfirmation: reply.NeedsConfirmation,
		RequestID:         reply.RequestID,
	}
	if reply.NeedsConfirmation {
		turn.Confirmation = models.ParseConfirmationType(reply.ConfirmationType)
		turn.FileName = reply.FileName
		turn.Preview = reply.Preview
	}
	if turn.Confirmation == models.ConfirmDocCreate {
		turn.AllowRegenerate = reply.AllowRegenerate
		turn.AllowSkip = reply.AllowSkip
	}
	return turn
}
