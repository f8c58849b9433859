package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/Rorical/DocPilot/internal/eventbus"
	"github.com/Rorical/DocPilot/internal/logger"
)

// SessionChecker probes whether the configured credential is accepted.
type SessionChecker interface {
	CheckSession(ctx context.Context) (string, error)
}

// ChatService connects the controller to the UI through the event bus.
type ChatService struct {
	controller *Controller
	eventBus   *eventbus.EventBus
	checker    SessionChecker
	log        logger.Logger
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewChatService registers itself as the controller's observer.
func NewChatService(controller *Controller, eb *eventbus.EventBus, checker SessionChecker, log logger.Logger) *ChatService {
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	service := &ChatService{
		controller: controller,
		eventBus:   eb,
		checker:    checker,
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
	}
	controller.SetObserver(service)
	return service
}

// Start runs the event loop in a goroutine and probes the session once.
func (cs *ChatService) Start() {
	cs.pushState(cs.controller.Snapshot())

	if cs.checker != nil {
		cs.wg.Add(1)
		go func() {
			defer cs.wg.Done()
			cs.probeSession()
		}()
	}

	cs.wg.Add(1)
	go func() {
		defer cs.wg.Done()
		cs.eventLoop()
	}()
}

// Stop cancels the loop and waits for in-flight handlers. A request already
// sent is not cancelled; its outcome is still applied to the log.
func (cs *ChatService) Stop() {
	cs.cancel()
	cs.wg.Wait()
}

func (cs *ChatService) eventLoop() {
	for {
		select {
		case <-cs.ctx.Done():
			return
		case event, ok := <-cs.eventBus.UIToCore():
			if !ok {
				return
			}
			// Each submission runs on its own goroutine so that a second
			// submission meets the in-flight guard instead of waiting behind
			// the first.
			cs.wg.Add(1)
			go func() {
				defer cs.wg.Done()
				cs.handleUIEvent(event)
			}()
		}
	}
}

func (cs *ChatService) handleUIEvent(event eventbus.UIEvent) {
	// Requests run to completion even if the service is stopping.
	ctx := context.WithoutCancel(cs.ctx)

	var action string
	var err error
	switch e := event.(type) {
	case eventbus.SendMessageEvent:
		action, err = "message", cs.controller.SubmitMessage(ctx, e.Message)
	case eventbus.ConfirmationResponseEvent:
		action, err = "confirmation", cs.controller.SubmitConfirmation(ctx, e.Approved)
	case eventbus.RegenerateEvent:
		action, err = "regenerate", cs.controller.SubmitRegenerate(ctx)
	case eventbus.SkipPreviewEvent:
		action, err = "skip_preview", cs.controller.SubmitSkipPreview(ctx)
	default:
		cs.log.Warn("service", "unknown UI event", map[string]interface{}{
			"type": fmt.Sprintf("%T", event),
		})
		return
	}

	if err != nil {
		cs.send(eventbus.ActionRejectedEvent{Action: action, Reason: err})
	}
}

func (cs *ChatService) probeSession() {
	userID, err := cs.checker.CheckSession(cs.ctx)
	if err != nil {
		cs.log.Warn("service", "session probe failed", map[string]interface{}{"error": err.Error()})
		cs.send(eventbus.SessionStatusEvent{Valid: false, Err: err})
		return
	}
	cs.log.Info("service", "session valid", map[string]interface{}{"user_id": userID})
	cs.send(eventbus.SessionStatusEvent{Valid: true, UserID: userID})
}

// StateChanged implements Observer.
func (cs *ChatService) StateChanged(snapshot Snapshot) {
	cs.pushState(snapshot)
}

// NotifySessionInvalid is wired as the session guard's callback.
func (cs *ChatService) NotifySessionInvalid() {
	cs.send(eventbus.SessionStatusEvent{Valid: false, Err: fmt.Errorf("session rejected by backend")})
}

func (cs *ChatService) pushState(snapshot Snapshot) {
	cs.send(eventbus.StateUpdateEvent{
		Turns:    snapshot.Turns,
		Pending:  snapshot.Pending,
		InFlight: snapshot.InFlight,
	})
}

func (cs *ChatService) send(event eventbus.CoreEvent) {
	if err := cs.eventBus.SendToUI(event); err != nil {
		cs.log.Error("service", "failed to send event to UI", map[string]interface{}{
			"event": fmt.Sprintf("%T", event),
			"error": err.Error(),
		})
	}
}
