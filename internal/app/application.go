package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/DocPilot/internal/config"
	"github.com/Rorical/DocPilot/internal/core"
	"github.com/Rorical/DocPilot/internal/dispatcher"
	"github.com/Rorical/DocPilot/internal/eventbus"
	"github.com/Rorical/DocPilot/internal/logger"
	"github.com/Rorical/DocPilot/internal/models"
	"github.com/Rorical/DocPilot/internal/transport"
	"github.com/Rorical/DocPilot/internal/update"
)

const welcomeText = "Hello! How can I help you with your Google Drive files today?"

// Application manages the complete application lifecycle
type Application struct {
	config     *config.Config
	log        *logger.ZapLogger
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.ChatService
	model      *AppModel
}

type AppModel struct {
	appModel   models.AppModel
	widgets    update.Widgets
	dispatcher *dispatcher.EventDispatcher
}

func NewApplication() (*Application, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.NewFileLogger(cfg.LogPath(), cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	eb := eventbus.NewEventBus()
	eb.SetErrorCallback(func(e eventbus.EventBusError) {
		log.Warn("eventbus", "send failed", map[string]interface{}{"operation": e.Operation, "error": e.Err.Error()})
	})
	disp := dispatcher.NewEventDispatcher(eb)

	// The service is created after the guard, so the guard reaches it lazily.
	var service *core.ChatService
	client, guard, err := NewClient(cfg, log, func() {
		if service != nil {
			service.NotifySessionInvalid()
		}
	})
	if err != nil {
		return nil, err
	}

	controller := core.NewController(core.ControllerOptions{
		Transport: client,
		Session:   guard,
		Logger:    log,
	})
	service = core.NewChatService(controller, eb, client, log)

	model := &AppModel{
		appModel:   createInitialAppModel(cfg),
		widgets:    newWidgets(),
		dispatcher: disp,
	}

	log.Info("app", "application created", map[string]interface{}{
		"profile": cfg.ActiveProfile,
		"backend": cfg.GetBackendURL(),
		"auth":    cfg.GetAuthMode(),
	})

	return &Application{
		config:     cfg,
		log:        log,
		eventBus:   eb,
		dispatcher: disp,
		service:    service,
		model:      model,
	}, nil
}

// NewClient builds the transport client and its session guard from the
// active profile.
func NewClient(cfg *config.Config, log logger.Logger, onUnauthenticated func()) (*transport.Client, transport.SessionGuard, error) {
	var guard transport.SessionGuard
	switch cfg.GetAuthMode() {
	case config.AuthCookie:
		guard = transport.NewCookieGuard(cfg.GetCookieName(), cfg.GetToken(), onUnauthenticated)
	default:
		guard = transport.NewBearerGuard(cfg.GetToken(), onUnauthenticated)
	}

	client, err := transport.NewClient(transport.Options{
		BaseURL: cfg.GetBackendURL(),
		Guard:   guard,
		Timeout: cfg.GetTimeout(),
		Logger:  log,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create agent client: %w", err)
	}
	return client, guard, nil
}

func (app *Application) Start() error {
	app.service.Start()

	p := tea.NewProgram(app.model, tea.WithAltScreen())
	_, err := p.Run()

	return err
}

func (app *Application) Stop() {
	app.service.Stop()
	app.eventBus.Close()
	_ = app.log.Sync()
}

func newWidgets() update.Widgets {
	input := textinput.New()
	input.Placeholder = "Ask about your files..."
	input.Prompt = "> "
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return update.Widgets{Input: input, Spinner: sp}
}

func createInitialAppModel(cfg *config.Config) models.AppModel {
	banner := []string{
		"-- DOCPILOT --",
		welcomeText,
	}
	if cfg.IsValid() {
		banner = append(banner, fmt.Sprintf("Active Profile: %s [OK]", cfg.ActiveProfile))
	} else {
		banner = append(banner,
			fmt.Sprintf("Active Profile: %s [NOT CONFIGURED]", cfg.ActiveProfile),
			"Run: docpilot profile add <name>",
		)
	}
	banner = append(banner, "Enter to send, y/n/r/s to answer a confirmation, Esc or Ctrl+C to exit")

	// Turns start empty; the core is the single source of truth.
	return models.AppModel{
		Banner:       banner,
		Turns:        make([]models.Turn, 0),
		Status:       "Ready",
		SessionValid: cfg.IsValid(),
	}
}
