package app

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/RoriForge/internal/config"
	"github.com/Rorical/RoriForge/internal/core"
	"github.com/Rorical/RoriForge/internal/dispatcher"
	"github.com/Rorical/RoriForge/internal/eventbus"
	"github.com/Rorical/RoriForge/internal/models"
	"github.com/Rorical/RoriForge/internal/transport"
)

// Application manages the complete application lifecycle
type Application struct {
	config     *config.Config
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.ChatService
	model      *AppModel
}

type AppModel struct {
	appModel   models.AppModel
	dispatcher *dispatcher.EventDispatcher
}

type Options struct {
	// ExportDir enables ctrl+s export into this directory when set.
	ExportDir string
}

func NewApplication(cfg *config.Config, opts Options) *Application {
	eb := eventbus.NewEventBus()
	eb.SetErrorCallback(func(e eventbus.EventBusError) {
		slog.Warn("event bus error", "operation", e.Operation, "error", e.Err)
	})

	disp := dispatcher.NewEventDispatcher(eb)

	// The service is created even without a valid profile so the UI can
	// show setup instructions.
	t := transport.NewHTTPTransport(cfg.GetEndpoint(), cfg.GetEndpointKey(), nil)
	chatService := core.NewChatService(cfg, t, eb)

	model := &AppModel{
		appModel:   createInitialAppModel(chatService, opts),
		dispatcher: disp,
	}

	return &Application{
		config:     cfg,
		eventBus:   eb,
		dispatcher: disp,
		service:    chatService,
		model:      model,
	}
}

func (app *Application) Start() error {
	app.service.Start()

	p := tea.NewProgram(app.model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run UI: %w", err)
	}
	return nil
}

func (app *Application) Stop() {
	app.service.Stop()
	app.dispatcher.Stop()
	app.eventBus.Close()
}

func createInitialAppModel(chatService *core.ChatService, opts Options) models.AppModel {
	// Messages arrive from the core
	return models.AppModel{
		Messages:         make([]models.Message, 0),
		Status:           "Ready",
		ChatServiceReady: chatService.IsReady(),
		ExportDir:        opts.ExportDir,
	}
}
