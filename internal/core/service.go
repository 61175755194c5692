package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Rorical/RoriForge/internal/config"
	"github.com/Rorical/RoriForge/internal/directive"
	"github.com/Rorical/RoriForge/internal/eventbus"
	"github.com/Rorical/RoriForge/internal/metrics"
	"github.com/Rorical/RoriForge/internal/models"
	"github.com/Rorical/RoriForge/internal/stream"
	"github.com/Rorical/RoriForge/internal/transport"
	"github.com/Rorical/RoriForge/internal/workspace"
)

var ErrEmptyMessage = errors.New("message is empty")

// ChatService runs conversation turns: it streams the reply into the
// history and, once the reply is complete, applies its directives to the
// workspace.
type ChatService struct {
	transport transport.Transport
	config    *config.Config
	state     *ChatState
	store     *workspace.Store
	eventBus  *eventbus.EventBus
	listeners []Listener
	logger    *slog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewChatService creates a service for cfg. eb may be nil for headless use;
// when set, the UI receives updates through it.
func NewChatService(cfg *config.Config, t transport.Transport, eb *eventbus.EventBus, listeners ...Listener) *ChatService {
	ctx, cancel := context.WithCancel(context.Background())

	service := &ChatService{
		transport: t,
		config:    cfg,
		state:     NewChatState(),
		store:     workspace.NewStore(),
		eventBus:  eb,
		listeners: listeners,
		logger:    slog.Default().With("component", "chat"),
		ctx:       ctx,
		cancel:    cancel,
	}
	if eb != nil {
		service.listeners = append(service.listeners, busListener{eventBus: eb})
	}

	service.addWelcomeMessages(cfg)

	return service
}

// Start pushes the initial state and serves UI events in a goroutine
func (cs *ChatService) Start() {
	cs.publish()
	cs.publishWorkspace()
	if cs.eventBus != nil {
		go cs.eventLoop()
	}
}

func (cs *ChatService) Stop() {
	cs.cancel()
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
			cs.handleUIEvent(event)
		}
	}
}

func (cs *ChatService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.SendMessageEvent:
		// Errors already reached the UI through the listeners
		_, _ = cs.Send(cs.ctx, e.Message)
	case eventbus.SelectFileEvent:
		cs.store.Cycle(e.Step)
		cs.publishWorkspace()
	case eventbus.ExportEvent:
		cs.notice(cs.export(e.Dir))
	}
}

// Send runs one turn for text and blocks until the reply has been streamed
// and its directives applied. It returns ErrTurnInFlight if another turn is
// running. Transport failures abort the turn without touching the workspace.
func (cs *ChatService) Send(ctx context.Context, text string) (TurnResult, error) {
	if strings.TrimSpace(text) == "" {
		return TurnResult{}, ErrEmptyMessage
	}
	if err := cs.state.BeginTurn(text); err != nil {
		metrics.TurnsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return TurnResult{}, err
	}

	result := TurnResult{ID: uuid.NewString()}
	log := cs.logger.With("turn", result.ID)
	log.Info("turn started", "history", len(cs.state.GetChatHistory()))
	cs.publish()

	reply, err := cs.streamReply(ctx, log)
	if err != nil {
		log.Error("turn failed", "error", err)
		metrics.TurnsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		cs.state.FailTurn(err)
		result.Err = err
		result.Workspace = cs.store.Snapshot()
		cs.publish()
		cs.finish(result)
		return result, err
	}

	result.Reply = reply
	result.Operations = directive.Extract(reply)
	for _, op := range result.Operations {
		metrics.OperationsTotal.WithLabelValues(string(op.Kind)).Inc()
		for _, l := range cs.listeners {
			l.FileOperation(op)
		}
	}
	result.Workspace, result.Effects = cs.store.Apply(result.Operations)

	notes := make([]string, len(result.Effects))
	for i, e := range result.Effects {
		notes[i] = e.String()
	}
	cs.state.CompleteTurn(notes)
	metrics.TurnsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	log.Info("turn finished",
		"reply_bytes", len(reply),
		"operations", len(result.Operations),
		"effects", len(result.Effects))

	cs.publish()
	cs.finish(result)
	return result, nil
}

// streamReply opens the stream and folds its deltas into the in-progress
// assistant message, publishing after every delta.
func (cs *ChatService) streamReply(ctx context.Context, log *slog.Logger) (string, error) {
	body, err := cs.transport.Open(ctx, cs.state.GetChatHistory())
	if err != nil {
		return "", fmt.Errorf("failed to start stream: %w", err)
	}
	defer body.Close()

	var acc stream.Accumulator
	decoder := stream.NewDecoder(log)
	err = stream.ReadFrames(ctx, body, decoder, func(f stream.Frame) error {
		if f.Kind != stream.FrameDelta {
			return nil
		}
		cs.state.UpsertAssistant(acc.Add(f.Delta))
		cs.publish()
		return nil
	})
	if err != nil {
		return "", err
	}

	log.Debug("stream finished", "deltas", acc.Deltas(), "sentinel", decoder.Done())
	return acc.Text(), nil
}

func (cs *ChatService) publish() {
	messages := cs.state.GetMessages()
	processing := cs.state.IsProcessing()
	for _, l := range cs.listeners {
		l.HistoryChanged(messages, processing)
	}
}

func (cs *ChatService) finish(result TurnResult) {
	for _, l := range cs.listeners {
		l.TurnFinished(result)
	}
}

func (cs *ChatService) publishWorkspace() {
	if cs.eventBus == nil {
		return
	}
	if err := cs.eventBus.SendToUI(workspaceEvent(cs.store.Snapshot())); err != nil {
		cs.logger.Warn("failed to send workspace to UI", "error", err)
	}
}

func (cs *ChatService) notice(text string) {
	if cs.eventBus == nil {
		return
	}
	if err := cs.eventBus.SendToUI(eventbus.NoticeEvent{Text: text}); err != nil {
		cs.logger.Warn("failed to send notice to UI", "error", err)
	}
}

func (cs *ChatService) export(dir string) string {
	n, err := workspace.Export(cs.store.Snapshot(), dir)
	if err != nil {
		cs.logger.Error("export failed", "dir", dir, "error", err)
		return "Export failed: " + err.Error()
	}
	cs.logger.Info("exported workspace", "dir", dir, "files", n)
	return fmt.Sprintf("Exported %d file(s) to %s", n, dir)
}

// Workspace returns a copy of the current project state.
func (cs *ChatService) Workspace() workspace.State {
	return cs.store.Snapshot()
}

// History returns the conversation sent to the endpoint on the next turn.
func (cs *ChatService) History() []models.ChatMessage {
	return cs.state.GetChatHistory()
}

func (cs *ChatService) IsReady() bool {
	return cs.config.IsValid()
}

// GetInitialMessages returns the initial messages for printing to terminal
func (cs *ChatService) GetInitialMessages() []models.Message {
	return cs.state.GetMessages()
}

func (cs *ChatService) addWelcomeMessages(cfg *config.Config) {
	cs.state.AddProgramMessage("-- RORIFORGE --")

	if cfg.IsValid() {
		cs.state.AddProgramMessage(fmt.Sprintf("Active Profile: %s [OK] -> %s", cfg.ActiveProfile, cfg.GetEndpoint()))
		cs.state.AddProgramMessage("Describe what to build and press Enter")
	} else {
		cs.state.AddProgramMessage(fmt.Sprintf("Active Profile: %s [NOT CONFIGURED]", cfg.ActiveProfile))
		cs.state.AddProgramMessage("Configure your profile to start chatting:")
		cs.state.AddProgramMessage("• Run: roriforge profile add <name>")
		cs.state.AddProgramMessage("• Or edit: ~/.roriforge/config.json")
	}

	cs.state.AddProgramMessage("Controls: Tab to switch files, Ctrl+S to export, Ctrl+C or Esc to exit")
	cs.state.AddProgramMessage("")
}
