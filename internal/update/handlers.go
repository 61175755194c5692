package update

import (
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/RoriForge/internal/eventbus"
	"github.com/Rorical/RoriForge/internal/models"
)

// HandleKeyMsgWithEventBus handles keyboard input using event bus
func HandleKeyMsgWithEventBus(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus, chatReady bool) tea.Cmd {
	switch keyMsg.String() {
	case "ctrl+c", "esc":
		return tea.Quit
	case "enter":
		if strings.TrimSpace(appModel.Input) == "" {
			return nil
		}
		if !chatReady {
			appModel.Input = ""
			appModel.Status = "Chat service not available"
			return nil
		}
		if appModel.Loading {
			appModel.Status = "Wait for the current reply to finish"
			return nil
		}
		if err := eb.SendToCore(eventbus.SendMessageEvent{Message: appModel.Input}); err != nil {
			appModel.Status = "Error sending message: " + err.Error()
			return nil
		}
		appModel.Input = ""
	case "tab":
		sendToCore(appModel, eb, eventbus.SelectFileEvent{Step: 1})
	case "shift+tab":
		sendToCore(appModel, eb, eventbus.SelectFileEvent{Step: -1})
	case "ctrl+s":
		if appModel.ExportDir == "" {
			appModel.Status = "Export disabled: start with --out <dir>"
			return nil
		}
		sendToCore(appModel, eb, eventbus.ExportEvent{Dir: appModel.ExportDir})
	case "backspace":
		if len(appModel.Input) > 0 {
			_, size := utf8.DecodeLastRuneInString(appModel.Input)
			appModel.Input = appModel.Input[:len(appModel.Input)-size]
		}
	default:
		switch keyMsg.Type {
		case tea.KeyRunes:
			appModel.Input += string(keyMsg.Runes)
		case tea.KeySpace:
			appModel.Input += " "
		}
	}
	return nil
}

func sendToCore(appModel *models.AppModel, eb *eventbus.EventBus, event eventbus.UIEvent) {
	if err := eb.SendToCore(event); err != nil {
		appModel.Status = "Error: " + err.Error()
	}
}

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.StateUpdateEvent:
		appModel.Messages = event.Messages
		appModel.Loading = event.IsProcessing
		if event.IsProcessing {
			appModel.Status = "Processing"
		} else if appModel.Status == "Processing" || appModel.Status == "" {
			appModel.Status = "Ready"
		}
	case eventbus.WorkspaceUpdateEvent:
		appModel.Files = event.Files
		appModel.Preview = event.Preview
		appModel.PreviewLanguage = event.Language
	case eventbus.FileOperationEvent:
		appModel.Status = "Applying " + event.Summary
	case eventbus.NoticeEvent:
		appModel.Status = event.Text
	}

	return nil
}

type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
}

func HandleTickMsg(appModel *models.AppModel) tea.Cmd {
	if appModel.Loading {
		appModel.LoadingDots = (appModel.LoadingDots + 1) % 4
	}
	return TickCmd()
}
