package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/RoriForge/internal/update"
	"github.com/Rorical/RoriForge/ui/components"
)

// The file panel is shown beside the chat once the terminal is this wide.
const (
	minSplitWidth = 90
	panelRatio    = 0.4
)

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		update.TickCmd(),
		m.dispatcher.ListenForCoreEvents(),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle core events and continue listening
	if coreEvent, ok := msg.(update.CoreEventMsg); ok {
		cmd := update.HandleCoreEvent(&m.appModel, coreEvent)
		return m, tea.Batch(cmd, m.dispatcher.ListenForCoreEvents())
	}

	eventBus := m.dispatcher.GetEventBus()
	chatReady := m.appModel.ChatServiceReady
	cmd := update.HandleUpdateWithEventBus(&m.appModel, msg, eventBus, chatReady)

	return m, cmd
}

func (m *AppModel) View() string {
	a := &m.appModel
	chatWidth, panelWidth := a.Width, 0
	if a.Width >= minSplitWidth {
		panelWidth = int(float64(a.Width) * panelRatio)
		chatWidth = a.Width - panelWidth
	}

	footer := components.RenderInput(a.Input, a.Loading, chatWidth) + "\n" +
		components.RenderStatus(a.Status, a.Loading, a.LoadingDots, chatWidth)
	chatHeight := a.Height - lipgloss.Height(footer)
	chat := tail(components.RenderMessages(a.Messages), chatHeight)

	left := lipgloss.NewStyle().Width(chatWidth).Height(max(chatHeight, 0)).Render(chat) + "\n" + footer
	if panelWidth == 0 {
		return left
	}

	panel := components.RenderFiles(a.Files, a.Preview, a.PreviewLanguage, panelWidth, a.Height)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, panel)
}

// tail keeps the last n lines so the newest messages stay on screen.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if n <= 0 {
		return ""
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
