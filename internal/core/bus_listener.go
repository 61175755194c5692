package core

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/Rorical/RoriForge/internal/directive"
	"github.com/Rorical/RoriForge/internal/eventbus"
	"github.com/Rorical/RoriForge/internal/models"
	"github.com/Rorical/RoriForge/internal/workspace"
)

// busListener forwards service notifications to the UI over the event bus.
type busListener struct {
	eventBus *eventbus.EventBus
}

func (b busListener) HistoryChanged(messages []models.Message, processing bool) {
	event := eventbus.StateUpdateEvent{Messages: messages, IsProcessing: processing}
	if processing {
		b.eventBus.TrySendToUI(event)
		return
	}
	b.send(event)
}

func (b busListener) FileOperation(op directive.Operation) {
	b.eventBus.TrySendToUI(eventbus.FileOperationEvent{Summary: op.String()})
}

func (b busListener) TurnFinished(result TurnResult) {
	if result.Err != nil {
		b.send(eventbus.NoticeEvent{Text: "Error: " + result.Err.Error()})
		return
	}
	b.send(workspaceEvent(result.Workspace))
	b.send(eventbus.NoticeEvent{Text: turnSummary(result)})
}

func (b busListener) send(event eventbus.CoreEvent) {
	if err := b.eventBus.SendToUI(event); err != nil {
		slog.Warn("failed to send event to UI", "error", err)
	}
}

// workspaceEvent lists folders and files for the file panel, each folder
// before its contents.
func workspaceEvent(s workspace.State) eventbus.WorkspaceUpdateEvent {
	folders := s.Folders()
	paths := s.Paths()
	entries := make([]models.FileEntry, 0, len(folders)+len(paths))
	for _, f := range folders {
		entries = append(entries, models.FileEntry{Path: f, IsFolder: true})
	}
	for _, p := range paths {
		entries = append(entries, models.FileEntry{Path: p, Active: p == s.Active})
	}
	sortEntries(entries)

	content, _ := s.Get(s.Active)
	return eventbus.WorkspaceUpdateEvent{
		Files:    entries,
		Preview:  content,
		Language: s.Languages[s.Active],
	}
}

func sortEntries(entries []models.FileEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := strings.Split(entries[i].Path, "/"), strings.Split(entries[j].Path, "/")
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return entries[i].IsFolder && !entries[j].IsFolder
	})
}

func turnSummary(result TurnResult) string {
	if len(result.Effects) == 0 {
		return "Ready"
	}
	return fmt.Sprintf("Ready - %d change(s) applied", len(result.Effects))
}
