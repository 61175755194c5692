package core

import (
	"errors"
	"sync"

	"github.com/Rorical/RoriForge/internal/directive"
	"github.com/Rorical/RoriForge/internal/models"
)

// ErrTurnInFlight is returned when a message is sent while the previous
// reply is still streaming.
var ErrTurnInFlight = errors.New("a reply is still streaming")

// ChatState manages the conversation state for event-driven architecture
type ChatState struct {
	mu              sync.RWMutex
	chatHistory     []models.ChatMessage // Single source of truth for conversation
	programMessages []models.Message     // Program messages (welcome, status, etc.)
	notes           map[int][]string     // Effect lines shown after a history entry
	isProcessing    bool
	streaming       bool // last history entry is the reply receiving deltas
	lastError       error
}

func NewChatState() *ChatState {
	return &ChatState{
		chatHistory:     make([]models.ChatMessage, 0),
		programMessages: make([]models.Message, 0),
		notes:           make(map[int][]string),
	}
}

func (cs *ChatState) GetChatHistory() []models.ChatMessage {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	result := make([]models.ChatMessage, len(cs.chatHistory))
	copy(result, cs.chatHistory)
	return result
}

// GetMessages renders the history for display. Directive bodies are
// redacted from assistant replies; effects follow the reply that caused them.
func (cs *ChatState) GetMessages() []models.Message {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	result := make([]models.Message, 0, len(cs.programMessages)+len(cs.chatHistory))
	result = append(result, cs.programMessages...)

	last := len(cs.chatHistory) - 1
	for i, msg := range cs.chatHistory {
		if msg.IsAssistant() {
			result = append(result, models.Message{
				Content:   directive.Redact(msg.Content),
				Type:      models.Assistant,
				Streaming: cs.streaming && i == last,
			})
		} else {
			result = append(result, models.Message{
				Content: msg.Content,
				Type:    models.User,
			})
		}
		for _, note := range cs.notes[i] {
			result = append(result, models.Message{Content: note, Type: models.Effect})
		}
	}

	return result
}

func (cs *ChatState) IsProcessing() bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.isProcessing
}

func (cs *ChatState) IsStreaming() bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.streaming
}

func (cs *ChatState) GetLastError() error {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.lastError
}

// AddProgramMessage adds a program message (system notifications)
func (cs *ChatState) AddProgramMessage(content string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.programMessages = append(cs.programMessages, models.Message{
		Content: content,
		Type:    models.Program,
	})
}

// BeginTurn marks the state as processing and appends the user message. It
// fails with ErrTurnInFlight, leaving the history untouched, if a turn is
// already running.
func (cs *ChatState) BeginTurn(content string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.isProcessing {
		return ErrTurnInFlight
	}
	cs.isProcessing = true
	cs.streaming = false
	cs.lastError = nil
	cs.chatHistory = append(cs.chatHistory, models.UserMessage(content))
	return nil
}

// UpsertAssistant publishes the full reply text so far. The first call of a
// turn appends the assistant message; later calls replace its content.
func (cs *ChatState) UpsertAssistant(content string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if last := len(cs.chatHistory) - 1; cs.streaming && last >= 0 && cs.chatHistory[last].IsAssistant() {
		cs.chatHistory[last].Content = content
		return
	}
	cs.chatHistory = append(cs.chatHistory, models.AssistantMessage(content))
	cs.streaming = true
}

// CompleteTurn ends a successful turn and attaches effect lines to the reply.
func (cs *ChatState) CompleteTurn(notes []string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if len(notes) > 0 && len(cs.chatHistory) > 0 {
		last := len(cs.chatHistory) - 1
		cs.notes[last] = append(cs.notes[last], notes...)
	}
	cs.isProcessing = false
	cs.streaming = false
	cs.lastError = nil
}

// FailTurn ends a turn with err. A partially streamed reply is dropped so
// the history only keeps the user's own message.
func (cs *ChatState) FailTurn(err error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if last := len(cs.chatHistory) - 1; cs.streaming && last >= 0 && cs.chatHistory[last].IsAssistant() {
		cs.chatHistory = cs.chatHistory[:last]
	}
	cs.isProcessing = false
	cs.streaming = false
	cs.lastError = err
}
