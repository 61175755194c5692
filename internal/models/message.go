package models

import "github.com/sashabaranov/go-openai"

type MessageType int

const (
	User MessageType = iota
	Assistant
	Program
	Effect
)

// Message is a display line for the UI
type Message struct {
	Content string
	Type    MessageType
	// Streaming is true only for the assistant message still receiving deltas
	Streaming bool
}

// ChatMessage is one entry of the conversation history as sent to the chat endpoint
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func UserMessage(content string) ChatMessage {
	return ChatMessage{Role: openai.ChatMessageRoleUser, Content: content}
}

func AssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: openai.ChatMessageRoleAssistant, Content: content}
}

func (m ChatMessage) IsAssistant() bool {
	return m.Role == openai.ChatMessageRoleAssistant
}
