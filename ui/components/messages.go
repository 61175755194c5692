package components

import (
	"strings"

	"github.com/Rorical/RoriForge/internal/models"
	"github.com/Rorical/RoriForge/ui/styles"
)

const streamingCursor = "▍"

func RenderMessages(messages []models.Message) string {
	var b strings.Builder

	userStyle := styles.UserStyle()
	assistantStyle := styles.AssistantStyle()
	programStyle := styles.ProgramStyle()
	effectStyle := styles.EffectStyle()

	for i, msg := range messages {
		switch msg.Type {
		case models.User:
			b.WriteString(userStyle.Render("You: "+msg.Content) + "\n\n")
		case models.Assistant:
			content := strings.TrimRight(msg.Content, "\n")
			if msg.Streaming {
				content += streamingCursor
			}
			b.WriteString(assistantStyle.Render("Assistant: "+content) + "\n")
			// Effects sit directly under their reply
			if i+1 >= len(messages) || messages[i+1].Type != models.Effect {
				b.WriteString("\n")
			}
		case models.Effect:
			b.WriteString(effectStyle.Render("✓ "+msg.Content) + "\n")
			if i+1 >= len(messages) || messages[i+1].Type != models.Effect {
				b.WriteString("\n")
			}
		case models.Program:
			b.WriteString(programStyle.Render(msg.Content) + "\n\n")
		}
	}

	return b.String()
}
