package components

import (
	"github.com/Rorical/RoriForge/ui/styles"
)

const inputPlaceholder = "Describe what to build..."

func RenderInput(input string, loading bool, width int) string {
	inputStyle := styles.InputStyle(width)
	if input == "" && !loading {
		return inputStyle.Faint(true).Render(inputPlaceholder)
	}
	return inputStyle.Render(input)
}
