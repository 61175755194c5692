package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Rorical/RoriForge/internal/models"
)

func TestHighlight(t *testing.T) {
	assert.Empty(t, Highlight("", "go", "main.go"))

	out := Highlight("package main\n", "go", "main.go")
	assert.Contains(t, out, "package")
	assert.Contains(t, out, "\x1b[", "expected terminal escape codes")

	// Unknown language falls back to the file name
	out = Highlight("<h1>Hi</h1>", "nosuchlang", "index.html")
	assert.Contains(t, out, "h1")
}

func TestRenderFiles(t *testing.T) {
	files := []models.FileEntry{
		{Path: "src", IsFolder: true},
		{Path: "src/app.js", Active: true},
		{Path: "zeta.txt"},
	}

	out := RenderFiles(files, "console.log(1)", "js", 40, 20)

	assert.Contains(t, out, "src/")
	assert.Contains(t, out, "app.js")
	assert.Contains(t, out, "zeta.txt")
	assert.Contains(t, out, "src/app.js")
	assert.Contains(t, out, "console")

	empty := RenderFiles(nil, "", "", 40, 20)
	assert.Contains(t, empty, "No files yet")
}

func TestClampLines(t *testing.T) {
	assert.Equal(t, "a\nb", clampLines("a\nb\nc\n", 2))
	assert.Equal(t, "a", clampLines("a\n", 5))
	assert.Equal(t, "a", clampLines("a\nb", 0))
	assert.Equal(t, 3, strings.Count(clampLines(strings.Repeat("x\n", 10), 4), "\n"))
}

func TestRenderMessages(t *testing.T) {
	out := RenderMessages([]models.Message{
		{Type: models.User, Content: "make a page"},
		{Type: models.Assistant, Content: "Working", Streaming: true},
	})
	assert.Contains(t, out, "You: make a page")
	assert.Contains(t, out, "Working"+streamingCursor)

	out = RenderMessages([]models.Message{
		{Type: models.Assistant, Content: "Done"},
		{Type: models.Effect, Content: "wrote index.html"},
	})
	assert.Contains(t, out, "✓ wrote index.html")
	assert.NotContains(t, out, streamingCursor)
}
