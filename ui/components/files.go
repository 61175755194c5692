package components

import (
	"path"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/Rorical/RoriForge/internal/models"
	"github.com/Rorical/RoriForge/ui/styles"
)

// RenderFiles draws the workspace listing above a preview of the active
// file, cut to height lines.
func RenderFiles(files []models.FileEntry, preview, language string, width, height int) string {
	var b strings.Builder

	active := ""
	if len(files) == 0 {
		b.WriteString(styles.FileStyle().Faint(true).Render("No files yet"))
	}
	for _, f := range files {
		depth := strings.Count(f.Path, "/")
		indent := strings.Repeat("  ", depth)
		name := path.Base(f.Path)
		switch {
		case f.IsFolder:
			b.WriteString(indent + styles.FolderStyle().Render(name+"/") + "\n")
		case f.Active:
			active = f.Path
			b.WriteString(indent + styles.ActiveFileStyle().Render(name) + "\n")
		default:
			b.WriteString(indent + styles.FileStyle().Render(name) + "\n")
		}
	}

	if active != "" {
		b.WriteString("\n" + styles.PreviewTitleStyle().Render(active) + "\n")
		b.WriteString(Highlight(preview, language, active))
	}

	return styles.PanelStyle(width, height).Render(clampLines(b.String(), height-2))
}

// Highlight colours content for the terminal. The lexer is picked from the
// fence language, then the file name, then the content itself. Content is
// returned unchanged if highlighting fails.
func Highlight(content, language, filename string) string {
	if content == "" {
		return ""
	}

	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	}
	if lexer == nil && filename != "" {
		lexer = lexers.Match(filename)
	}
	if lexer == nil {
		lexer = lexers.Analyse(content)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return content
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, chromastyles.Get(styles.HighlightTheme), iterator); err != nil {
		return content
	}
	return buf.String()
}

func clampLines(s string, n int) string {
	if n < 1 {
		n = 1
	}
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) <= n {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[:n], "\n")
}
