// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Level is the global log level shared by every handler Setup installs.
var Level = new(slog.LevelVar)

// Setup installs the default logger writing to w. Terminals get tint's
// colored output; anything else gets JSON lines.
func Setup(w io.Writer) {
	slog.SetDefault(slog.New(NewHandler(w)))
}

func NewHandler(w io.Writer) slog.Handler {
	if isTerminal(w) {
		return tint.NewHandler(w, &tint.Options{
			Level:      Level,
			TimeFormat: time.TimeOnly,
		})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: Level})
}

// SetupFile sends logs to path, creating its directory. The TUI owns the
// terminal, so it logs here instead of stderr.
func SetupFile(path string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	Setup(f)
	return f, nil
}

// ParseLevel converts "debug", "info", "warn" or "error", in any case.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(strings.ToUpper(s)))
	return l, err
}

func SetLevel(l slog.Level) {
	Level.Set(l)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
