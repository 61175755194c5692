package directive

import (
	"log/slog"
	"strings"
)

// Extract returns the operations in text in their textual order. Operations
// targeting the same path are all kept.
func Extract(text string) []Operation {
	s := NewScanner(text)
	var ops []Operation
	for s.Scan() {
		ops = append(ops, s.Match().Operation)
	}
	if s.Misses() > 0 {
		slog.Debug("skipped malformed directives", "count", s.Misses())
	}
	return ops
}

// Redact drops the fenced bodies of create and edit directives so a reply
// reads as a summary of what was done. Header lines are kept.
func Redact(text string) string {
	s := NewScanner(text)
	drop := make(map[int]bool)
	for s.Scan() {
		m := s.Match()
		for i := m.FenceStart; m.FenceStart >= 0 && i <= m.FenceEnd; i++ {
			drop[i] = true
		}
	}
	if len(drop) == 0 {
		return text
	}

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines)-len(drop))
	for i, l := range lines {
		if !drop[i] {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}
