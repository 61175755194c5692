package directive

import (
	"path"
	"strings"
)

const renameArrow = "->"

// Match is an extracted operation together with the lines it spans.
// Line numbers are zero-based and inclusive; FenceStart and FenceEnd are -1
// for directives without a block.
type Match struct {
	Operation
	HeaderLine int
	FenceStart int
	FenceEnd   int
}

// Scanner walks a completed reply once, top to bottom, and yields directives
// of every kind in the order they appear. Its usage mirrors bufio.Scanner:
//
//	s := NewScanner(text)
//	for s.Scan() {
//		m := s.Match()
//	}
type Scanner struct {
	lines  []string
	pos    int
	match  Match
	misses int
}

func NewScanner(text string) *Scanner {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return &Scanner{lines: lines}
}

// Scan advances to the next well-formed directive. Malformed directives and
// blocks that are never closed are skipped and counted as misses.
func (s *Scanner) Scan() bool {
	for s.pos < len(s.lines) {
		start := s.pos
		kind, arg, ok := parseHeader(s.lines[start])
		s.pos++
		if !ok {
			continue
		}

		m := Match{HeaderLine: start, FenceStart: -1, FenceEnd: -1}
		m.Kind = kind

		switch kind {
		case KindMkdir, KindDelete:
			m.Path = cleanPath(arg)
			if m.Path == "" {
				s.misses++
				continue
			}

		case KindRename:
			from, to, found := strings.Cut(arg, renameArrow)
			m.Path, m.NewPath = cleanPath(from), cleanPath(to)
			if !found || m.Path == "" || m.NewPath == "" {
				s.misses++
				continue
			}

		case KindCreate, KindEdit:
			m.Path = cleanPath(arg)
			if m.Path == "" || !s.scanBlock(&m) {
				s.misses++
				continue
			}
			s.pos = m.FenceEnd + 1
		}

		s.match = m
		return true
	}
	return false
}

// scanBlock reads the fenced block following a create or edit header. Blank
// lines between the header and the opening fence are allowed. On failure the
// scanner position is left just past the header so later directives are
// still found.
func (s *Scanner) scanBlock(m *Match) bool {
	begin := m.HeaderLine + 1
	for begin < len(s.lines) && strings.TrimSpace(s.lines[begin]) == "" {
		begin++
	}
	if begin >= len(s.lines) {
		return false
	}
	ticks, lang, ok := openingFence(s.lines[begin])
	if !ok {
		return false
	}

	for end := begin + 1; end < len(s.lines); end++ {
		if closingFence(s.lines[end], ticks) {
			m.Language = lang
			m.Content = strings.TrimSpace(strings.Join(s.lines[begin+1:end], "\n"))
			m.FenceStart, m.FenceEnd = begin, end
			return true
		}
	}
	return false
}

func (s *Scanner) Match() Match {
	return s.match
}

// Misses returns how many directive headers were skipped as malformed.
func (s *Scanner) Misses() int {
	return s.misses
}

func parseHeader(line string) (Kind, string, bool) {
	line = strings.TrimLeft(line, " \t")
	for _, h := range headers {
		if rest, ok := strings.CutPrefix(line, h.prefix); ok {
			return h.kind, rest, true
		}
	}
	return "", "", false
}

// openingFence parses a line of three or more backticks followed by an
// optional language tag.
func openingFence(line string) (int, string, bool) {
	line = strings.TrimSpace(line)
	ticks := countTicks(line)
	if ticks < 3 {
		return 0, "", false
	}
	info := strings.TrimSpace(line[ticks:])
	if strings.Contains(info, "`") {
		return 0, "", false
	}
	lang := ""
	if fields := strings.Fields(info); len(fields) > 0 {
		lang = fields[0]
	}
	return ticks, lang, true
}

// closingFence reports whether line is made only of at least ticks backticks.
func closingFence(line string, ticks int) bool {
	line = strings.TrimSpace(line)
	n := countTicks(line)
	return n >= ticks && n == len(line)
}

func countTicks(s string) int {
	n := 0
	for n < len(s) && s[n] == '`' {
		n++
	}
	return n
}

// cleanPath normalizes a directive argument into a workspace key. It returns
// "" for empty paths and paths escaping the project root.
func cleanPath(raw string) string {
	p := strings.TrimSpace(raw)
	p = strings.Trim(p, "`\"'")
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = strings.TrimLeft(path.Clean(p), "/")
	if p == "" || p == "." || p == ".." || strings.HasPrefix(p, "../") {
		return ""
	}
	return p
}
