// Package workspace holds the virtual project that assistant directives
// mutate.
package workspace

import (
	"sort"
	"strings"
)

// State maps file paths to content. Directories have no content of their
// own: they are implied by path prefixes or recorded in Dirs by explicit
// folder directives.
type State struct {
	Files     map[string]string
	Dirs      map[string]struct{}
	Languages map[string]string // fence language each file was last written with
	Active    string            // open file, "" when the workspace is empty
}

func NewState() State {
	return State{
		Files:     make(map[string]string),
		Dirs:      make(map[string]struct{}),
		Languages: make(map[string]string),
	}
}

// Clone returns a deep copy so batches never mutate a published state.
func (s State) Clone() State {
	c := NewState()
	for k, v := range s.Files {
		c.Files[k] = v
	}
	for k := range s.Dirs {
		c.Dirs[k] = struct{}{}
	}
	for k, v := range s.Languages {
		c.Languages[k] = v
	}
	c.Active = s.Active
	return c
}

func (s State) Get(path string) (string, bool) {
	content, ok := s.Files[path]
	return content, ok
}

func (s State) Len() int {
	return len(s.Files)
}

// Paths returns the file paths in lexical order.
func (s State) Paths() []string {
	paths := make([]string, 0, len(s.Files))
	for p := range s.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Folders returns explicit folders plus every parent directory implied by a
// file path, in lexical order.
func (s State) Folders() []string {
	set := make(map[string]struct{}, len(s.Dirs))
	for d := range s.Dirs {
		set[d] = struct{}{}
	}
	for p := range s.Files {
		for i := strings.LastIndexByte(p, '/'); i > 0; i = strings.LastIndexByte(p[:i], '/') {
			set[p[:i]] = struct{}{}
		}
	}

	folders := make([]string, 0, len(set))
	for d := range set {
		folders = append(folders, d)
	}
	sort.Strings(folders)
	return folders
}
