package workspace

import (
	"fmt"

	"github.com/Rorical/RoriForge/internal/directive"
)

type EffectKind string

const (
	EffectWrote   EffectKind = "wrote"
	EffectDeleted EffectKind = "deleted"
	EffectRenamed EffectKind = "renamed"
	EffectFolder  EffectKind = "created folder"
)

// Effect is one observable change made by a batch.
type Effect struct {
	Kind    EffectKind
	Path    string
	NewPath string
}

func (e Effect) String() string {
	if e.Kind == EffectRenamed {
		return fmt.Sprintf("%s %s→%s", e.Kind, e.Path, e.NewPath)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.Path)
}

// Apply runs ops in order, each against the state left by the ones before
// it, and returns the resulting state with the effects that took place.
// The input state is not modified.
//
// Deleting or renaming a missing path is a silent no-op. Create and edit both
// upsert. A rename onto an existing path overwrites it.
func Apply(s State, ops []directive.Operation) (State, []Effect) {
	next := s.Clone()
	effects := make([]Effect, 0, len(ops))
	var written []string

	for _, op := range ops {
		switch op.Kind {
		case directive.KindCreate, directive.KindEdit:
			next.Files[op.Path] = op.Content
			if op.Language != "" {
				next.Languages[op.Path] = op.Language
			} else {
				delete(next.Languages, op.Path)
			}
			written = append(written, op.Path)
			effects = append(effects, Effect{Kind: EffectWrote, Path: op.Path})

		case directive.KindDelete:
			if _, ok := next.Files[op.Path]; !ok {
				continue
			}
			delete(next.Files, op.Path)
			delete(next.Languages, op.Path)
			effects = append(effects, Effect{Kind: EffectDeleted, Path: op.Path})

		case directive.KindRename:
			content, ok := next.Files[op.Path]
			if !ok {
				continue
			}
			lang, hasLang := next.Languages[op.Path]
			delete(next.Files, op.Path)
			delete(next.Languages, op.Path)
			next.Files[op.NewPath] = content
			if hasLang {
				next.Languages[op.NewPath] = lang
			} else {
				delete(next.Languages, op.NewPath)
			}
			for i, w := range written {
				if w == op.Path {
					written[i] = op.NewPath
				}
			}
			if next.Active == op.Path {
				next.Active = op.NewPath
			}
			effects = append(effects, Effect{Kind: EffectRenamed, Path: op.Path, NewPath: op.NewPath})

		case directive.KindMkdir:
			next.Dirs[op.Path] = struct{}{}
			effects = append(effects, Effect{Kind: EffectFolder, Path: op.Path})
		}
	}

	next.Active = pickActive(next, written)
	return next, effects
}

// pickActive prefers the most recently written file that still exists, then
// the previously open file, then the first remaining path.
func pickActive(s State, written []string) string {
	for i := len(written) - 1; i >= 0; i-- {
		if _, ok := s.Files[written[i]]; ok {
			return written[i]
		}
	}
	if _, ok := s.Files[s.Active]; ok {
		return s.Active
	}
	if paths := s.Paths(); len(paths) > 0 {
		return paths[0]
	}
	return ""
}
