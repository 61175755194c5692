// Package directive extracts file-system directives embedded in assistant
// replies.
//
// Recognized forms, each at the start of a line:
//
//	FOLDER_CREATE: <path>
//	FILE_CREATE: <path>   followed by a fenced block
//	FILE_EDIT: <path>     followed by a fenced block
//	FILE_DELETE: <path>
//	FILE_RENAME: <old> -> <new>
package directive

import "fmt"

// Kind is the file-system action an Operation performs.
type Kind string

const (
	KindCreate Kind = "create"
	KindEdit   Kind = "edit"
	KindDelete Kind = "delete"
	KindRename Kind = "rename"
	KindMkdir  Kind = "mkdir"
)

// Operation is one parsed directive. Content and Language are set for
// create and edit, NewPath for rename.
type Operation struct {
	Kind     Kind
	Path     string
	Content  string
	NewPath  string
	Language string
}

func (o Operation) String() string {
	switch o.Kind {
	case KindRename:
		return fmt.Sprintf("%s %s -> %s", o.Kind, o.Path, o.NewPath)
	case KindCreate, KindEdit:
		return fmt.Sprintf("%s %s (%d bytes)", o.Kind, o.Path, len(o.Content))
	default:
		return fmt.Sprintf("%s %s", o.Kind, o.Path)
	}
}

// Writes reports whether the operation stores content.
func (o Operation) Writes() bool {
	return o.Kind == KindCreate || o.Kind == KindEdit
}

var headers = []struct {
	prefix string
	kind   Kind
}{
	{"FOLDER_CREATE:", KindMkdir},
	{"FILE_CREATE:", KindCreate},
	{"FILE_EDIT:", KindEdit},
	{"FILE_DELETE:", KindDelete},
	{"FILE_RENAME:", KindRename},
}
