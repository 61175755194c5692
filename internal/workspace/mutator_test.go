package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/RoriForge/internal/directive"
)

func stateWith(files map[string]string) State {
	s := NewState()
	for k, v := range files {
		s.Files[k] = v
	}
	return s
}

func create(path, content string) directive.Operation {
	return directive.Operation{Kind: directive.KindCreate, Path: path, Content: content}
}

func TestApply_CreateThenDeleteInSameBatch(t *testing.T) {
	ops := directive.Extract("FILE_CREATE: a.txt\n```text\nhi\n```\nFILE_DELETE: a.txt\n")

	next, effects := Apply(NewState(), ops)

	_, ok := next.Get("a.txt")
	assert.False(t, ok)
	assert.Equal(t, []Effect{
		{Kind: EffectWrote, Path: "a.txt"},
		{Kind: EffectDeleted, Path: "a.txt"},
	}, effects)
	assert.Empty(t, next.Active)
}

func TestApply_RenameMissingIsNoop(t *testing.T) {
	initial := stateWith(map[string]string{"c.txt": "C"})
	initial.Active = "c.txt"

	next, effects := Apply(initial, []directive.Operation{
		{Kind: directive.KindRename, Path: "a.txt", NewPath: "b.txt"},
	})

	assert.Equal(t, initial.Files, next.Files)
	assert.Empty(t, effects)
	assert.Equal(t, "c.txt", next.Active)
}

func TestApply_DeleteMissingIsNoop(t *testing.T) {
	next, effects := Apply(NewState(), []directive.Operation{{Kind: directive.KindDelete, Path: "nope"}})

	assert.Zero(t, next.Len())
	assert.Empty(t, effects)
}

func TestApply_SeesEarlierOperationsOfBatch(t *testing.T) {
	ops := []directive.Operation{
		create("draft.md", "v1"),
		{Kind: directive.KindRename, Path: "draft.md", NewPath: "final.md"},
		{Kind: directive.KindEdit, Path: "final.md", Content: "v2"},
	}

	next, effects := Apply(NewState(), ops)

	assert.Equal(t, map[string]string{"final.md": "v2"}, next.Files)
	assert.Equal(t, "final.md", next.Active)
	require.Len(t, effects, 3)
	assert.Equal(t, "renamed draft.md→final.md", effects[1].String())
}

func TestApply_RenameOverwritesTarget(t *testing.T) {
	initial := stateWith(map[string]string{"a": "A", "b": "B"})

	next, effects := Apply(initial, []directive.Operation{{Kind: directive.KindRename, Path: "a", NewPath: "b"}})

	assert.Equal(t, map[string]string{"b": "A"}, next.Files)
	assert.Equal(t, []Effect{{Kind: EffectRenamed, Path: "a", NewPath: "b"}}, effects)
}

func TestApply_CreateAndEditUpsert(t *testing.T) {
	initial := stateWith(map[string]string{"a": "old"})

	next, _ := Apply(initial, []directive.Operation{
		{Kind: directive.KindCreate, Path: "a", Content: "created"},
		{Kind: directive.KindEdit, Path: "b", Content: "edited-new", Language: "go"},
	})

	assert.Equal(t, map[string]string{"a": "created", "b": "edited-new"}, next.Files)
	assert.Equal(t, "go", next.Languages["b"])
	assert.Equal(t, "old", initial.Files["a"], "input state must not change")
}

func TestApply_MkdirTouchesNoFiles(t *testing.T) {
	next, effects := Apply(NewState(), []directive.Operation{{Kind: directive.KindMkdir, Path: "src/components"}})

	assert.Zero(t, next.Len())
	assert.Contains(t, next.Dirs, "src/components")
	assert.Equal(t, []Effect{{Kind: EffectFolder, Path: "src/components"}}, effects)
	assert.Equal(t, "created folder src/components", effects[0].String())
}

func TestApply_ActivePointer(t *testing.T) {
	tests := []struct {
		name   string
		files  map[string]string
		active string
		ops    []directive.Operation
		want   string
	}{
		{
			name: "last written wins",
			ops:  []directive.Operation{create("a", "1"), create("b", "2")},
			want: "b",
		},
		{
			name: "last written deleted falls back to earlier write",
			ops:  []directive.Operation{create("a", "1"), create("b", "2"), {Kind: directive.KindDelete, Path: "b"}},
			want: "a",
		},
		{
			name:   "unchanged when batch writes nothing",
			files:  map[string]string{"x": "", "y": ""},
			active: "y",
			ops:    []directive.Operation{{Kind: directive.KindMkdir, Path: "d"}},
			want:   "y",
		},
		{
			name:   "active deleted falls back to remaining path",
			files:  map[string]string{"x": "", "y": "", "z": ""},
			active: "y",
			ops:    []directive.Operation{{Kind: directive.KindDelete, Path: "y"}},
			want:   "x",
		},
		{
			name:   "active follows rename",
			files:  map[string]string{"x": "", "y": ""},
			active: "y",
			ops:    []directive.Operation{{Kind: directive.KindRename, Path: "y", NewPath: "w"}},
			want:   "w",
		},
		{
			name:   "empty when nothing remains",
			files:  map[string]string{"x": ""},
			active: "x",
			ops:    []directive.Operation{{Kind: directive.KindDelete, Path: "x"}},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			initial := stateWith(tt.files)
			initial.Active = tt.active

			next, _ := Apply(initial, tt.ops)

			assert.Equal(t, tt.want, next.Active)
		})
	}
}

func TestApply_Idempotent(t *testing.T) {
	text := "FOLDER_CREATE: src\n" +
		"FILE_CREATE: src/a.js\n```js\nA\n```\n" +
		"FILE_CREATE: tmp.txt\n```\nT\n```\n" +
		"FILE_RENAME: src/a.js -> src/b.js\n" +
		"FILE_EDIT: index.html\n```html\n<p>x</p>\n```\n" +
		"FILE_DELETE: tmp.txt\n"
	ops := directive.Extract(text)
	initial := stateWith(map[string]string{"index.html": "old", "keep.txt": "k"})

	once, _ := Apply(initial, ops)
	again, _ := Apply(initial, ops)
	twice, _ := Apply(once, ops)

	assert.Equal(t, once, again)
	assert.Equal(t, once.Files, twice.Files)
	assert.Equal(t, map[string]string{
		"index.html": "<p>x</p>",
		"keep.txt":   "k",
		"src/b.js":   "A",
	}, once.Files)
}

func TestStateFolders(t *testing.T) {
	s := stateWith(map[string]string{"src/ui/app.js": "", "README.md": ""})
	s.Dirs["assets"] = struct{}{}

	assert.Equal(t, []string{"assets", "src", "src/ui"}, s.Folders())
	assert.Equal(t, []string{"README.md", "src/ui/app.js"}, s.Paths())
}
