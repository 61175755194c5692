package workspace

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/Rorical/RoriForge/internal/directive"
)

var ErrNotFound = errors.New("file not found in workspace")

// Store owns the session's workspace. Batches are order-sensitive, so Apply
// holds the lock for the whole batch.
type Store struct {
	mu      sync.Mutex
	state   State
	batches int
}

func NewStore() *Store {
	return &Store{state: NewState()}
}

// NewStoreFrom starts a store from an existing state.
func NewStoreFrom(s State) *Store {
	return &Store{state: s.Clone()}
}

func (st *Store) Apply(ops []directive.Operation) (State, []Effect) {
	st.mu.Lock()
	defer st.mu.Unlock()

	next, effects := Apply(st.state, ops)
	st.state = next
	st.batches++

	slog.Info("applied directive batch",
		"batch", st.batches,
		"operations", len(ops),
		"effects", len(effects),
		"files", next.Len(),
		"active", next.Active)
	return next.Clone(), effects
}

// Snapshot returns a copy of the current state.
func (st *Store) Snapshot() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.Clone()
}

// SetActive opens an existing file.
func (st *Store) SetActive(path string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.state.Files[path]; !ok {
		return ErrNotFound
	}
	st.state.Active = path
	return nil
}

// Cycle moves the active pointer to the next file in lexical order and
// returns it.
func (st *Store) Cycle(step int) string {
	st.mu.Lock()
	defer st.mu.Unlock()

	paths := st.state.Paths()
	if len(paths) == 0 {
		return ""
	}
	idx := 0
	for i, p := range paths {
		if p == st.state.Active {
			idx = i
			break
		}
	}
	idx = ((idx+step)%len(paths) + len(paths)) % len(paths)
	st.state.Active = paths[idx]
	return st.state.Active
}
