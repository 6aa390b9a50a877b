// Package engine implements the browser's state core: the selection/view
// store with its single commit path, and the action dispatcher that turns
// action IDs plus trigger context into ordered, race-free state transitions.
package engine

import (
	"sync"

	"github.com/cabinetui/cabinet/file"
)

// ViewMode is the listing layout.
type ViewMode string

const (
	ListView ViewMode = "list"
	GridView ViewMode = "grid"
)

// Snapshot is the complete selection/view state of one browser instance.
// Snapshots are values; mutating a copy never affects the store.
type Snapshot struct {
	Selection  []string // selected file IDs, insertion-ordered
	FolderID   string   // current folder record ID, "" at the root
	SortKey    file.SortKey
	SortDir    file.SortDir
	ViewMode   ViewMode
	ShowHidden bool
}

// clone deep-copies the snapshot so callers can hold it across commits.
func (s Snapshot) clone() Snapshot {
	out := s
	if s.Selection != nil {
		out.Selection = append([]string(nil), s.Selection...)
	}
	return out
}

// Selected reports whether id is in the selection.
func (s Snapshot) Selected(id string) bool {
	for _, sel := range s.Selection {
		if sel == id {
			return true
		}
	}
	return false
}

// Store holds the authoritative Snapshot for one browser instance. All
// mutation funnels through Commit; there is no other write path.
type Store struct {
	mu        sync.Mutex
	snap      Snapshot
	validate  func(Snapshot) error
	listeners []func(Snapshot)
}

// NewStore creates a store with an initial snapshot. The validate hook runs
// on every commit; a non-nil error aborts the commit and is wrapped in an
// InvalidStateTransitionError unless it already is one.
func NewStore(initial Snapshot, validate func(Snapshot) error) *Store {
	return &Store{snap: initial.clone(), validate: validate}
}

// Snapshot returns a copy of the current state.
func (st *Store) Snapshot() Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.snap.clone()
}

// Commit atomically replaces the snapshot and notifies listeners. On
// validation failure the previous snapshot is left fully intact.
func (st *Store) Commit(next Snapshot) error {
	st.mu.Lock()
	if st.validate != nil {
		if err := st.validate(next); err != nil {
			st.mu.Unlock()
			if _, ok := err.(*InvalidStateTransitionError); ok {
				return err
			}
			return &InvalidStateTransitionError{Reason: err.Error()}
		}
	}
	st.snap = next.clone()
	notify := st.snap
	listeners := st.listeners
	st.mu.Unlock()

	for _, fn := range listeners {
		fn(notify)
	}
	return nil
}

// Subscribe registers a listener invoked after every successful commit.
// Listeners run synchronously on the committing turn, in registration
// order.
func (st *Store) Subscribe(fn func(Snapshot)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.listeners = append(st.listeners, fn)
}
