package action_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/cabinetui/cabinet/action"
	"github.com/cabinetui/cabinet/engine"
	"github.com/cabinetui/cabinet/file"
)

func boolPtr(v bool) *bool { return &v }

// fixture wires a registry, store and dispatcher around a fixed listing:
// two directories and four files, one hidden, one unselectable.
func fixture(t *testing.T, initial engine.Snapshot) (*engine.Dispatcher, *engine.Store) {
	t.Helper()
	reg, err := action.NewRegistry(nil, action.RegistryOptions{})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	store := engine.NewStore(initial, nil)
	d := engine.NewDispatcher(engine.DispatcherConfig{
		InstanceID: "fixture",
		Store:      store,
		Resolver:   reg,
	})
	d.SetFiles(file.NewCollection([]*file.Raw{
		{ID: "dir-a", Name: "assets", IsDir: true},
		{ID: "dir-b", Name: "build", IsDir: true},
		{ID: "f1", Name: "main.go"},
		{ID: "f2", Name: "notes.md"},
		{ID: "f3", Name: ".env"},
		{ID: "f4", Name: "locked.bin", Selectable: boolPtr(false)},
	}))
	return d, store
}

func mustDispatch(t *testing.T, d *engine.Dispatcher, id string, payload any) {
	t.Helper()
	if _, err := d.Dispatch(id, engine.Context{Payload: payload}); err != nil {
		t.Fatalf("Dispatch(%s): %v", id, err)
	}
}

func wantSelection(t *testing.T, store *engine.Store, want []string) {
	t.Helper()
	got := store.Snapshot().Selection
	if !reflect.DeepEqual(got, want) {
		t.Errorf("selection = %v, want %v", got, want)
	}
}

func TestMouseClickFile(t *testing.T) {
	t.Run("plain click replaces selection", func(t *testing.T) {
		d, store := fixture(t, engine.Snapshot{Selection: []string{"f1", "f2"}})
		mustDispatch(t, d, action.MouseClickFile, action.MouseClickPayload{FileID: "dir-a"})
		wantSelection(t, store, []string{"dir-a"})
	})

	t.Run("ctrl click toggles membership", func(t *testing.T) {
		d, store := fixture(t, engine.Snapshot{Selection: []string{"f1"}})
		mustDispatch(t, d, action.MouseClickFile, action.MouseClickPayload{FileID: "f2", Ctrl: true})
		wantSelection(t, store, []string{"f1", "f2"})

		mustDispatch(t, d, action.MouseClickFile, action.MouseClickPayload{FileID: "f1", Ctrl: true})
		wantSelection(t, store, []string{"f2"})
	})

	t.Run("shift click extends from anchor in display order", func(t *testing.T) {
		// Display order (name asc, hidden excluded):
		// assets, build, locked.bin, main.go, notes.md
		d, store := fixture(t, engine.Snapshot{
			Selection: []string{"dir-b"},
			SortKey:   file.SortByName,
			SortDir:   file.Ascending,
		})
		mustDispatch(t, d, action.MouseClickFile, action.MouseClickPayload{FileID: "f2", Shift: true})
		// locked.bin sits inside the range but is not selectable.
		wantSelection(t, store, []string{"dir-b", "f1", "f2"})
	})

	t.Run("shift click with reversed anchor", func(t *testing.T) {
		d, store := fixture(t, engine.Snapshot{
			Selection: []string{"f2"},
			SortKey:   file.SortByName,
			SortDir:   file.Ascending,
		})
		mustDispatch(t, d, action.MouseClickFile, action.MouseClickPayload{FileID: "dir-b", Shift: true})
		wantSelection(t, store, []string{"dir-b", "f1", "f2"})
	})

	t.Run("unselectable file is ignored", func(t *testing.T) {
		d, store := fixture(t, engine.Snapshot{Selection: []string{"f1"}})
		mustDispatch(t, d, action.MouseClickFile, action.MouseClickPayload{FileID: "f4"})
		wantSelection(t, store, []string{"f1"})
	})

	t.Run("unknown file is ignored", func(t *testing.T) {
		d, store := fixture(t, engine.Snapshot{Selection: []string{"f1"}})
		mustDispatch(t, d, action.MouseClickFile, action.MouseClickPayload{FileID: "gone"})
		wantSelection(t, store, []string{"f1"})
	})
}

func TestKeyboardClickFile(t *testing.T) {
	d, store := fixture(t, engine.Snapshot{})
	mustDispatch(t, d, action.KeyboardClickFile, action.KeyboardClickPayload{FileID: "f1"})
	wantSelection(t, store, []string{"f1"})

	mustDispatch(t, d, action.KeyboardClickFile, action.KeyboardClickPayload{FileID: "f1"})
	wantSelection(t, store, nil)
}

func TestChangeSelection(t *testing.T) {
	t.Run("replace", func(t *testing.T) {
		d, store := fixture(t, engine.Snapshot{Selection: []string{"f1"}})
		mustDispatch(t, d, action.ChangeSelection, action.ChangeSelectionPayload{IDs: []string{"f2", "dir-a"}})
		wantSelection(t, store, []string{"f2", "dir-a"})
	})

	t.Run("merge keeps existing and dedupes", func(t *testing.T) {
		d, store := fixture(t, engine.Snapshot{Selection: []string{"f1"}})
		mustDispatch(t, d, action.ChangeSelection, action.ChangeSelectionPayload{
			IDs:   []string{"f1", "f2"},
			Merge: true,
		})
		wantSelection(t, store, []string{"f1", "f2"})
	})

	t.Run("unselectable and unknown IDs are dropped", func(t *testing.T) {
		d, store := fixture(t, engine.Snapshot{})
		mustDispatch(t, d, action.ChangeSelection, action.ChangeSelectionPayload{
			IDs: []string{"f4", "gone", "f1"},
		})
		wantSelection(t, store, []string{"f1"})
	})
}

func TestSelectAllAndClear(t *testing.T) {
	d, store := fixture(t, engine.Snapshot{})

	mustDispatch(t, d, action.SelectAllFiles, nil)
	// Everything selectable, including the hidden file; only locked.bin
	// stays out.
	wantSelection(t, store, []string{"dir-a", "dir-b", "f1", "f2", "f3"})

	mustDispatch(t, d, action.ClearSelection, nil)
	wantSelection(t, store, nil)
}

func TestViewModeActions(t *testing.T) {
	d, store := fixture(t, engine.Snapshot{ViewMode: engine.ListView})

	mustDispatch(t, d, action.EnableGridView, nil)
	if got := store.Snapshot().ViewMode; got != engine.GridView {
		t.Errorf("view mode = %v, want grid", got)
	}

	mustDispatch(t, d, action.EnableListView, nil)
	if got := store.Snapshot().ViewMode; got != engine.ListView {
		t.Errorf("view mode = %v, want list", got)
	}
}

func TestSortActions(t *testing.T) {
	d, store := fixture(t, engine.Snapshot{SortKey: file.SortByName, SortDir: file.Ascending})

	mustDispatch(t, d, action.SortFilesBySize, nil)
	snap := store.Snapshot()
	if snap.SortKey != file.SortBySize || snap.SortDir != file.Ascending {
		t.Errorf("after switching key: %v %v, want size asc", snap.SortKey, snap.SortDir)
	}

	// Re-selecting the active key flips the direction.
	mustDispatch(t, d, action.SortFilesBySize, nil)
	snap = store.Snapshot()
	if snap.SortKey != file.SortBySize || snap.SortDir != file.Descending {
		t.Errorf("after re-select: %v %v, want size desc", snap.SortKey, snap.SortDir)
	}

	mustDispatch(t, d, action.SortFilesBySize, nil)
	if got := store.Snapshot().SortDir; got != file.Ascending {
		t.Errorf("third select should flip back to asc, got %v", got)
	}
}

func TestToggleHiddenFiles(t *testing.T) {
	d, store := fixture(t, engine.Snapshot{})

	mustDispatch(t, d, action.ToggleHiddenFiles, nil)
	if !store.Snapshot().ShowHidden {
		t.Error("first toggle should show hidden files")
	}
	mustDispatch(t, d, action.ToggleHiddenFiles, nil)
	if store.Snapshot().ShowHidden {
		t.Error("second toggle should hide them again")
	}
}

func TestOpenSelectionRequiresOpenableFiles(t *testing.T) {
	d, _ := fixture(t, engine.Snapshot{})
	_, err := d.Dispatch(action.OpenSelection, engine.Context{})
	var viol *engine.SelectionSizeViolationError
	if !errors.As(err, &viol) {
		t.Fatalf("empty selection: got %v, want SelectionSizeViolationError", err)
	}

	d2, store := fixture(t, engine.Snapshot{Selection: []string{"f1", "f2"}})
	if _, err := d2.Dispatch(action.OpenSelection, engine.Context{}); err != nil {
		t.Fatalf("Dispatch(open_selection): %v", err)
	}
	// Host-delegated: the store is untouched.
	wantSelection(t, store, []string{"f1", "f2"})
}

func TestHostDelegatedActionsDoNotCommit(t *testing.T) {
	for _, id := range []string{
		action.OpenFiles,
		action.OpenParentFolder,
		action.StartDragNDrop,
		action.EndDragNDrop,
		action.MoveFiles,
		action.CreateFolder,
	} {
		t.Run(id, func(t *testing.T) {
			d, store := fixture(t, engine.Snapshot{Selection: []string{"f1"}})
			var commits int
			store.Subscribe(func(engine.Snapshot) { commits++ })

			ack, err := d.Dispatch(id, engine.Context{})
			if err != nil {
				t.Fatalf("Dispatch(%s): %v", id, err)
			}
			if ack.Committed || commits != 0 {
				t.Errorf("%s should not commit (committed=%v, commits=%d)", id, ack.Committed, commits)
			}
		})
	}
}
