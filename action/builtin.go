package action

import (
	"github.com/cabinetui/cabinet/engine"
	"github.com/cabinetui/cabinet/file"
)

// Built-in action IDs.
const (
	MouseClickFile    = "mouse_click_file"
	KeyboardClickFile = "keyboard_click_file"
	ChangeSelection   = "change_selection"
	SelectAllFiles    = "select_all_files"
	ClearSelection    = "clear_selection"

	OpenFiles        = "open_files"
	OpenSelection    = "open_selection"
	OpenParentFolder = "open_parent_folder"

	EnableListView    = "enable_list_view"
	EnableGridView    = "enable_grid_view"
	SortFilesByName   = "sort_files_by_name"
	SortFilesBySize   = "sort_files_by_size"
	SortFilesByDate   = "sort_files_by_date"
	ToggleHiddenFiles = "toggle_hidden_files"

	StartDragNDrop = "start_drag_n_drop"
	EndDragNDrop   = "end_drag_n_drop"
	MoveFiles      = "move_files"

	CreateFolder = "create_folder"
	DeleteFiles  = "delete_files"
	CopyFiles    = "copy_files"
)

// MouseClickPayload carries a pointer click on a file row or cell.
type MouseClickPayload struct {
	FileID string
	Ctrl   bool // toggle membership
	Shift  bool // extend range from the selection anchor
}

// KeyboardClickPayload carries a keyboard activation of the focused file.
type KeyboardClickPayload struct {
	FileID string
}

// ChangeSelectionPayload replaces or extends the selection wholesale.
type ChangeSelectionPayload struct {
	IDs   []string
	Merge bool // keep the existing selection and add IDs
}

// OpenFilesPayload names the records the host should open.
type OpenFilesPayload struct {
	Targets []*file.Record
}

// MoveFilesPayload describes a completed drag-and-drop.
type MoveFilesPayload struct {
	Sources     []*file.Record
	Destination *file.Record
}

// StartDragPayload announces the start of a drag gesture.
type StartDragPayload struct {
	Sources []*file.Record
}

// CreateFolderPayload carries the folder name typed by the user.
type CreateFolderPayload struct {
	Name string
}

// Builtins returns the default action set. The slice is freshly built on
// every call; registries take ownership of their copy.
func Builtins() []Action {
	return []Action{
		{
			ActionSpec: engine.ActionSpec{
				ID:     MouseClickFile,
				Effect: mouseClickEffect,
			},
			Payload:     MouseClickPayload{},
			Description: "Select a file with the pointer",
		},
		{
			ActionSpec: engine.ActionSpec{
				ID:     KeyboardClickFile,
				Effect: keyboardClickEffect,
			},
			Payload:     KeyboardClickPayload{},
			Description: "Toggle selection of the focused file",
		},
		{
			ActionSpec: engine.ActionSpec{
				ID:     ChangeSelection,
				Effect: changeSelectionEffect,
			},
			Payload:     ChangeSelectionPayload{},
			Description: "Replace or extend the selection",
		},
		{
			ActionSpec: engine.ActionSpec{
				ID:     SelectAllFiles,
				Effect: selectAllEffect,
			},
			Description: "Select all files",
		},
		{
			ActionSpec: engine.ActionSpec{
				ID: ClearSelection,
				Effect: func(s engine.Snapshot, _ *engine.DispatchState) (engine.Snapshot, error) {
					s.Selection = nil
					return s, nil
				},
			},
			Description: "Clear the selection",
		},
		{
			ActionSpec: engine.ActionSpec{
				ID:         OpenFiles,
				FileFilter: func(r *file.Record) bool { return r.Openable },
			},
			Payload:     OpenFilesPayload{},
			Description: "Open files",
		},
		{
			ActionSpec: engine.ActionSpec{
				ID:         OpenSelection,
				Requires:   engine.OneOrMore,
				FileFilter: func(r *file.Record) bool { return r.Openable },
			},
			Description: "Open the selected files",
		},
		{
			ActionSpec:  engine.ActionSpec{ID: OpenParentFolder},
			Description: "Go to the parent folder",
		},
		{
			ActionSpec: engine.ActionSpec{
				ID:     EnableListView,
				Effect: viewModeEffect(engine.ListView),
			},
			Description: "Switch to list view",
		},
		{
			ActionSpec: engine.ActionSpec{
				ID:     EnableGridView,
				Effect: viewModeEffect(engine.GridView),
			},
			Description: "Switch to grid view",
		},
		{
			ActionSpec: engine.ActionSpec{
				ID:     SortFilesByName,
				Effect: sortEffect(file.SortByName),
			},
			Description: "Sort by name",
		},
		{
			ActionSpec: engine.ActionSpec{
				ID:     SortFilesBySize,
				Effect: sortEffect(file.SortBySize),
			},
			Description: "Sort by size",
		},
		{
			ActionSpec: engine.ActionSpec{
				ID:     SortFilesByDate,
				Effect: sortEffect(file.SortByDate),
			},
			Description: "Sort by modification time",
		},
		{
			ActionSpec: engine.ActionSpec{
				ID: ToggleHiddenFiles,
				Effect: func(s engine.Snapshot, _ *engine.DispatchState) (engine.Snapshot, error) {
					s.ShowHidden = !s.ShowHidden
					return s, nil
				},
			},
			Description: "Show or hide hidden files",
		},
		{
			ActionSpec:  engine.ActionSpec{ID: StartDragNDrop},
			Payload:     StartDragPayload{},
			Description: "Drag gesture started",
		},
		{
			ActionSpec:  engine.ActionSpec{ID: EndDragNDrop},
			Description: "Drag gesture ended",
		},
		{
			ActionSpec:  engine.ActionSpec{ID: MoveFiles},
			Payload:     MoveFilesPayload{},
			Description: "Move files to a folder",
		},
		{
			ActionSpec:  engine.ActionSpec{ID: CreateFolder},
			Payload:     CreateFolderPayload{},
			Description: "Create a folder",
		},
		{
			ActionSpec:  engine.ActionSpec{ID: DeleteFiles, Requires: engine.OneOrMore},
			Description: "Delete the selected files",
		},
		{
			ActionSpec:  engine.ActionSpec{ID: CopyFiles, Requires: engine.OneOrMore},
			Description: "Copy the selected files",
		},
	}
}

// mouseClickEffect implements plain, ctrl and shift click selection
// semantics against the displayed ordering.
func mouseClickEffect(s engine.Snapshot, st *engine.DispatchState) (engine.Snapshot, error) {
	payload, ok := st.Payload.(MouseClickPayload)
	if !ok {
		return s, nil
	}
	rec, ok := st.File(payload.FileID)
	if !ok || !rec.Selectable {
		return s, nil
	}

	switch {
	case payload.Ctrl:
		s.Selection = toggleID(s.Selection, rec.ID)
	case payload.Shift:
		s.Selection = rangeSelect(s, st, rec.ID)
	default:
		s.Selection = []string{rec.ID}
	}
	return s, nil
}

// keyboardClickEffect toggles the focused file, mirroring ctrl-click.
func keyboardClickEffect(s engine.Snapshot, st *engine.DispatchState) (engine.Snapshot, error) {
	payload, ok := st.Payload.(KeyboardClickPayload)
	if !ok {
		return s, nil
	}
	rec, ok := st.File(payload.FileID)
	if !ok || !rec.Selectable {
		return s, nil
	}
	s.Selection = toggleID(s.Selection, rec.ID)
	return s, nil
}

func changeSelectionEffect(s engine.Snapshot, st *engine.DispatchState) (engine.Snapshot, error) {
	payload, ok := st.Payload.(ChangeSelectionPayload)
	if !ok {
		return s, nil
	}
	var next []string
	if payload.Merge {
		next = append(next, s.Selection...)
	}
	for _, id := range payload.IDs {
		rec, ok := st.File(id)
		if !ok || !rec.Selectable {
			continue
		}
		if !containsID(next, rec.ID) {
			next = append(next, rec.ID)
		}
	}
	s.Selection = next
	return s, nil
}

func selectAllEffect(s engine.Snapshot, st *engine.DispatchState) (engine.Snapshot, error) {
	var next []string
	for _, rec := range st.AllFiles() {
		if rec != nil && rec.Selectable {
			next = append(next, rec.ID)
		}
	}
	s.Selection = next
	return s, nil
}

func viewModeEffect(mode engine.ViewMode) func(engine.Snapshot, *engine.DispatchState) (engine.Snapshot, error) {
	return func(s engine.Snapshot, _ *engine.DispatchState) (engine.Snapshot, error) {
		s.ViewMode = mode
		return s, nil
	}
}

// sortEffect selects a sort key; re-selecting the current key flips the
// direction.
func sortEffect(key file.SortKey) func(engine.Snapshot, *engine.DispatchState) (engine.Snapshot, error) {
	return func(s engine.Snapshot, _ *engine.DispatchState) (engine.Snapshot, error) {
		if s.SortKey == key {
			if s.SortDir == file.Ascending {
				s.SortDir = file.Descending
			} else {
				s.SortDir = file.Ascending
			}
		} else {
			s.SortKey = key
			s.SortDir = file.Ascending
		}
		return s, nil
	}
}

// rangeSelect extends the selection from its anchor (the first selected
// file) to the clicked file, walking the listing in displayed order:
// current sort applied, hidden files skipped unless shown.
func rangeSelect(s engine.Snapshot, st *engine.DispatchState, clickedID string) []string {
	visible := make([]*file.Record, 0)
	for _, rec := range file.Sort(st.AllFiles(), s.SortKey, s.SortDir) {
		if rec == nil {
			continue
		}
		if rec.Hidden && !s.ShowHidden {
			continue
		}
		visible = append(visible, rec)
	}

	anchorID := clickedID
	if len(s.Selection) > 0 {
		anchorID = s.Selection[0]
	}
	anchor, clicked := -1, -1
	for i, rec := range visible {
		if rec.ID == anchorID {
			anchor = i
		}
		if rec.ID == clickedID {
			clicked = i
		}
	}
	if anchor == -1 || clicked == -1 {
		return []string{clickedID}
	}
	if anchor > clicked {
		anchor, clicked = clicked, anchor
	}
	var next []string
	for _, rec := range visible[anchor : clicked+1] {
		if rec.Selectable {
			next = append(next, rec.ID)
		}
	}
	return next
}

func toggleID(ids []string, id string) []string {
	for i, existing := range ids {
		if existing == id {
			return append(append([]string(nil), ids[:i]...), ids[i+1:]...)
		}
	}
	return append(append([]string(nil), ids...), id)
}

func containsID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
