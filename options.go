package cabinet

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cabinetui/cabinet/action"
	"github.com/cabinetui/cabinet/engine"
	"github.com/cabinetui/cabinet/file"
)

// DefaultDoubleClickDelay is the window within which two clicks on the same
// file count as a double click.
const DefaultDoubleClickDelay = 300 * time.Millisecond

// Options configures one browser instance. Zero-valued fields fall back to
// the process-wide defaults set with SetDefaults, then to built-in
// defaults. Options are read once at construction; later changes to the
// defaults never affect an already-constructed instance.
type Options struct {
	// InstanceID identifies this browser in dispatch records. Generated
	// when empty.
	InstanceID string

	// Files is the initial file array. Nil entries render as loading
	// placeholders.
	Files []*file.Raw

	// Actions are host-defined file actions merged with the built-ins.
	Actions []action.Action

	// OnAction is the external handler invoked after each successful
	// dispatch.
	OnAction engine.Handler

	// OnError receives failures of dispatches that were queued behind an
	// in-flight one and therefore could not return their error directly.
	OnError func(actionID string, err error)

	DoubleClickDelay time.Duration

	// DisableSelection suppresses all selection dispatches from input.
	DisableSelection bool

	// DisableDefaultActions builds the registry from host actions only.
	DisableDefaultActions bool

	// AllowActionShadowing lets a host action replace a built-in with the
	// same ID instead of failing construction.
	AllowActionShadowing bool

	// DisableDragAndDrop ignores drag gestures entirely.
	DisableDragAndDrop bool

	// ClearSelectionOnOutsideClick clears the selection when a click
	// lands outside every file row.
	ClearSelectionOnOutsideClick bool

	// DefaultSortActionID picks the initial sort order; one of the
	// sort_files_by_* action IDs. Defaults to sorting by name.
	DefaultSortActionID string

	// DefaultViewActionID picks the initial layout; enable_list_view or
	// enable_grid_view. Defaults to list view.
	DefaultViewActionID string

	// FolderID is the record ID of the folder being listed, "" at root.
	FolderID string

	// Icon renders the icon cell for a record. Defaults to a small
	// built-in glyph set.
	Icon func(*file.Record) string

	Styles *Styles

	Logger *slog.Logger
}

var (
	defaultsMu     sync.Mutex
	globalDefaults Options
	defaultsFrozen bool
)

// ErrDefaultsFrozen is returned by SetDefaults after the first instance has
// been constructed; there is no live reconfiguration.
var ErrDefaultsFrozen = errors.New("cabinet: defaults are frozen after first instance construction")

// SetDefaults installs process-wide option defaults. It must be called
// before any instance exists; afterwards the defaults are frozen and
// SetDefaults fails.
func SetDefaults(opts Options) error {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	if defaultsFrozen {
		return ErrDefaultsFrozen
	}
	globalDefaults = opts
	return nil
}

// freezeDefaults snapshots the global defaults for a new instance and
// blocks further SetDefaults calls.
func freezeDefaults() Options {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	defaultsFrozen = true
	return globalDefaults
}

// merge overlays per-instance options on the process defaults. Scalar and
// func fields use the instance value when set; boolean flags are sticky,
// a flag enabled in the defaults stays enabled for every instance.
func merge(global, local Options) Options {
	out := local

	if out.Actions == nil {
		out.Actions = global.Actions
	}
	if out.OnAction == nil {
		out.OnAction = global.OnAction
	}
	if out.OnError == nil {
		out.OnError = global.OnError
	}
	if out.DoubleClickDelay == 0 {
		out.DoubleClickDelay = global.DoubleClickDelay
	}
	if out.DoubleClickDelay == 0 {
		out.DoubleClickDelay = DefaultDoubleClickDelay
	}
	if out.DefaultSortActionID == "" {
		out.DefaultSortActionID = global.DefaultSortActionID
	}
	if out.DefaultViewActionID == "" {
		out.DefaultViewActionID = global.DefaultViewActionID
	}
	if out.Icon == nil {
		out.Icon = global.Icon
	}
	if out.Styles == nil {
		out.Styles = global.Styles
	}
	if out.Logger == nil {
		out.Logger = global.Logger
	}

	out.DisableSelection = out.DisableSelection || global.DisableSelection
	out.DisableDefaultActions = out.DisableDefaultActions || global.DisableDefaultActions
	out.AllowActionShadowing = out.AllowActionShadowing || global.AllowActionShadowing
	out.DisableDragAndDrop = out.DisableDragAndDrop || global.DisableDragAndDrop
	out.ClearSelectionOnOutsideClick = out.ClearSelectionOnOutsideClick || global.ClearSelectionOnOutsideClick

	return out
}

// initialSnapshot translates the default sort/view action IDs into the
// starting snapshot.
func initialSnapshot(opts Options) engine.Snapshot {
	snap := engine.Snapshot{
		FolderID: opts.FolderID,
		SortKey:  file.SortByName,
		SortDir:  file.Ascending,
		ViewMode: engine.ListView,
	}
	switch opts.DefaultSortActionID {
	case action.SortFilesBySize:
		snap.SortKey = file.SortBySize
	case action.SortFilesByDate:
		snap.SortKey = file.SortByDate
	}
	if opts.DefaultViewActionID == action.EnableGridView {
		snap.ViewMode = engine.GridView
	}
	return snap
}
