// Package cabinet provides an embeddable file-browser widget for bubbletea
// applications. The widget renders a navigable, selectable, sortable file
// listing; every behavior, built-in or host-defined, runs through the
// action dispatch engine in the engine package.
package cabinet

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cabinetui/cabinet/action"
	"github.com/cabinetui/cabinet/dnd"
	"github.com/cabinetui/cabinet/engine"
	"github.com/cabinetui/cabinet/file"
	"github.com/cabinetui/cabinet/internal/hitmap"
)

var instanceSeq atomic.Uint64

// Browser is one independent file-browser instance: its own registry,
// stores, dispatch queue, and drag coordinator. It implements tea.Model.
type Browser struct {
	opts       Options
	instanceID string
	logger     *slog.Logger

	registry   *action.Registry
	store      *engine.Store
	dispatcher *engine.Dispatcher
	drag       *dnd.Coordinator

	files *file.Collection
	snap  engine.Snapshot

	keys   KeyMap
	styles Styles
	hits   *hitmap.HitMap

	width, height int
	cursor        int
	scroll        int
	focused       bool
	status        string

	// click bookkeeping for double-click detection and drag gestures
	lastClickID string
	lastClickAt time.Time
	pressed     *file.Record
	now         func() time.Time

	contextTrigger *file.Record

	naming      bool
	folderInput textinput.Model
}

// New constructs a browser instance. Options are merged over the process
// defaults (freezing them), the file array is normalized with duplicate-ID
// warnings logged, and the action registry is built; a duplicate action ID
// is fatal here.
func New(opts Options) (*Browser, error) {
	opts = merge(freezeDefaults(), opts)

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	registry, err := action.NewRegistry(opts.Actions, action.RegistryOptions{
		AllowShadowing:  opts.AllowActionShadowing,
		DisableDefaults: opts.DisableDefaultActions,
	})
	if err != nil {
		return nil, fmt.Errorf("cabinet: building action registry: %w", err)
	}

	instanceID := opts.InstanceID
	if instanceID == "" {
		instanceID = fmt.Sprintf("cabinet-%d", instanceSeq.Add(1))
	}

	store := engine.NewStore(initialSnapshot(opts), validateSnapshot)

	b := &Browser{
		opts:       opts,
		instanceID: instanceID,
		logger:     logger,
		registry:   registry,
		store:      store,
		keys:       DefaultKeyMap(),
		hits:       hitmap.New(),
		now:        time.Now,
		focused:    true,
	}
	if opts.Styles != nil {
		b.styles = *opts.Styles
	} else {
		b.styles = DefaultStyles()
	}

	b.dispatcher = engine.NewDispatcher(engine.DispatcherConfig{
		InstanceID: instanceID,
		Store:      store,
		Resolver:   registry,
		Handler:    opts.OnAction,
		OnError:    opts.OnError,
		Logger:     logger,
	})
	b.drag = dnd.NewCoordinator(b.dispatcher)

	store.Subscribe(func(s engine.Snapshot) {
		b.snap = s
		b.clampCursor()
	})
	b.snap = store.Snapshot()

	b.folderInput = textinput.New()
	b.folderInput.Placeholder = "folder name"
	b.folderInput.CharLimit = 255

	b.setCollection(file.NewCollection(opts.Files))
	return b, nil
}

// validateSnapshot is the store's commit guard.
func validateSnapshot(s engine.Snapshot) error {
	if !file.KnownSortKey(s.SortKey) {
		return &engine.InvalidStateTransitionError{
			Reason: fmt.Sprintf("unknown sort key %q", s.SortKey),
		}
	}
	switch s.ViewMode {
	case engine.ListView, engine.GridView:
	default:
		return &engine.InvalidStateTransitionError{
			Reason: fmt.Sprintf("unknown view mode %q", s.ViewMode),
		}
	}
	switch s.SortDir {
	case file.Ascending, file.Descending:
	default:
		return &engine.InvalidStateTransitionError{
			Reason: fmt.Sprintf("unknown sort direction %q", s.SortDir),
		}
	}
	return nil
}

// SetFiles replaces the file array. The old slice is never mutated; a new
// collection is normalized, duplicate-ID warnings are logged, and future
// dispatches resolve against the new array.
func (b *Browser) SetFiles(raws []*file.Raw) {
	b.setCollection(file.NewCollection(raws))
}

func (b *Browser) setCollection(col *file.Collection) {
	for _, w := range col.Warnings() {
		b.logger.Warn("file array warning", "instance", b.instanceID, "warning", w.String())
	}
	b.files = col
	b.dispatcher.SetFiles(col)
	b.clampCursor()
}

// SetFolder records the folder the file array belongs to, for the toolbar
// and dispatch records. Hosts call it alongside SetFiles when navigation
// lands in a new folder. The selection is cleared: it referred to the old
// listing.
func (b *Browser) SetFolder(id string) error {
	next := b.store.Snapshot()
	next.FolderID = id
	next.Selection = nil
	if err := b.store.Commit(next); err != nil {
		return err
	}
	b.cursor = 0
	b.scroll = 0
	return nil
}

// InstanceID returns the identifier carried in this instance's dispatch
// records.
func (b *Browser) InstanceID() string { return b.instanceID }

// Dispatch fires an action by ID, exactly as internal input handling does.
// Hosts use this for toolbar buttons, context menus, and programmatic
// control.
func (b *Browser) Dispatch(actionID string, ctx engine.Context) (engine.Ack, error) {
	return b.dispatcher.Dispatch(actionID, ctx)
}

// Snapshot returns the current selection/view state.
func (b *Browser) Snapshot() engine.Snapshot { return b.store.Snapshot() }

// Store exposes the selection/view store for subscription by the host's
// render plumbing.
func (b *Browser) Store() *engine.Store { return b.store }

// Registry returns the instance's immutable action registry.
func (b *Browser) Registry() *action.Registry { return b.registry }

// Drag exposes the drag-and-drop coordinator, for hosts that capture
// pointer gestures themselves.
func (b *Browser) Drag() *dnd.Coordinator { return b.drag }

// ContextMenuTrigger returns the file most recently right-clicked, or nil
// when the last right-click landed outside every row. Hosts pass it as the
// TriggerFile of the dispatches their context menu fires.
func (b *Browser) ContextMenuTrigger() *file.Record { return b.contextTrigger }

// Focused reports whether the widget consumes key input.
func (b *Browser) Focused() bool { return b.focused }

// SetFocused toggles key input handling.
func (b *Browser) SetFocused(v bool) { b.focused = v }

// visible returns the records in displayed order: current sort applied,
// hidden files filtered per the snapshot, placeholders kept (they render as
// loading rows, sorted to the end).
func (b *Browser) visible() []*file.Record {
	sorted := file.Sort(b.files.Records(), b.snap.SortKey, b.snap.SortDir)
	if b.snap.ShowHidden {
		return sorted
	}
	out := make([]*file.Record, 0, len(sorted))
	for _, rec := range sorted {
		if rec != nil && rec.Hidden {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (b *Browser) focusedRecord() *file.Record {
	rows := b.visible()
	if b.cursor < 0 || b.cursor >= len(rows) {
		return nil
	}
	return rows[b.cursor]
}

func (b *Browser) clampCursor() {
	n := len(b.visible())
	if b.cursor >= n {
		b.cursor = n - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
}

// dispatch is the internal dispatch helper: errors become the status line
// and a log entry instead of propagating into the event loop.
func (b *Browser) dispatch(actionID string, ctx engine.Context) {
	if _, err := b.dispatcher.Dispatch(actionID, ctx); err != nil {
		b.status = err.Error()
		b.logger.Debug("dispatch rejected", "instance", b.instanceID,
			"action", actionID, "error", err)
	}
}

// Init implements tea.Model.
func (b *Browser) Init() tea.Cmd { return nil }

// Update implements tea.Model. All input is translated into dispatches; the
// widget keeps only presentation state (cursor, scroll, prompt) of its own.
func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
	case tea.KeyMsg:
		if b.focused {
			return b.handleKey(msg)
		}
	case tea.MouseMsg:
		return b.handleMouse(msg)
	}
	return b, nil
}

func (b *Browser) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if b.naming {
		return b.handleNamingKey(msg)
	}
	b.status = ""

	switch {
	case key.Matches(msg, b.keys.Up):
		if b.cursor > 0 {
			b.cursor--
			b.ensureCursorVisible()
		}

	case key.Matches(msg, b.keys.Down):
		if b.cursor < len(b.visible())-1 {
			b.cursor++
			b.ensureCursorVisible()
		}

	case key.Matches(msg, b.keys.Open):
		if len(b.snap.Selection) > 0 {
			b.dispatch(action.OpenSelection, engine.Context{})
		} else if rec := b.focusedRecord(); rec != nil {
			b.dispatch(action.OpenFiles, engine.Context{
				TriggerFile: rec,
				Payload:     action.OpenFilesPayload{Targets: []*file.Record{rec}},
			})
		}

	case key.Matches(msg, b.keys.Parent):
		b.dispatch(action.OpenParentFolder, engine.Context{})

	case key.Matches(msg, b.keys.ToggleSelect):
		if b.opts.DisableSelection {
			break
		}
		if rec := b.focusedRecord(); rec != nil {
			b.dispatch(action.KeyboardClickFile, engine.Context{
				Payload: action.KeyboardClickPayload{FileID: rec.ID},
			})
		}

	case key.Matches(msg, b.keys.SelectAll):
		if !b.opts.DisableSelection {
			b.dispatch(action.SelectAllFiles, engine.Context{})
		}

	case key.Matches(msg, b.keys.ClearSel):
		if b.drag.State() != dnd.Idle {
			b.drag.Cancel()
			break
		}
		b.dispatch(action.ClearSelection, engine.Context{})

	case key.Matches(msg, b.keys.SortName):
		b.dispatch(action.SortFilesByName, engine.Context{})

	case key.Matches(msg, b.keys.SortSize):
		b.dispatch(action.SortFilesBySize, engine.Context{})

	case key.Matches(msg, b.keys.SortDate):
		b.dispatch(action.SortFilesByDate, engine.Context{})

	case key.Matches(msg, b.keys.ToggleView):
		if b.snap.ViewMode == engine.ListView {
			b.dispatch(action.EnableGridView, engine.Context{})
		} else {
			b.dispatch(action.EnableListView, engine.Context{})
		}

	case key.Matches(msg, b.keys.ToggleHidden):
		b.dispatch(action.ToggleHiddenFiles, engine.Context{})

	case key.Matches(msg, b.keys.NewFolder):
		b.naming = true
		b.folderInput.SetValue("")
		b.folderInput.Focus()
		return b, textinput.Blink

	case key.Matches(msg, b.keys.Delete):
		b.dispatch(action.DeleteFiles, engine.Context{TriggerFile: b.focusedRecord()})

	case key.Matches(msg, b.keys.Copy):
		b.dispatch(action.CopyFiles, engine.Context{TriggerFile: b.focusedRecord()})
	}

	return b, nil
}

// handleNamingKey drives the create-folder prompt.
func (b *Browser) handleNamingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		b.naming = false
		b.folderInput.Blur()
		return b, nil
	case "enter":
		name := b.folderInput.Value()
		b.naming = false
		b.folderInput.Blur()
		if name != "" {
			b.dispatch(action.CreateFolder, engine.Context{
				Payload: action.CreateFolderPayload{Name: name},
			})
		}
		return b, nil
	}
	var cmd tea.Cmd
	b.folderInput, cmd = b.folderInput.Update(msg)
	return b, cmd
}

func (b *Browser) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if b.scroll > 0 {
			b.scroll--
		}
		return b, nil
	case tea.MouseButtonWheelDown:
		b.scroll++
		return b, nil
	}

	region := b.hits.Test(msg.X, msg.Y)
	var rec *file.Record
	if region != nil {
		if r, ok := region.Data.(*file.Record); ok {
			rec = r
		}
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonRight {
			b.contextTrigger = rec
			if rec != nil && !b.opts.DisableSelection && !b.snap.Selected(rec.ID) {
				b.dispatch(action.MouseClickFile, engine.Context{
					TriggerFile: rec,
					Payload:     action.MouseClickPayload{FileID: rec.ID},
				})
			}
			return b, nil
		}
		if msg.Button != tea.MouseButtonLeft {
			return b, nil
		}
		if rec == nil {
			b.pressed = nil
			if b.opts.ClearSelectionOnOutsideClick && !b.opts.DisableSelection {
				b.dispatch(action.ClearSelection, engine.Context{})
			}
			return b, nil
		}
		b.pressed = rec
		b.focusRecord(rec)
		return b.leftClick(rec, msg)

	case tea.MouseActionMotion:
		if b.pressed == nil || b.opts.DisableDragAndDrop {
			return b, nil
		}
		if b.drag.State() == dnd.Idle {
			if rec == nil || rec.ID == b.pressed.ID {
				return b, nil
			}
			if err := b.drag.Begin(b.dragSources()); err != nil {
				b.pressed = nil
				return b, nil
			}
		}
		if err := b.drag.Hover(rec); err != nil {
			b.logger.Debug("hover rejected", "instance", b.instanceID, "error", err)
		}
		return b, nil

	case tea.MouseActionRelease:
		defer func() { b.pressed = nil }()
		if b.drag.State() != dnd.Idle {
			if err := b.drag.Drop(); err != nil {
				b.status = err.Error()
			}
		}
		return b, nil
	}

	return b, nil
}

// leftClick dispatches a single or double click on a file row.
func (b *Browser) leftClick(rec *file.Record, msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	now := b.now()
	isDouble := rec.ID == b.lastClickID && now.Sub(b.lastClickAt) <= b.opts.DoubleClickDelay
	b.lastClickID = rec.ID
	b.lastClickAt = now

	if isDouble {
		b.lastClickID = ""
		b.dispatch(action.OpenFiles, engine.Context{
			TriggerFile: rec,
			Payload:     action.OpenFilesPayload{Targets: []*file.Record{rec}},
		})
		return b, nil
	}
	if b.opts.DisableSelection {
		return b, nil
	}
	b.dispatch(action.MouseClickFile, engine.Context{
		TriggerFile: rec,
		Payload: action.MouseClickPayload{
			FileID: rec.ID,
			Ctrl:   msg.Ctrl,
			Shift:  msg.Shift,
		},
	})
	return b, nil
}

// dragSources picks the gesture's source set: the whole selection when the
// pressed file is part of it, otherwise just the pressed file.
func (b *Browser) dragSources() []*file.Record {
	if b.pressed == nil {
		return nil
	}
	if b.snap.Selected(b.pressed.ID) {
		var out []*file.Record
		for _, id := range b.snap.Selection {
			if rec, ok := b.files.Get(id); ok {
				out = append(out, rec)
			}
		}
		return out
	}
	return []*file.Record{b.pressed}
}

// focusRecord moves the cursor to a record's row.
func (b *Browser) focusRecord(rec *file.Record) {
	for i, r := range b.visible() {
		if r != nil && r.ID == rec.ID {
			b.cursor = i
			b.ensureCursorVisible()
			return
		}
	}
}
