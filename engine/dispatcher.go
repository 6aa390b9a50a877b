package engine

import (
	"log/slog"
	"sync"

	"github.com/cabinetui/cabinet/file"
)

// DispatchState is the canonical record built once per dispatch. The same
// record is passed to the action's internal effect and to the external
// handler; the two must never observe divergent snapshots. It is immutable
// after construction and discarded when the handler returns.
type DispatchState struct {
	InstanceID string
	ActionID   string

	// SelectedFiles is the full selection at dispatch time, before any
	// selection transform ran.
	SelectedFiles []*file.Record

	// SelectedFilesForAction is SelectedFiles narrowed by the action's
	// file filter. Always a subset of SelectedFiles.
	SelectedFilesForAction []*file.Record

	// ContextMenuTriggerFile is the file that was right-clicked to open
	// the context menu, or nil when the dispatch came from elsewhere.
	ContextMenuTriggerFile *file.Record

	Payload any

	files *file.Collection
}

// AllFiles returns the full normalized file array backing this dispatch,
// for effects that derive state from the whole listing (select-all, range
// selection). Nil entries are loading placeholders.
func (s *DispatchState) AllFiles() []*file.Record {
	return s.files.Records()
}

// File resolves a record by ID against the dispatch-time file array.
func (s *DispatchState) File(id string) (*file.Record, bool) {
	return s.files.Get(id)
}

// Context carries the trigger details of one dispatch call.
type Context struct {
	// TriggerFile is the file the gesture started on (right-click target,
	// double-clicked row). May be nil.
	TriggerFile *file.Record

	// Payload is the action-specific payload. Payload shapes are bound to
	// action IDs at construction time and trusted at dispatch time.
	Payload any
}

// Ack reports the outcome of a dispatch call.
type Ack struct {
	ActionID string

	// Enqueued is true when the dispatch arrived while another one was in
	// flight and was queued instead of run. Errors of queued dispatches
	// are reported through the OnError callback.
	Enqueued bool

	// Committed is true when the dispatch produced a store commit.
	Committed bool
}

// Handler is the host callback invoked after a successful dispatch. It runs
// once the store already reflects post-effect state, so reading the store
// inside the handler sees the new state while state.SelectedFiles still
// reflects the triggering selection.
type Handler func(state *DispatchState)

// Dispatcher is the single entry point for firing actions against one
// browser instance. Dispatches are serialized FIFO: a dispatch issued from
// inside a handler or listener is queued, never interleaved.
type Dispatcher struct {
	instanceID string
	store      *Store
	resolver   Resolver
	handler    Handler
	onError    func(actionID string, err error)
	logger     *slog.Logger

	mu     sync.Mutex
	files  *file.Collection
	active bool
	queue  []pendingDispatch
}

type pendingDispatch struct {
	actionID string
	ctx      Context
}

// DispatcherConfig wires a Dispatcher. Resolver and Store are required;
// everything else is optional.
type DispatcherConfig struct {
	InstanceID string
	Store      *Store
	Resolver   Resolver
	Handler    Handler
	OnError    func(actionID string, err error)
	Logger     *slog.Logger
}

// NewDispatcher creates a dispatcher for one instance.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		instanceID: cfg.InstanceID,
		store:      cfg.Store,
		resolver:   cfg.Resolver,
		handler:    cfg.Handler,
		onError:    cfg.OnError,
		logger:     logger,
	}
}

// SetFiles swaps in a new file collection. Dispatches started after this
// call resolve selections against the new array.
func (d *Dispatcher) SetFiles(files *file.Collection) {
	d.mu.Lock()
	d.files = files
	d.mu.Unlock()
}

// Files returns the collection dispatches currently resolve against.
func (d *Dispatcher) Files() *file.Collection {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.files
}

// Dispatch resolves and fires an action. Failures are local: on any error
// the store is unchanged and the handler has not been called for this
// dispatch. When called re-entrantly (from a handler or a store listener)
// the request is enqueued FIFO and the returned Ack has Enqueued set.
func (d *Dispatcher) Dispatch(actionID string, ctx Context) (Ack, error) {
	d.mu.Lock()
	if d.active {
		d.queue = append(d.queue, pendingDispatch{actionID: actionID, ctx: ctx})
		d.mu.Unlock()
		return Ack{ActionID: actionID, Enqueued: true}, nil
	}
	d.active = true
	d.mu.Unlock()

	ack, err := d.run(actionID, ctx)
	d.drain()
	return ack, err
}

// drain runs queued dispatches in arrival order. Dispatches enqueued while
// draining are appended and picked up by the same loop.
func (d *Dispatcher) drain() {
	for {
		d.mu.Lock()
		if len(d.queue) == 0 {
			d.active = false
			d.mu.Unlock()
			return
		}
		next := d.queue[0]
		d.queue = d.queue[1:]
		d.mu.Unlock()

		if _, err := d.run(next.actionID, next.ctx); err != nil {
			d.logger.Warn("queued dispatch failed",
				"action", next.actionID, "error", err)
			if d.onError != nil {
				d.onError(next.actionID, err)
			}
		}
	}
}

// run executes one dispatch end to end: resolve, validate, transform,
// commit, then invoke the handler exactly once.
func (d *Dispatcher) run(actionID string, ctx Context) (Ack, error) {
	spec, ok := d.resolver.Resolve(actionID)
	if !ok {
		return Ack{ActionID: actionID}, &UnknownActionError{ActionID: actionID}
	}

	snap := d.store.Snapshot()
	files := d.Files()

	selected := resolveSelection(files, snap.Selection)
	forAction := selected
	if spec.FileFilter != nil {
		forAction = make([]*file.Record, 0, len(selected))
		for _, rec := range selected {
			if spec.FileFilter(rec) {
				forAction = append(forAction, rec)
			}
		}
	}

	if !spec.Requires.Satisfied(len(forAction)) {
		return Ack{ActionID: actionID}, &SelectionSizeViolationError{
			ActionID: actionID,
			Required: spec.Requires,
			Got:      len(forAction),
		}
	}

	state := &DispatchState{
		InstanceID:             d.instanceID,
		ActionID:               actionID,
		SelectedFiles:          selected,
		SelectedFilesForAction: forAction,
		ContextMenuTriggerFile: ctx.TriggerFile,
		Payload:                ctx.Payload,
		files:                  files,
	}

	next := snap
	dirty := false
	if spec.SelectionTransform != nil {
		next.Selection = spec.SelectionTransform(snap.clone().Selection, state)
		dirty = true
	}
	if spec.Effect != nil {
		var err error
		next, err = spec.Effect(next, state)
		if err != nil {
			return Ack{ActionID: actionID}, &EffectExecutionError{ActionID: actionID, Err: err}
		}
		dirty = true
	}
	if dirty {
		if err := d.store.Commit(next); err != nil {
			return Ack{ActionID: actionID}, err
		}
	}

	if d.handler != nil {
		d.handler(state)
	}
	return Ack{ActionID: actionID, Committed: dirty}, nil
}

// resolveSelection maps selection IDs to records, first occurrence winning.
// IDs that no longer resolve in the current array are skipped.
func resolveSelection(files *file.Collection, ids []string) []*file.Record {
	out := make([]*file.Record, 0, len(ids))
	for _, id := range ids {
		if rec, ok := files.Get(id); ok {
			out = append(out, rec)
		}
	}
	return out
}
