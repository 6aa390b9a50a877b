// Package dnd implements the drag-and-drop coordinator: a short-lived
// per-gesture state machine that validates draggable/droppable predicates,
// announces the gesture with start_drag_n_drop and end_drag_n_drop
// dispatches, and turns a successful drop into a single move_files
// dispatch. Cancelling issues no further dispatch.
package dnd

import (
	"errors"

	"github.com/cabinetui/cabinet/action"
	"github.com/cabinetui/cabinet/engine"
	"github.com/cabinetui/cabinet/file"
)

// State is the coordinator's gesture phase.
type State int

const (
	Idle State = iota
	Dragging
	HoveringTarget
)

func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case HoveringTarget:
		return "hovering"
	default:
		return "idle"
	}
}

// GestureConflictError is returned by Begin while a gesture is already
// active. The new gesture is ignored.
type GestureConflictError struct{}

func (e *GestureConflictError) Error() string {
	return "drag gesture already in progress"
}

// ErrNotDraggable rejects a gesture whose source set contains a
// non-draggable or placeholder file.
var ErrNotDraggable = errors.New("file is not draggable")

// ErrNotDroppable rejects a hover over a target that cannot accept drops.
// The gesture stays in Dragging.
var ErrNotDroppable = errors.New("target is not droppable")

// ErrNoGesture is returned by Hover and Drop outside an active gesture.
var ErrNoGesture = errors.New("no drag gesture in progress")

// Coordinator runs at most one drag gesture per browser instance. It owns
// no store state; its only output is dispatches into the engine.
type Coordinator struct {
	dispatcher *engine.Dispatcher

	state   State
	sources []*file.Record
	target  *file.Record
}

// NewCoordinator creates an idle coordinator bound to one dispatcher.
func NewCoordinator(dispatcher *engine.Dispatcher) *Coordinator {
	return &Coordinator{dispatcher: dispatcher}
}

// State returns the current gesture phase.
func (c *Coordinator) State() State { return c.state }

// Sources returns the files being dragged, nil when idle.
func (c *Coordinator) Sources() []*file.Record { return c.sources }

// Target returns the hovered drop target, nil unless hovering.
func (c *Coordinator) Target() *file.Record { return c.target }

// Begin starts a gesture and announces it with a start_drag_n_drop
// dispatch. Every source must be draggable; a second Begin while a gesture
// is active fails with GestureConflictError and leaves the running gesture
// untouched.
func (c *Coordinator) Begin(sources []*file.Record) error {
	if c.state != Idle {
		return &GestureConflictError{}
	}
	if len(sources) == 0 {
		return ErrNotDraggable
	}
	for _, rec := range sources {
		if rec == nil || !rec.Draggable {
			return ErrNotDraggable
		}
	}
	c.state = Dragging
	c.sources = sources
	c.target = nil

	if _, err := c.dispatcher.Dispatch(action.StartDragNDrop, engine.Context{
		Payload: action.StartDragPayload{Sources: sources},
	}); err != nil {
		c.reset()
		return err
	}
	return nil
}

// Hover moves the gesture over a candidate target. A non-droppable target,
// a placeholder, or a target that is itself being dragged rejects the hover
// and the gesture stays in Dragging. Hovering nil leaves any previous
// target.
func (c *Coordinator) Hover(target *file.Record) error {
	if c.state == Idle {
		return ErrNoGesture
	}
	if target == nil {
		c.state = Dragging
		c.target = nil
		return nil
	}
	if !target.Droppable || c.isSource(target) {
		c.state = Dragging
		c.target = nil
		return ErrNotDroppable
	}
	c.state = HoveringTarget
	c.target = target
	return nil
}

// Drop completes the gesture with exactly one move_files dispatch carrying
// the sources and target, followed by an end_drag_n_drop dispatch, and
// returns to Idle regardless of the dispatch outcomes. Dropping without a
// hovered target cancels instead: no dispatch.
func (c *Coordinator) Drop() error {
	if c.state == Idle {
		return ErrNoGesture
	}
	if c.state != HoveringTarget || c.target == nil {
		c.Cancel()
		return nil
	}

	sources, target := c.sources, c.target
	c.reset()

	_, moveErr := c.dispatcher.Dispatch(action.MoveFiles, engine.Context{
		Payload: action.MoveFilesPayload{Sources: sources, Destination: target},
	})
	if _, err := c.dispatcher.Dispatch(action.EndDragNDrop, engine.Context{}); moveErr == nil {
		moveErr = err
	}
	return moveErr
}

// Cancel abandons the gesture with no dispatch, e.g. on escape or a release
// outside any drop target.
func (c *Coordinator) Cancel() {
	c.reset()
}

func (c *Coordinator) reset() {
	c.state = Idle
	c.sources = nil
	c.target = nil
}

func (c *Coordinator) isSource(rec *file.Record) bool {
	for _, src := range c.sources {
		if src != nil && src.ID == rec.ID {
			return true
		}
	}
	return false
}
