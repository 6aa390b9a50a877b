package engine

import "fmt"

// UnknownActionError is returned by Dispatch when the action ID does not
// resolve in the registry. No state changes and no handler runs.
type UnknownActionError struct {
	ActionID string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action %q", e.ActionID)
}

// SelectionSizeViolationError is returned by Dispatch when the effective
// selection does not satisfy the action's size requirement. No state changes
// and no handler runs.
type SelectionSizeViolationError struct {
	ActionID string
	Required SelectionSize
	Got      int
}

func (e *SelectionSizeViolationError) Error() string {
	return fmt.Sprintf("action %q requires %s files, selection has %d",
		e.ActionID, e.Required, e.Got)
}

// EffectExecutionError wraps a failure from an action's internal effect.
// The previous snapshot is retained and the external handler is not invoked.
type EffectExecutionError struct {
	ActionID string
	Err      error
}

func (e *EffectExecutionError) Error() string {
	return fmt.Sprintf("effect of action %q failed: %v", e.ActionID, e.Err)
}

func (e *EffectExecutionError) Unwrap() error { return e.Err }

// InvalidStateTransitionError is returned by Store.Commit when the next
// snapshot fails validation. The previous snapshot stays in place; commits
// are all-or-nothing.
type InvalidStateTransitionError struct {
	Reason string
}

func (e *InvalidStateTransitionError) Error() string {
	return "invalid state transition: " + e.Reason
}
