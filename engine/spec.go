package engine

import "github.com/cabinetui/cabinet/file"

// SelectionSize constrains how many files the effective selection must hold
// for an action to be dispatchable.
type SelectionSize int

const (
	AnySize SelectionSize = iota
	ExactlyZero
	ExactlyOne
	OneOrMore
)

func (s SelectionSize) String() string {
	switch s {
	case ExactlyZero:
		return "exactly zero"
	case ExactlyOne:
		return "exactly one"
	case OneOrMore:
		return "one or more"
	default:
		return "any number of"
	}
}

// Satisfied reports whether a selection of n files meets the constraint.
func (s SelectionSize) Satisfied(n int) bool {
	switch s {
	case ExactlyZero:
		return n == 0
	case ExactlyOne:
		return n == 1
	case OneOrMore:
		return n >= 1
	default:
		return true
	}
}

// ActionSpec is the dispatcher-facing contract of a file action. The action
// package wraps it with payload binding and the built-in action set; hosts
// normally construct actions there rather than here.
//
// All function fields are optional. A nil FileFilter means the action sees
// the full selection, a nil SelectionTransform leaves the selection alone,
// and a nil Effect makes the action read-only for the store.
type ActionSpec struct {
	ID       string
	Requires SelectionSize

	// FileFilter narrows the selection passed to this action.
	FileFilter func(*file.Record) bool

	// SelectionTransform maps the current selection IDs to the next ones.
	// It runs before the effect and receives the dispatch state for
	// payload access. It must not mutate its input.
	SelectionTransform func(selection []string, state *DispatchState) []string

	// Effect computes the next snapshot from the current one. It must be
	// pure: same inputs, same output, no I/O.
	Effect func(current Snapshot, state *DispatchState) (Snapshot, error)
}

// Resolver looks up action specs by ID. Implemented by action.Registry.
type Resolver interface {
	Resolve(id string) (ActionSpec, bool)
}
