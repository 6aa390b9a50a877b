// Package action defines file actions — declarative units of behavior with
// an ID, selection constraints, and optional selection transforms and
// effects — plus the registry that holds the closed action set of one
// browser instance.
package action

import (
	"fmt"

	"github.com/cabinetui/cabinet/engine"
)

// Action is a file action definition. The embedded spec is what the
// dispatcher consumes; the extra fields bind a payload shape to the ID and
// describe the action for host UIs.
type Action struct {
	engine.ActionSpec

	// Payload is a zero value of the action's payload type. It exists for
	// construction-time contract binding only and has no runtime behavior:
	// payloads passed to Dispatch are trusted, not validated.
	Payload any

	// Description is a short human-readable label.
	Description string
}

// DuplicateActionIDError is returned when two actions in one registry share
// an ID. Registry construction errors are fatal to instance construction.
type DuplicateActionIDError struct {
	ActionID string
}

func (e *DuplicateActionIDError) Error() string {
	return fmt.Sprintf("duplicate action ID %q", e.ActionID)
}

// RegistryOptions configures registry construction.
type RegistryOptions struct {
	// AllowShadowing lets a host action reuse a built-in ID, replacing the
	// built-in. Without it such a collision is a DuplicateActionIDError.
	// Two host actions sharing an ID always collide.
	AllowShadowing bool

	// DisableDefaults builds the registry from host actions only.
	DisableDefaults bool
}

// Registry is the closed, immutable set of actions of one browser instance.
// It is built once at instance construction; re-registering requires a new
// instance.
type Registry struct {
	actions map[string]Action
	order   []string
}

// NewRegistry merges the built-in actions with host-supplied ones.
func NewRegistry(custom []Action, opts RegistryOptions) (*Registry, error) {
	r := &Registry{actions: make(map[string]Action)}

	if !opts.DisableDefaults {
		for _, a := range Builtins() {
			r.add(a)
		}
	}
	seenCustom := make(map[string]struct{}, len(custom))
	for _, a := range custom {
		if a.ID == "" {
			return nil, fmt.Errorf("action with empty ID")
		}
		if _, dup := seenCustom[a.ID]; dup {
			return nil, &DuplicateActionIDError{ActionID: a.ID}
		}
		seenCustom[a.ID] = struct{}{}
		if _, exists := r.actions[a.ID]; exists && !opts.AllowShadowing {
			return nil, &DuplicateActionIDError{ActionID: a.ID}
		}
		r.add(a)
	}
	return r, nil
}

func (r *Registry) add(a Action) {
	if _, exists := r.actions[a.ID]; !exists {
		r.order = append(r.order, a.ID)
	}
	r.actions[a.ID] = a
}

// Resolve implements engine.Resolver.
func (r *Registry) Resolve(id string) (engine.ActionSpec, bool) {
	a, ok := r.actions[id]
	return a.ActionSpec, ok
}

// Get returns the full action definition.
func (r *Registry) Get(id string) (Action, bool) {
	a, ok := r.actions[id]
	return a, ok
}

// IDs returns all action IDs in registration order, built-ins first.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// Len reports the number of registered actions.
func (r *Registry) Len() int { return len(r.order) }
