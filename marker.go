// Package autobind implements declarative lifecycle automation for
// component-based object models. Members of a scripted type are bound to
// lifecycle phases with markers: assign-markers populate a field or
// property with a literal value or a scoped component lookup, and
// call-markers invoke a method with a literal argument list. Markers are
// declared either as struct tags on fields or through the Bindings
// registration interface for methods and property accessors.
//
// The engine builds an ordered execution plan per phase exactly once, at
// the first Init firing, and replays it on every subsequent firing of
// that phase. Failures are member-local: a bad declaration produces a
// diagnostic and a skip, never an aborted batch.
//
// Basic usage:
//
//	type Missile struct {
//		scene.Behavior
//		Speed float64 `autobind:"start,value=12.5"`
//		Guide *Radar  `autobind:"enable,scope=parent"`
//	}
//
//	dispatcher := autobind.NewDispatcher(autobind.WithLogger(logger))
//	dispatcher.Fire(missile, autobind.PhaseInit)
package autobind

import (
	"fmt"
	"math"
	"strings"
)

// Phase identifies a firing point in an object's lifecycle. The host is
// expected to fire phases in declaration order (Init before Start before
// Enable, then the tick phases repeatedly), with Init fired at most once
// per instance. The engine itself treats each phase independently.
type Phase int

const (
	// PhaseInit fires once, first, and triggers the one-time build of
	// the execution plan.
	PhaseInit Phase = iota

	// PhaseStart fires once after Init, before the object enters the
	// regular update cycle.
	PhaseStart

	// PhaseEnable fires when the object becomes active, including the
	// initial activation after Start.
	PhaseEnable

	// PhaseTick fires every frame update.
	PhaseTick

	// PhasePhysicsTick fires on the fixed-timestep physics update.
	PhasePhysicsTick

	// PhaseLateTick fires after all PhaseTick work in a frame.
	PhaseLateTick

	phaseCount
)

// String returns the canonical phase name.
func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "Init"
	case PhaseStart:
		return "Start"
	case PhaseEnable:
		return "Enable"
	case PhaseTick:
		return "Tick"
	case PhasePhysicsTick:
		return "PhysicsTick"
	case PhaseLateTick:
		return "LateTick"
	default:
		return "Unknown"
	}
}

// ParsePhase parses a phase token as it appears in an autobind struct
// tag. Matching is case-insensitive.
func ParsePhase(s string) (Phase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "init":
		return PhaseInit, nil
	case "start":
		return PhaseStart, nil
	case "enable":
		return PhaseEnable, nil
	case "tick":
		return PhaseTick, nil
	case "physicstick":
		return PhasePhysicsTick, nil
	case "latetick":
		return PhaseLateTick, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPhase, s)
	}
}

// Scope selects the search breadth of a component lookup performed for
// an assign-marker that carries no literal value.
type Scope int

const (
	// ScopeSelf looks up components attached to the object itself.
	ScopeSelf Scope = iota

	// ScopeChildren looks up components in the subtree rooted at the
	// object, including inactive descendants.
	ScopeChildren

	// ScopeParent looks up components along the ancestor chain.
	ScopeParent
)

// String returns the canonical scope name.
func (s Scope) String() string {
	switch s {
	case ScopeSelf:
		return "Self"
	case ScopeChildren:
		return "Children"
	case ScopeParent:
		return "Parent"
	default:
		return "Unknown"
	}
}

// ParseScope parses a scope token as it appears in an autobind struct
// tag. Matching is case-insensitive.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "self":
		return ScopeSelf, nil
	case "children":
		return ScopeChildren, nil
	case "parent":
		return ScopeParent, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownScope, s)
	}
}

// OrderUnset is the sentinel order value meaning "no explicit order".
// Members left at OrderUnset receive the running per-phase count of
// their sweep at build time. Explicit orders always win over assigned
// ones within the same phase and sweep.
const OrderUnset = math.MinInt

// AssignMarker binds a field or property to a lifecycle phase. When a
// literal value is present it is assigned as-is, subject to an exact
// runtime type check. Without a literal, the member's declared type must
// satisfy the Component capability and the value is resolved through a
// scoped lookup against the owning object.
type AssignMarker struct {
	Phase    Phase
	Value    any
	HasValue bool
	Scope    Scope
	Order    int
}

// AssignAt returns an assign-marker that resolves the member through a
// Self-scoped component lookup at the given phase.
func AssignAt(phase Phase) AssignMarker {
	return AssignMarker{Phase: phase, Scope: ScopeSelf, Order: OrderUnset}
}

// AssignValue returns an assign-marker that assigns the literal value at
// the given phase.
func AssignValue(phase Phase, value any) AssignMarker {
	return AssignMarker{Phase: phase, Value: value, HasValue: true, Scope: ScopeSelf, Order: OrderUnset}
}

// WithScope returns a copy of the marker with the lookup scope set.
func (m AssignMarker) WithScope(scope Scope) AssignMarker {
	m.Scope = scope
	return m
}

// WithOrder returns a copy of the marker with an explicit execution order.
func (m AssignMarker) WithOrder(order int) AssignMarker {
	m.Order = order
	return m
}

// CallMarker binds a method to a lifecycle phase with a literal argument
// list. Arguments are matched positionally against the method's
// parameters with an exact runtime type check. A list longer than the
// parameter count is tolerated and only the first N arguments are
// consumed; a shorter list skips the call with a diagnostic.
type CallMarker struct {
	Phase Phase
	Args  []any
	Order int
}

// CallAt returns a call-marker invoking the method with the given
// literal arguments at the given phase.
func CallAt(phase Phase, args ...any) CallMarker {
	return CallMarker{Phase: phase, Args: args, Order: OrderUnset}
}

// WithOrder returns a copy of the marker with an explicit execution order.
func (m CallMarker) WithOrder(order int) CallMarker {
	m.Order = order
	return m
}
