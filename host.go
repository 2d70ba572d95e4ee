package autobind

import "reflect"

// Component is the capability marker for host component types. An
// assign-marker without a literal value is only valid on members whose
// declared type satisfies this interface; the value is then resolved
// through a scoped lookup. Modeling lookup eligibility as an explicit
// capability keeps the check polymorphic over any concrete component
// variant without resorting to a runtime subclass test.
type Component interface {
	// ComponentName returns a stable human-readable name for the
	// component type, used in diagnostics and inspection output.
	ComponentName() string
}

// componentType is the reflect view of the Component capability.
var componentType = reflect.TypeOf((*Component)(nil)).Elem()

// isComponentType reports whether values of t can be produced by a
// scoped component lookup.
func isComponentType(t reflect.Type) bool {
	if t == nil {
		return false
	}
	return t.Implements(componentType)
}

// ComponentLocator is the host-side query surface for scoped component
// lookups. The engine requests the first component assignable to typ
// within the given scope; includeInactive extends ScopeChildren searches
// to inactive descendants. A miss is reported as (nil, false), never as
// an error: the engine converts it to a lookup-miss diagnostic.
type ComponentLocator interface {
	FindComponent(typ reflect.Type, scope Scope, includeInactive bool) (Component, bool)
}

// LocatorProvider is implemented by automated instances that can supply
// their own component locator, typically the object they are attached
// to. The engine consults it at build time when no locator was given as
// an option.
type LocatorProvider interface {
	ComponentLocator() ComponentLocator
}
