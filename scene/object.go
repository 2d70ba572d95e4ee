// Package scene provides a minimal reference host for the autobind
// engine: a tree of objects carrying components and scripted behaviors,
// plus a runtime that drives the lifecycle phases. It exists so the
// engine's dispatcher adapter and scoped lookups can be exercised
// against a concrete object model; production hosts supply their own.
package scene

import (
	"reflect"

	"github.com/objkit/autobind"
)

// Object is a node in the scene tree. It owns components (lookup
// targets), scripted behaviors (automation targets) and child objects.
// Objects are not safe for concurrent mutation; the runtime drives them
// from a single goroutine, matching the engine's cooperative model.
type Object struct {
	name       string
	active     bool
	parent     *Object
	children   []*Object
	components []autobind.Component
	behaviors  []Scripted
}

// NewObject creates an active, detached object.
func NewObject(name string) *Object {
	return &Object{name: name, active: true}
}

// Name returns the object's name.
func (o *Object) Name() string { return o.name }

// Active reports the object's own active flag, ignoring ancestors.
func (o *Object) Active() bool { return o.active }

// SetActive flips the object's own active flag.
func (o *Object) SetActive(active bool) { o.active = active }

// ActiveInHierarchy reports whether the object and all its ancestors
// are active.
func (o *Object) ActiveInHierarchy() bool {
	for node := o; node != nil; node = node.parent {
		if !node.active {
			return false
		}
	}
	return true
}

// Parent returns the object's parent, nil at the root.
func (o *Object) Parent() *Object { return o.parent }

// Children returns the object's direct children.
func (o *Object) Children() []*Object { return o.children }

// AddChild attaches child to the object, detaching it from any previous
// parent.
func (o *Object) AddChild(child *Object) {
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = o
	o.children = append(o.children, child)
}

func (o *Object) removeChild(child *Object) {
	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

// AddComponent attaches a component, making it visible to scoped
// lookups.
func (o *Object) AddComponent(c autobind.Component) {
	o.components = append(o.components, c)
}

// Components returns the attached components.
func (o *Object) Components() []autobind.Component { return o.components }

// AddBehavior attaches a scripted behavior. Behaviors embed Behavior,
// which wires the object reference used for component lookups.
func (o *Object) AddBehavior(s Scripted) {
	s.attach(o)
	o.behaviors = append(o.behaviors, s)
}

// Behaviors returns the attached behaviors.
func (o *Object) Behaviors() []Scripted { return o.behaviors }

// FindComponent implements autobind.ComponentLocator over the scene
// tree. Self scans the object's own components; Children scans the
// subtree rooted at the object, skipping inactive descendants unless
// includeInactive is set; Parent walks the ancestor chain. Both Children
// and Parent include the object itself, mirroring common host engines.
func (o *Object) FindComponent(typ reflect.Type, scope autobind.Scope, includeInactive bool) (autobind.Component, bool) {
	if o == nil {
		return nil, false
	}
	switch scope {
	case autobind.ScopeSelf:
		return o.componentOf(typ)
	case autobind.ScopeChildren:
		return o.findInSubtree(typ, includeInactive)
	case autobind.ScopeParent:
		for node := o; node != nil; node = node.parent {
			if c, ok := node.componentOf(typ); ok {
				return c, true
			}
		}
	}
	return nil, false
}

func (o *Object) componentOf(typ reflect.Type) (autobind.Component, bool) {
	for _, c := range o.components {
		if reflect.TypeOf(c).AssignableTo(typ) {
			return c, true
		}
	}
	return nil, false
}

func (o *Object) findInSubtree(typ reflect.Type, includeInactive bool) (autobind.Component, bool) {
	if c, ok := o.componentOf(typ); ok {
		return c, true
	}
	for _, child := range o.children {
		if !includeInactive && !child.active {
			continue
		}
		if c, ok := child.findInSubtree(typ, includeInactive); ok {
			return c, true
		}
	}
	return nil, false
}
