package scene

import "github.com/objkit/autobind"

// Scripted is the interface of behaviors attachable to an Object. The
// unexported attach method closes the interface: behaviors satisfy it by
// embedding Behavior.
type Scripted interface {
	// Object returns the object the behavior is attached to.
	Object() *Object

	attach(*Object)
}

// Behavior is the embeddable base for scripted behaviors. It carries
// the object reference and supplies the engine's component locator, so
// lookup-style assign markers resolve against the owning object without
// any explicit wiring.
//
// Methods promoted from Behavior are host plumbing, not user logic; the
// engine's classifier refuses to automate them.
type Behavior struct {
	object *Object
}

// Object returns the object the behavior is attached to, nil before
// attachment.
func (b *Behavior) Object() *Object { return b.object }

func (b *Behavior) attach(o *Object) { b.object = o }

// ComponentLocator implements autobind.LocatorProvider by exposing the
// owning object as the lookup surface. Before attachment there is no
// object to search; returning a nil interface (not a nil *Object inside
// one) lets the engine fall back to its no-locator diagnostic.
func (b *Behavior) ComponentLocator() autobind.ComponentLocator {
	if b.object == nil {
		return nil
	}
	return b.object
}

// Optional lifecycle hook interfaces. The runtime invokes a hook after
// the automation phase of the same firing, so bound members are already
// populated when the hook runs. A behavior implements only the hooks it
// needs, in the same style as optional module interfaces in service
// frameworks.

// Initializer is implemented by behaviors that run logic at Init.
type Initializer interface{ OnInit() }

// Starter is implemented by behaviors that run logic at Start.
type Starter interface{ OnStart() }

// Enabler is implemented by behaviors that run logic at Enable.
type Enabler interface{ OnEnable() }

// Ticker is implemented by behaviors that run logic every frame.
type Ticker interface{ OnTick(dt float64) }

// PhysicsTicker is implemented by behaviors that run logic on the fixed
// physics step.
type PhysicsTicker interface{ OnPhysicsTick(dt float64) }

// LateTicker is implemented by behaviors that run logic after all Tick
// work in a frame.
type LateTicker interface{ OnLateTick(dt float64) }
