package scene

import (
	"github.com/objkit/autobind"
)

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithLogger sets the runtime and engine logger.
func WithLogger(logger autobind.Logger) RuntimeOption {
	return func(r *Runtime) { r.logger = logger }
}

// WithDispatcher supplies a preconfigured dispatcher, for hosts that
// attach observers or custom diagnostic sinks.
func WithDispatcher(dispatcher *autobind.Dispatcher) RuntimeOption {
	return func(r *Runtime) { r.dispatcher = dispatcher }
}

// WithFixedStep sets the physics timestep in seconds. Default 0.02.
func WithFixedStep(step float64) RuntimeOption {
	return func(r *Runtime) { r.fixedStep = step }
}

// Runtime drives the lifecycle of spawned objects. One call per phase
// firing goes through the autobind dispatcher first, then the
// behavior's own hook, so phase order and Init-at-most-once are
// guaranteed here, on the host side, exactly as the engine expects.
//
// The runtime is single-threaded: Spawn, Despawn and Step must be
// called from the same goroutine.
type Runtime struct {
	dispatcher *autobind.Dispatcher
	logger     autobind.Logger
	spawned    []*Object
	fixedStep  float64
	accumulator float64
}

// NewRuntime creates a runtime.
func NewRuntime(opts ...RuntimeOption) *Runtime {
	r := &Runtime{fixedStep: 0.02}
	for _, opt := range opts {
		opt(r)
	}
	if r.dispatcher == nil {
		var dopts []autobind.Option
		if r.logger != nil {
			dopts = append(dopts, autobind.WithLogger(r.logger))
		}
		r.dispatcher = autobind.NewDispatcher(dopts...)
	}
	return r
}

// Dispatcher returns the dispatcher the runtime drives, for attaching
// observers.
func (r *Runtime) Dispatcher() *autobind.Dispatcher { return r.dispatcher }

// Spawn brings an object (and its subtree) to life: each behavior gets
// Init, then Start, then Enable, in that order, object before
// descendants. Init fires exactly once per behavior, here.
func (r *Runtime) Spawn(o *Object) {
	r.spawned = append(r.spawned, o)
	r.firePhase(o, autobind.PhaseInit)
	r.firePhase(o, autobind.PhaseStart)
	if o.Active() {
		r.firePhase(o, autobind.PhaseEnable)
	}
	for _, child := range o.Children() {
		r.Spawn(child)
	}
}

// Despawn removes an object from the update cycle and releases its
// behaviors' engines.
func (r *Runtime) Despawn(o *Object) {
	for i, s := range r.spawned {
		if s == o {
			r.spawned = append(r.spawned[:i], r.spawned[i+1:]...)
			break
		}
	}
	for _, behavior := range o.Behaviors() {
		r.dispatcher.Release(behavior)
	}
	for _, child := range o.Children() {
		r.Despawn(child)
	}
}

// Enable re-fires the Enable phase for an object that was switched
// active again.
func (r *Runtime) Enable(o *Object) {
	o.SetActive(true)
	r.firePhase(o, autobind.PhaseEnable)
}

// Step advances the world by dt seconds: Tick for every active object,
// PhysicsTick on the fixed-step accumulator, then LateTick.
func (r *Runtime) Step(dt float64) {
	for _, o := range r.spawned {
		if o.ActiveInHierarchy() {
			r.fireTick(o, autobind.PhaseTick, dt)
		}
	}

	r.accumulator += dt
	for r.accumulator >= r.fixedStep {
		r.accumulator -= r.fixedStep
		for _, o := range r.spawned {
			if o.ActiveInHierarchy() {
				r.fireTick(o, autobind.PhasePhysicsTick, r.fixedStep)
			}
		}
	}

	for _, o := range r.spawned {
		if o.ActiveInHierarchy() {
			r.fireTick(o, autobind.PhaseLateTick, dt)
		}
	}
}

// firePhase runs automation then the matching hook for every behavior
// on the object.
func (r *Runtime) firePhase(o *Object, phase autobind.Phase) {
	for _, behavior := range o.Behaviors() {
		r.dispatcher.Fire(behavior, phase)
		switch phase {
		case autobind.PhaseInit:
			if h, ok := behavior.(Initializer); ok {
				h.OnInit()
			}
		case autobind.PhaseStart:
			if h, ok := behavior.(Starter); ok {
				h.OnStart()
			}
		case autobind.PhaseEnable:
			if h, ok := behavior.(Enabler); ok {
				h.OnEnable()
			}
		}
	}
}

func (r *Runtime) fireTick(o *Object, phase autobind.Phase, dt float64) {
	for _, behavior := range o.Behaviors() {
		r.dispatcher.Fire(behavior, phase)
		switch phase {
		case autobind.PhaseTick:
			if h, ok := behavior.(Ticker); ok {
				h.OnTick(dt)
			}
		case autobind.PhasePhysicsTick:
			if h, ok := behavior.(PhysicsTicker); ok {
				h.OnPhysicsTick(dt)
			}
		case autobind.PhaseLateTick:
			if h, ok := behavior.(LateTicker); ok {
				h.OnLateTick(dt)
			}
		}
	}
}
