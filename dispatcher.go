package autobind

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"
)

// observerRegistration holds one registered observer with its event
// type filter.
type observerRegistration struct {
	observer     Observer
	eventTypes   map[string]bool
	registeredAt time.Time
}

// Dispatcher is the host-facing adapter: the host calls Fire once per
// lifecycle phase firing with the live instance, and the dispatcher
// routes it to that instance's Engine, creating one on first contact.
// The host remains responsible for firing phases in lifecycle order and
// firing Init at most once per instance.
//
// The dispatcher is also an observable Subject emitting CloudEvents for
// builds, phase firings and member actions. Engines created by the
// dispatcher inherit its options plus the dispatcher itself as subject.
//
// Phase firings for one instance are expected on a single goroutine, per
// the engine's cooperative model; the dispatcher's own mutex protects
// only the instance table, so different instances may be driven from
// different goroutines.
type Dispatcher struct {
	mu      sync.Mutex
	engines map[any]*Engine
	opts    []Option
	logger  Logger

	observerMu sync.RWMutex
	observers  map[string]*observerRegistration
}

// NewDispatcher creates a dispatcher. The options are applied to every
// engine it creates.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		engines:   make(map[any]*Engine),
		opts:      opts,
		logger:    nopLogger{},
		observers: make(map[string]*observerRegistration),
	}

	// Borrow the engine option list to learn the logger.
	probe := &Engine{logger: nopLogger{}}
	for _, opt := range opts {
		opt(probe)
	}
	d.logger = probe.logger

	return d
}

// Fire processes one phase firing for target. Engine creation failures
// (a target that is not a pointer to a struct) are logged and dropped;
// the host's update loop must never be interrupted by a bad declaration.
func (d *Dispatcher) Fire(target any, phase Phase) {
	engine, err := d.engineFor(target)
	if err != nil {
		d.logger.Error("cannot automate target", "error", err, "phase", phase.String())
		return
	}
	engine.Fire(phase)
}

// Engine returns the engine for target if one exists.
func (d *Dispatcher) Engine(target any) (*Engine, bool) {
	if keyable(target) != nil {
		return nil, false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	engine, ok := d.engines[target]
	return engine, ok
}

// keyable checks that target can key the instance table. The table is
// keyed by pointer identity; a bare struct value would be a distinct key
// on every call and, with uncomparable fields, would panic the map.
func keyable(target any) error {
	rv := reflect.ValueOf(target)
	if !rv.IsValid() {
		return ErrTargetNil
	}
	if rv.Kind() != reflect.Ptr {
		return fmt.Errorf("%w: got %T", ErrTargetNotStruct, target)
	}
	return nil
}

// Release drops the engine for target, typically when the host destroys
// the object. Firing again after a release builds a fresh engine.
func (d *Dispatcher) Release(target any) {
	if keyable(target) != nil {
		return
	}
	d.mu.Lock()
	_, existed := d.engines[target]
	delete(d.engines, target)
	d.mu.Unlock()

	if existed {
		event := NewCloudEvent(EventTypeEngineReleased, "autobind/dispatcher", nil, nil)
		if err := d.NotifyObservers(context.Background(), event); err != nil {
			d.logger.Warn("failed to emit release event", "error", err)
		}
	}
}

func (d *Dispatcher) engineFor(target any) (*Engine, error) {
	if err := keyable(target); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if engine, ok := d.engines[target]; ok {
		return engine, nil
	}

	opts := append(append([]Option(nil), d.opts...), WithSubject(d))
	engine, err := New(target, opts...)
	if err != nil {
		return nil, err
	}
	d.engines[target] = engine
	return engine, nil
}

// RegisterObserver adds an observer, optionally filtered by event type.
func (d *Dispatcher) RegisterObserver(observer Observer, eventTypes ...string) error {
	d.observerMu.Lock()
	defer d.observerMu.Unlock()

	filter := make(map[string]bool, len(eventTypes))
	for _, eventType := range eventTypes {
		filter[eventType] = true
	}
	d.observers[observer.ObserverID()] = &observerRegistration{
		observer:     observer,
		eventTypes:   filter,
		registeredAt: time.Now(),
	}

	d.logger.Debug("observer registered", "observerID", observer.ObserverID(), "eventTypes", eventTypes)
	return nil
}

// UnregisterObserver removes an observer. Idempotent.
func (d *Dispatcher) UnregisterObserver(observer Observer) error {
	d.observerMu.Lock()
	defer d.observerMu.Unlock()
	delete(d.observers, observer.ObserverID())
	return nil
}

// NotifyObservers delivers event to every interested observer,
// synchronously and in no particular order. Observer errors and panics
// are logged and absorbed so they never disturb a phase firing.
func (d *Dispatcher) NotifyObservers(ctx context.Context, event CloudEvent) error {
	if event.Time().IsZero() {
		event.SetTime(time.Now())
	}
	if err := ValidateCloudEvent(event); err != nil {
		d.logger.Error("invalid automation event", "eventType", event.Type(), "error", err)
		return err
	}

	d.observerMu.RLock()
	defer d.observerMu.RUnlock()

	for _, registration := range d.observers {
		if len(registration.eventTypes) > 0 && !registration.eventTypes[event.Type()] {
			continue
		}
		d.deliver(ctx, registration.observer, event)
	}
	return nil
}

func (d *Dispatcher) deliver(ctx context.Context, observer Observer, event CloudEvent) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("observer panicked", "observerID", observer.ObserverID(), "event", event.Type(), "panic", r)
		}
	}()

	if err := observer.OnEvent(ctx, event); err != nil {
		d.logger.Error("observer error", "observerID", observer.ObserverID(), "event", event.Type(), "error", err)
	}
}

// GetObservers reports the registered observers.
func (d *Dispatcher) GetObservers() []ObserverInfo {
	d.observerMu.RLock()
	defer d.observerMu.RUnlock()

	infos := make([]ObserverInfo, 0, len(d.observers))
	for _, registration := range d.observers {
		types := make([]string, 0, len(registration.eventTypes))
		for eventType := range registration.eventTypes {
			types = append(types, eventType)
		}
		infos = append(infos, ObserverInfo{
			ID:           registration.observer.ObserverID(),
			EventTypes:   types,
			RegisteredAt: registration.registeredAt,
		})
	}
	return infos
}
