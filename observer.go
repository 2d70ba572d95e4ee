package autobind

import (
	"context"
	"time"
)

// Observer receives automation events from a Subject. Events follow the
// CloudEvents specification for interoperability with external tooling.
// Observers should handle events quickly; delivery happens synchronously
// on the host's update thread to preserve the engine's single-threaded
// model.
type Observer interface {
	// OnEvent is called for each event the observer subscribed to.
	OnEvent(ctx context.Context, event CloudEvent) error

	// ObserverID returns a unique identifier for this observer, used
	// for registration tracking and debugging.
	ObserverID() string
}

// Subject is implemented by event emitters, most notably the
// Dispatcher. Observer errors and panics are absorbed and logged; they
// never reach the automation pipeline.
type Subject interface {
	// RegisterObserver adds an observer, optionally filtered to the
	// given event types. An empty filter receives all events.
	RegisterObserver(observer Observer, eventTypes ...string) error

	// UnregisterObserver removes an observer. Idempotent.
	UnregisterObserver(observer Observer) error

	// NotifyObservers delivers an event to all interested observers.
	NotifyObservers(ctx context.Context, event CloudEvent) error

	// GetObservers reports the currently registered observers.
	GetObservers() []ObserverInfo
}

// ObserverInfo describes a registered observer for debugging and
// monitoring surfaces.
type ObserverInfo struct {
	ID           string    `json:"id"`
	EventTypes   []string  `json:"eventTypes"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// Event type constants emitted by the engine, in reverse domain
// notation per the CloudEvents specification.
const (
	EventTypeBuildCompleted = "com.autobind.build.completed"
	EventTypePhaseFired     = "com.autobind.phase.fired"
	EventTypeMemberAssigned = "com.autobind.member.assigned"
	EventTypeMemberSkipped  = "com.autobind.member.skipped"
	EventTypeMethodInvoked  = "com.autobind.method.invoked"
	EventTypeEngineReleased = "com.autobind.engine.released"
)

// FunctionalObserver wraps a handler function as an Observer, for quick
// observer creation without a dedicated struct.
type FunctionalObserver struct {
	id      string
	handler func(ctx context.Context, event CloudEvent) error
}

// NewFunctionalObserver creates an observer backed by handler.
func NewFunctionalObserver(id string, handler func(ctx context.Context, event CloudEvent) error) Observer {
	return &FunctionalObserver{id: id, handler: handler}
}

// OnEvent implements Observer by calling the handler.
func (f *FunctionalObserver) OnEvent(ctx context.Context, event CloudEvent) error {
	return f.handler(ctx, event)
}

// ObserverID implements Observer.
func (f *FunctionalObserver) ObserverID() string {
	return f.id
}
