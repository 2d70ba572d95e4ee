package autobind

import (
	"context"
	"fmt"
	"reflect"
)

// Option configures an Engine (and, through the Dispatcher, every
// engine it creates).
type Option func(*Engine)

// WithLogger sets the logger used for engine traces and absorbed
// failures.
func WithLogger(logger Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithDiagnosticSink sets the sink receiving classification and
// execution diagnostics. Defaults to a logger-backed sink.
func WithDiagnosticSink(sink DiagnosticSink) Option {
	return func(e *Engine) { e.sink = sink }
}

// WithLocator sets the component locator used for scoped lookups. When
// unset, the engine consults the target through LocatorProvider at
// build time.
func WithLocator(locator ComponentLocator) Option {
	return func(e *Engine) { e.locator = locator }
}

// WithSubject attaches an event subject; the engine then emits
// CloudEvents for builds, phase firings and member actions.
func WithSubject(subject Subject) Option {
	return func(e *Engine) { e.subject = subject }
}

// Engine automates one object instance. It moves through two states:
// Unbuilt until the first Init firing, then Built for the rest of the
// instance's life. The build step classifies the target's members and
// finalizes their per-phase execution order exactly once; subsequent
// firings replay the finalized sequences without re-classification.
type Engine struct {
	target  any
	name    string
	logger  Logger
	sink    DiagnosticSink
	locator ComponentLocator
	subject Subject

	built    bool
	phases   [phaseCount][]MemberDescriptor
	pipeline *Pipeline
}

// New creates an engine for target, which must be a non-nil pointer to
// a struct.
func New(target any, opts ...Option) (*Engine, error) {
	rv := reflect.ValueOf(target)
	if !rv.IsValid() || (rv.Kind() == reflect.Ptr && rv.IsNil()) {
		return nil, ErrTargetNil
	}
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %T", ErrTargetNotStruct, target)
	}

	e := &Engine{
		target: target,
		name:   rv.Elem().Type().String(),
		logger: nopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sink == nil {
		e.sink = NewLoggerSink(e.logger)
	}
	return e, nil
}

// Fire processes one lifecycle phase firing. The first PhaseInit firing
// performs the build; any other phase fired while the engine is still
// Unbuilt is silently ignored, tolerating hosts that deliver later
// phases early under exceptional conditions.
func (e *Engine) Fire(phase Phase) {
	if !e.built {
		if phase != PhaseInit {
			e.logger.Debug("phase fired before build, ignoring", "target", e.name, "phase", phase.String())
			return
		}
		e.build()
	}

	members := e.phases[phase]
	e.pipeline.Run(e.target, phase, members)
	e.emit(EventTypePhaseFired, map[string]any{"phase": phase.String(), "members": len(members)})
}

// build performs the one-time classification and ordering pass.
func (e *Engine) build() {
	descs, err := Classify(e.target, e.sink)
	if err != nil {
		// New validated the target already; this is unreachable in
		// normal operation but must not panic the host's update loop.
		e.logger.Error("classification failed", "target", e.name, "error", err)
	}
	e.phases = buildPhaseMap(descs)

	if e.locator == nil {
		if provider, ok := e.target.(LocatorProvider); ok {
			e.locator = provider.ComponentLocator()
		}
	}

	e.pipeline = NewPipeline(e.locator, e.sink, e.logger)
	e.pipeline.subject = e.subject
	e.pipeline.source = "autobind/" + e.name
	e.built = true

	e.logger.Debug("built execution plan", "target", e.name, "members", len(descs))
	e.emit(EventTypeBuildCompleted, map[string]any{"members": len(descs)})
}

// Built reports whether the one-time build has run.
func (e *Engine) Built() bool {
	return e.built
}

// Members returns a copy of the finalized sequence for phase. Empty
// until the engine is built.
func (e *Engine) Members(phase Phase) []MemberDescriptor {
	members := e.phases[phase]
	out := make([]MemberDescriptor, len(members))
	copy(out, members)
	return out
}

func (e *Engine) emit(eventType string, data map[string]any) {
	if e.subject == nil {
		return
	}
	event := NewCloudEvent(eventType, "autobind/"+e.name, data, nil)
	if err := e.subject.NotifyObservers(context.Background(), event); err != nil {
		e.logger.Warn("failed to emit automation event", "type", eventType, "error", err)
	}
}
