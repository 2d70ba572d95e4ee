package autobind

import (
	"context"
	"fmt"
	"reflect"
)

// Pipeline executes finalized member sequences against a live target
// instance. Every failure mode is converted to a diagnostic plus a skip;
// nothing propagates past a single descriptor, so one bad declaration
// never torpedoes the rest of the batch.
type Pipeline struct {
	locator ComponentLocator
	sink    DiagnosticSink
	logger  Logger
	subject Subject
	source  string
}

// NewPipeline creates an execution pipeline. locator may be nil when no
// scoped lookups are expected; sink and logger may be nil.
func NewPipeline(locator ComponentLocator, sink DiagnosticSink, logger Logger) *Pipeline {
	if sink == nil {
		sink = nopSink{}
	}
	if logger == nil {
		logger = nopLogger{}
	}
	return &Pipeline{locator: locator, sink: sink, logger: logger}
}

// Run executes the descriptors in order against target. target must be
// the same pointer the descriptors were classified from.
func (p *Pipeline) Run(target any, phase Phase, descs []MemberDescriptor) {
	rv := reflect.ValueOf(target)
	for i := range descs {
		d := &descs[i]
		if d.Kind == KindMethod {
			p.runCall(rv, d)
		} else {
			p.runAssign(rv, d)
		}
	}
	p.logger.Debug("phase executed", "phase", phase.String(), "members", len(descs))
}

func (p *Pipeline) runAssign(rv reflect.Value, d *MemberDescriptor) {
	switch {
	case d.HasValue:
		p.assignLiteral(rv, d)
	case isComponentType(d.Type):
		p.assignLookup(rv, d)
	default:
		p.skip(d, Diagnostic{
			Severity: SeverityWarning,
			Member:   d.Name,
			Phase:    d.Phase,
			Err:      ErrValueRequired,
			Message:  fmt.Sprintf("member %s has no literal value and %s is not a component type", d.Name, d.Type),
		})
	}
}

// skip reports the diagnostic and publishes the member-skipped event, so
// observers see skips alongside assignments and invocations.
func (p *Pipeline) skip(d *MemberDescriptor, diag Diagnostic) {
	p.sink.Report(diag)
	p.emit(EventTypeMemberSkipped, d)
}

func (p *Pipeline) assignLiteral(rv reflect.Value, d *MemberDescriptor) {
	// The declared literal must match the member's type exactly. There
	// is no partial or defaulted assignment on mismatch.
	valueType := reflect.TypeOf(d.Value)
	if valueType != d.Type {
		p.skip(d, Diagnostic{
			Severity: SeverityAssertion,
			Member:   d.Name,
			Phase:    d.Phase,
			Err:      ErrTypeMismatch,
			Message:  fmt.Sprintf("literal of type %v cannot be assigned to %s (%s)", valueType, d.Name, d.Type),
		})
		return
	}
	p.set(rv, d, reflect.ValueOf(d.Value))
}

func (p *Pipeline) assignLookup(rv reflect.Value, d *MemberDescriptor) {
	if p.locator == nil {
		p.skip(d, Diagnostic{
			Severity: SeverityWarning,
			Member:   d.Name,
			Phase:    d.Phase,
			Err:      ErrNoLocator,
			Message:  fmt.Sprintf("member %s needs a component lookup but no locator is available", d.Name),
		})
		return
	}

	includeInactive := d.Scope == ScopeChildren
	component, found := p.locator.FindComponent(d.Type, d.Scope, includeInactive)
	if !found || component == nil {
		p.skip(d, Diagnostic{
			Severity: SeverityWarning,
			Member:   d.Name,
			Phase:    d.Phase,
			Err:      ErrComponentNotFound,
			Message:  fmt.Sprintf("no %s found in scope %s for member %s", d.Type, d.Scope, d.Name),
		})
		return
	}

	value := reflect.ValueOf(component)
	if !value.Type().AssignableTo(d.Type) {
		p.skip(d, Diagnostic{
			Severity: SeverityAssertion,
			Member:   d.Name,
			Phase:    d.Phase,
			Err:      ErrTypeMismatch,
			Message:  fmt.Sprintf("locator returned %v which cannot be assigned to %s (%s)", value.Type(), d.Name, d.Type),
		})
		return
	}
	p.set(rv, d, value)
}

func (p *Pipeline) set(rv reflect.Value, d *MemberDescriptor, value reflect.Value) {
	if d.Kind == KindProperty {
		rv.MethodByName(d.setter).Call([]reflect.Value{value})
	} else {
		rv.Elem().FieldByIndex(d.fieldIndex).Set(value)
	}
	p.emit(EventTypeMemberAssigned, d)
	p.logger.Debug("member assigned", "member", d.Name, "phase", d.Phase.String(), "kind", d.Kind.String())
}

func (p *Pipeline) runCall(rv reflect.Value, d *MemberDescriptor) {
	method := rv.MethodByName(d.method)
	paramCount := method.Type().NumIn()

	if paramCount == 0 {
		method.Call(nil)
		p.emit(EventTypeMethodInvoked, d)
		p.logger.Debug("method invoked", "member", d.Name, "phase", d.Phase.String())
		return
	}

	if len(d.Args) < paramCount {
		p.skip(d, Diagnostic{
			Severity: SeverityAssertion,
			Member:   d.Name,
			Phase:    d.Phase,
			Err:      ErrArgumentCount,
			Message:  fmt.Sprintf("method %s takes %d parameters but %d arguments were declared", d.Name, paramCount, len(d.Args)),
		})
		return
	}

	// Only the first paramCount arguments are consumed; a longer list
	// is tolerated.
	args := make([]reflect.Value, paramCount)
	for i := 0; i < paramCount; i++ {
		argType := reflect.TypeOf(d.Args[i])
		if argType != method.Type().In(i) {
			p.skip(d, Diagnostic{
				Severity: SeverityAssertion,
				Member:   d.Name,
				Phase:    d.Phase,
				Err:      ErrArgumentType,
				Message: fmt.Sprintf("method %s parameter %d expects %s but argument is %v",
					d.Name, i, method.Type().In(i), argType),
			})
			return
		}
		args[i] = reflect.ValueOf(d.Args[i])
	}

	method.Call(args)
	p.emit(EventTypeMethodInvoked, d)
	p.logger.Debug("method invoked", "member", d.Name, "phase", d.Phase.String(), "args", paramCount)
}

// emit publishes a member-level automation event when a subject is
// attached. Emission failures are logged and absorbed.
func (p *Pipeline) emit(eventType string, d *MemberDescriptor) {
	if p.subject == nil {
		return
	}
	event := NewCloudEvent(eventType, p.source, map[string]any{
		"member": d.Name,
		"kind":   d.Kind.String(),
		"phase":  d.Phase.String(),
		"order":  d.Order,
	}, nil)
	if err := p.subject.NotifyObservers(context.Background(), event); err != nil {
		p.logger.Warn("failed to emit automation event", "type", eventType, "error", err)
	}
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
