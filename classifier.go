package autobind

import (
	"fmt"
	"reflect"
)

// Binding declares one method or property automation on a type, the
// registration-table counterpart of the field struct tag. Go attaches
// tags to fields only, so methods and accessors register their markers
// by implementing Bindings.
type Binding struct {
	// Method names the method a call-marker invokes. Set for call
	// bindings only.
	Method string

	// Property is the logical name of an accessor-routed member. Set
	// for property bindings only.
	Property string

	// Setter names the single-parameter method assignments are routed
	// through. Defaults to "Set"+Property.
	Setter string

	// Assign is the marker of a property binding.
	Assign *AssignMarker

	// Call is the marker of a method binding.
	Call *CallMarker
}

// BindMethod declares a call-marker on the named method.
func BindMethod(name string, m CallMarker) Binding {
	return Binding{Method: name, Call: &m}
}

// BindProperty declares an assign-marker on a property routed through
// the conventional "Set"+name setter.
func BindProperty(name string, m AssignMarker) Binding {
	return Binding{Property: name, Assign: &m}
}

// BindPropertySetter declares an assign-marker on a property routed
// through an explicitly named setter.
func BindPropertySetter(name, setter string, m AssignMarker) Binding {
	return Binding{Property: name, Setter: setter, Assign: &m}
}

// Bindings is implemented by automatable types that bind methods or
// properties. Field markers do not need it; struct tags cover them.
type Bindings interface {
	// AutomationBindings returns the type's method and property
	// bindings. It is consulted once per instance, at build time, and
	// its return order determines default execution order within each
	// phase.
	AutomationBindings() []Binding
}

// Classify discovers every marked member of target and resolves it into
// a MemberDescriptor. target must be a non-nil pointer to a struct.
//
// Field markers are read from autobind struct tags on exported fields,
// including fields promoted from embedded structs. Method and property
// markers come from the Bindings interface. Malformed markers are
// per-member non-fatal: they produce an assertion diagnostic on sink and
// classification of the remaining members continues.
//
// The enumeration order of members determines default execution order;
// fields come first in declaration order, then bindings in registration
// order. Callers that need a portable order across refactors should set
// explicit orders on their markers.
func Classify(target any, sink DiagnosticSink) ([]MemberDescriptor, error) {
	if sink == nil {
		sink = nopSink{}
	}

	rv := reflect.ValueOf(target)
	if !rv.IsValid() || (rv.Kind() == reflect.Ptr && rv.IsNil()) {
		return nil, ErrTargetNil
	}
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %T", ErrTargetNotStruct, target)
	}

	c := &classifier{target: rv, sink: sink}
	c.collectFields(rv.Elem().Type(), nil)
	c.collectBindings(target)
	return c.descriptors, nil
}

type classifier struct {
	target      reflect.Value
	sink        DiagnosticSink
	descriptors []MemberDescriptor
}

func (c *classifier) reject(member string, phase Phase, err error, msg string) {
	c.sink.Report(Diagnostic{
		Severity: SeverityAssertion,
		Member:   member,
		Phase:    phase,
		Err:      err,
		Message:  msg,
	})
}

// collectFields walks the struct type depth-first, descending into
// embedded structs so promoted fields participate like declared ones.
func (c *classifier) collectFields(t reflect.Type, index []int) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		path := append(append([]int(nil), index...), i)

		if field.Anonymous {
			embedded := field.Type
			if embedded.Kind() == reflect.Struct {
				c.collectFields(embedded, path)
				continue
			}
		}

		tag, ok := field.Tag.Lookup(TagName)
		if !ok {
			continue
		}

		if field.PkgPath != "" {
			// Reflection cannot write unexported fields.
			c.reject(field.Name, PhaseInit, ErrFieldNotSettable,
				"marker on unexported field, member excluded")
			continue
		}

		markers, err := parseTagMarkers(tag, field.Type)
		if err != nil {
			c.reject(field.Name, PhaseInit, err, "malformed marker tag, member excluded")
			continue
		}

		for _, m := range markers {
			c.descriptors = append(c.descriptors, MemberDescriptor{
				Name:       field.Name,
				Kind:       KindField,
				Type:       field.Type,
				Phase:      m.Phase,
				Value:      m.Value,
				HasValue:   m.HasValue,
				Scope:      m.Scope,
				Order:      m.Order,
				fieldIndex: path,
			})
		}
	}
}

func (c *classifier) collectBindings(target any) {
	bound, ok := target.(Bindings)
	if !ok {
		return
	}

	for _, b := range bound.AutomationBindings() {
		switch {
		case b.Method != "" && b.Call != nil:
			c.collectMethod(b)
		case b.Property != "" && b.Assign != nil:
			c.collectProperty(b)
		default:
			c.reject(b.Method+b.Property, PhaseInit, ErrMalformedMarker,
				"binding must pair Method with Call or Property with Assign")
		}
	}
}

func (c *classifier) collectMethod(b Binding) {
	m := c.target.MethodByName(b.Method)
	if !m.IsValid() {
		c.reject(b.Method, b.Call.Phase, ErrMemberNotFound, "bound method not found, member excluded")
		return
	}
	if m.Type().IsVariadic() {
		c.reject(b.Method, b.Call.Phase, ErrVariadicMethod, "variadic method cannot be bound, member excluded")
		return
	}
	if c.promotedFromEmbedded(b.Method) {
		// User overrides of host lifecycle hooks live on embedded base
		// types; automating them would re-enter the lifecycle.
		c.reject(b.Method, b.Call.Phase, ErrHostMethod, "method promoted from embedded base, member excluded")
		return
	}

	c.descriptors = append(c.descriptors, MemberDescriptor{
		Name:   b.Method,
		Kind:   KindMethod,
		Phase:  b.Call.Phase,
		Args:   b.Call.Args,
		Order:  b.Call.Order,
		method: b.Method,
	})
}

func (c *classifier) collectProperty(b Binding) {
	setter := b.Setter
	if setter == "" {
		setter = "Set" + b.Property
	}

	m := c.target.MethodByName(setter)
	if !m.IsValid() {
		c.reject(b.Property, b.Assign.Phase, ErrMemberNotFound, "property setter not found, member excluded")
		return
	}
	if m.Type().NumIn() != 1 || m.Type().IsVariadic() {
		c.reject(b.Property, b.Assign.Phase, ErrSetterShape, "property setter has wrong shape, member excluded")
		return
	}

	c.descriptors = append(c.descriptors, MemberDescriptor{
		Name:     b.Property,
		Kind:     KindProperty,
		Type:     m.Type().In(0),
		Phase:    b.Assign.Phase,
		Value:    b.Assign.Value,
		HasValue: b.Assign.HasValue,
		Scope:    b.Assign.Scope,
		Order:    b.Assign.Order,
		setter:   setter,
	})
}

// promotedFromEmbedded reports whether the named method reaches the
// concrete type through promotion from an anonymous field rather than
// being declared on the type itself.
func (c *classifier) promotedFromEmbedded(name string) bool {
	t := c.target.Elem().Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.Anonymous {
			continue
		}
		if _, ok := field.Type.MethodByName(name); ok {
			return true
		}
		if _, ok := reflect.PtrTo(field.Type).MethodByName(name); ok {
			return true
		}
	}
	return false
}
