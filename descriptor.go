package autobind

import "reflect"

// MemberKind identifies how a descriptor acts on its member.
type MemberKind int

const (
	// KindField assigns directly into a struct field.
	KindField MemberKind = iota

	// KindProperty assigns through a setter method while reporting the
	// member under its logical property name.
	KindProperty

	// KindMethod invokes a method with a literal argument list.
	KindMethod
)

// String returns the canonical kind name.
func (k MemberKind) String() string {
	switch k {
	case KindField:
		return "Field"
	case KindProperty:
		return "Property"
	case KindMethod:
		return "Method"
	default:
		return "Unknown"
	}
}

// MemberDescriptor is the resolved, typed, ordered record the engine
// builds for one marked member. Each marker on a member produces an
// independent descriptor, so the same field can appear once per phase it
// is bound to.
type MemberDescriptor struct {
	// Name is the member's logical identity: the field name, the
	// property name, or the method name.
	Name string

	// Kind selects the action performed at execution time.
	Kind MemberKind

	// Type is the declared value type of an assign-kind member. It is
	// nil for methods.
	Type reflect.Type

	// Phase is the lifecycle phase this descriptor fires in.
	Phase Phase

	// Value carries the declared literal for assign-kind descriptors.
	// HasValue distinguishes "no literal" from a literal nil.
	Value    any
	HasValue bool

	// Scope is the lookup scope used when no literal value is present.
	Scope Scope

	// Args is the literal argument list of call-kind descriptors.
	Args []any

	// Order is the execution order within the phase. OrderUnset until
	// the ordering sweep assigns the running per-phase count.
	Order int

	// Resolution data. Exactly one of these is populated, matching Kind.
	fieldIndex []int  // index path for FieldByIndex
	setter     string // setter method name for properties
	method     string // method name for calls
}

// assignOrigin reports whether the descriptor belongs to the
// field/property ordering sweep rather than the method sweep.
func (d *MemberDescriptor) assignOrigin() bool {
	return d.Kind != KindMethod
}
