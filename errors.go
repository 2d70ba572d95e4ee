package autobind

import (
	"errors"
)

// Engine errors
var (
	// Target contract errors
	ErrTargetNil       = errors.New("target is nil")
	ErrTargetNotStruct = errors.New("target must be a pointer to a struct")

	// Marker parsing errors
	ErrUnknownPhase      = errors.New("unknown lifecycle phase")
	ErrUnknownScope      = errors.New("unknown lookup scope")
	ErrMalformedMarker   = errors.New("malformed marker")
	ErrLiteralConversion = errors.New("cannot convert literal to member type")

	// Classification errors
	ErrMemberNotFound   = errors.New("bound member not found on type")
	ErrFieldNotSettable = errors.New("field cannot be set")
	ErrSetterShape      = errors.New("setter must take exactly one parameter")
	ErrHostMethod       = errors.New("method promoted from embedded base is not automatable")
	ErrVariadicMethod   = errors.New("variadic methods are not automatable")

	// Execution errors
	ErrTypeMismatch      = errors.New("literal type does not match member type")
	ErrComponentNotFound = errors.New("no component found for scoped lookup")
	ErrValueRequired     = errors.New("value required for non-component member")
	ErrArgumentCount     = errors.New("not enough literal arguments for method")
	ErrArgumentType      = errors.New("literal argument type does not match parameter type")
	ErrNoLocator         = errors.New("no component locator available")
)
