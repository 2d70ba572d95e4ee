package autobind

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/golobby/cast"
)

// TagName is the struct tag key read by the classifier.
//
// The tag holds one or more markers separated by ';'. Each marker starts
// with a phase token followed by optional key=value options:
//
//	Speed  float64        `autobind:"start,value=12.5"`
//	Target *scene.Object  `autobind:"enable,scope=parent,order=3"`
//	Burst  int            `autobind:"start,value=4;enable,value=8"`
//
// Options: value (literal, converted to the field type), scope
// (self|children|parent), order (integer). A marker without a value
// option requests a component lookup in the given scope.
const TagName = "autobind"

// parseTagMarkers parses the autobind tag of a field declared with
// fieldType. Literal values are converted to the field type the same way
// configuration feeders convert environment strings; a literal that
// cannot be converted makes the whole marker malformed.
func parseTagMarkers(tag string, fieldType reflect.Type) ([]AssignMarker, error) {
	var markers []AssignMarker
	for _, spec := range strings.Split(tag, ";") {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		marker, err := parseMarkerSpec(spec, fieldType)
		if err != nil {
			return nil, err
		}
		markers = append(markers, marker)
	}
	if len(markers) == 0 {
		return nil, fmt.Errorf("%w: empty tag", ErrMalformedMarker)
	}
	return markers, nil
}

func parseMarkerSpec(spec string, fieldType reflect.Type) (AssignMarker, error) {
	parts := strings.Split(spec, ",")

	phase, err := ParsePhase(parts[0])
	if err != nil {
		return AssignMarker{}, err
	}
	marker := AssignAt(phase)

	for _, opt := range parts[1:] {
		opt = strings.TrimSpace(opt)
		key, raw, found := strings.Cut(opt, "=")
		if !found {
			return AssignMarker{}, fmt.Errorf("%w: option %q is not key=value", ErrMalformedMarker, opt)
		}

		switch strings.ToLower(strings.TrimSpace(key)) {
		case "value":
			value, err := cast.FromType(raw, fieldType)
			if err != nil {
				return AssignMarker{}, fmt.Errorf("%w: %q to %s: %v", ErrLiteralConversion, raw, fieldType, err)
			}
			marker.Value = value
			marker.HasValue = true
		case "scope":
			scope, err := ParseScope(raw)
			if err != nil {
				return AssignMarker{}, err
			}
			marker.Scope = scope
		case "order":
			order, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return AssignMarker{}, fmt.Errorf("%w: order %q is not an integer", ErrMalformedMarker, raw)
			}
			marker.Order = order
		default:
			return AssignMarker{}, fmt.Errorf("%w: unknown option %q", ErrMalformedMarker, key)
		}
	}

	return marker, nil
}
