package model

import "errors"

var (
	// ErrMalformedLiteral is returned when a policy value or flow field
	// cannot be parsed for its attribute type.
	ErrMalformedLiteral = errors.New("malformed literal")
	// ErrUnsupportedAttribute is returned for attribute tags outside the
	// supported set.
	ErrUnsupportedAttribute = errors.New("unsupported attribute")
	// ErrIncompatibleRange is returned for ranges whose endpoints differ in
	// family or are not in ascending order.
	ErrIncompatibleRange = errors.New("incompatible range")
	// ErrMissingField is returned when a flow lacks a field the attribute
	// needs, e.g. an IP address on a non-IP flow.
	ErrMissingField = errors.New("missing field")
	// ErrLocationLookup is returned when the location directory fails.
	ErrLocationLookup = errors.New("location lookup failed")
)

// ErrorKind returns a short label for the error class of err, suitable for
// log fields and metric labels.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformedLiteral):
		return "malformed_literal"
	case errors.Is(err, ErrUnsupportedAttribute):
		return "unsupported_attribute"
	case errors.Is(err, ErrIncompatibleRange):
		return "incompatible_range"
	case errors.Is(err, ErrMissingField):
		return "missing_field"
	case errors.Is(err, ErrLocationLookup):
		return "location_lookup"
	default:
		return "unknown"
	}
}
