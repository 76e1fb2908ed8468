package catalog

import "errors"

var (
	// ErrUnknownType is returned when an appointment-type id is not in the catalog
	ErrUnknownType = errors.New("unknown appointment type")

	// ErrInvalidPolicy is returned when policy values are out of range
	ErrInvalidPolicy = errors.New("invalid policy values")
)
