package availability

import "errors"

var (
	// ErrInvalidWindow is returned when a window's end is not after its start
	ErrInvalidWindow = errors.New("window end must be after start")

	// ErrOverlappingWindows is returned when submitted weekly windows overlap
	ErrOverlappingWindows = errors.New("weekly windows overlap")

	// ErrOverrideNotFound is returned when an override id or date is unknown
	ErrOverrideNotFound = errors.New("override not found")

	// ErrBadDate is returned when a date is not in YYYY-MM-DD form
	ErrBadDate = errors.New("invalid date")
)
