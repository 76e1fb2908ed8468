package availability

import (
	"time"

	"github.com/google/uuid"
)

// WeeklyWindow is one recurring weekly availability window for the owner.
// Multiple non-overlapping windows may exist per weekday.
type WeeklyWindow struct {
	ID        uuid.UUID    `json:"id"`
	OwnerID   string       `json:"owner_id"`
	Weekday   time.Weekday `json:"weekday"`
	Start     TimeOfDay    `json:"start"`
	End       TimeOfDay    `json:"end"`
	Recurring bool         `json:"recurring"`
}

// Override is a date-specific availability rule. When present for a date it
// fully supersedes the weekly windows for that date: either the day is
// blocked, or the override's own window replaces them.
type Override struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   string     `json:"owner_id"`
	Date      string     `json:"date"` // "2006-01-02"
	Available bool       `json:"available"`
	Start     *TimeOfDay `json:"start,omitempty"`
	End       *TimeOfDay `json:"end,omitempty"`
}

// Window is one effective bookable window on a resolved date.
type Window struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// Slot is a candidate appointment start. WindowEnd is carried so callers can
// re-check that a duration still fits the window.
type Slot struct {
	Start     time.Time `json:"start"`
	WindowEnd time.Time `json:"window_end"`
}

// DateKey formats a date the way overrides are keyed.
func DateKey(date time.Time) string {
	return date.Format(time.DateOnly)
}
