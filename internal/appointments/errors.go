package appointments

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrAppointmentNotFound is returned when an appointment id is unknown
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrMissingCustomer is returned when a booking has no customer id
	ErrMissingCustomer = errors.New("customer is required")

	// ErrBadLocation is returned when the location kind is unknown
	ErrBadLocation = errors.New("location must be in_person or remote")

	// ErrMissingStart is returned when a booking has no start time
	ErrMissingStart = errors.New("start time is required")

	// ErrTrialRecurring is returned when a trial type is booked as recurring
	ErrTrialRecurring = errors.New("trial lessons cannot be booked as recurring")

	// ErrBadRecurrence is returned when the recurrence request is malformed
	ErrBadRecurrence = errors.New("invalid recurrence")

	// ErrAlreadyCancelled is returned when cancelling a cancelled appointment
	ErrAlreadyCancelled = errors.New("appointment already cancelled")

	// ErrNotPermitted is returned when the caller may not act on an appointment
	ErrNotPermitted = errors.New("not permitted")
)

// ConflictError reports that a requested interval collides with an existing
// appointment. For recurring bookings Date names the first failing instance.
type ConflictError struct {
	Date         time.Time
	TravelBuffer bool
}

func (e *ConflictError) Error() string {
	day := e.Date.Format(time.DateOnly)
	if e.TravelBuffer {
		return fmt.Sprintf("slot unavailable on %s: inside travel buffer of another in-person appointment", day)
	}
	return fmt.Sprintf("slot unavailable on %s", day)
}
