package appointments

import (
	"time"

	"github.com/google/uuid"
)

// LocationKind says where an appointment happens.
type LocationKind string

const (
	LocationInPerson LocationKind = "in_person"
	LocationRemote   LocationKind = "remote"
)

// Valid reports whether the kind is one of the known values.
func (k LocationKind) Valid() bool {
	return k == LocationInPerson || k == LocationRemote
}

// Status is an appointment's lifecycle state.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Appointment is one concrete dated lesson. End always equals Start plus the
// appointment type's duration at booking time, even if the catalog changes
// later.
type Appointment struct {
	ID         uuid.UUID    `json:"id"`
	CustomerID uuid.UUID    `json:"customer_id"`
	OwnerID    string       `json:"owner_id"`
	TypeID     string       `json:"type_id"`
	Location   LocationKind `json:"location"`
	Address    string       `json:"address,omitempty"`
	Start      time.Time    `json:"start"`
	End        time.Time    `json:"end"`
	Status     Status       `json:"status"`
	Paid       bool         `json:"paid"`
	PaidAt     *time.Time   `json:"paid_at,omitempty"`
	Notes      string       `json:"notes,omitempty"`
	Recurring  bool         `json:"recurring"`
	// SeriesID is shared by every instance created from one recurring
	// booking request; nil for one-offs.
	SeriesID     *uuid.UUID `json:"series_id,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy  string     `json:"cancelled_by,omitempty"`
	CancelReason string     `json:"cancel_reason,omitempty"`
	// External artifact references; empty when the provider call failed or
	// was skipped. Their absence never blocks the domain appointment.
	MeetingID       string    `json:"meeting_id,omitempty"`
	MeetingJoinURL  string    `json:"meeting_join_url,omitempty"`
	CalendarEventID string    `json:"calendar_event_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// BookingRequest is a request to create one appointment or a recurring series.
type BookingRequest struct {
	CustomerID uuid.UUID    `json:"-"`
	TypeID     string       `json:"type_id"`
	Location   LocationKind `json:"location"`
	Address    string       `json:"address,omitempty"`
	Start      time.Time    `json:"start"`
	Notes      string       `json:"notes,omitempty"`
	Recurrence *Recurrence  `json:"recurrence,omitempty"`
}

// Validate checks the request shape; type existence is checked at the catalog.
func (r *BookingRequest) Validate() error {
	if r.CustomerID == uuid.Nil {
		return ErrMissingCustomer
	}
	if !r.Location.Valid() {
		return ErrBadLocation
	}
	if r.Start.IsZero() {
		return ErrMissingStart
	}
	if r.Recurrence != nil {
		if err := r.Recurrence.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// BookingResult reports the outcome of a successful booking.
type BookingResult struct {
	Appointments []Appointment `json:"appointments"`
	SeriesID     *uuid.UUID    `json:"series_id,omitempty"`
}

// CancelRequest asks to cancel an instance, optionally with the rest of its series.
type CancelRequest struct {
	AppointmentID uuid.UUID
	Actor         string
	Reason        string
	CancelSeries  bool
}

// CancelResult reports which instances were cancelled and the fee advisory.
type CancelResult struct {
	Cancelled    []Appointment `json:"cancelled"`
	FeeFree      bool          `json:"fee_free"`
	LateFeeCents int           `json:"late_fee_cents"`
}
