package appointments

import (
	"time"

	"github.com/google/uuid"
)

// Candidate is a prospective appointment interval being checked for conflicts.
type Candidate struct {
	Start      time.Time
	End        time.Time
	Location   LocationKind
	CustomerID uuid.UUID
}

// CheckConflict validates a candidate interval against existing appointments.
//
// Rule 1: any intersection with a non-cancelled appointment rejects, no
// matter whose it is or where it happens.
//
// Rule 2: an in-person candidate is additionally rejected when an in-person
// appointment of a *different* customer intersects the candidate expanded by
// the travel buffer on both sides. Same-customer back-to-backs are exempt,
// and remote appointments neither trigger nor receive a buffer.
//
// Returns nil or a *ConflictError naming the candidate's date.
func CheckConflict(c Candidate, existing []Appointment, bufferMinutes int) error {
	for _, a := range existing {
		if a.Status == StatusCancelled {
			continue
		}
		if overlaps(c.Start, c.End, a.Start, a.End) {
			return &ConflictError{Date: c.Start}
		}
	}

	if c.Location != LocationInPerson || bufferMinutes <= 0 {
		return nil
	}

	buffer := time.Duration(bufferMinutes) * time.Minute
	bufStart := c.Start.Add(-buffer)
	bufEnd := c.End.Add(buffer)
	for _, a := range existing {
		if a.Status == StatusCancelled || a.Location != LocationInPerson || a.CustomerID == c.CustomerID {
			continue
		}
		if overlaps(bufStart, bufEnd, a.Start, a.End) {
			return &ConflictError{Date: c.Start, TravelBuffer: true}
		}
	}
	return nil
}

// overlaps reports whether [aStart, aEnd) intersects [bStart, bEnd).
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
