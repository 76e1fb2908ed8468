package appointments

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(t *testing.T, hhmm string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, "2026-09-07T"+hhmm+":00Z")
	require.NoError(t, err)
	return ts
}

func existingAppt(t *testing.T, customerID uuid.UUID, loc LocationKind, from, to string) Appointment {
	t.Helper()
	return Appointment{
		ID:         uuid.New(),
		CustomerID: customerID,
		Location:   loc,
		Start:      at(t, from),
		End:        at(t, to),
		Status:     StatusScheduled,
	}
}

func TestCheckConflictHardOverlap(t *testing.T) {
	x := uuid.New()
	existing := []Appointment{existingAppt(t, x, LocationRemote, "14:00", "14:30")}

	cand := Candidate{
		Start:      at(t, "14:15"),
		End:        at(t, "14:45"),
		Location:   LocationRemote,
		CustomerID: x,
	}
	err := CheckConflict(cand, existing, 30)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, at(t, "14:15"), conflict.Date)
	assert.False(t, conflict.TravelBuffer)
}

func TestCheckConflictTravelBuffer(t *testing.T) {
	custX := uuid.New()
	custY := uuid.New()
	// X holds an in-person lesson 14:00-14:30.
	existing := []Appointment{existingAppt(t, custX, LocationInPerson, "14:00", "14:30")}

	t.Run("different customer inside buffer is rejected", func(t *testing.T) {
		cand := Candidate{
			Start:      at(t, "14:45"),
			End:        at(t, "15:15"),
			Location:   LocationInPerson,
			CustomerID: custY,
		}
		err := CheckConflict(cand, existing, 30)
		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.True(t, conflict.TravelBuffer)
	})

	t.Run("same customer back to back is allowed", func(t *testing.T) {
		cand := Candidate{
			Start:      at(t, "14:30"),
			End:        at(t, "15:00"),
			Location:   LocationInPerson,
			CustomerID: custX,
		}
		assert.NoError(t, CheckConflict(cand, existing, 30))
	})

	t.Run("different customer outside buffer is allowed", func(t *testing.T) {
		cand := Candidate{
			Start:      at(t, "15:00"),
			End:        at(t, "15:30"),
			Location:   LocationInPerson,
			CustomerID: custY,
		}
		assert.NoError(t, CheckConflict(cand, existing, 30))
	})

	t.Run("buffer applies before the existing lesson too", func(t *testing.T) {
		cand := Candidate{
			Start:      at(t, "13:15"),
			End:        at(t, "13:45"),
			Location:   LocationInPerson,
			CustomerID: custY,
		}
		err := CheckConflict(cand, existing, 30)
		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.True(t, conflict.TravelBuffer)
	})
}

func TestCheckConflictRemoteSkipsBuffer(t *testing.T) {
	custX := uuid.New()
	custY := uuid.New()
	existing := []Appointment{existingAppt(t, custX, LocationInPerson, "14:00", "14:30")}

	// A remote candidate right after an in-person lesson needs no travel time.
	cand := Candidate{
		Start:      at(t, "14:30"),
		End:        at(t, "15:00"),
		Location:   LocationRemote,
		CustomerID: custY,
	}
	assert.NoError(t, CheckConflict(cand, existing, 30))

	// And the other way around: in-person after remote.
	existing[0].Location = LocationRemote
	cand.Location = LocationInPerson
	assert.NoError(t, CheckConflict(cand, existing, 30))
}

func TestCheckConflictIgnoresCancelled(t *testing.T) {
	custX := uuid.New()
	cancelled := existingAppt(t, custX, LocationInPerson, "14:00", "14:30")
	cancelled.Status = StatusCancelled

	cand := Candidate{
		Start:      at(t, "14:00"),
		End:        at(t, "14:30"),
		Location:   LocationInPerson,
		CustomerID: uuid.New(),
	}
	assert.NoError(t, CheckConflict(cand, []Appointment{cancelled}, 30))
}

func TestCheckConflictAdjacentIsNotOverlap(t *testing.T) {
	custX := uuid.New()
	existing := []Appointment{existingAppt(t, custX, LocationRemote, "14:00", "14:30")}

	cand := Candidate{
		Start:      at(t, "14:30"),
		End:        at(t, "15:00"),
		Location:   LocationRemote,
		CustomerID: custX,
	}
	assert.NoError(t, CheckConflict(cand, existing, 30))
}
