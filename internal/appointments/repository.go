package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for appointment storage.
//
// Create must reject an interval that overlaps a non-cancelled appointment
// for the same owner, atomically with the insert. The service pre-checks
// conflicts, but the storage layer is the authority that stops two
// concurrent bookings from both landing.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	ListActive(ctx context.Context, ownerID string) ([]Appointment, error)
	ListRange(ctx context.Context, ownerID string, from, to time.Time) ([]Appointment, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, from time.Time) ([]Appointment, error)
	ListBySeries(ctx context.Context, seriesID uuid.UUID) ([]Appointment, error)
	ListPaidBetween(ctx context.Context, from, to time.Time) ([]Appointment, error)
	ListScheduledRecurringAfter(ctx context.Context, after time.Time) ([]Appointment, error)
	SetPaid(ctx context.Context, id uuid.UUID, paid bool, at time.Time) error
	MarkCancelled(ctx context.Context, id uuid.UUID, at time.Time, by, reason string) error
}

// InMemoryRepository stores appointments in memory. Create enforces the same
// no-overlap rule the Postgres exclusion constraint does.
type InMemoryRepository struct {
	mu    sync.RWMutex
	appts map[uuid.UUID]*Appointment
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{appts: make(map[uuid.UUID]*Appointment)}
}

// Create inserts an appointment, rejecting overlaps with non-cancelled rows.
func (r *InMemoryRepository) Create(ctx context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.appts {
		if existing.Status == StatusCancelled || existing.OwnerID != a.OwnerID {
			continue
		}
		if overlaps(a.Start, a.End, existing.Start, existing.End) {
			return &ConflictError{Date: a.Start}
		}
	}

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	cp := *a
	r.appts[a.ID] = &cp
	return nil
}

// GetByID retrieves an appointment by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.appts[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

// ListActive returns all non-cancelled appointments for the owner.
func (r *InMemoryRepository) ListActive(ctx context.Context, ownerID string) ([]Appointment, error) {
	return r.list(func(a *Appointment) bool {
		return a.OwnerID == ownerID && a.Status != StatusCancelled
	}), nil
}

// ListRange returns non-cancelled appointments starting within [from, to).
func (r *InMemoryRepository) ListRange(ctx context.Context, ownerID string, from, to time.Time) ([]Appointment, error) {
	return r.list(func(a *Appointment) bool {
		return a.OwnerID == ownerID && a.Status != StatusCancelled &&
			!a.Start.Before(from) && a.Start.Before(to)
	}), nil
}

// ListByCustomer returns the customer's non-cancelled appointments from a time on.
func (r *InMemoryRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, from time.Time) ([]Appointment, error) {
	return r.list(func(a *Appointment) bool {
		return a.CustomerID == customerID && a.Status != StatusCancelled && !a.Start.Before(from)
	}), nil
}

// ListBySeries returns every instance of a series, any status.
func (r *InMemoryRepository) ListBySeries(ctx context.Context, seriesID uuid.UUID) ([]Appointment, error) {
	return r.list(func(a *Appointment) bool {
		return a.SeriesID != nil && *a.SeriesID == seriesID
	}), nil
}

// ListPaidBetween returns paid, non-cancelled appointments whose payment was
// recorded within [from, to).
func (r *InMemoryRepository) ListPaidBetween(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	return r.list(func(a *Appointment) bool {
		return a.Paid && a.PaidAt != nil && a.Status != StatusCancelled &&
			!a.PaidAt.Before(from) && a.PaidAt.Before(to)
	}), nil
}

// ListScheduledRecurringAfter returns scheduled recurring instances starting
// after the given time.
func (r *InMemoryRepository) ListScheduledRecurringAfter(ctx context.Context, after time.Time) ([]Appointment, error) {
	return r.list(func(a *Appointment) bool {
		return a.Recurring && a.Status == StatusScheduled && a.Start.After(after)
	}), nil
}

// SetPaid toggles the paid flag, stamping or clearing the payment time.
func (r *InMemoryRepository) SetPaid(ctx context.Context, id uuid.UUID, paid bool, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appts[id]
	if !ok {
		return ErrAppointmentNotFound
	}
	a.Paid = paid
	if paid {
		a.PaidAt = &at
	} else {
		a.PaidAt = nil
	}
	return nil
}

// MarkCancelled flips an appointment to cancelled with its metadata.
func (r *InMemoryRepository) MarkCancelled(ctx context.Context, id uuid.UUID, at time.Time, by, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appts[id]
	if !ok {
		return ErrAppointmentNotFound
	}
	a.Status = StatusCancelled
	a.CancelledAt = &at
	a.CancelledBy = by
	a.CancelReason = reason
	return nil
}

func (r *InMemoryRepository) list(keep func(*Appointment) bool) []Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Appointment
	for _, a := range r.appts {
		if keep(a) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}
