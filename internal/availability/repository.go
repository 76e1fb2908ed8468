package availability

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Repository defines the interface for availability storage
type Repository interface {
	ListWeekly(ctx context.Context, ownerID string) ([]WeeklyWindow, error)
	// ReplaceWeekly atomically deletes all recurring windows for the owner
	// and inserts the given set. There is no partial-update merge.
	ReplaceWeekly(ctx context.Context, ownerID string, windows []WeeklyWindow) error
	GetOverride(ctx context.Context, ownerID, date string) (*Override, error)
	// UpsertOverride inserts or replaces the override for its owner+date.
	UpsertOverride(ctx context.Context, o *Override) error
	DeleteOverride(ctx context.Context, id uuid.UUID) error
	DeleteOverrideByDate(ctx context.Context, ownerID, date string) error
	ListOverrides(ctx context.Context, ownerID string) ([]Override, error)
}

// InMemoryRepository stores availability rules in memory.
type InMemoryRepository struct {
	mu        sync.RWMutex
	weekly    map[string][]WeeklyWindow // owner id -> windows
	overrides map[string]map[string]Override
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		weekly:    make(map[string][]WeeklyWindow),
		overrides: make(map[string]map[string]Override),
	}
}

// ListWeekly returns the owner's weekly windows.
func (r *InMemoryRepository) ListWeekly(ctx context.Context, ownerID string) ([]WeeklyWindow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]WeeklyWindow, len(r.weekly[ownerID]))
	copy(out, r.weekly[ownerID])
	return out, nil
}

// ReplaceWeekly swaps the owner's recurring window set.
func (r *InMemoryRepository) ReplaceWeekly(ctx context.Context, ownerID string, windows []WeeklyWindow) error {
	next := make([]WeeklyWindow, 0, len(windows))
	for _, w := range windows {
		if w.ID == uuid.Nil {
			w.ID = uuid.New()
		}
		w.OwnerID = ownerID
		w.Recurring = true
		next = append(next, w)
	}

	r.mu.Lock()
	r.weekly[ownerID] = next
	r.mu.Unlock()
	return nil
}

// GetOverride returns the override for a date, or nil when none exists.
func (r *InMemoryRepository) GetOverride(ctx context.Context, ownerID, date string) (*Override, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.overrides[ownerID][date]
	if !ok {
		return nil, nil
	}
	cp := o
	return &cp, nil
}

// UpsertOverride inserts or replaces an override keyed by owner+date.
func (r *InMemoryRepository) UpsertOverride(ctx context.Context, o *Override) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.overrides[o.OwnerID] == nil {
		r.overrides[o.OwnerID] = make(map[string]Override)
	}
	if prev, ok := r.overrides[o.OwnerID][o.Date]; ok {
		o.ID = prev.ID
	}
	r.overrides[o.OwnerID][o.Date] = *o
	return nil
}

// DeleteOverride removes an override by id.
func (r *InMemoryRepository) DeleteOverride(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for owner, byDate := range r.overrides {
		for date, o := range byDate {
			if o.ID == id {
				delete(r.overrides[owner], date)
				return nil
			}
		}
	}
	return ErrOverrideNotFound
}

// DeleteOverrideByDate removes the override for a date.
func (r *InMemoryRepository) DeleteOverrideByDate(ctx context.Context, ownerID, date string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.overrides[ownerID][date]; !ok {
		return ErrOverrideNotFound
	}
	delete(r.overrides[ownerID], date)
	return nil
}

// ListOverrides returns all overrides for the owner.
func (r *InMemoryRepository) ListOverrides(ctx context.Context, ownerID string) ([]Override, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Override
	for _, o := range r.overrides[ownerID] {
		out = append(out, o)
	}
	return out, nil
}
