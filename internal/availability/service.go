package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oakhurst/lessonbook/internal/catalog"
	"github.com/oakhurst/lessonbook/pkg/logging"
)

// Service resolves availability and generates bookable slots.
type Service struct {
	repo    Repository
	catalog *catalog.Catalog
	policy  *catalog.PolicyStore
	logger  *logging.Logger
	now     func() time.Time
}

// NewService constructs an availability service.
func NewService(repo Repository, cat *catalog.Catalog, policy *catalog.PolicyStore, logger *logging.Logger) *Service {
	if repo == nil {
		panic("availability: repository required")
	}
	if cat == nil {
		panic("availability: catalog required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:    repo,
		catalog: cat,
		policy:  policy,
		logger:  logger,
		now:     time.Now,
	}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// WindowsFor returns the effective bookable windows for a date.
func (s *Service) WindowsFor(ctx context.Context, ownerID string, date time.Time) ([]Window, error) {
	override, err := s.repo.GetOverride(ctx, ownerID, DateKey(date))
	if err != nil {
		return nil, err
	}
	weekly, err := s.repo.ListWeekly(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return ResolveWindows(date, weekly, override), nil
}

// SlotsFor enumerates bookable start times on a date for an appointment type.
func (s *Service) SlotsFor(ctx context.Context, ownerID string, date time.Time, typeID string) ([]Slot, error) {
	typ, err := s.catalog.Lookup(typeID)
	if err != nil {
		return nil, err
	}
	policy, err := s.policy.Get(ctx)
	if err != nil {
		return nil, err
	}
	windows, err := s.WindowsFor(ctx, ownerID, date)
	if err != nil {
		return nil, err
	}
	return GenerateSlots(date, windows, typ.DurationMinutes, policy.SlotStepMinutes, s.now()), nil
}

// ReplaceWeekly validates and atomically replaces the owner's weekly set.
func (s *Service) ReplaceWeekly(ctx context.Context, ownerID string, windows []WeeklyWindow) error {
	byDay := make(map[time.Weekday][]WeeklyWindow)
	for _, w := range windows {
		if w.End <= w.Start {
			return fmt.Errorf("%w: %s-%s", ErrInvalidWindow, w.Start, w.End)
		}
		for _, other := range byDay[w.Weekday] {
			if w.Start < other.End && other.Start < w.End {
				return fmt.Errorf("%w: %s %s-%s", ErrOverlappingWindows, w.Weekday, w.Start, w.End)
			}
		}
		byDay[w.Weekday] = append(byDay[w.Weekday], w)
	}

	if err := s.repo.ReplaceWeekly(ctx, ownerID, windows); err != nil {
		return err
	}
	s.logger.Info("weekly availability replaced", "owner_id", ownerID, "windows", len(windows))
	return nil
}

// SetOverride upserts a date override.
func (s *Service) SetOverride(ctx context.Context, o *Override) error {
	if _, err := time.Parse(time.DateOnly, o.Date); err != nil {
		return ErrBadDate
	}
	if o.Available && o.Start != nil && o.End != nil && *o.End <= *o.Start {
		return ErrInvalidWindow
	}
	if err := s.repo.UpsertOverride(ctx, o); err != nil {
		return err
	}
	s.logger.Info("availability override set",
		"owner_id", o.OwnerID,
		"date", o.Date,
		"available", o.Available,
	)
	return nil
}

// RemoveOverride deletes an override by id.
func (s *Service) RemoveOverride(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteOverride(ctx, id)
}

// RemoveOverrideByDate deletes the override for a date.
func (s *Service) RemoveOverrideByDate(ctx context.Context, ownerID, date string) error {
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return ErrBadDate
	}
	return s.repo.DeleteOverrideByDate(ctx, ownerID, date)
}

// ListWeekly returns the owner's weekly windows.
func (s *Service) ListWeekly(ctx context.Context, ownerID string) ([]WeeklyWindow, error) {
	return s.repo.ListWeekly(ctx, ownerID)
}

// ListOverrides returns the owner's overrides.
func (s *Service) ListOverrides(ctx context.Context, ownerID string) ([]Override, error) {
	return s.repo.ListOverrides(ctx, ownerID)
}
