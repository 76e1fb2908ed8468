// Package reports aggregates payment data into owner-facing summaries.
package reports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/oakhurst/lessonbook/internal/appointments"
	"github.com/oakhurst/lessonbook/internal/catalog"
	"github.com/oakhurst/lessonbook/internal/customers"
	"github.com/oakhurst/lessonbook/pkg/logging"
)

// TypeSubtotal is the revenue attributed to one appointment type.
type TypeSubtotal struct {
	TypeID     string `json:"type_id"`
	TypeName   string `json:"type_name"`
	Count      int    `json:"count"`
	TotalCents int    `json:"total_cents"`
}

// Summary is the payment report for a period. Recurring instances are valued
// at a quarter of the type's monthly rate; one-offs at the per-lesson rate.
// Customer discounts apply to both.
type Summary struct {
	From           time.Time      `json:"from"`
	To             time.Time      `json:"to"`
	TotalCents     int            `json:"total_cents"`
	LessonCount    int            `json:"lesson_count"`
	RecurringCents int            `json:"recurring_cents"`
	RecurringCount int            `json:"recurring_count"`
	ByType         []TypeSubtotal `json:"by_type"`
}

// Projection estimates steady-state monthly revenue from active recurring
// series.
type Projection struct {
	MonthlyCents int `json:"monthly_cents"`
	SeriesCount  int `json:"series_count"`
}

// Service computes payment reports.
type Service struct {
	appts     appointments.Repository
	customers customers.Repository
	catalog   *catalog.Catalog
	logger    *logging.Logger
	now       func() time.Time
}

// NewService creates a reports service.
func NewService(appts appointments.Repository, custRepo customers.Repository, cat *catalog.Catalog, logger *logging.Logger) *Service {
	if appts == nil {
		panic("reports: appointments repository required")
	}
	if custRepo == nil {
		panic("reports: customers repository required")
	}
	if cat == nil {
		panic("reports: catalog required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		appts:     appts,
		customers: custRepo,
		catalog:   cat,
		logger:    logger,
		now:       time.Now,
	}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Summary aggregates payments recorded within [from, to).
func (s *Service) Summary(ctx context.Context, from, to time.Time) (*Summary, error) {
	paid, err := s.appts.ListPaidBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	summary := &Summary{From: from, To: to}
	subtotals := make(map[string]*TypeSubtotal)
	discounts := make(map[uuid.UUID]int)

	for _, appt := range paid {
		typ, err := s.catalog.Lookup(appt.TypeID)
		if err != nil {
			s.logger.Error("reports: appointment references unknown type", "type_id", appt.TypeID, "id", appt.ID)
			continue
		}

		pct, ok := discounts[appt.CustomerID]
		if !ok {
			cust, err := s.customers.GetByID(ctx, appt.CustomerID)
			if err == nil {
				pct = cust.DiscountPct
			}
			discounts[appt.CustomerID] = pct
		}

		cents := typ.RateCents
		if appt.Recurring {
			cents = typ.MonthlyRateCents / 4
		}
		cents = customers.DiscountedCents(cents, pct)

		summary.TotalCents += cents
		summary.LessonCount++
		if appt.Recurring {
			summary.RecurringCents += cents
			summary.RecurringCount++
		}

		sub, ok := subtotals[typ.ID]
		if !ok {
			sub = &TypeSubtotal{TypeID: typ.ID, TypeName: typ.Name}
			subtotals[typ.ID] = sub
		}
		sub.Count++
		sub.TotalCents += cents
	}

	// Display order follows the catalog.
	for _, typ := range s.catalog.Types() {
		if sub, ok := subtotals[typ.ID]; ok {
			summary.ByType = append(summary.ByType, *sub)
		}
	}
	return summary, nil
}

// ProjectedMonthlyRevenue sums the discounted monthly rate of every customer
// with an active recurring series. A customer counts once no matter how many
// series or instances remain.
func (s *Service) ProjectedMonthlyRevenue(ctx context.Context) (*Projection, error) {
	upcoming, err := s.appts.ListScheduledRecurringAfter(ctx, s.now())
	if err != nil {
		return nil, err
	}

	projection := &Projection{}
	seen := make(map[uuid.UUID]bool)
	for _, appt := range upcoming {
		if appt.SeriesID == nil || seen[appt.CustomerID] {
			continue
		}
		seen[appt.CustomerID] = true

		typ, err := s.catalog.Lookup(appt.TypeID)
		if err != nil {
			continue
		}
		pct := 0
		if cust, err := s.customers.GetByID(ctx, appt.CustomerID); err == nil {
			pct = cust.DiscountPct
		}
		projection.MonthlyCents += customers.DiscountedCents(typ.MonthlyRateCents, pct)
		projection.SeriesCount++
	}
	return projection, nil
}
