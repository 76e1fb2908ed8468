package reports

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakhurst/lessonbook/internal/appointments"
	"github.com/oakhurst/lessonbook/internal/catalog"
	"github.com/oakhurst/lessonbook/internal/customers"
)

type fixture struct {
	service  *Service
	appts    *appointments.InMemoryRepository
	custRepo *customers.InMemoryRepository
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	appts := appointments.NewInMemoryRepository()
	custRepo := customers.NewInMemoryRepository()
	now := time.Date(2026, time.September, 15, 12, 0, 0, 0, time.UTC)
	svc := NewService(appts, custRepo, catalog.NewCatalog(), nil).
		WithNow(func() time.Time { return now })
	return &fixture{service: svc, appts: appts, custRepo: custRepo, now: now}
}

func (f *fixture) customer(t *testing.T, discountPct int) uuid.UUID {
	t.Helper()
	cust, err := f.custRepo.Create(context.Background(), &customers.CreateCustomerRequest{
		Name:        "Customer " + uuid.NewString()[:8],
		Email:       uuid.NewString()[:8] + "@example.com",
		DiscountPct: discountPct,
	})
	require.NoError(t, err)
	return cust.ID
}

// paidLesson inserts a paid appointment with payment recorded at paidAt.
func (f *fixture) paidLesson(t *testing.T, customerID uuid.UUID, typeID string, start, paidAt time.Time, seriesID *uuid.UUID) {
	t.Helper()
	appt := &appointments.Appointment{
		ID:         uuid.New(),
		CustomerID: customerID,
		OwnerID:    "owner-1",
		TypeID:     typeID,
		Location:   appointments.LocationRemote,
		Start:      start,
		End:        start.Add(30 * time.Minute),
		Status:     appointments.StatusScheduled,
		Recurring:  seriesID != nil,
		SeriesID:   seriesID,
	}
	require.NoError(t, f.appts.Create(context.Background(), appt))
	require.NoError(t, f.appts.SetPaid(context.Background(), appt.ID, true, paidAt))
}

func TestSummaryMixesOneOffAndRecurring(t *testing.T) {
	f := newFixture(t)
	cust := f.customer(t, 0)
	base := time.Date(2026, time.September, 7, 15, 0, 0, 0, time.UTC)
	paidAt := time.Date(2026, time.September, 8, 9, 0, 0, 0, time.UTC)

	// One-off 30-minute lesson at $40.
	f.paidLesson(t, cust, "lesson-30", base, paidAt, nil)
	// Two paid instances of a recurring 60-minute series: $260/mo -> $65 each.
	seriesID := uuid.New()
	f.paidLesson(t, cust, "lesson-60", base.Add(2*time.Hour), paidAt, &seriesID)
	f.paidLesson(t, cust, "lesson-60", base.Add(2*time.Hour).AddDate(0, 0, 7), paidAt, &seriesID)

	summary, err := f.service.Summary(context.Background(),
		time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 4000+6500+6500, summary.TotalCents)
	assert.Equal(t, 3, summary.LessonCount)
	assert.Equal(t, 13000, summary.RecurringCents)
	assert.Equal(t, 2, summary.RecurringCount)

	require.Len(t, summary.ByType, 2)
	assert.Equal(t, "lesson-30", summary.ByType[0].TypeID)
	assert.Equal(t, 4000, summary.ByType[0].TotalCents)
	assert.Equal(t, "lesson-60", summary.ByType[1].TypeID)
	assert.Equal(t, 13000, summary.ByType[1].TotalCents)
}

func TestSummaryAppliesDiscount(t *testing.T) {
	f := newFixture(t)
	cust := f.customer(t, 10)
	base := time.Date(2026, time.September, 7, 15, 0, 0, 0, time.UTC)
	paidAt := base.Add(time.Hour)

	f.paidLesson(t, cust, "lesson-45", base, paidAt, nil)

	summary, err := f.service.Summary(context.Background(),
		base.AddDate(0, 0, -1), base.AddDate(0, 0, 1))
	require.NoError(t, err)

	// $55 with a 10% discount.
	assert.Equal(t, 4950, summary.TotalCents)
}

func TestSummaryWindowExcludesOutsidePayments(t *testing.T) {
	f := newFixture(t)
	cust := f.customer(t, 0)
	base := time.Date(2026, time.September, 7, 15, 0, 0, 0, time.UTC)

	f.paidLesson(t, cust, "lesson-30", base, base.Add(time.Hour), nil)
	f.paidLesson(t, cust, "lesson-30", base.AddDate(0, 1, 0), base.AddDate(0, 1, 0), nil)

	summary, err := f.service.Summary(context.Background(),
		time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.LessonCount)
	assert.Equal(t, 4000, summary.TotalCents)
}

func TestProjectedMonthlyRevenueCountsEachCustomerOnce(t *testing.T) {
	f := newFixture(t)
	custA := f.customer(t, 0)
	custB := f.customer(t, 50)
	ctx := context.Background()

	// Series A: lesson-30 at $140/mo, three future instances.
	seriesA := uuid.New()
	for i := 0; i < 3; i++ {
		start := f.now.AddDate(0, 0, 7*(i+1))
		appt := &appointments.Appointment{
			CustomerID: custA, OwnerID: "owner-1", TypeID: "lesson-30",
			Location: appointments.LocationRemote,
			Start:    start, End: start.Add(30 * time.Minute),
			Status: appointments.StatusScheduled, Recurring: true, SeriesID: &seriesA,
		}
		require.NoError(t, f.appts.Create(ctx, appt))
	}

	// Series B: lesson-60 at $260/mo halved by the discount.
	seriesB := uuid.New()
	start := f.now.AddDate(0, 0, 3)
	require.NoError(t, f.appts.Create(ctx, &appointments.Appointment{
		CustomerID: custB, OwnerID: "owner-1", TypeID: "lesson-60",
		Location: appointments.LocationRemote,
		Start:    start, End: start.Add(time.Hour),
		Status: appointments.StatusScheduled, Recurring: true, SeriesID: &seriesB,
	}))

	// A finished series only has past instances and contributes nothing.
	seriesC := uuid.New()
	past := f.now.AddDate(0, 0, -14)
	require.NoError(t, f.appts.Create(ctx, &appointments.Appointment{
		CustomerID: custA, OwnerID: "owner-1", TypeID: "lesson-45",
		Location: appointments.LocationRemote,
		Start:    past, End: past.Add(45 * time.Minute),
		Status: appointments.StatusScheduled, Recurring: true, SeriesID: &seriesC,
	}))

	// A second active series for customer A does not add a second plan.
	seriesD := uuid.New()
	extra := f.now.AddDate(0, 0, 10)
	require.NoError(t, f.appts.Create(ctx, &appointments.Appointment{
		CustomerID: custA, OwnerID: "owner-1", TypeID: "lesson-45",
		Location: appointments.LocationRemote,
		Start:    extra, End: extra.Add(45 * time.Minute),
		Status: appointments.StatusScheduled, Recurring: true, SeriesID: &seriesD,
	}))

	projection, err := f.service.ProjectedMonthlyRevenue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, projection.SeriesCount)
	assert.Equal(t, 14000+13000, projection.MonthlyCents)
}
