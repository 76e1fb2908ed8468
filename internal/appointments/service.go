package appointments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/oakhurst/lessonbook/internal/catalog"
	"github.com/oakhurst/lessonbook/internal/customers"
	"github.com/oakhurst/lessonbook/internal/observability/metrics"
	"github.com/oakhurst/lessonbook/pkg/logging"
)

var bookingTracer = otel.Tracer("lessonbook.internal.appointments")

// MeetingProvider creates and deletes video meetings. Failures must come back
// as errors, never panics; the service treats them as non-fatal.
type MeetingProvider interface {
	CreateMeeting(ctx context.Context, topic string, start time.Time, durationMinutes int, notes string) (id, joinURL string, err error)
	DeleteMeeting(ctx context.Context, id string) error
}

// CalendarProvider creates and deletes calendar events.
type CalendarProvider interface {
	CreateEvent(ctx context.Context, title, description string, start, end time.Time, location string) (string, error)
	DeleteEvent(ctx context.Context, id string) error
}

// Notifier dispatches booking/cancellation messages. Send failures are logged
// by the service and never fail the domain operation.
type Notifier interface {
	BookingConfirmed(ctx context.Context, customer *customers.Customer, typ catalog.AppointmentType, created []Appointment) error
	BookingCancelled(ctx context.Context, customer *customers.Customer, appt *Appointment, lateFeeCents int) error
}

// Service is the booking orchestrator: it expands recurring requests,
// validates every instance against existing appointments, persists the
// accepted set and drives the external side effects.
type Service struct {
	repo      Repository
	customers customers.Repository
	catalog   *catalog.Catalog
	policy    *catalog.PolicyStore
	meetings  MeetingProvider
	calendar  CalendarProvider
	notifier  Notifier
	metrics   *metrics.BookingMetrics
	logger    *logging.Logger
	ownerID   string
	now       func() time.Time
}

// ServiceConfig wires a booking service. Meetings, Calendar, Notifier and
// Metrics are optional.
type ServiceConfig struct {
	Repo      Repository
	Customers customers.Repository
	Catalog   *catalog.Catalog
	Policy    *catalog.PolicyStore
	Meetings  MeetingProvider
	Calendar  CalendarProvider
	Notifier  Notifier
	Metrics   *metrics.BookingMetrics
	Logger    *logging.Logger
	OwnerID   string
}

// NewService constructs a booking service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Repo == nil {
		panic("appointments: repository required")
	}
	if cfg.Customers == nil {
		panic("appointments: customers repository required")
	}
	if cfg.Catalog == nil {
		panic("appointments: catalog required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Service{
		repo:      cfg.Repo,
		customers: cfg.Customers,
		catalog:   cfg.Catalog,
		policy:    cfg.Policy,
		meetings:  cfg.Meetings,
		calendar:  cfg.Calendar,
		notifier:  cfg.Notifier,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		ownerID:   cfg.OwnerID,
		now:       time.Now,
	}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Book validates and creates a single appointment or a recurring series.
//
// All instances are conflict-checked against already-persisted appointments
// before anything is written; on the first conflict the whole request is
// rejected naming that date and nothing is persisted. Instances within one
// request are not checked against each other: series spacing (7 days or a
// month) exceeds any lesson duration.
//
// External side effects run per instance after validation. A failing
// meeting/calendar/storage call on one instance never stops the remaining
// instances; a failed external call leaves that instance with empty
// references.
func (s *Service) Book(ctx context.Context, req *BookingRequest) (*BookingResult, error) {
	ctx, span := bookingTracer.Start(ctx, "appointments.book")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	typ, err := s.catalog.Lookup(req.TypeID)
	if err != nil {
		return nil, err
	}
	if req.Recurrence != nil && typ.Trial {
		return nil, ErrTrialRecurring
	}

	cust, err := s.customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	policy, err := s.policy.Get(ctx)
	if err != nil {
		return nil, err
	}

	starts := []time.Time{req.Start}
	var seriesID *uuid.UUID
	recurring := req.Recurrence != nil
	if recurring {
		starts = ExpandSeries(req.Start, *req.Recurrence)
		id := uuid.New()
		seriesID = &id
	}
	span.SetAttributes(
		attribute.String("lessonbook.customer_id", req.CustomerID.String()),
		attribute.String("lessonbook.type_id", req.TypeID),
		attribute.Int("lessonbook.instances", len(starts)),
	)

	duration := time.Duration(typ.DurationMinutes) * time.Minute
	existing, err := s.repo.ListActive(ctx, s.ownerID)
	if err != nil {
		return nil, err
	}
	for _, start := range starts {
		cand := Candidate{
			Start:      start,
			End:        start.Add(duration),
			Location:   req.Location,
			CustomerID: req.CustomerID,
		}
		if err := CheckConflict(cand, existing, policy.TravelBufferMinutes); err != nil {
			s.metrics.ObserveConflict()
			span.RecordError(err)
			return nil, err
		}
	}

	address := req.Address
	if req.Location == LocationInPerson {
		if address == "" {
			address = cust.Address
		} else if cust.Address == "" {
			// Remember the address for the customer's next in-person booking.
			if err := s.customers.SaveAddress(ctx, cust.ID, address); err != nil {
				s.logger.Error("failed to save customer address", "error", err, "customer_id", cust.ID)
			}
		}
	}

	var created []Appointment
	var firstErr error
	for _, start := range starts {
		appt := Appointment{
			ID:         uuid.New(),
			CustomerID: req.CustomerID,
			OwnerID:    s.ownerID,
			TypeID:     typ.ID,
			Location:   req.Location,
			Address:    address,
			Start:      start,
			End:        start.Add(duration),
			Status:     StatusScheduled,
			Notes:      req.Notes,
			Recurring:  recurring,
			SeriesID:   seriesID,
		}
		if req.Location == LocationRemote {
			appt.Address = ""
		}

		s.attachExternalArtifacts(ctx, &appt, typ, cust)

		if err := s.repo.Create(ctx, &appt); err != nil {
			s.logger.Error("failed to persist appointment instance",
				"error", err,
				"start", start,
				"customer_id", req.CustomerID,
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		s.metrics.ObserveBooking(string(appt.Location), recurring)
		created = append(created, appt)
	}

	if len(created) == 0 {
		if firstErr != nil {
			return nil, firstErr
		}
		return nil, ErrMissingStart
	}

	if s.notifier != nil {
		if err := s.notifier.BookingConfirmed(ctx, cust, typ, created); err != nil {
			s.logger.Error("confirmation email failed", "error", err, "customer_id", cust.ID)
		}
	}

	s.logger.Info("booking created",
		"customer_id", req.CustomerID,
		"type_id", typ.ID,
		"instances", len(created),
		"recurring", recurring,
	)
	return &BookingResult{Appointments: created, SeriesID: seriesID}, nil
}

// attachExternalArtifacts calls the meeting and calendar providers for one
// instance. Provider errors are logged and leave the references empty.
func (s *Service) attachExternalArtifacts(ctx context.Context, appt *Appointment, typ catalog.AppointmentType, cust *customers.Customer) {
	if appt.Location == LocationRemote && s.meetings != nil {
		id, joinURL, err := s.meetings.CreateMeeting(ctx, typ.Name+" with "+cust.Name, appt.Start, typ.DurationMinutes, appt.Notes)
		if err != nil {
			s.logger.Error("meeting creation failed", "error", err, "start", appt.Start)
		} else {
			appt.MeetingID = id
			appt.MeetingJoinURL = joinURL
		}
	}
	if s.calendar != nil {
		location := appt.Address
		if appt.Location == LocationRemote {
			location = appt.MeetingJoinURL
		}
		eventID, err := s.calendar.CreateEvent(ctx, typ.Name+": "+cust.Name, appt.Notes, appt.Start, appt.End, location)
		if err != nil {
			s.logger.Error("calendar event creation failed", "error", err, "start", appt.Start)
		} else {
			appt.CalendarEventID = eventID
		}
	}
}

// Cancel cancels an instance and, when requested, the scheduled future
// remainder of its series. Past and already-cancelled instances are never
// touched. The late-fee advisory is computed from the anchor instance.
func (s *Service) Cancel(ctx context.Context, req *CancelRequest) (*CancelResult, error) {
	ctx, span := bookingTracer.Start(ctx, "appointments.cancel")
	defer span.End()
	span.SetAttributes(attribute.String("lessonbook.appointment_id", req.AppointmentID.String()))

	appt, err := s.repo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appt.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	policy, err := s.policy.Get(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	feeFree := FeeFreeCancellation(appt.Start, now, policy.CancelNoticeHours)
	lateFee := 0
	if !feeFree {
		lateFee = policy.LateFeeCents
	}

	targets := []Appointment{*appt}
	mode := "single"
	if req.CancelSeries && appt.SeriesID != nil {
		mode = "series"
		siblings, err := s.repo.ListBySeries(ctx, *appt.SeriesID)
		if err != nil {
			return nil, err
		}
		for _, sib := range siblings {
			if sib.ID == appt.ID {
				continue
			}
			if sib.Status == StatusScheduled && sib.Start.After(appt.Start) {
				targets = append(targets, sib)
			}
		}
	}

	var cancelled []Appointment
	for _, target := range targets {
		if err := s.repo.MarkCancelled(ctx, target.ID, now, req.Actor, req.Reason); err != nil {
			s.logger.Error("failed to cancel instance", "error", err, "id", target.ID)
			continue
		}
		s.cleanupExternalArtifacts(ctx, &target)
		target.Status = StatusCancelled
		target.CancelledAt = &now
		target.CancelledBy = req.Actor
		target.CancelReason = req.Reason
		cancelled = append(cancelled, target)
	}
	if len(cancelled) == 0 {
		return nil, ErrAppointmentNotFound
	}
	s.metrics.ObserveCancellation(mode)

	if s.notifier != nil {
		if cust, err := s.customers.GetByID(ctx, appt.CustomerID); err == nil {
			if err := s.notifier.BookingCancelled(ctx, cust, appt, lateFee); err != nil {
				s.logger.Error("cancellation email failed", "error", err, "customer_id", appt.CustomerID)
			}
		}
	}

	s.logger.Info("appointment cancelled",
		"id", appt.ID,
		"mode", mode,
		"instances", len(cancelled),
		"fee_free", feeFree,
	)
	return &CancelResult{Cancelled: cancelled, FeeFree: feeFree, LateFeeCents: lateFee}, nil
}

// cleanupExternalArtifacts deletes any meeting/calendar artifacts tied to an
// instance. Failures are logged; domain cancellation already happened.
func (s *Service) cleanupExternalArtifacts(ctx context.Context, appt *Appointment) {
	if appt.MeetingID != "" && s.meetings != nil {
		if err := s.meetings.DeleteMeeting(ctx, appt.MeetingID); err != nil {
			s.logger.Error("meeting cleanup failed", "error", err, "meeting_id", appt.MeetingID)
		}
	}
	if appt.CalendarEventID != "" && s.calendar != nil {
		if err := s.calendar.DeleteEvent(ctx, appt.CalendarEventID); err != nil {
			s.logger.Error("calendar cleanup failed", "error", err, "event_id", appt.CalendarEventID)
		}
	}
}

// CancellationAdvisory reports whether cancelling an appointment now would be
// fee-free, without changing anything.
func (s *Service) CancellationAdvisory(ctx context.Context, id uuid.UUID) (feeFree bool, lateFeeCents int, err error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, 0, err
	}
	policy, err := s.policy.Get(ctx)
	if err != nil {
		return false, 0, err
	}
	feeFree = FeeFreeCancellation(appt.Start, s.now(), policy.CancelNoticeHours)
	if !feeFree {
		lateFeeCents = policy.LateFeeCents
	}
	return feeFree, lateFeeCents, nil
}

// SetPaid toggles an appointment's paid flag, stamping the payment time.
func (s *Service) SetPaid(ctx context.Context, id uuid.UUID, paid bool) error {
	if err := s.repo.SetPaid(ctx, id, paid, s.now()); err != nil {
		return err
	}
	s.logger.Info("appointment payment updated", "id", id, "paid", paid)
	return nil
}

// Get returns one appointment.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// ListRange returns the owner's appointments starting within [from, to).
func (s *Service) ListRange(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	return s.repo.ListRange(ctx, s.ownerID, from, to)
}

// ListUpcomingForCustomer returns a customer's future appointments.
func (s *Service) ListUpcomingForCustomer(ctx context.Context, customerID uuid.UUID) ([]Appointment, error) {
	return s.repo.ListByCustomer(ctx, customerID, s.now())
}
