package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/oakhurst/lessonbook/internal/appointments"
	"github.com/oakhurst/lessonbook/internal/catalog"
	"github.com/oakhurst/lessonbook/internal/customers"
	"github.com/oakhurst/lessonbook/pkg/logging"
)

// Service sends booking lifecycle emails to customers, with a copy to the
// owner when an owner address is configured. It implements the notifier
// the booking service expects.
type Service struct {
	email      EmailSender
	ownerEmail string
	ownerName  string
	logger     *logging.Logger
}

// NewService creates a notification service.
func NewService(email EmailSender, ownerEmail, ownerName string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if email == nil {
		email = NewStubEmailSender(logger)
	}
	return &Service{
		email:      email,
		ownerEmail: ownerEmail,
		ownerName:  ownerName,
		logger:     logger,
	}
}

// BookingConfirmed emails the customer a confirmation listing every booked
// instance.
func (s *Service) BookingConfirmed(ctx context.Context, cust *customers.Customer, typ catalog.AppointmentType, created []appointments.Appointment) error {
	if cust.Email == "" {
		s.logger.Debug("notify: customer has no email, skipping confirmation", "customer_id", cust.ID)
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", cust.Name)
	if len(created) == 1 {
		fmt.Fprintf(&b, "Your %s is booked.\n\n", typ.Name)
	} else {
		fmt.Fprintf(&b, "Your recurring %s is booked (%d lessons).\n\n", typ.Name, len(created))
	}
	for _, appt := range created {
		fmt.Fprintf(&b, "  - %s\n", formatInstance(&appt))
	}
	b.WriteString("\nSee you there!\n")

	subject := fmt.Sprintf("Booking confirmed: %s on %s", typ.Name, created[0].Start.Format("Mon Jan 2"))
	msg := EmailMessage{
		To:      cust.Email,
		ToName:  cust.Name,
		Subject: subject,
		Body:    b.String(),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return err
	}
	s.copyOwner(ctx, subject, b.String())
	return nil
}

// BookingCancelled emails the customer a cancellation notice, including the
// late fee when one applies.
func (s *Service) BookingCancelled(ctx context.Context, cust *customers.Customer, appt *appointments.Appointment, lateFeeCents int) error {
	if cust.Email == "" {
		s.logger.Debug("notify: customer has no email, skipping cancellation notice", "customer_id", cust.ID)
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", cust.Name)
	fmt.Fprintf(&b, "Your lesson on %s has been cancelled.\n", formatInstance(appt))
	if lateFeeCents > 0 {
		fmt.Fprintf(&b, "\nBecause the cancellation fell inside the notice window, a late fee of $%.2f applies.\n", float64(lateFeeCents)/100)
	}

	subject := fmt.Sprintf("Lesson cancelled: %s", appt.Start.Format("Mon Jan 2"))
	msg := EmailMessage{
		To:      cust.Email,
		ToName:  cust.Name,
		Subject: subject,
		Body:    b.String(),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return err
	}
	s.copyOwner(ctx, subject, b.String())
	return nil
}

func (s *Service) copyOwner(ctx context.Context, subject, body string) {
	if s.ownerEmail == "" {
		return
	}
	err := s.email.Send(ctx, EmailMessage{
		To:      s.ownerEmail,
		ToName:  s.ownerName,
		Subject: "[copy] " + subject,
		Body:    body,
	})
	if err != nil {
		s.logger.Error("notify: owner copy failed", "error", err)
	}
}

func formatInstance(appt *appointments.Appointment) string {
	when := fmt.Sprintf("%s %s-%s",
		appt.Start.Format("Mon Jan 2 2006"),
		appt.Start.Format("3:04 PM"),
		appt.End.Format("3:04 PM"),
	)
	switch {
	case appt.Location == appointments.LocationRemote && appt.MeetingJoinURL != "":
		return fmt.Sprintf("%s, online: %s", when, appt.MeetingJoinURL)
	case appt.Location == appointments.LocationRemote:
		return when + ", online (link to follow)"
	case appt.Address != "":
		return fmt.Sprintf("%s at %s", when, appt.Address)
	default:
		return when
	}
}

var _ appointments.Notifier = (*Service)(nil)
