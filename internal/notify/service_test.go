package notify

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

type recordingSender struct {
	sent []EmailMessage
}

func (r *recordingSender) Send(ctx context.Context, msg EmailMessage) error {
	r.sent = append(r.sent, msg)
	return nil
}

func testCustomer() *customers.Customer {
	return &customers.Customer{
		ID:    uuid.New(),
		Name:  "Avery Lin",
		Email: "avery@example.com",
	}
}

func testType() catalog.AppointmentType {
	return catalog.AppointmentType{ID: "lesson-30", Name: "Lesson (30 min)", DurationMinutes: 30}
}

func testAppt(loc appointments.LocationKind) appointments.Appointment {
	start := time.Date(2026, time.September, 7, 15, 0, 0, 0, time.UTC)
	return appointments.Appointment{
		ID:       uuid.New(),
		Location: loc,
		Start:    start,
		End:      start.Add(30 * time.Minute),
		Address:  "12 Maple St",
	}
}

func TestBookingConfirmedSingle(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, "", "", nil)

	appt := testAppt(appointments.LocationInPerson)
	err := svc.BookingConfirmed(context.Background(), testCustomer(), testType(), []appointments.Appointment{appt})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "avery@example.com", msg.To)
	assert.Contains(t, msg.Subject, "Booking confirmed")
	assert.Contains(t, msg.Body, "12 Maple St")
	assert.Contains(t, msg.Body, "Mon Sep 7 2026")
}

func TestBookingConfirmedSeriesListsEveryInstance(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, "", "", nil)

	var created []appointments.Appointment
	for i := 0; i < 4; i++ {
		appt := testAppt(appointments.LocationRemote)
		appt.Start = appt.Start.AddDate(0, 0, 7*i)
		appt.End = appt.End.AddDate(0, 0, 7*i)
		appt.MeetingJoinURL = "https://meet.example.com/x"
		created = append(created, appt)
	}

	err := svc.BookingConfirmed(context.Background(), testCustomer(), testType(), created)
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	body := sender.sent[0].Body
	assert.Contains(t, body, "(4 lessons)")
	for _, appt := range created {
		assert.Contains(t, body, appt.Start.Format("Mon Jan 2 2006"))
	}
	assert.Contains(t, body, "https://meet.example.com/x")
}

func TestBookingConfirmedCopiesOwner(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, "owner@example.com", "Sam", nil)

	appt := testAppt(appointments.LocationInPerson)
	err := svc.BookingConfirmed(context.Background(), testCustomer(), testType(), []appointments.Appointment{appt})
	require.NoError(t, err)

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "owner@example.com", sender.sent[1].To)
	assert.Contains(t, sender.sent[1].Subject, "[copy]")
}

func TestBookingConfirmedNoEmail(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, "", "", nil)

	cust := testCustomer()
	cust.Email = ""
	appt := testAppt(appointments.LocationInPerson)
	err := svc.BookingConfirmed(context.Background(), cust, testType(), []appointments.Appointment{appt})
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestBookingCancelledWithLateFee(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, "", "", nil)

	appt := testAppt(appointments.LocationInPerson)
	err := svc.BookingCancelled(context.Background(), testCustomer(), &appt, 1500)
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Subject, "Lesson cancelled")
	assert.Contains(t, sender.sent[0].Body, "$15.00")
}

func TestBookingCancelledFeeFree(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, "", "", nil)

	appt := testAppt(appointments.LocationRemote)
	err := svc.BookingCancelled(context.Background(), testCustomer(), &appt, 0)
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.NotContains(t, sender.sent[0].Body, "late fee")
}
