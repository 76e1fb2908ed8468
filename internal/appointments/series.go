package appointments

import "time"

// RecurrenceKind selects how a recurring booking repeats.
type RecurrenceKind string

const (
	// RecurWeekly repeats every 7 days, months x 4 instances in total.
	RecurWeekly RecurrenceKind = "weekly"
	// RecurMonthly is the legacy mode: one instance per month on the same
	// ordinal weekday occurrence as the first appointment.
	RecurMonthly RecurrenceKind = "monthly"
)

// Recurrence describes a recurring booking request.
type Recurrence struct {
	Kind   RecurrenceKind `json:"kind"`
	Months int            `json:"months"`
}

// Validate checks the recurrence shape.
func (r *Recurrence) Validate() error {
	if r.Kind != RecurWeekly && r.Kind != RecurMonthly {
		return ErrBadRecurrence
	}
	if r.Months < 1 || r.Months > 12 {
		return ErrBadRecurrence
	}
	return nil
}

// ExpandSeries produces the ordered start times of one recurring series.
//
// weekly: months x 4 instances, each exactly 7 days after the previous one at
// the same time of day.
//
// monthly: up to months instances; instance i lands in month i on the same
// ordinal weekday occurrence as the first start (e.g. "2nd Tuesday"). Months
// where that occurrence does not exist are skipped, so fewer than months
// instances may come back. Skipping, not rolling to a nearby day, is the
// intended policy.
//
// Consecutive instances are never closer than 7 days, so instances within
// one series cannot overlap each other for any catalog duration. The booking
// flow's conflict checks rely on that spacing.
func ExpandSeries(first time.Time, rec Recurrence) []time.Time {
	switch rec.Kind {
	case RecurWeekly:
		count := rec.Months * 4
		out := make([]time.Time, 0, count)
		for i := 0; i < count; i++ {
			out = append(out, first.AddDate(0, 0, 7*i))
		}
		return out

	case RecurMonthly:
		ordinal := (first.Day()-1)/7 + 1
		out := []time.Time{first}
		for i := 1; i < rec.Months; i++ {
			anchor := time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, first.Location()).AddDate(0, i, 0)
			instance, ok := nthWeekday(anchor, first.Weekday(), ordinal)
			if !ok {
				continue
			}
			out = append(out, time.Date(
				instance.Year(), instance.Month(), instance.Day(),
				first.Hour(), first.Minute(), 0, 0, first.Location(),
			))
		}
		return out
	}
	return nil
}

// nthWeekday finds the nth occurrence of weekday in the month containing
// monthStart (which must be the first of the month). ok is false when the
// month has no such occurrence.
func nthWeekday(monthStart time.Time, weekday time.Weekday, n int) (time.Time, bool) {
	offset := (int(weekday) - int(monthStart.Weekday()) + 7) % 7
	day := monthStart.AddDate(0, 0, offset+7*(n-1))
	if day.Month() != monthStart.Month() {
		return time.Time{}, false
	}
	return day, true
}
