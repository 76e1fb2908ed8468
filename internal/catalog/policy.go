package catalog

// Policy holds the owner-tunable booking rules.
type Policy struct {
	// SlotStepMinutes is the granularity slot start times are generated at.
	SlotStepMinutes int `json:"slot_step_minutes"`
	// TravelBufferMinutes is the minimum idle time between two in-person
	// appointments with different customers.
	TravelBufferMinutes int `json:"travel_buffer_minutes"`
	// CancelNoticeHours is how far ahead a cancellation must land to be fee-free.
	CancelNoticeHours int `json:"cancel_notice_hours"`
	// LateFeeCents is the flat fee for cancellations inside the notice window.
	LateFeeCents int `json:"late_fee_cents"`
}

// DefaultPolicy returns the stock policy values.
func DefaultPolicy() Policy {
	return Policy{
		SlotStepMinutes:     30,
		TravelBufferMinutes: 30,
		CancelNoticeHours:   24,
		LateFeeCents:        1500,
	}
}
