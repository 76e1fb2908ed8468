package customers

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Customer represents a booking customer.
type Customer struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	DiscountPct int       `json:"discount_pct"`
	// Address is the saved in-person lesson address, reused on later bookings.
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCustomerRequest represents the request body for creating a customer
type CreateCustomerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DiscountPct int    `json:"discount_pct"`
}

// Validate validates the create customer request
func (r *CreateCustomerRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if r.Email == "" && r.Phone == "" {
		return ErrMissingContact
	}
	if r.DiscountPct < 0 || r.DiscountPct > 100 {
		return ErrInvalidDiscount
	}
	return nil
}

// DiscountedCents applies a percentage discount to an amount in cents,
// rounding up to the nearest cent.
func DiscountedCents(cents, pct int) int {
	if pct <= 0 {
		return cents
	}
	if pct >= 100 {
		return 0
	}
	n := cents * (100 - pct)
	// ceiling division
	return (n + 99) / 100
}
