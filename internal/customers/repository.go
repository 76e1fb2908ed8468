package customers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for customer storage
type Repository interface {
	Create(ctx context.Context, req *CreateCustomerRequest) (*Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	SaveAddress(ctx context.Context, id uuid.UUID, address string) error
	SetDiscount(ctx context.Context, id uuid.UUID, pct int) error
	List(ctx context.Context) ([]*Customer, error)
}

// InMemoryRepository is an in-memory Repository used in tests and when no
// database is configured.
type InMemoryRepository struct {
	mu        sync.RWMutex
	customers map[uuid.UUID]*Customer
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		customers: make(map[uuid.UUID]*Customer),
	}
}

// Create creates a new customer in memory
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateCustomerRequest) (*Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := &Customer{
		ID:          uuid.New(),
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		DiscountPct: req.DiscountPct,
		CreatedAt:   time.Now().UTC(),
	}

	r.mu.Lock()
	r.customers[c.ID] = c
	r.mu.Unlock()

	return c, nil
}

// GetByID retrieves a customer by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.customers[id]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	cp := *c
	return &cp, nil
}

// SaveAddress stores the customer's in-person lesson address.
func (r *InMemoryRepository) SaveAddress(ctx context.Context, id uuid.UUID, address string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.customers[id]
	if !ok {
		return ErrCustomerNotFound
	}
	c.Address = address
	return nil
}

// SetDiscount updates the customer's discount percentage.
func (r *InMemoryRepository) SetDiscount(ctx context.Context, id uuid.UUID, pct int) error {
	if pct < 0 || pct > 100 {
		return ErrInvalidDiscount
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.customers[id]
	if !ok {
		return ErrCustomerNotFound
	}
	c.DiscountPct = pct
	return nil
}

// List returns all customers.
func (r *InMemoryRepository) List(ctx context.Context) ([]*Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Customer, 0, len(r.customers))
	for _, c := range r.customers {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}
