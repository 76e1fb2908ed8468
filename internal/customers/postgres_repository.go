package customers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool the repository needs. Narrowed to an
// interface so tests can substitute a mock pool.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores customers in the relational database.
type PostgresRepository struct {
	pool PgxPool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	if pool == nil {
		panic("customers: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateCustomerRequest) (*Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO customers (id, name, email, phone, discount_pct)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		req.Name,
		req.Email,
		req.Phone,
		req.DiscountPct,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("customers: insert failed: %w", err)
	}

	return &Customer{
		ID:          id,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		DiscountPct: req.DiscountPct,
		CreatedAt:   createdAt,
	}, nil
}

// GetByID fetches a customer.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	query := `
		SELECT id, name, email, phone, discount_pct, COALESCE(address, ''), created_at
		FROM customers
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	var c Customer
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.DiscountPct,
		&c.Address,
		&c.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("customers: select failed: %w", err)
	}
	return &c, nil
}

// SaveAddress stores the customer's in-person lesson address.
func (r *PostgresRepository) SaveAddress(ctx context.Context, id uuid.UUID, address string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE customers SET address = $2 WHERE id = $1`, id, address)
	if err != nil {
		return fmt.Errorf("customers: save address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

// SetDiscount updates the customer's discount percentage.
func (r *PostgresRepository) SetDiscount(ctx context.Context, id uuid.UUID, pct int) error {
	if pct < 0 || pct > 100 {
		return ErrInvalidDiscount
	}
	tag, err := r.pool.Exec(ctx, `UPDATE customers SET discount_pct = $2 WHERE id = $1`, id, pct)
	if err != nil {
		return fmt.Errorf("customers: set discount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

// List returns all customers ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]*Customer, error) {
	query := `
		SELECT id, name, email, phone, discount_pct, COALESCE(address, ''), created_at
		FROM customers
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("customers: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.DiscountPct, &c.Address, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("customers: scan failed: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
