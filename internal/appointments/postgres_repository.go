package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores appointments in the relational database. The
// appointments table carries an exclusion constraint over (owner_id,
// tstzrange(start_at, end_at)) for non-cancelled rows, so a second
// conflicting insert fails inside the database rather than trusting the
// service's pre-check.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

const apptColumns = `
	id, customer_id, owner_id, type_id, location, COALESCE(address, ''),
	start_at, end_at, status, paid, paid_at, COALESCE(notes, ''), recurring,
	series_id, cancelled_at, COALESCE(cancelled_by, ''), COALESCE(cancel_reason, ''),
	COALESCE(meeting_id, ''), COALESCE(meeting_join_url, ''), COALESCE(calendar_event_id, ''),
	created_at
`

// Create inserts an appointment row. Overlap violations surface as *ConflictError.
func (r *PostgresRepository) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	query := `
		INSERT INTO appointments (
			id, customer_id, owner_id, type_id, location, address,
			start_at, end_at, status, paid, notes, recurring, series_id,
			meeting_id, meeting_join_url, calendar_event_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		a.ID,
		a.CustomerID,
		a.OwnerID,
		a.TypeID,
		string(a.Location),
		a.Address,
		a.Start,
		a.End,
		string(a.Status),
		a.Paid,
		a.Notes,
		a.Recurring,
		a.SeriesID,
		a.MeetingID,
		a.MeetingJoinURL,
		a.CalendarEventID,
	).Scan(&a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && (pgErr.Code == "23P01" || pgErr.Code == "23505") {
			return &ConflictError{Date: a.Start}
		}
		return fmt.Errorf("appointments: insert failed: %w", err)
	}
	return nil
}

// GetByID fetches an appointment.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+apptColumns+` FROM appointments WHERE id = $1`, id)
	a, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("appointments: select failed: %w", err)
	}
	return a, nil
}

// ListActive returns all non-cancelled appointments for the owner.
func (r *PostgresRepository) ListActive(ctx context.Context, ownerID string) ([]Appointment, error) {
	return r.listQuery(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		WHERE owner_id = $1 AND status <> 'cancelled'
		ORDER BY start_at
	`, ownerID)
}

// ListRange returns non-cancelled appointments starting within [from, to).
func (r *PostgresRepository) ListRange(ctx context.Context, ownerID string, from, to time.Time) ([]Appointment, error) {
	return r.listQuery(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		WHERE owner_id = $1 AND status <> 'cancelled' AND start_at >= $2 AND start_at < $3
		ORDER BY start_at
	`, ownerID, from, to)
}

// ListByCustomer returns the customer's non-cancelled appointments from a time on.
func (r *PostgresRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, from time.Time) ([]Appointment, error) {
	return r.listQuery(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		WHERE customer_id = $1 AND status <> 'cancelled' AND start_at >= $2
		ORDER BY start_at
	`, customerID, from)
}

// ListBySeries returns every instance of a series, any status.
func (r *PostgresRepository) ListBySeries(ctx context.Context, seriesID uuid.UUID) ([]Appointment, error) {
	return r.listQuery(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		WHERE series_id = $1
		ORDER BY start_at
	`, seriesID)
}

// ListPaidBetween returns paid, non-cancelled appointments by payment time.
func (r *PostgresRepository) ListPaidBetween(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	return r.listQuery(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		WHERE paid AND status <> 'cancelled' AND paid_at >= $1 AND paid_at < $2
		ORDER BY paid_at
	`, from, to)
}

// ListScheduledRecurringAfter returns scheduled recurring instances starting after.
func (r *PostgresRepository) ListScheduledRecurringAfter(ctx context.Context, after time.Time) ([]Appointment, error) {
	return r.listQuery(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		WHERE recurring AND status = 'scheduled' AND start_at > $1
		ORDER BY start_at
	`, after)
}

// SetPaid toggles the paid flag.
func (r *PostgresRepository) SetPaid(ctx context.Context, id uuid.UUID, paid bool, at time.Time) error {
	var paidAt *time.Time
	if paid {
		paidAt = &at
	}
	tag, err := r.pool.Exec(ctx, `UPDATE appointments SET paid = $2, paid_at = $3 WHERE id = $1`, id, paid, paidAt)
	if err != nil {
		return fmt.Errorf("appointments: set paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// MarkCancelled flips an appointment to cancelled with its metadata.
func (r *PostgresRepository) MarkCancelled(ctx context.Context, id uuid.UUID, at time.Time, by, reason string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET status = 'cancelled', cancelled_at = $2, cancelled_by = $3, cancel_reason = $4
		WHERE id = $1
	`, id, at, by, reason)
	if err != nil {
		return fmt.Errorf("appointments: mark cancelled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *PostgresRepository) listQuery(ctx context.Context, query string, args ...any) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("appointments: query failed: %w", err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan failed: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var location, status string
	if err := row.Scan(
		&a.ID,
		&a.CustomerID,
		&a.OwnerID,
		&a.TypeID,
		&location,
		&a.Address,
		&a.Start,
		&a.End,
		&status,
		&a.Paid,
		&a.PaidAt,
		&a.Notes,
		&a.Recurring,
		&a.SeriesID,
		&a.CancelledAt,
		&a.CancelledBy,
		&a.CancelReason,
		&a.MeetingID,
		&a.MeetingJoinURL,
		&a.CalendarEventID,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	a.Location = LocationKind(location)
	a.Status = Status(status)
	return &a, nil
}
