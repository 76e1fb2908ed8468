package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores availability rules in the relational database.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("availability: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// ListWeekly returns the owner's weekly windows.
func (r *PostgresRepository) ListWeekly(ctx context.Context, ownerID string) ([]WeeklyWindow, error) {
	query := `
		SELECT id, owner_id, weekday, start_minutes, end_minutes, recurring
		FROM weekly_availability
		WHERE owner_id = $1
		ORDER BY weekday, start_minutes
	`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("availability: list weekly: %w", err)
	}
	defer rows.Close()

	var out []WeeklyWindow
	for rows.Next() {
		var w WeeklyWindow
		if err := rows.Scan(&w.ID, &w.OwnerID, &w.Weekday, &w.Start, &w.End, &w.Recurring); err != nil {
			return nil, fmt.Errorf("availability: scan weekly: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// ReplaceWeekly deletes all recurring windows and inserts the new set in one
// transaction, so readers never observe a half-replaced schedule.
func (r *PostgresRepository) ReplaceWeekly(ctx context.Context, ownerID string, windows []WeeklyWindow) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("availability: begin replace: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM weekly_availability WHERE owner_id = $1 AND recurring`, ownerID); err != nil {
		return fmt.Errorf("availability: clear weekly: %w", err)
	}

	for _, w := range windows {
		id := w.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO weekly_availability (id, owner_id, weekday, start_minutes, end_minutes, recurring)
			VALUES ($1, $2, $3, $4, $5, TRUE)
		`, id, ownerID, int(w.Weekday), int(w.Start), int(w.End)); err != nil {
			return fmt.Errorf("availability: insert weekly: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("availability: commit replace: %w", err)
	}
	return nil
}

// GetOverride returns the override for a date, or nil when none exists.
func (r *PostgresRepository) GetOverride(ctx context.Context, ownerID, date string) (*Override, error) {
	query := `
		SELECT id, owner_id, date, available, start_minutes, end_minutes
		FROM availability_overrides
		WHERE owner_id = $1 AND date = $2
	`
	var o Override
	var start, end *int
	err := r.pool.QueryRow(ctx, query, ownerID, date).Scan(&o.ID, &o.OwnerID, &o.Date, &o.Available, &start, &end)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("availability: get override: %w", err)
	}
	if start != nil {
		t := TimeOfDay(*start)
		o.Start = &t
	}
	if end != nil {
		t := TimeOfDay(*end)
		o.End = &t
	}
	return &o, nil
}

// UpsertOverride inserts or replaces the override for its owner+date.
func (r *PostgresRepository) UpsertOverride(ctx context.Context, o *Override) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	var start, end *int
	if o.Start != nil {
		v := int(*o.Start)
		start = &v
	}
	if o.End != nil {
		v := int(*o.End)
		end = &v
	}
	query := `
		INSERT INTO availability_overrides (id, owner_id, date, available, start_minutes, end_minutes)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (owner_id, date) DO UPDATE
		SET available = EXCLUDED.available,
		    start_minutes = EXCLUDED.start_minutes,
		    end_minutes = EXCLUDED.end_minutes
	`
	if _, err := r.pool.Exec(ctx, query, o.ID, o.OwnerID, o.Date, o.Available, start, end); err != nil {
		return fmt.Errorf("availability: upsert override: %w", err)
	}
	return nil
}

// DeleteOverride removes an override by id.
func (r *PostgresRepository) DeleteOverride(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM availability_overrides WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("availability: delete override: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOverrideNotFound
	}
	return nil
}

// DeleteOverrideByDate removes the override for a date.
func (r *PostgresRepository) DeleteOverrideByDate(ctx context.Context, ownerID, date string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM availability_overrides WHERE owner_id = $1 AND date = $2`, ownerID, date)
	if err != nil {
		return fmt.Errorf("availability: delete override by date: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOverrideNotFound
	}
	return nil
}

// ListOverrides returns all overrides for the owner.
func (r *PostgresRepository) ListOverrides(ctx context.Context, ownerID string) ([]Override, error) {
	query := `
		SELECT id, owner_id, date, available, start_minutes, end_minutes
		FROM availability_overrides
		WHERE owner_id = $1
		ORDER BY date
	`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("availability: list overrides: %w", err)
	}
	defer rows.Close()

	var out []Override
	for rows.Next() {
		var o Override
		var start, end *int
		if err := rows.Scan(&o.ID, &o.OwnerID, &o.Date, &o.Available, &start, &end); err != nil {
			return nil, fmt.Errorf("availability: scan override: %w", err)
		}
		if start != nil {
			t := TimeOfDay(*start)
			o.Start = &t
		}
		if end != nil {
			t := TimeOfDay(*end)
			o.End = &t
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
