package override

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tuneuplab/tuneup-booking-backend/internal/schedule"
)

type Repository interface {
	// Upsert inserts or replaces the override for the slot key
	// (last-write-wins; no history is kept for overrides).
	Upsert(ctx context.Context, o *Override) error

	// QueryRange returns the override decisions for all keys within the
	// inclusive date window, keyed by schedule.Slot.Key().
	QueryRange(ctx context.Context, from, to time.Time) (map[string]bool, error)

	// List returns override rows within the window for the admin calendar.
	List(ctx context.Context, from, to time.Time) ([]*Override, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Upsert(ctx context.Context, o *Override) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.slot_overrides").
		Columns("slot_date", "slot_minutes", "is_available").
		Values(o.SlotDate, o.SlotTime.Minutes, o.IsAvailable).
		Suffix("ON CONFLICT (slot_date, slot_minutes) DO UPDATE SET is_available = EXCLUDED.is_available, updated_at = now()").
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert override query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return fmt.Errorf("upsert override failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) QueryRange(ctx context.Context, from, to time.Time) (map[string]bool, error) {
	rows, err := r.List(ctx, from, to)
	if err != nil {
		return nil, err
	}

	decisions := make(map[string]bool, len(rows))
	for _, o := range rows {
		decisions[o.Slot().Key()] = o.IsAvailable
	}
	return decisions, nil
}

func (r *pgxRepository) List(ctx context.Context, from, to time.Time) ([]*Override, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "slot_date", "slot_minutes", "is_available", "created_at", "updated_at").
		From("public.slot_overrides").
		Where(squirrel.GtOrEq{"slot_date": from}).
		Where(squirrel.LtOrEq{"slot_date": to}).
		OrderBy("slot_date ASC", "slot_minutes ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list overrides query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list overrides failed: %w", err)
	}
	defer rows.Close()

	var result []*Override
	for rows.Next() {
		var o Override
		var minutes int
		if err := rows.Scan(&o.ID, &o.SlotDate, &minutes, &o.IsAvailable, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan override failed: %w", err)
		}
		o.SlotTime = schedule.TimeOfDay{Minutes: minutes}
		result = append(result, &o)
	}
	return result, nil
}
