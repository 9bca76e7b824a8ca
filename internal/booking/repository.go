package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tuneuplab/tuneup-booking-backend/internal/schedule"
)

type Repository interface {
	// Create inserts the booking and its creation history entry in one
	// transaction. The partial unique index on (slot_date, slot_minutes)
	// scoped to occupying statuses makes the database reject the loser of
	// a concurrent race with ErrSlotUnavailable.
	Create(ctx context.Context, b *Booking, entry *HistoryEntry) error

	GetByID(ctx context.Context, id int64) (*Booking, error)
	GetByToken(ctx context.Context, token string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)

	// OccupiedSlots returns the slot keys held by occupying bookings whose
	// slot date falls within [from, to].
	OccupiedSlots(ctx context.Context, from, to time.Time) ([]schedule.Slot, error)

	// UpdateStatus performs a compare-and-swap on entry.OldStatus and
	// appends the history entry in the same transaction. Returns
	// ErrStatusConflict if the row no longer holds the expected status.
	UpdateStatus(ctx context.Context, b *Booking, entry *HistoryEntry) error

	// ConfirmPayment records the payment fields, advances the booking to
	// confirmed and appends history, all in one transaction. The guard on
	// payment_status makes repeated webhook deliveries idempotent; the
	// history entry's old status is re-read under the row lock rather
	// than trusted from the caller.
	ConfirmPayment(ctx context.Context, b *Booking, entry *HistoryEntry) error

	// ListUnpaidByEmail returns unpaid, occupying bookings for the payer
	// email, newest first.
	ListUnpaidByEmail(ctx context.Context, email string) ([]*Booking, error)

	ListHistory(ctx context.Context, bookingID int64) ([]*HistoryEntry, error)

	// ListStalePending returns pending, unpaid bookings created before the
	// cutoff, for the expiry sweep.
	ListStalePending(ctx context.Context, cutoff time.Time) ([]*Booking, error)
}

const bookingColumns = "id, customer_name, contact_id, email, package_id, package_name, " +
	"amount, slot_date, slot_minutes, add_ons, status, payment_status, payment_id, " +
	"payment_method, customer_notes, admin_notes, booking_token, created_at, updated_at"

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var minutes int
	if err := row.Scan(
		&b.ID, &b.CustomerName, &b.ContactID, &b.Email, &b.PackageID, &b.PackageName,
		&b.Amount, &b.SlotDate, &minutes, &b.AddOns, &b.Status, &b.PaymentStatus,
		&b.PaymentID, &b.PaymentMethod, &b.CustomerNotes, &b.AdminNotes,
		&b.BookingToken, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	b.SlotTime = schedule.TimeOfDay{Minutes: minutes}
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking, entry *HistoryEntry) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create booking tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	query, args, err := psql.Insert("public.bookings").
		Columns(
			"customer_name", "contact_id", "email", "package_id", "package_name",
			"amount", "slot_date", "slot_minutes", "add_ons", "status",
			"payment_status", "customer_notes", "booking_token",
		).
		Values(
			b.CustomerName, b.ContactID, b.Email, b.PackageID, b.PackageName,
			b.Amount, b.SlotDate, b.SlotTime.Minutes, b.AddOns, b.Status,
			b.PaymentStatus, b.CustomerNotes, b.BookingToken,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrSlotUnavailable
		}
		return fmt.Errorf("create booking failed: %w", err)
	}

	entry.BookingID = b.ID
	if err := r.insertHistory(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create booking tx failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) insertHistory(ctx context.Context, tx pgx.Tx, entry *HistoryEntry) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.booking_history").
		Columns("booking_id", "old_status", "new_status", "changed_by", "notes").
		Values(entry.BookingID, string(entry.OldStatus), string(entry.NewStatus), entry.ChangedBy, entry.Notes).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert history query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return fmt.Errorf("insert booking history failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns).
		From("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) GetByToken(ctx context.Context, token string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns).
		From("public.bookings").
		Where(squirrel.Eq{"booking_token": token}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking by token query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking by token failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(bookingColumns + ", count(*) OVER() as total_count").
		From("public.bookings")

	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.FromDate != nil {
		query = query.Where(squirrel.GtOrEq{"slot_date": *filter.FromDate})
	}
	if filter.ToDate != nil {
		query = query.Where(squirrel.LtOrEq{"slot_date": *filter.ToDate})
	}

	// Sorting
	orderBy := "slot_date"
	switch filter.SortBy {
	case "created_at", "status":
		orderBy = filter.SortBy
	}

	orderDir := "DESC"
	if filter.SortOrder == "asc" {
		orderDir = "ASC"
	}

	query = query.OrderBy(orderBy+" "+orderDir, "slot_minutes "+orderDir)

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		var b Booking
		var minutes int
		if err := rows.Scan(
			&b.ID, &b.CustomerName, &b.ContactID, &b.Email, &b.PackageID, &b.PackageName,
			&b.Amount, &b.SlotDate, &minutes, &b.AddOns, &b.Status, &b.PaymentStatus,
			&b.PaymentID, &b.PaymentMethod, &b.CustomerNotes, &b.AdminNotes,
			&b.BookingToken, &b.CreatedAt, &b.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		b.SlotTime = schedule.TimeOfDay{Minutes: minutes}
		bookings = append(bookings, &b)
	}

	return bookings, total, nil
}

func (r *pgxRepository) OccupiedSlots(ctx context.Context, from, to time.Time) ([]schedule.Slot, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("slot_date", "slot_minutes").
		From("public.bookings").
		Where(squirrel.Eq{"status": []string{string(StatusPending), string(StatusConfirmed)}}).
		Where(squirrel.GtOrEq{"slot_date": from}).
		Where(squirrel.LtOrEq{"slot_date": to}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build occupied slots query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query occupied slots failed: %w", err)
	}
	defer rows.Close()

	var slots []schedule.Slot
	for rows.Next() {
		var s schedule.Slot
		var minutes int
		if err := rows.Scan(&s.Date, &minutes); err != nil {
			return nil, fmt.Errorf("scan occupied slot failed: %w", err)
		}
		s.Time = schedule.TimeOfDay{Minutes: minutes}
		slots = append(slots, s)
	}
	return slots, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, b *Booking, entry *HistoryEntry) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update status tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// Compare-and-swap on the previous status: a concurrent writer that got
	// there first makes RowsAffected zero instead of silently overwriting.
	update := psql.Update("public.bookings").
		Set("status", entry.NewStatus).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		Where(squirrel.Eq{"status": entry.OldStatus})

	if b.AdminNotes != "" {
		update = update.Set("admin_notes", b.AdminNotes)
	}

	query, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("build update status query failed: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrStatusConflict
	}

	entry.BookingID = b.ID
	if err := r.insertHistory(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update status tx failed: %w", err)
	}

	b.Status = entry.NewStatus
	return nil
}

func (r *pgxRepository) ConfirmPayment(ctx context.Context, b *Booking, entry *HistoryEntry) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin confirm payment tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// The caller's status snapshot may be stale by now (e.g. an admin
	// confirmed in between); lock the row and record the status it
	// actually held so the history entry stays accurate.
	var current Status
	if err := tx.QueryRow(ctx,
		"SELECT status FROM public.bookings WHERE id = $1 FOR UPDATE", b.ID,
	).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lock booking for payment failed: %w", err)
	}
	entry.OldStatus = current

	query, args, err := psql.Update("public.bookings").
		Set("status", StatusConfirmed).
		Set("payment_status", PaymentPaid).
		Set("payment_id", b.PaymentID).
		Set("payment_method", b.PaymentMethod).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		Where(squirrel.Eq{"payment_status": PaymentUnpaid}).
		Where(squirrel.Eq{"status": []string{string(StatusPending), string(StatusConfirmed)}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build confirm payment query failed: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("confirm payment failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrStatusConflict
	}

	entry.BookingID = b.ID
	if err := r.insertHistory(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit confirm payment tx failed: %w", err)
	}

	b.Status = StatusConfirmed
	b.PaymentStatus = PaymentPaid
	return nil
}

func (r *pgxRepository) ListUnpaidByEmail(ctx context.Context, email string) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns).
		From("public.bookings").
		Where(squirrel.Expr("lower(email) = lower(?)", email)).
		Where(squirrel.Eq{"payment_status": PaymentUnpaid}).
		Where(squirrel.Eq{"status": []string{string(StatusPending), string(StatusConfirmed)}}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list unpaid query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list unpaid bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unpaid booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

func (r *pgxRepository) ListHistory(ctx context.Context, bookingID int64) ([]*HistoryEntry, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "booking_id", "old_status", "new_status", "changed_by", "notes", "created_at").
		From("public.booking_history").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list history query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list booking history failed: %w", err)
	}
	defer rows.Close()

	var entries []*HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.BookingID, &e.OldStatus, &e.NewStatus, &e.ChangedBy, &e.Notes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history entry failed: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, nil
}

func (r *pgxRepository) ListStalePending(ctx context.Context, cutoff time.Time) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns).
		From("public.bookings").
		Where(squirrel.Eq{"status": StatusPending}).
		Where(squirrel.Eq{"payment_status": PaymentUnpaid}).
		Where(squirrel.Lt{"created_at": cutoff}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list stale pending query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stale pending bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stale pending booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}
