package booking

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/logger"
	"github.com/tuneuplab/tuneup-booking-backend/internal/schedule"
)

// memRepository mimics the postgres repository in memory, including the
// partial unique constraint on occupying slots and the compare-and-swap on
// status updates.
type memRepository struct {
	mu      sync.Mutex
	nextID  int64
	rows    map[int64]*Booking
	history []*HistoryEntry
}

func newMemRepository() *memRepository {
	return &memRepository{nextID: 1, rows: make(map[int64]*Booking)}
}

func (m *memRepository) Create(ctx context.Context, b *Booking, entry *HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := b.Slot().Key()
	for _, existing := range m.rows {
		if existing.Status.Occupying() && existing.Slot().Key() == key {
			return ErrSlotUnavailable
		}
	}

	clone := *b
	clone.ID = m.nextID
	clone.CreatedAt = time.Now()
	clone.UpdatedAt = clone.CreatedAt
	m.nextID++
	m.rows[clone.ID] = &clone

	*b = clone

	e := *entry
	e.BookingID = clone.ID
	e.CreatedAt = clone.CreatedAt
	m.history = append(m.history, &e)
	return nil
}

func (m *memRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (m *memRepository) GetByToken(ctx context.Context, token string) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.rows {
		if b.BookingToken == token {
			clone := *b
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Booking
	for _, b := range m.rows {
		if filter.Status != "" && string(b.Status) != filter.Status {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (m *memRepository) OccupiedSlots(ctx context.Context, from, to time.Time) ([]schedule.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var slots []schedule.Slot
	for _, b := range m.rows {
		if b.Status.Occupying() && !b.SlotDate.Before(from) && !b.SlotDate.After(to) {
			slots = append(slots, b.Slot())
		}
	}
	return slots, nil
}

func (m *memRepository) UpdateStatus(ctx context.Context, b *Booking, entry *HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[b.ID]
	if !ok {
		return ErrNotFound
	}
	if row.Status != entry.OldStatus {
		return ErrStatusConflict
	}
	row.Status = entry.NewStatus
	row.UpdatedAt = time.Now()
	if b.AdminNotes != "" {
		row.AdminNotes = b.AdminNotes
	}
	b.Status = entry.NewStatus

	e := *entry
	e.BookingID = b.ID
	e.CreatedAt = row.UpdatedAt
	m.history = append(m.history, &e)
	return nil
}

func (m *memRepository) ConfirmPayment(ctx context.Context, b *Booking, entry *HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[b.ID]
	if !ok {
		return ErrNotFound
	}
	if row.PaymentStatus != PaymentUnpaid || !row.Status.Occupying() {
		return ErrStatusConflict
	}
	// Like the pgx repository, record the status the row held at commit
	// time, not the caller's snapshot.
	entry.OldStatus = row.Status
	row.Status = StatusConfirmed
	row.PaymentStatus = PaymentPaid
	row.PaymentID = b.PaymentID
	row.PaymentMethod = b.PaymentMethod
	row.UpdatedAt = time.Now()
	b.Status = StatusConfirmed
	b.PaymentStatus = PaymentPaid

	e := *entry
	e.BookingID = b.ID
	e.CreatedAt = row.UpdatedAt
	m.history = append(m.history, &e)
	return nil
}

func (m *memRepository) ListUnpaidByEmail(ctx context.Context, email string) ([]*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Booking
	for _, b := range m.rows {
		if strings.EqualFold(b.Email, email) && b.PaymentStatus == PaymentUnpaid && b.Status.Occupying() {
			clone := *b
			out = append(out, &clone)
		}
	}
	// Newest first, matching the repository ordering.
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memRepository) ListHistory(ctx context.Context, bookingID int64) ([]*HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*HistoryEntry
	for _, e := range m.history {
		if e.BookingID == bookingID {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *memRepository) ListStalePending(ctx context.Context, cutoff time.Time) ([]*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Booking
	for _, b := range m.rows {
		if b.Status == StatusPending && b.PaymentStatus == PaymentUnpaid && b.CreatedAt.Before(cutoff) {
			clone := *b
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func newTestService(repo Repository) Service {
	return NewService(repo, nil, logger.NewNop(), nil)
}

func validRequest() CreateRequest {
	return CreateRequest{
		CustomerName: "Priya N",
		ContactID:    "@priyan",
		Email:        "priya@example.com",
		PackageID:    "full-tuneup",
		PackageName:  "Full Tune-Up",
		Amount:       "1499.00",
		SlotDate:     time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC), // Monday
		SlotTime:     schedule.TimeOfDay{Minutes: 14 * 60},
	}
}

func TestCreateBooking(t *testing.T) {
	repo := newMemRepository()
	svc := newTestService(repo)

	b, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotZero(t, b.ID)
	assert.NotEmpty(t, b.BookingToken)
	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, PaymentUnpaid, b.PaymentStatus)

	history, err := svc.ListHistory(context.Background(), b.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, Status(""), history[0].OldStatus)
	assert.Equal(t, StatusPending, history[0].NewStatus)
	assert.Equal(t, "customer", history[0].ChangedBy)
}

func TestCreateBookingAddOns(t *testing.T) {
	repo := newMemRepository()
	svc := newTestService(repo)

	// Omitted add_ons arrive as a nil slice; it must reach storage as an
	// empty array, never SQL NULL.
	req := validRequest()
	req.AddOns = nil
	b, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, b.AddOns)
	assert.Empty(t, b.AddOns)

	stored, err := repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.AddOns)

	req = validRequest()
	req.SlotTime = schedule.TimeOfDay{Minutes: 15 * 60}
	req.AddOns = []string{"driver-update", "thermal-repaste"}
	b, err = svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"driver-update", "thermal-repaste"}, b.AddOns)
}

func TestCreateBookingValidation(t *testing.T) {
	svc := newTestService(newMemRepository())

	cases := []struct {
		name    string
		mutate  func(*CreateRequest)
		wantErr error
	}{
		{"missing name", func(r *CreateRequest) { r.CustomerName = "  " }, ErrNameRequired},
		{"missing contact", func(r *CreateRequest) { r.ContactID = "" }, ErrContactRequired},
		{"missing package", func(r *CreateRequest) { r.PackageID = "" }, ErrPackageRequired},
		{"missing amount", func(r *CreateRequest) { r.Amount = "" }, ErrAmountRequired},
		{"zero date", func(r *CreateRequest) { r.SlotDate = time.Time{} }, ErrInvalidSlot},
		{"negative minutes", func(r *CreateRequest) { r.SlotTime.Minutes = -1 }, ErrInvalidSlot},
		{"minutes past midnight", func(r *CreateRequest) { r.SlotTime.Minutes = 24 * 60 }, ErrInvalidSlot},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			_, err := svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCreateBookingSlotConflict(t *testing.T) {
	repo := newMemRepository()
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	// Same slot, different customer.
	req := validRequest()
	req.CustomerName = "Marco B"
	req.ContactID = "@marcob"
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// A different time on the same day is fine.
	req.SlotTime = schedule.TimeOfDay{Minutes: 15 * 60}
	_, err = svc.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestCreateBookingConcurrentSameSlot(t *testing.T) {
	repo := newMemRepository()
	svc := newTestService(repo)

	const attempts = 16
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), validRequest())
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, ErrSlotUnavailable)
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent reservation must win")

	_, total, err := repo.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestCancelledSlotCanBeRebooked(t *testing.T) {
	repo := newMemRepository()
	svc := newTestService(repo)

	b, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), b.ID, StatusCancelled, "admin", "customer no-show")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validRequest())
	assert.NoError(t, err, "cancelling must release the slot")
}

func TestUpdateStatusTransitions(t *testing.T) {
	repo := newMemRepository()
	svc := newTestService(repo)

	b, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	// pending -> completed is not allowed.
	_, err = svc.UpdateStatus(context.Background(), b.ID, StatusCompleted, "admin", "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// A rejected transition must leave no history behind.
	history, err := svc.ListHistory(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	// pending -> confirmed -> completed walks the machine.
	_, err = svc.UpdateStatus(context.Background(), b.ID, StatusConfirmed, "admin", "")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), b.ID, StatusCompleted, "admin", "session done")
	require.NoError(t, err)

	// Terminal states are immutable.
	_, err = svc.UpdateStatus(context.Background(), b.ID, StatusCancelled, "admin", "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	history, err = svc.ListHistory(context.Background(), b.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, StatusConfirmed, history[1].NewStatus)
	assert.Equal(t, StatusCompleted, history[2].NewStatus)
}

func TestUpdateStatusUnknownValue(t *testing.T) {
	svc := newTestService(newMemRepository())
	_, err := svc.UpdateStatus(context.Background(), 1, Status("archived"), "admin", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestConfirmPayment(t *testing.T) {
	repo := newMemRepository()
	svc := newTestService(repo)

	b, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	confirmed, err := svc.ConfirmPayment(context.Background(), b.ID, "txn_123", "card")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)
	assert.Equal(t, PaymentPaid, confirmed.PaymentStatus)
	assert.Equal(t, "txn_123", confirmed.PaymentID)

	// Re-delivery of the same webhook must not double-apply.
	_, err = svc.ConfirmPayment(context.Background(), b.ID, "txn_123", "card")
	assert.ErrorIs(t, err, ErrStatusConflict)

	history, err := svc.ListHistory(context.Background(), b.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "payment-webhook", history[1].ChangedBy)
}

func TestConfirmPaymentRecordsCurrentStatus(t *testing.T) {
	repo := newMemRepository()
	svc := newTestService(repo)

	b, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	// An admin confirms between the webhook's read and its write; the
	// history entry must record confirmed as the old status, not the
	// stale pending snapshot.
	_, err = svc.UpdateStatus(context.Background(), b.ID, StatusConfirmed, "admin", "")
	require.NoError(t, err)

	stale := *b // still pending from before the admin action
	entry := &HistoryEntry{
		OldStatus: stale.Status,
		NewStatus: StatusConfirmed,
		ChangedBy: "payment-webhook",
	}
	stale.PaymentID = "txn_race"
	require.NoError(t, repo.ConfirmPayment(context.Background(), &stale, entry))
	assert.Equal(t, StatusConfirmed, entry.OldStatus)

	history, err := svc.ListHistory(context.Background(), b.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, StatusConfirmed, history[2].OldStatus)
}

func TestConfirmPaymentOnCancelledBooking(t *testing.T) {
	repo := newMemRepository()
	svc := newTestService(repo)

	b, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), b.ID, StatusCancelled, "admin", "")
	require.NoError(t, err)

	_, err = svc.ConfirmPayment(context.Background(), b.ID, "txn_late", "card")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestExpireStalePending(t *testing.T) {
	repo := newMemRepository()
	svc := newTestService(repo)

	stale, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	fresh := validRequest()
	fresh.SlotTime = schedule.TimeOfDay{Minutes: 16 * 60}
	freshBooking, err := svc.Create(context.Background(), fresh)
	require.NoError(t, err)

	paid := validRequest()
	paid.SlotTime = schedule.TimeOfDay{Minutes: 17 * 60}
	paidBooking, err := svc.Create(context.Background(), paid)
	require.NoError(t, err)
	_, err = svc.ConfirmPayment(context.Background(), paidBooking.ID, "txn_paid", "card")
	require.NoError(t, err)

	// Backdate only the first booking past the cutoff.
	repo.mu.Lock()
	repo.rows[stale.ID].CreatedAt = time.Now().Add(-48 * time.Hour)
	repo.mu.Unlock()

	released, err := svc.ExpireStalePending(context.Background(), time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, released)

	got, err := svc.GetByID(context.Background(), stale.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)

	history, err := svc.ListHistory(context.Background(), stale.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "system", history[1].ChangedBy)

	got, err = svc.GetByID(context.Background(), freshBooking.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status, "fresh pending bookings stay put")

	got, err = svc.GetByID(context.Background(), paidBooking.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status, "paid bookings are never expired")
}
