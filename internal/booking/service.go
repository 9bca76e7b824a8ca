package booking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tuneuplab/tuneup-booking-backend/internal/notify"
	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/logger"
	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/metrics"
	"github.com/tuneuplab/tuneup-booking-backend/internal/schedule"
)

// CreateRequest carries the public booking submission.
type CreateRequest struct {
	CustomerName  string
	ContactID     string
	Email         string
	PackageID     string
	PackageName   string
	Amount        string
	SlotDate      time.Time
	SlotTime      schedule.TimeOfDay
	AddOns        []string
	CustomerNotes string
}

type Service interface {
	// Create is the reservation writer: it validates the draft and inserts
	// the booking plus its creation history entry atomically. Two
	// concurrent calls for the same slot produce exactly one success; the
	// other receives ErrSlotUnavailable from the storage layer.
	Create(ctx context.Context, req CreateRequest) (*Booking, error)

	GetByID(ctx context.Context, id int64) (*Booking, error)
	GetByToken(ctx context.Context, token string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	ListHistory(ctx context.Context, bookingID int64) ([]*HistoryEntry, error)

	// UpdateStatus applies an admin status change, enforcing the state
	// machine. The history entry rides in the same transaction.
	UpdateStatus(ctx context.Context, id int64, newStatus Status, changedBy, notes string) (*Booking, error)

	// ConfirmPayment marks the booking paid and confirmed on behalf of the
	// payment webhook.
	ConfirmPayment(ctx context.Context, id int64, paymentID, method string) (*Booking, error)

	// ListUnpaidByEmail exposes unpaid candidates for payment matching,
	// newest first.
	ListUnpaidByEmail(ctx context.Context, email string) ([]*Booking, error)

	// ExpireStalePending cancels unpaid pending bookings created before
	// the cutoff and returns how many were released.
	ExpireStalePending(ctx context.Context, cutoff time.Time) (int, error)
}

type service struct {
	repo      Repository
	publisher notify.Publisher // nil disables event publishing
	log       logger.Logger
	metrics   *metrics.Metrics
}

func NewService(repo Repository, publisher notify.Publisher, log logger.Logger, m *metrics.Metrics) Service {
	return &service{
		repo:      repo,
		publisher: publisher,
		log:       log,
		metrics:   m,
	}
}

func validateCreate(req CreateRequest) error {
	if strings.TrimSpace(req.CustomerName) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(req.ContactID) == "" {
		return ErrContactRequired
	}
	if strings.TrimSpace(req.PackageID) == "" {
		return ErrPackageRequired
	}
	if strings.TrimSpace(req.Amount) == "" {
		return ErrAmountRequired
	}
	if req.SlotDate.IsZero() || req.SlotTime.Minutes < 0 || req.SlotTime.Minutes >= 24*60 {
		return ErrInvalidSlot
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	// Validation never touches storage.
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	// A nil slice would insert SQL NULL into the NOT NULL add_ons column.
	addOns := req.AddOns
	if addOns == nil {
		addOns = []string{}
	}

	b := &Booking{
		CustomerName:  strings.TrimSpace(req.CustomerName),
		ContactID:     strings.TrimSpace(req.ContactID),
		Email:         strings.TrimSpace(req.Email),
		PackageID:     req.PackageID,
		PackageName:   req.PackageName,
		Amount:        strings.TrimSpace(req.Amount),
		SlotDate:      req.SlotDate,
		SlotTime:      req.SlotTime,
		AddOns:        addOns,
		Status:        StatusPending,
		PaymentStatus: PaymentUnpaid,
		CustomerNotes: req.CustomerNotes,
		BookingToken:  uuid.NewString(),
	}

	entry := &HistoryEntry{
		OldStatus: "",
		NewStatus: StatusPending,
		ChangedBy: "customer",
		Notes:     "Booking created",
	}

	if err := s.repo.Create(ctx, b, entry); err != nil {
		if err == ErrSlotUnavailable {
			s.metrics.IncSlotConflicts()
		}
		return nil, err
	}

	s.metrics.IncBookingsCreated()
	s.publishEvent(ctx, notify.KeyBookingCreated, b)

	return b, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByToken(ctx context.Context, token string) (*Booking, error) {
	return s.repo.GetByToken(ctx, token)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) ListHistory(ctx context.Context, bookingID int64) ([]*HistoryEntry, error) {
	if _, err := s.repo.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.repo.ListHistory(ctx, bookingID)
}

func (s *service) UpdateStatus(ctx context.Context, id int64, newStatus Status, changedBy, notes string) (*Booking, error) {
	if !newStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanTransition(b.Status, newStatus) {
		return nil, ErrInvalidTransition
	}

	entry := &HistoryEntry{
		OldStatus: b.Status,
		NewStatus: newStatus,
		ChangedBy: changedBy,
		Notes:     notes,
	}

	if err := s.repo.UpdateStatus(ctx, b, entry); err != nil {
		return nil, err
	}

	s.metrics.IncStatusChanges(string(newStatus))

	switch newStatus {
	case StatusConfirmed:
		s.publishEvent(ctx, notify.KeyBookingConfirmed, b)
	case StatusCancelled:
		s.publishEvent(ctx, notify.KeyBookingCancelled, b)
	}

	return b, nil
}

func (s *service) ConfirmPayment(ctx context.Context, id int64, paymentID, method string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if b.Status.Terminal() {
		return nil, ErrInvalidTransition
	}

	b.PaymentID = paymentID
	b.PaymentMethod = method

	entry := &HistoryEntry{
		OldStatus: b.Status,
		NewStatus: StatusConfirmed,
		ChangedBy: "payment-webhook",
		Notes:     "Payment received (" + paymentID + ")",
	}

	if err := s.repo.ConfirmPayment(ctx, b, entry); err != nil {
		return nil, err
	}

	s.metrics.IncStatusChanges(string(StatusConfirmed))
	s.publishEvent(ctx, notify.KeyBookingConfirmed, b)

	return b, nil
}

func (s *service) ListUnpaidByEmail(ctx context.Context, email string) ([]*Booking, error) {
	return s.repo.ListUnpaidByEmail(ctx, email)
}

func (s *service) ExpireStalePending(ctx context.Context, cutoff time.Time) (int, error) {
	stale, err := s.repo.ListStalePending(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, b := range stale {
		entry := &HistoryEntry{
			OldStatus: b.Status,
			NewStatus: StatusCancelled,
			ChangedBy: "system",
			Notes:     "Auto-cancelled: payment not received in time",
		}
		if err := s.repo.UpdateStatus(ctx, b, entry); err != nil {
			// Concurrent admin action or payment beat the sweep; skip.
			if err == ErrStatusConflict {
				continue
			}
			return released, err
		}
		released++
		s.metrics.IncExpiredBookings()
	}
	return released, nil
}

// publishEvent pushes a notification event. Publishing is best-effort:
// failures are logged and never affect the booking outcome.
func (s *service) publishEvent(ctx context.Context, key string, b *Booking) {
	if s.publisher == nil {
		return
	}

	evt := notify.BookingEvent{
		Event:        key,
		OccurredAt:   time.Now().UTC(),
		BookingID:    b.ID,
		CustomerName: b.CustomerName,
		Email:        b.Email,
		PackageName:  b.PackageName,
		Amount:       b.Amount,
		SlotDate:     b.SlotDate.Format("2006-01-02"),
		SlotTime:     b.SlotTime.String(),
	}

	if err := s.publisher.Publish(ctx, key, evt); err != nil {
		s.log.Error("publish booking event failed", "event", key, "booking_id", b.ID, "error", err)
		return
	}
	s.metrics.IncNotifyPublished()
}
