package booking

import (
	"net/http"
	"time"

	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/apperror"
	"github.com/tuneuplab/tuneup-booking-backend/internal/schedule"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "booking not found")
	ErrSlotUnavailable   = apperror.New(http.StatusConflict, "time slot is no longer available")
	ErrInvalidTransition = apperror.New(http.StatusConflict, "invalid booking status transition")
	ErrStatusConflict    = apperror.New(http.StatusConflict, "booking was modified concurrently")
	ErrInvalidStatus     = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrNameRequired      = apperror.New(http.StatusBadRequest, "customer name is required")
	ErrContactRequired   = apperror.New(http.StatusBadRequest, "contact id is required")
	ErrPackageRequired   = apperror.New(http.StatusBadRequest, "package id is required")
	ErrAmountRequired    = apperror.New(http.StatusBadRequest, "amount is required")
	ErrInvalidSlot       = apperror.New(http.StatusBadRequest, "invalid slot date or time")
)

// Status is the booking lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Occupying reports whether a booking in this status blocks its slot.
func (s Status) Occupying() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CanTransition reports whether the state machine allows from -> to.
//
//	pending   -> confirmed | cancelled
//	confirmed -> completed | cancelled
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCompleted || to == StatusCancelled
	}
	return false
}

// PaymentStatus is the payment axis, independent of the lifecycle status.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Booking is a reservation of exactly one slot. Bookings are never hard
// deleted; cancelled rows remain for audit.
type Booking struct {
	ID            int64
	CustomerName  string
	ContactID     string
	Email         string
	PackageID     string
	PackageName   string
	Amount        string // display string, e.g. "1499.00"
	SlotDate      time.Time
	SlotTime      schedule.TimeOfDay
	AddOns        []string
	Status        Status
	PaymentStatus PaymentStatus
	PaymentID     string
	PaymentMethod string
	CustomerNotes string
	AdminNotes    string
	BookingToken  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Slot returns the structured slot key this booking occupies.
func (b *Booking) Slot() schedule.Slot {
	return schedule.Slot{Date: b.SlotDate, Time: b.SlotTime}
}

// HistoryEntry is one append-only audit record for a booking. Entries are
// written in the same transaction as the change they describe and are
// immutable once written.
type HistoryEntry struct {
	ID        int64
	BookingID int64
	OldStatus Status // empty on creation
	NewStatus Status
	ChangedBy string
	Notes     string
	CreatedAt time.Time
}

// Filter defines parameters for the admin booking list.
type Filter struct {
	Status    string
	FromDate  *time.Time // slot date lower bound (inclusive)
	ToDate    *time.Time // slot date upper bound (inclusive)
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
