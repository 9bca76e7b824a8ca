package notify

import "time"

// Routing keys on the notification exchange.
const (
	KeyBookingCreated   = "booking.created"
	KeyBookingConfirmed = "booking.confirmed"
	KeyBookingCancelled = "booking.cancelled"
)

// BookingEvent is the payload published for booking lifecycle events and
// consumed by the notifier worker. Email delivery is best-effort and fully
// decoupled from the booking transaction.
type BookingEvent struct {
	Event        string    `json:"event"`
	OccurredAt   time.Time `json:"occurred_at"`
	BookingID    int64     `json:"booking_id"`
	CustomerName string    `json:"customer_name"`
	Email        string    `json:"email,omitempty"`
	PackageName  string    `json:"package_name"`
	Amount       string    `json:"amount"`
	SlotDate     string    `json:"slot_date"` // 2006-01-02
	SlotTime     string    `json:"slot_time"` // 15:04
}
