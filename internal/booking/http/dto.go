package http

import (
	"time"

	"github.com/tuneuplab/tuneup-booking-backend/internal/booking"
)

// CreateBookingBody is the public booking submission payload.
type CreateBookingBody struct {
	CustomerName  string   `json:"customer_name" binding:"required"`
	ContactID     string   `json:"contact_id" binding:"required"`
	Email         string   `json:"email" binding:"omitempty,email"`
	PackageID     string   `json:"package_id" binding:"required"`
	PackageName   string   `json:"package_name" binding:"required"`
	Amount        string   `json:"amount" binding:"required"`
	Date          string   `json:"date" binding:"required,datetime=2006-01-02"`
	Time          string   `json:"time" binding:"required"`
	AddOns        []string `json:"add_ons"`
	CustomerNotes string   `json:"notes"`
}

// CreateBookingResponse confirms a reservation to the customer.
type CreateBookingResponse struct {
	BookingID    int64  `json:"booking_id"`
	BookingToken string `json:"booking_token"`
	Success      bool   `json:"success"`
}

// UpdateStatusBody is the admin status-change payload.
type UpdateStatusBody struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed completed cancelled"`
	Notes  string `json:"notes"`
}

// ListBookingsRequest defines query parameters for the admin list.
type ListBookingsRequest struct {
	Status    string `form:"status" binding:"omitempty,oneof=pending confirmed completed cancelled"`
	From      string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=slot_date created_at status"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// BookingResponse is the full admin view of a booking.
type BookingResponse struct {
	ID            int64     `json:"id"`
	CustomerName  string    `json:"customer_name"`
	ContactID     string    `json:"contact_id"`
	Email         string    `json:"email,omitempty"`
	PackageID     string    `json:"package_id"`
	PackageName   string    `json:"package_name"`
	Amount        string    `json:"amount"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	AddOns        []string  `json:"add_ons,omitempty"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	PaymentID     string    `json:"payment_id,omitempty"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	CustomerNotes string    `json:"customer_notes,omitempty"`
	AdminNotes    string    `json:"admin_notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		CustomerName:  b.CustomerName,
		ContactID:     b.ContactID,
		Email:         b.Email,
		PackageID:     b.PackageID,
		PackageName:   b.PackageName,
		Amount:        b.Amount,
		Date:          b.SlotDate.Format("2006-01-02"),
		Time:          b.SlotTime.String(),
		AddOns:        b.AddOns,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		PaymentID:     b.PaymentID,
		PaymentMethod: b.PaymentMethod,
		CustomerNotes: b.CustomerNotes,
		AdminNotes:    b.AdminNotes,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// TrackResponse is the limited customer self-service view looked up by
// booking token. It intentionally omits contact details and admin notes.
type TrackResponse struct {
	BookingID     int64  `json:"booking_id"`
	PackageName   string `json:"package_name"`
	Amount        string `json:"amount"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

func NewTrackResponse(b *booking.Booking) TrackResponse {
	return TrackResponse{
		BookingID:     b.ID,
		PackageName:   b.PackageName,
		Amount:        b.Amount,
		Date:          b.SlotDate.Format("2006-01-02"),
		Time:          b.SlotTime.String(),
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
	}
}

// HistoryResponse is one audit-trail entry.
type HistoryResponse struct {
	ID        int64     `json:"id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	ChangedBy string    `json:"changed_by"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewHistoryResponse(e *booking.HistoryEntry) HistoryResponse {
	return HistoryResponse{
		ID:        e.ID,
		OldStatus: string(e.OldStatus),
		NewStatus: string(e.NewStatus),
		ChangedBy: e.ChangedBy,
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt,
	}
}
