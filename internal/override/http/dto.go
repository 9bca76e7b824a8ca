package http

import (
	"time"

	"github.com/tuneuplab/tuneup-booking-backend/internal/override"
)

// ApplyBody is the admin override management payload.
type ApplyBody struct {
	Action string   `json:"action" binding:"required,oneof=add remove bulk_add"`
	Dates  []string `json:"dates" binding:"required,min=1,dive,datetime=2006-01-02"`
	Times  []string `json:"times" binding:"required,min=1"`
}

// OverrideResponse is one override row.
type OverrideResponse struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewOverrideResponse(o *override.Override) OverrideResponse {
	return OverrideResponse{
		ID:          o.ID,
		Date:        o.SlotDate.Format("2006-01-02"),
		Time:        o.SlotTime.String(),
		IsAvailable: o.IsAvailable,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
