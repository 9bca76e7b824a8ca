package http

import (
	"github.com/tuneuplab/tuneup-booking-backend/internal/schedule"
)

// SlotResponse is one available slot in calendar order.
type SlotResponse struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	IsAvailable bool   `json:"is_available"`
}

func NewSlotResponse(s schedule.Slot) SlotResponse {
	return SlotResponse{
		Date:        s.Date.Format("2006-01-02"),
		Time:        s.Time.String(),
		IsAvailable: true,
	}
}
