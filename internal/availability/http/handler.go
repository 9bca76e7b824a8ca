package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tuneuplab/tuneup-booking-backend/internal/availability"
	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/request"
	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/response"
	"github.com/tuneuplab/tuneup-booking-backend/internal/schedule"
)

type Handler struct {
	service availability.Service
}

func NewHandler(service availability.Service) *Handler {
	return &Handler{service: service}
}

// List answers "what is free between date A and date B" for the booking
// UI and admin calendar. Only available slots are returned.
func (h *Handler) List(c *gin.Context) {
	var req request.DateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	from, _ := schedule.ParseDate(req.From)
	to, _ := schedule.ParseDate(req.To)

	slots, err := h.service.Resolve(c.Request.Context(), from, to)
	if err != nil {
		// Fail closed: a storage problem must never render as a fully
		// open calendar.
		response.Error(c, err)
		return
	}

	items := make([]SlotResponse, len(slots))
	for i, s := range slots {
		items[i] = NewSlotResponse(s)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
