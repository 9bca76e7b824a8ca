package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tuneuplab/tuneup-booking-backend/internal/override"
	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/request"
	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/response"
	"github.com/tuneuplab/tuneup-booking-backend/internal/schedule"
)

type Handler struct {
	service override.Service
}

func NewHandler(service override.Service) *Handler {
	return &Handler{service: service}
}

// Apply handles admin add/remove/bulk_add override actions.
func (h *Handler) Apply(c *gin.Context) {
	var body ApplyBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	dates := make([]time.Time, 0, len(body.Dates))
	for _, ds := range body.Dates {
		d, err := schedule.ParseDate(ds)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date", "details": ds})
			return
		}
		dates = append(dates, d)
	}

	times := make([]schedule.TimeOfDay, 0, len(body.Times))
	for _, ts := range body.Times {
		t, err := schedule.ParseTimeOfDay(ts)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time", "details": ts})
			return
		}
		times = append(times, t)
	}

	applied, err := h.service.Apply(c.Request.Context(), override.ApplyRequest{
		Action: override.Action(body.Action),
		Dates:  dates,
		Times:  times,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]OverrideResponse, len(applied))
	for i, o := range applied {
		items[i] = NewOverrideResponse(o)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// List handles the admin override calendar view.
func (h *Handler) List(c *gin.Context) {
	var req request.DateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	from, _ := schedule.ParseDate(req.From)
	to, _ := schedule.ParseDate(req.To)

	overrides, err := h.service.List(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]OverrideResponse, len(overrides))
	for i, o := range overrides {
		items[i] = NewOverrideResponse(o)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
