package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tuneuplab/tuneup-booking-backend/internal/auth"
	"github.com/tuneuplab/tuneup-booking-backend/internal/booking"
	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/request"
	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/response"
	"github.com/tuneuplab/tuneup-booking-backend/internal/schedule"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

// Create handles the public booking submission.
func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	date, err := schedule.ParseDate(body.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}
	tod, err := schedule.ParseTimeOfDay(body.Time)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time"})
		return
	}

	req := booking.CreateRequest{
		CustomerName:  body.CustomerName,
		ContactID:     body.ContactID,
		Email:         body.Email,
		PackageID:     body.PackageID,
		PackageName:   body.PackageName,
		Amount:        body.Amount,
		SlotDate:      date,
		SlotTime:      tod,
		AddOns:        body.AddOns,
		CustomerNotes: body.CustomerNotes,
	}

	b, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateBookingResponse{
		BookingID:    b.ID,
		BookingToken: b.BookingToken,
		Success:      true,
	})
}

// Track handles the unauthenticated customer lookup by booking token.
func (h *Handler) Track(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing booking token"})
		return
	}

	b, err := h.service.GetByToken(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewTrackResponse(b))
}

// List handles the admin booking list.
func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := booking.Filter{
		Status:    req.Status,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	if req.From != "" {
		d, _ := schedule.ParseDate(req.From)
		filter.FromDate = &d
	}
	if req.To != "" {
		d, _ := schedule.ParseDate(req.To)
		filter.ToDate = &d
	}

	bookings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}

// Get handles the admin single-booking view.
func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// History handles the admin audit-trail view.
func (h *Handler) History(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	entries, err := h.service.ListHistory(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]HistoryResponse, len(entries))
	for i, e := range entries {
		items[i] = NewHistoryResponse(e)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// UpdateStatus handles admin status changes.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var body UpdateStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	changedBy := auth.GetAdminEmail(c)
	if changedBy == "" {
		changedBy = "admin"
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), req.ID, booking.Status(body.Status), changedBy, body.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}
