package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tuneuplab/tuneup-booking-backend/internal/payment"
	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/logger"
)

// SignatureHeader carries the provider's hex HMAC-SHA256 of the body.
const SignatureHeader = "X-Webhook-Signature"

type Handler struct {
	service payment.Service
	secret  string
	log     logger.Logger
}

func NewHandler(service payment.Service, secret string, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		secret:  secret,
		log:     log,
	}
}

// Webhook receives payment-processor notifications. The signature is
// verified against the raw body before anything is parsed. A no-match
// outcome is acknowledged with 200 so the processor stops retrying, but
// no booking is mutated.
func (h *Handler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	if !payment.VerifySignature(body, c.GetHeader(SignatureHeader), h.secret) {
		h.log.Warn("payment webhook rejected: bad signature")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	var evt payment.Event
	if err := json.Unmarshal(body, &evt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event"})
		return
	}

	b, err := h.service.Process(c.Request.Context(), evt)
	if err != nil {
		switch err {
		case payment.ErrNoMatchingBooking:
			c.JSON(http.StatusOK, gin.H{"matched": false})
		case payment.ErrMalformedEvent:
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process payment event"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"matched": true, "booking_id": b.ID})
}
