package payment

import (
	"net/http"
	"strings"

	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/apperror"
)

var (
	ErrInvalidSignature  = apperror.New(http.StatusUnauthorized, "invalid webhook signature")
	ErrMalformedEvent    = apperror.New(http.StatusBadRequest, "malformed payment event")
	ErrNoMatchingBooking = apperror.New(http.StatusOK, "no matching unpaid booking")
)

// Event is the payment-processor notification after signature verification.
type Event struct {
	TransactionID string `json:"transaction_id"`
	PayerEmail    string `json:"payer_email"`
	Amount        string `json:"amount"`
	Method        string `json:"method"`
}

// NormalizeAmount canonicalizes display amounts so "1,499.00", "$1499"
// and "1499" compare equal. Only digits and the decimal point survive;
// a trailing fractional part of zeros is dropped.
func NormalizeAmount(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if strings.Contains(out, ".") {
		out = strings.TrimRight(out, "0")
		out = strings.TrimSuffix(out, ".")
	}
	out = strings.TrimLeft(out, "0")
	if out == "" {
		return "0"
	}
	if strings.HasPrefix(out, ".") {
		out = "0" + out
	}
	return out
}
