package payment

import (
	"context"
	"strings"

	"github.com/tuneuplab/tuneup-booking-backend/internal/booking"
	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/logger"
	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/metrics"
)

type Service interface {
	// Process matches the event against unpaid bookings and confirms the
	// match. Only the most recently created candidate with equal payer
	// email and amount is touched; ErrNoMatchingBooking means nothing was
	// mutated. The handler does not allocate slots, it only advances
	// booking state.
	Process(ctx context.Context, evt Event) (*booking.Booking, error)
}

type service struct {
	bookings booking.Service
	log      logger.Logger
	metrics  *metrics.Metrics
}

func NewService(bookings booking.Service, log logger.Logger, m *metrics.Metrics) Service {
	return &service{
		bookings: bookings,
		log:      log,
		metrics:  m,
	}
}

func (s *service) Process(ctx context.Context, evt Event) (*booking.Booking, error) {
	email := strings.TrimSpace(evt.PayerEmail)
	if email == "" || strings.TrimSpace(evt.TransactionID) == "" {
		s.metrics.IncWebhookEvents("malformed")
		return nil, ErrMalformedEvent
	}

	candidates, err := s.bookings.ListUnpaidByEmail(ctx, email)
	if err != nil {
		s.metrics.IncWebhookEvents("error")
		return nil, err
	}

	wantAmount := NormalizeAmount(evt.Amount)

	// Candidates arrive newest first; the first amount match wins. Never
	// guess between non-matching bookings.
	for _, b := range candidates {
		if NormalizeAmount(b.Amount) != wantAmount {
			continue
		}

		confirmed, err := s.bookings.ConfirmPayment(ctx, b.ID, evt.TransactionID, evt.Method)
		if err != nil {
			s.metrics.IncWebhookEvents("error")
			return nil, err
		}

		s.metrics.IncWebhookEvents("matched")
		s.log.Info("payment matched",
			"booking_id", confirmed.ID,
			"transaction_id", evt.TransactionID,
		)
		return confirmed, nil
	}

	s.metrics.IncWebhookEvents("no_match")
	s.log.Warn("payment event matched no booking",
		"payer_email", email,
		"amount", evt.Amount,
		"transaction_id", evt.TransactionID,
	)
	return nil, ErrNoMatchingBooking
}
