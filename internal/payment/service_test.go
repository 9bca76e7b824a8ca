package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuneuplab/tuneup-booking-backend/internal/booking"
	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/logger"
)

// fakeBookingService stubs the two booking operations payment matching
// depends on and records which booking (if any) was confirmed.
type fakeBookingService struct {
	booking.Service

	unpaid     []*booking.Booking
	listErr    error
	confirmed  []int64
	confirmErr error
}

func (f *fakeBookingService) ListUnpaidByEmail(ctx context.Context, email string) ([]*booking.Booking, error) {
	return f.unpaid, f.listErr
}

func (f *fakeBookingService) ConfirmPayment(ctx context.Context, id int64, paymentID, method string) (*booking.Booking, error) {
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	f.confirmed = append(f.confirmed, id)
	for _, b := range f.unpaid {
		if b.ID == id {
			clone := *b
			clone.Status = booking.StatusConfirmed
			clone.PaymentStatus = booking.PaymentPaid
			clone.PaymentID = paymentID
			clone.PaymentMethod = method
			return &clone, nil
		}
	}
	return nil, booking.ErrNotFound
}

func unpaidBooking(id int64, amount string) *booking.Booking {
	return &booking.Booking{
		ID:            id,
		Email:         "priya@example.com",
		Amount:        amount,
		Status:        booking.StatusPending,
		PaymentStatus: booking.PaymentUnpaid,
		CreatedAt:     time.Now().Add(-time.Duration(id) * time.Hour),
	}
}

func TestProcessMatchesNewestUnpaid(t *testing.T) {
	// Candidates arrive newest first; both match the amount.
	fake := &fakeBookingService{unpaid: []*booking.Booking{
		unpaidBooking(2, "1499.00"),
		unpaidBooking(1, "1499.00"),
	}}
	svc := NewService(fake, logger.NewNop(), nil)

	got, err := svc.Process(context.Background(), Event{
		TransactionID: "txn_1",
		PayerEmail:    "priya@example.com",
		Amount:        "1,499.00",
		Method:        "card",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ID)
	assert.Equal(t, []int64{2}, fake.confirmed, "only the newest match is confirmed")
}

func TestProcessSkipsAmountMismatch(t *testing.T) {
	fake := &fakeBookingService{unpaid: []*booking.Booking{
		unpaidBooking(3, "2999.00"),
		unpaidBooking(2, "1499.00"),
	}}
	svc := NewService(fake, logger.NewNop(), nil)

	got, err := svc.Process(context.Background(), Event{
		TransactionID: "txn_2",
		PayerEmail:    "priya@example.com",
		Amount:        "1499",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ID)
}

func TestProcessNoMatchMutatesNothing(t *testing.T) {
	fake := &fakeBookingService{unpaid: []*booking.Booking{
		unpaidBooking(1, "1499.00"),
	}}
	svc := NewService(fake, logger.NewNop(), nil)

	_, err := svc.Process(context.Background(), Event{
		TransactionID: "txn_3",
		PayerEmail:    "priya@example.com",
		Amount:        "999.00",
	})
	assert.ErrorIs(t, err, ErrNoMatchingBooking)
	assert.Empty(t, fake.confirmed, "never guess between non-matching bookings")
}

func TestProcessMalformedEvent(t *testing.T) {
	svc := NewService(&fakeBookingService{}, logger.NewNop(), nil)

	_, err := svc.Process(context.Background(), Event{PayerEmail: "", TransactionID: "txn"})
	assert.ErrorIs(t, err, ErrMalformedEvent)

	_, err = svc.Process(context.Background(), Event{PayerEmail: "a@b.c", TransactionID: " "})
	assert.ErrorIs(t, err, ErrMalformedEvent)
}

func TestNormalizeAmount(t *testing.T) {
	cases := map[string]string{
		"1499":      "1499",
		"1499.00":   "1499",
		"1,499.00":  "1499",
		"$1499":     "1499",
		"₹1,499.50": "1499.5",
		"0.50":      "0.5",
		".50":       "0.5",
		"0":         "0",
		"":          "0",
		"00123":     "123",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeAmount(in), "input %q", in)
	}
}

func TestSignatureRoundTrip(t *testing.T) {
	body := []byte(`{"transaction_id":"txn_1","payer_email":"a@b.c","amount":"1499"}`)

	sig := Sign(body, "secret")
	assert.True(t, VerifySignature(body, sig, "secret"))
	assert.False(t, VerifySignature(body, sig, "other-secret"))
	assert.False(t, VerifySignature([]byte("tampered"), sig, "secret"))
	assert.False(t, VerifySignature(body, "", "secret"))
	assert.False(t, VerifySignature(body, sig, ""))
}
