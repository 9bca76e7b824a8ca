package expiry

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/logger"
)

// BookingExpirer is the slice of the booking service the sweep needs.
type BookingExpirer interface {
	ExpireStalePending(ctx context.Context, cutoff time.Time) (int, error)
}

// Sweeper periodically cancels pending, unpaid bookings older than the
// configured TTL so abandoned checkouts do not soft-lock slots forever.
// Cancellations run through the normal status-update path, so every one
// leaves a history entry.
type Sweeper struct {
	bookings BookingExpirer
	ttl      time.Duration
	interval time.Duration
	log      logger.Logger
	cron     *cron.Cron
}

func NewSweeper(bookings BookingExpirer, ttl, interval time.Duration, log logger.Logger) *Sweeper {
	return &Sweeper{
		bookings: bookings,
		ttl:      ttl,
		interval: interval,
		log:      log,
		cron:     cron.New(),
	}
}

// Start schedules the sweep at the configured interval. A zero TTL
// disables it.
func (s *Sweeper) Start() error {
	if s.ttl <= 0 {
		s.log.Info("pending booking expiry disabled")
		return nil
	}
	if s.interval <= 0 {
		return fmt.Errorf("expiry: sweep interval %s must be positive", s.interval)
	}

	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("pending booking expiry started", "ttl", s.ttl.String(), "interval", s.interval.String())
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().UTC().Add(-s.ttl)
	released, err := s.bookings.ExpireStalePending(ctx, cutoff)
	if err != nil {
		s.log.Error("pending booking sweep failed", "error", err)
		return
	}
	if released > 0 {
		s.log.Info("released expired pending bookings", "count", released)
	}
}
