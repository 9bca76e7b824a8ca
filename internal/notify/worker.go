package notify

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/logger"
)

// Worker consumes booking events and fans them out as customer and admin
// notifications. Failures are logged and the delivery is requeued once;
// nothing here ever feeds back into the booking write path.
type Worker struct {
	consumer   *Consumer
	notifier   Notifier
	adminEmail string
	log        logger.Logger
}

func NewWorker(consumer *Consumer, notifier Notifier, adminEmail string, log logger.Logger) *Worker {
	return &Worker{
		consumer:   consumer,
		notifier:   notifier,
		adminEmail: adminEmail,
		log:        log,
	}
}

// Run blocks consuming deliveries until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	deliveries, err := w.consumer.Deliveries(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			w.handle(d)
		}
	}
}

func (w *Worker) handle(d amqp.Delivery) {
	var evt BookingEvent
	if err := json.Unmarshal(d.Body, &evt); err != nil {
		w.log.Error("drop malformed notification event", "error", err)
		_ = d.Nack(false, false)
		return
	}

	if evt.Email != "" {
		if err := w.notifier.Notify(evt.Email, CustomerSubject(evt), CustomerBody(evt)); err != nil {
			w.log.Error("customer notification failed", "booking_id", evt.BookingID, "error", err)
			_ = d.Nack(false, !d.Redelivered)
			return
		}
	}

	if w.adminEmail != "" {
		if err := w.notifier.Notify(w.adminEmail, "Booking update", AdminBody(evt)); err != nil {
			// Admin alert failure is not worth redelivering the whole event.
			w.log.Error("admin notification failed", "booking_id", evt.BookingID, "error", err)
		}
	}

	_ = d.Ack(false)
}
