package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus collectors exposed at /metrics.
type Metrics struct {
	BookingsCreated prometheus.Counter
	SlotConflicts   prometheus.Counter
	StatusChanges   *prometheus.CounterVec
	WebhookEvents   *prometheus.CounterVec
	NotifyPublished prometheus.Counter
	ExpiredBookings prometheus.Counter
}

// New registers and returns the metric set for the given namespace.
func New(namespace string) *Metrics {
	return &Metrics{
		BookingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "The total number of bookings successfully created",
		}),
		SlotConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_conflicts_total",
			Help:      "Reservation attempts rejected because the slot was taken",
		}),
		StatusChanges: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_status_changes_total",
			Help:      "Booking status transitions, labeled by new status",
		}, []string{"status"}),
		WebhookEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_webhook_events_total",
			Help:      "Payment webhook events, labeled by outcome",
		}, []string{"result"}),
		NotifyPublished: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_published_total",
			Help:      "Notification events published to the queue",
		}),
		ExpiredBookings: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expired_bookings_total",
			Help:      "Pending bookings auto-cancelled by the expiry sweep",
		}),
	}
}
