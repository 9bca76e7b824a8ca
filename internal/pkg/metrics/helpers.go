package metrics

// The helpers below are nil-safe so services can run without a metric set
// (e.g. in unit tests, where promauto's global registry would otherwise
// reject duplicate registration).

func (m *Metrics) IncBookingsCreated() {
	if m == nil {
		return
	}
	m.BookingsCreated.Inc()
}

func (m *Metrics) IncSlotConflicts() {
	if m == nil {
		return
	}
	m.SlotConflicts.Inc()
}

func (m *Metrics) IncStatusChanges(status string) {
	if m == nil {
		return
	}
	m.StatusChanges.WithLabelValues(status).Inc()
}

func (m *Metrics) IncWebhookEvents(result string) {
	if m == nil {
		return
	}
	m.WebhookEvents.WithLabelValues(result).Inc()
}

func (m *Metrics) IncNotifyPublished() {
	if m == nil {
		return
	}
	m.NotifyPublished.Inc()
}

func (m *Metrics) IncExpiredBookings() {
	if m == nil {
		return
	}
	m.ExpiredBookings.Inc()
}
