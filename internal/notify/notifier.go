package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/logger"
)

// Notifier delivers a rendered notification to a recipient.
type Notifier interface {
	Notify(to, subject, body string) error
}

// ConsoleNotifier logs notifications instead of sending them. Used in dev
// environments without an SMTP relay.
type ConsoleNotifier struct {
	log logger.Logger
}

func NewConsoleNotifier(log logger.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{log: log}
}

func (n *ConsoleNotifier) Notify(to, subject, body string) error {
	n.log.Info("notification", "to", to, "subject", subject, "body", body)
	return nil
}

// SMTPNotifier sends plain-text mail through a relay.
type SMTPNotifier struct {
	addr string // host:port
	from string
}

func NewSMTPNotifier(addr, from string) *SMTPNotifier {
	return &SMTPNotifier{addr: addr, from: from}
}

func (n *SMTPNotifier) Notify(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + n.from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(n.addr, nil, n.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// CustomerSubject renders the customer-facing subject line for an event.
func CustomerSubject(evt BookingEvent) string {
	switch evt.Event {
	case KeyBookingConfirmed:
		return "Your tune-up session is confirmed"
	case KeyBookingCancelled:
		return "Your tune-up session was cancelled"
	default:
		return "We received your booking"
	}
}

// CustomerBody renders the customer-facing message body.
func CustomerBody(evt BookingEvent) string {
	return fmt.Sprintf(
		"Hi %s,\n\nYour %s session is scheduled for %s at %s.\nAmount: %s\nBooking reference: #%d\n",
		evt.CustomerName, evt.PackageName, evt.SlotDate, evt.SlotTime, evt.Amount, evt.BookingID,
	)
}

// AdminBody renders the internal alert message.
func AdminBody(evt BookingEvent) string {
	return fmt.Sprintf(
		"%s: booking #%d (%s, %s) for %s %s, package %s\n",
		evt.Event, evt.BookingID, evt.CustomerName, evt.Email, evt.SlotDate, evt.SlotTime, evt.PackageName,
	)
}
