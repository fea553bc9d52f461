// Package metrics registers the prometheus collectors the API reports.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	AvailabilityRequests *prometheus.CounterVec
	TimeOffChecks        *prometheus.CounterVec
	BookingsCreated      prometheus.Counter
	WebhookEvents        *prometheus.CounterVec
	RemindersSent        prometheus.Counter
}

// New creates the collectors and registers them on reg. A nil reg skips
// registration, which tests use to get isolated counters.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AvailabilityRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_availability_requests_total",
			Help: "Slot availability computations by outcome.",
		}, []string{"outcome"}),
		TimeOffChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_time_off_checks_total",
			Help: "Blackout conflict checks by answering path and result.",
		}, []string{"path", "result"}),
		BookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_created_total",
			Help: "Bookings created.",
		}),
		WebhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_payment_webhook_events_total",
			Help: "Payment webhook events by provider and outcome.",
		}, []string{"provider", "outcome"}),
		RemindersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_reminders_sent_total",
			Help: "Reminder emails sent.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.AvailabilityRequests,
			m.TimeOffChecks,
			m.BookingsCreated,
			m.WebhookEvents,
			m.RemindersSent,
		)
	}

	return m
}

// Nop returns unregistered collectors.
func Nop() *Metrics {
	return New(nil)
}
