// Package metrics holds the process Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Enrollments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "careerlink_enrollments_total",
		Help: "Enrollment attempts by outcome.",
	}, []string{"outcome"})

	BadgeClaims = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "careerlink_badge_claims_total",
		Help: "Badge claim attempts by outcome.",
	}, []string{"outcome"})

	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "careerlink_notifications_sent_total",
		Help: "Push deliveries by mode and result.",
	}, []string{"mode", "result"})

	NotificationsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "careerlink_notifications_dropped_total",
		Help: "Notification tasks dropped because the queue was full or closed.",
	})

	RemindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "careerlink_reminders_sent_total",
		Help: "Scheduled reminders delivered by the sweep.",
	})
)

// Outcome labels used across the counters.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)
