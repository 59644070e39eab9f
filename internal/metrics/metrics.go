package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clinic_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_appointment_transitions_total",
			Help: "Appointment lifecycle transitions by event",
		},
		[]string{"event"},
	)

	SweepCancelledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clinic_sweep_cancelled_total",
			Help: "Appointments cancelled by the sweep for an expired payment deadline",
		},
	)

	SweepCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clinic_sweep_completed_total",
			Help: "Appointments completed by the sweep after their slot passed",
		},
	)

	SweepRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_sweep_runs_total",
			Help: "Sweep runs by outcome",
		},
		[]string{"outcome"},
	)

	NotificationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_notification_failures_total",
			Help: "Notifications that could not be delivered or queued",
		},
		[]string{"type", "reason"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordTransition(event string) {
	TransitionsTotal.WithLabelValues(event).Inc()
}

func RecordSweep(outcome string, cancelled, completed int) {
	SweepRunsTotal.WithLabelValues(outcome).Inc()
	SweepCancelledTotal.Add(float64(cancelled))
	SweepCompletedTotal.Add(float64(completed))
}

func RecordNotificationFailure(noticeType, reason string) {
	NotificationFailuresTotal.WithLabelValues(noticeType, reason).Inc()
}
