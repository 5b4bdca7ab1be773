package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	InvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_invocations_total",
			Help: "Total invocations processed, by protocol and outcome",
		},
		[]string{"protocol", "status"},
	)

	InvocationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_invocation_errors_total",
			Help: "Total invocation failures by error code",
		},
		[]string{"error_code"},
	)

	InvocationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "intake_invocation_duration_seconds",
			Help: "Duration of invocation processing in seconds",
		},
		[]string{"tool"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_notifications_total",
			Help: "Confirmation notifications attempted, by channel and outcome",
		},
		[]string{"channel", "status"},
	)
)
