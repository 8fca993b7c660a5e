package rest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/redscope/engagement-backend/internal/domain/finding"
	"github.com/redscope/engagement-backend/internal/service/triage"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "engage",
			Subsystem: "api",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "engage",
			Subsystem: "api",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15),
		},
		[]string{"method", "path"},
	)

	triageTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "engage",
			Subsystem: "triage",
			Name:      "transitions_total",
			Help:      "Finding status transitions by edge",
		},
		[]string{"from", "to"},
	)

	triageReopensTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "engage",
			Subsystem: "triage",
			Name:      "reopens_total",
			Help:      "Findings returned to triage from remediated",
		},
	)
)

// promCollector implements triage.MetricsCollector on Prometheus.
type promCollector struct{}

// NewTriageMetrics returns the Prometheus-backed triage collector.
func NewTriageMetrics() triage.MetricsCollector {
	return promCollector{}
}

func (promCollector) RecordTransition(from, to finding.Status) {
	triageTransitionsTotal.WithLabelValues(string(from), string(to)).Inc()
}

func (promCollector) RecordReopen() {
	triageReopensTotal.Inc()
}
