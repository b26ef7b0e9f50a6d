package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Session metrics
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nexus_active_sessions",
		Help: "Number of orchestration sessions in progress",
	})

	sessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nexus_sessions_total",
		Help: "Total orchestration sessions by outcome",
	}, []string{"outcome"})

	sessionIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nexus_session_iterations",
		Help:    "Completion round-trips per session",
		Buckets: []float64{1, 2, 3, 5, 8, 12, 15},
	})

	// Upstream completion metrics
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nexus_upstream_requests_total",
		Help: "Total completion requests by provider and status",
	}, []string{"provider", "status"})

	upstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nexus_upstream_latency_seconds",
		Help:    "Completion request latency in seconds",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
	}, []string{"provider"})

	// Tool metrics
	toolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nexus_tool_calls_total",
		Help: "Total tool calls by tool and status",
	}, []string{"tool", "status"})

	toolLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nexus_tool_latency_seconds",
		Help:    "Tool call latency in seconds",
		Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"tool"})
)

// Session outcomes.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
)

// SessionStarted records a new session.
func SessionStarted() {
	activeSessions.Inc()
}

// SessionFinished records the end of a session.
func SessionFinished(outcome string, iterations int) {
	activeSessions.Dec()
	sessionsTotal.WithLabelValues(outcome).Inc()
	sessionIterations.Observe(float64(iterations))
}

// RecordUpstreamRequest records one completion request.
func RecordUpstreamRequest(provider string, ok bool, elapsed time.Duration) {
	status := "ok"
	if !ok {
		status = "error"
	}
	upstreamRequests.WithLabelValues(provider, status).Inc()
	upstreamLatency.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// RecordToolCall records one tool invocation.
func RecordToolCall(tool, status string, elapsed time.Duration) {
	toolCalls.WithLabelValues(tool, status).Inc()
	if elapsed > 0 {
		toolLatency.WithLabelValues(tool).Observe(elapsed.Seconds())
	}
}

// Handler exposes the default registry for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
