package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "canvasaem_gate_sessions_active",
		Help: "Number of mounted gate sessions",
	})

	SessionsClosedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "canvasaem_gate_sessions_closed_total",
		Help: "Total number of unmounted gate sessions by reason",
	}, []string{"reason"})

	TransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "canvasaem_gate_transitions_total",
		Help: "Total number of gate state transitions by source, event and destination",
	}, []string{"from", "event", "to"})

	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "canvasaem_lead_submissions_total",
		Help: "Total number of lead form submissions by outcome",
	}, []string{"outcome"})

	LeadDeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "canvasaem_lead_deliveries_total",
		Help: "Total number of lead notifications by channel and outcome",
	}, []string{"channel", "outcome"})

	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "canvasaem_http_rate_limited_total",
		Help: "Total number of requests rejected by the per-IP rate limiter",
	})
)

func SessionOpened() {
	SessionsActive.Inc()
}

// SessionClosed records an unmount; reason is "client", "idle" or "shutdown".
func SessionClosed(reason string) {
	SessionsActive.Dec()
	SessionsClosedTotal.WithLabelValues(normalizeCloseReason(reason)).Inc()
}

func RecordTransition(from, event, to string) {
	TransitionsTotal.WithLabelValues(from, event, to).Inc()
}

// RecordSubmission records a submit attempt; outcome is "accepted",
// "invalid" or "rejected".
func RecordSubmission(outcome string) {
	SubmissionsTotal.WithLabelValues(outcome).Inc()
}

func RecordDelivery(channel string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	LeadDeliveriesTotal.WithLabelValues(channel, outcome).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func normalizeCloseReason(reason string) string {
	switch strings.ToLower(strings.TrimSpace(reason)) {
	case "client", "idle", "shutdown":
		return strings.ToLower(strings.TrimSpace(reason))
	default:
		return "unknown"
	}
}
