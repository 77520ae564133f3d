// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// GenerationsTotal tracks generation requests by mode and outcome.
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generations_total",
			Help: "Total generation requests",
		},
		[]string{"mode", "status"},
	)

	// FlowCallsTotal tracks individual calls to the generation provider.
	FlowCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flow_calls_total",
			Help: "Total generation flow calls",
		},
		[]string{"flow", "platform", "status"},
	)

	// FlowDuration tracks generation flow call duration.
	FlowDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flow_duration_seconds",
			Help:    "Generation flow call duration",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 45, 60, 90, 120},
		},
		[]string{"flow", "status"},
	)

	// LLMTokensTotal tracks total LLM tokens processed.
	LLMTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_tokens_total",
			Help: "Total LLM tokens processed",
		},
		[]string{"model", "direction"},
	)

	// RelayDeliveriesTotal tracks webhook relay deliveries.
	RelayDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_deliveries_total",
			Help: "Total distribution webhook deliveries",
		},
		[]string{"status"},
	)

	// ImageUploadsTotal tracks image hosting uploads.
	ImageUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_uploads_total",
			Help: "Total image hosting uploads",
		},
		[]string{"status"},
	)

	// AnalyticsEventsTotal tracks analytics store operations.
	AnalyticsEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_events_total",
			Help: "Total analytics store operations",
		},
		[]string{"op", "backend", "status"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordFlowCall records metrics for a generation flow call.
func RecordFlowCall(flow, platform, status string, duration float64) {
	FlowCallsTotal.WithLabelValues(flow, platform, status).Inc()
	FlowDuration.WithLabelValues(flow, status).Observe(duration)
}

// RecordTokens records LLM token usage for a model.
func RecordTokens(model string, tokensIn, tokensOut int) {
	LLMTokensTotal.WithLabelValues(model, "in").Add(float64(tokensIn))
	LLMTokensTotal.WithLabelValues(model, "out").Add(float64(tokensOut))
}
