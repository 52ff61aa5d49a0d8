package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Chat-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tutor",
			Subsystem: "chat_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tutor",
			Subsystem: "chat_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// Chat turn counters
	ChatTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tutor",
			Subsystem: "chat_api",
			Name:      "chat_turns_total",
			Help:      "Total chat turns by outcome",
		},
		[]string{"workflow", "status"},
	)

	// Chat turn duration (full turn including reconciliation)
	ChatTurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tutor",
			Subsystem: "chat_api",
			Name:      "chat_turn_duration_seconds",
			Help:      "Full chat turn duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"workflow"},
	)

	// Sandbox file reconciliation counter
	FileBridgesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tutor",
			Subsystem: "chat_api",
			Name:      "file_bridges_total",
			Help:      "Total sandbox files bridged into durable storage",
		},
		[]string{"status"},
	)

	// Upload counters
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tutor",
			Subsystem: "chat_api",
			Name:      "uploads_total",
			Help:      "Total user file uploads",
		},
		[]string{"content_type", "status"},
	)

	// Approval gate outcomes
	ApprovalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tutor",
			Subsystem: "chat_api",
			Name:      "approvals_total",
			Help:      "Total approval gate resolutions",
		},
		[]string{"outcome"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordChatTurn records one finished chat turn
func RecordChatTurn(workflow, status string, durationSec float64) {
	ChatTurnsTotal.WithLabelValues(workflow, status).Inc()
	ChatTurnDuration.WithLabelValues(workflow).Observe(durationSec)
}

// RecordFileBridge records one sandbox file reconciliation attempt
func RecordFileBridge(status string) {
	FileBridgesTotal.WithLabelValues(status).Inc()
}

// RecordUpload records a user file upload
func RecordUpload(contentType, status string) {
	UploadsTotal.WithLabelValues(contentType, status).Inc()
}

// RecordApproval records an approval gate outcome
func RecordApproval(outcome string) {
	ApprovalsTotal.WithLabelValues(outcome).Inc()
}
