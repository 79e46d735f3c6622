package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce              sync.Once
	httpRequestsTotal         *prometheus.CounterVec
	httpLatencySeconds        *prometheus.HistogramVec
	httpErrorsTotal           *prometheus.CounterVec
	workflowTransitionsTotal  *prometheus.CounterVec
	notificationsPublished    *prometheus.CounterVec
	notificationStreamsActive prometheus.Gauge
	dashboardRefreshesTotal   *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		workflowTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workflow_transitions_total",
			Help: "Total number of activity and participation workflow transitions.",
		}, []string{"entity", "action"})

		notificationsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_published_total",
			Help: "Total number of notifications published, by type.",
		}, []string{"type"})

		notificationStreamsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "notification_streams_active",
			Help: "Number of currently connected notification stream subscribers.",
		})

		dashboardRefreshesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_refreshes_total",
			Help: "Total number of manager dashboard cache refreshes.",
		}, []string{"trigger"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			workflowTransitionsTotal,
			notificationsPublished,
			notificationStreamsActive,
			dashboardRefreshesTotal,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// WorkflowTransitionsTotal exposes the workflow transition counter.
func WorkflowTransitionsTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return workflowTransitionsTotal
}

// NotificationsPublishedTotal exposes the published-notification counter.
func NotificationsPublishedTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsPublished
}

// SSEClientsActive exposes the live stream subscriber gauge.
func SSEClientsActive() prometheus.Gauge {
	RegisterMetrics()
	return notificationStreamsActive
}

// DashboardRefreshesTotal exposes the dashboard refresh counter.
func DashboardRefreshesTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return dashboardRefreshesTotal
}
