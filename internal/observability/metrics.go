package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	httpRequestsTotal  *prometheus.CounterVec
	httpLatencySeconds *prometheus.HistogramVec
	httpErrorsTotal    *prometheus.CounterVec
	queryTotal         *prometheus.CounterVec
	queryLatency       *prometheus.HistogramVec
	webVitals          *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chatshell_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chatshell_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chatshell_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		queryTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chatshell_query_total",
			Help: "Page queries executed, by operation and outcome (ok, not_found, error).",
		}, []string{"operation", "outcome"})

		queryLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chatshell_query_latency_seconds",
			Help:    "Latency of page queries against the fixture store.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"operation"})

		// Buckets span millisecond timings and the unitless CLS score.
		webVitals = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chatshell_web_vitals",
			Help:    "Web vitals reported by clients.",
			Buckets: []float64{0.05, 0.1, 0.25, 50, 100, 200, 500, 800, 1000, 1800, 2500, 4000, 8000},
		}, []string{"name", "rating"})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, httpErrorsTotal, queryTotal, queryLatency, webVitals)
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

// QueryTotal exposes the page query counter.
func QueryTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return queryTotal
}

// QueryLatency exposes the page query latency histogram.
func QueryLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return queryLatency
}

// WebVitals exposes the client web-vitals histogram.
func WebVitals() *prometheus.HistogramVec {
	RegisterMetrics()
	return webVitals
}
