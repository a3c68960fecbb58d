package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics covers the request surface of the storefront API.
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

// NewHTTPMetrics registers the HTTP collectors on the default registerer,
// reusing collectors that are already registered so repeated construction
// is safe.
func NewHTTPMetrics() *HTTPMetrics {
	return newHTTPMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newHTTPMetricsWithRegisterer(registerer prometheus.Registerer) *HTTPMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &HTTPMetrics{
		requestsTotal: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds by method and route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inFlight: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "storefront_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		}),
	}
}

// RecordRequest observes one finished request.
func (m *HTTPMetrics) RecordRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, route, status).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RequestStarted marks a request entering the handler chain.
func (m *HTTPMetrics) RequestStarted() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
}

// RequestFinished marks a request leaving the handler chain.
func (m *HTTPMetrics) RequestFinished() {
	if m == nil {
		return
	}
	m.inFlight.Dec()
}
