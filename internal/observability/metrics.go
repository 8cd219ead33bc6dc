package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is a no-op.
type Metrics struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	errors        *prometheus.CounterVec
	ordersPlaced  prometheus.Counter
	itemsOrphaned prometheus.Counter
	itemsSwept    prometheus.Counter
}

// NewMetrics registers collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Errors rendered to clients by domain code.",
		}, []string{"route", "method", "code"}),
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orders_placed_total",
			Help: "Orders successfully placed.",
		}),
		itemsOrphaned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "order_items_orphaned_total",
			Help: "Order items persisted by a placement that did not complete.",
		}),
		itemsSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "order_items_swept_total",
			Help: "Orphaned order items deleted by the sweeper.",
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.errors, m.ordersPlaced, m.itemsOrphaned, m.itemsSwept)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

func (m *Metrics) OrderPlaced() {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
}

func (m *Metrics) ItemsOrphaned(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.itemsOrphaned.Add(float64(n))
}

func (m *Metrics) ItemsSwept(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.itemsSwept.Add(float64(n))
}
