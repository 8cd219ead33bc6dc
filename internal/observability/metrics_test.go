package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordRequest("/api/order", "POST", 201, 15*time.Millisecond)
	m.RecordRequest("/api/order", "POST", 201, 5*time.Millisecond)
	m.RecordError("/api/order", "POST", "INVALID_INPUT")
	m.OrderPlaced()
	m.ItemsOrphaned(2)
	m.ItemsOrphaned(0)
	m.ItemsSwept(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/order", "POST", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("/api/order", "POST", "INVALID_INPUT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ordersPlaced))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.itemsOrphaned))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.itemsSwept))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.OrderPlaced()
		m.ItemsOrphaned(1)
		m.ItemsSwept(1)
	})
}
