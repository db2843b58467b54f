package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	busadapter "gogetmarket/internal/storefront/adapters/bus"
	"gogetmarket/internal/storefront/metrics"
	"gogetmarket/internal/storefront/ports/bus"
	"gogetmarket/internal/storefront/resilience"
	"gogetmarket/pkg/logger"
)

func TestObserveBus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	b := busadapter.NewEventBus(logger.NewNop())

	unsubscribe := m.ObserveBus(b)
	b.Publish(bus.SignalNetworkError, nil)
	b.Publish(bus.SignalNetworkError, nil)
	b.Publish(bus.SignalSessionExpired, nil)
	unsubscribe()
	b.Publish(bus.SignalNetworkError, nil)

	assert.Equal(t, 2, testutil.CollectAndCount(reg, "storefront_signals_total"))
	expected := `
# HELP storefront_signals_total Signals published on client event buses
# TYPE storefront_signals_total counter
storefront_signals_total{signal="network-error"} 2
storefront_signals_total{signal="session-expired"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "storefront_signals_total"))
}

func TestGaugesAndRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ClientAdded()
	m.ClientAdded()
	m.ClientRemoved()
	m.BreakerStateChanged("backend", resilience.StateOpen)
	m.ObserveRequest("POST", "/api/v1/cart/items", 201, 15*time.Millisecond)

	expected := `
# HELP storefront_active_clients Client store sets currently held in memory
# TYPE storefront_active_clients gauge
storefront_active_clients 1
# HELP storefront_circuit_breaker_state Backend circuit breaker state: 0 closed, 1 open, 2 half-open
# TYPE storefront_circuit_breaker_state gauge
storefront_circuit_breaker_state{breaker="backend"} 1
# HELP storefront_http_requests_total HTTP API requests
# TYPE storefront_http_requests_total counter
storefront_http_requests_total{method="POST",route="/api/v1/cart/items",status="201"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"storefront_active_clients", "storefront_circuit_breaker_state", "storefront_http_requests_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "storefront_http_request_duration_seconds"))
}

func TestNilMetrics(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.ObserveBus(busadapter.NewEventBus(logger.NewNop()))()
		m.ClientAdded()
		m.ClientRemoved()
		m.BreakerStateChanged("backend", resilience.StateClosed)
		m.ObserveRequest("GET", "/", 200, time.Millisecond)
	})
}
