// Package metrics экспортирует метрики витрины в Prometheus.
// Все методы допускают nil-получатель: так метрики отключаются.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"gogetmarket/internal/storefront/ports/bus"
	"gogetmarket/internal/storefront/resilience"
)

const namespace = "storefront"

// Metrics - набор метрик витрины.
type Metrics struct {
	signals       *prometheus.CounterVec
	activeClients prometheus.Gauge
	breakerState  *prometheus.GaugeVec
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

// New регистрирует метрики в reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		signals: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signals_total",
			Help:      "Signals published on client event buses",
		}, []string{"signal"}),

		activeClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_clients",
			Help:      "Client store sets currently held in memory",
		}),

		breakerState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Backend circuit breaker state: 0 closed, 1 open, 2 half-open",
		}, []string{"breaker"}),

		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP API requests",
		}, []string{"method", "route", "status"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP API request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

var observedSignals = []bus.Signal{
	bus.SignalSessionExpired,
	bus.SignalNetworkError,
	bus.SignalOnline,
	bus.SignalOffline,
}

// ObserveBus считает сигналы шины. Серия сигнала появляется при первой публикации.
// Возвращает функцию отписки.
func (m *Metrics) ObserveBus(b bus.Bus) func() {
	if m == nil {
		return func() {}
	}

	unsubscribers := make([]func(), 0, len(observedSignals))
	for _, signal := range observedSignals {
		unsubscribers = append(unsubscribers, b.Subscribe(signal, func(e bus.Event) {
			m.signals.WithLabelValues(string(e.Signal)).Inc()
		}))
	}
	return func() {
		for _, unsubscribe := range unsubscribers {
			unsubscribe()
		}
	}
}

// ClientAdded учитывает загруженный набор хранилищ.
func (m *Metrics) ClientAdded() {
	if m != nil {
		m.activeClients.Inc()
	}
}

// ClientRemoved учитывает выгруженный набор хранилищ.
func (m *Metrics) ClientRemoved() {
	if m != nil {
		m.activeClients.Dec()
	}
}

// BreakerStateChanged подходит для CircuitBreaker.OnStateChange.
func (m *Metrics) BreakerStateChanged(name string, state resilience.CircuitState) {
	if m != nil {
		m.breakerState.WithLabelValues(name).Set(float64(state))
	}
}

// ObserveRequest учитывает HTTP-запрос.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
