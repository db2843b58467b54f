package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"gogetmarket/internal/storefront/domain/entities"
	"gogetmarket/internal/storefront/ports/bus"
	"gogetmarket/internal/storefront/ports/scheduler"
	"gogetmarket/pkg/logger"
)

const (
	LogWentOffline       = "connectivity lost"
	LogWentOnline        = "connectivity restored"
	LogTransientError    = "transient network error"
	LogTransientCleared  = "transient network error cleared"
	LogNetworkErrIgnored = "network error while offline ignored"
)

// NetworkMonitor сворачивает события связности и сигнал network-error
// в решение о баннере.
type NetworkMonitor struct {
	mu      sync.Mutex
	state   entities.NetworkState
	timer   scheduler.Timer
	gen     uint64
	timeout time.Duration

	clock       scheduler.Scheduler
	log         *logger.Logger
	listeners   listeners[entities.NetworkState]
	unsubscribe []func()
}

// NewNetworkMonitor подписывается на online, offline и network-error.
// timeout <= 0 заменяется на DefaultTransientErrorTimeout.
func NewNetworkMonitor(deps Deps, timeout time.Duration) *NetworkMonitor {
	if timeout <= 0 {
		timeout = DefaultTransientErrorTimeout
	}
	m := &NetworkMonitor{
		timeout: timeout,
		clock:   deps.Scheduler,
		log:     deps.logger("network_monitor"),
	}
	m.unsubscribe = []func(){
		deps.Bus.Subscribe(bus.SignalOffline, func(bus.Event) { m.SetOffline(context.Background()) }),
		deps.Bus.Subscribe(bus.SignalOnline, func(bus.Event) { m.SetOnline(context.Background()) }),
		deps.Bus.Subscribe(bus.SignalNetworkError, func(bus.Event) { m.ReportError(context.Background()) }),
	}
	return m
}

// SetOffline переводит монитор в Offline. Offline перекрывает временную ошибку.
func (m *NetworkMonitor) SetOffline(ctx context.Context) {
	m.mu.Lock()
	if m.state.IsOffline {
		m.mu.Unlock()
		return
	}
	m.state.IsOffline = true
	state := m.state
	m.mu.Unlock()

	m.log.Warn(ctx, LogWentOffline)
	m.listeners.notify(m.log, state)
}

// SetOnline возвращает Online/Quiet и снимает временную ошибку.
func (m *NetworkMonitor) SetOnline(ctx context.Context) {
	m.mu.Lock()
	if !m.state.IsOffline && !m.state.TransientErrorActive {
		m.mu.Unlock()
		return
	}
	m.stopTimerLocked()
	m.state = entities.NetworkState{}
	state := m.state
	m.mu.Unlock()

	m.log.Info(ctx, LogWentOnline)
	m.listeners.notify(m.log, state)
}

// ReportError включает временную ошибку и перезапускает таймер ее снятия.
// В состоянии Offline сигнал игнорируется.
func (m *NetworkMonitor) ReportError(ctx context.Context) {
	m.mu.Lock()
	if m.state.IsOffline {
		m.mu.Unlock()
		m.log.Debug(ctx, LogNetworkErrIgnored)
		return
	}
	m.stopTimerLocked()
	gen := m.gen
	m.timer = m.clock.AfterFunc(m.timeout, func() { m.clearTransient(gen) })
	changed := !m.state.TransientErrorActive
	m.state.TransientErrorActive = true
	state := m.state
	m.mu.Unlock()

	m.log.Debug(ctx, LogTransientError, zap.Duration("timeout", m.timeout))
	if changed {
		m.listeners.notify(m.log, state)
	}
}

// State возвращает текущее состояние.
func (m *NetworkMonitor) State() entities.NetworkState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Display возвращает решение о баннере.
func (m *NetworkMonitor) Display() entities.NetworkDisplay {
	return m.State().Display()
}

// Subscribe регистрирует слушателя изменений состояния.
func (m *NetworkMonitor) Subscribe(fn func(entities.NetworkState)) func() {
	return m.listeners.add(fn)
}

// Close отписывается от шины и отменяет таймер.
func (m *NetworkMonitor) Close() {
	for _, unsubscribe := range m.unsubscribe {
		unsubscribe()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimerLocked()
}

func (m *NetworkMonitor) clearTransient(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || !m.state.TransientErrorActive {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	m.state.TransientErrorActive = false
	state := m.state
	m.mu.Unlock()

	m.log.Debug(context.Background(), LogTransientCleared)
	m.listeners.notify(m.log, state)
}

func (m *NetworkMonitor) stopTimerLocked() {
	m.gen++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}
