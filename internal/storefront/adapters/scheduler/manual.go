package scheduler

import (
	"sort"
	"sync"
	"time"

	ports "gogetmarket/internal/storefront/ports/scheduler"
)

// Manual - планировщик с ручным ходом времени. Таймеры срабатывают только в Advance,
// синхронно, в порядке сроков.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers map[uint64]*manualTimer
}

var _ ports.Scheduler = (*Manual)(nil)

type manualTimer struct {
	owner *Manual
	id    uint64
	at    time.Time
	fn    func()
}

// NewManual создает планировщик, часы которого стоят на start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start, timers: make(map[uint64]*manualTimer)}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) ports.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	t := &manualTimer{owner: m, id: m.seq, at: m.now.Add(d), fn: fn}
	m.timers[t.id] = t
	return t
}

func (t *manualTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()

	if _, ok := t.owner.timers[t.id]; !ok {
		return false
	}
	delete(t.owner.timers, t.id)
	return true
}

// Pending возвращает число взведенных таймеров.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Advance сдвигает часы на d и вызывает все наступившие таймеры.
// Таймеры, взведенные колбэками и попавшие в окно, тоже срабатывают.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDue(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		delete(m.timers, next.id)
		if next.at.After(m.now) {
			m.now = next.at
		}
		m.mu.Unlock()

		next.fn()
	}
}

func (m *Manual) nextDue(target time.Time) *manualTimer {
	due := make([]*manualTimer, 0, len(m.timers))
	for _, t := range m.timers {
		if !t.at.After(target) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].id < due[j].id
		}
		return due[i].at.Before(due[j].at)
	})
	return due[0]
}
