package app

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gogetmarket/internal/storefront/domain/entities"
	"gogetmarket/internal/storefront/ports/scheduler"
	"gogetmarket/pkg/logger"
)

const (
	LogToastPushed      = "toast pushed"
	LogToastRemoved     = "toast removed"
	LogToastExpired     = "toast expired"
	LogToastUnknownType = "unknown toast type, using info"
)

// ToastStore - очередь уведомлений. Каждое уведомление владеет таймером
// автоудаления, который отменяется при ручном удалении.
type ToastStore struct {
	mu       sync.Mutex
	toasts   []entities.Toast
	timers   map[string]scheduler.Timer
	duration time.Duration

	clock     scheduler.Scheduler
	log       *logger.Logger
	listeners listeners[[]entities.Toast]
}

// NewToastStore создает очередь. duration <= 0 заменяется на DefaultToastDuration.
func NewToastStore(deps Deps, duration time.Duration) *ToastStore {
	if duration <= 0 {
		duration = DefaultToastDuration
	}
	return &ToastStore{
		timers:   make(map[string]scheduler.Timer),
		duration: duration,
		clock:    deps.Scheduler,
		log:      deps.logger("toast_store"),
	}
}

// Push добавляет уведомление в конец очереди и возвращает его id.
func (t *ToastStore) Push(ctx context.Context, typ entities.ToastType, message string) string {
	if !typ.Valid() {
		t.log.Warn(ctx, LogToastUnknownType, zap.String("type", string(typ)))
		typ = entities.ToastInfo
	}

	toast := entities.Toast{
		ID:        uuid.NewString(),
		Type:      typ,
		Message:   message,
		CreatedAt: t.clock.Now(),
	}

	t.mu.Lock()
	t.toasts = append(t.toasts, toast)
	t.timers[toast.ID] = t.clock.AfterFunc(t.duration, func() { t.expire(toast.ID) })
	state := snapshotOf(t.toasts)
	t.mu.Unlock()

	t.log.Debug(ctx, LogToastPushed, zap.String("toast_id", toast.ID), zap.String("type", string(typ)))
	t.listeners.notify(t.log, state)
	return toast.ID
}

func (t *ToastStore) Success(ctx context.Context, message string) string {
	return t.Push(ctx, entities.ToastSuccess, message)
}

func (t *ToastStore) Error(ctx context.Context, message string) string {
	return t.Push(ctx, entities.ToastError, message)
}

func (t *ToastStore) Warning(ctx context.Context, message string) string {
	return t.Push(ctx, entities.ToastWarning, message)
}

func (t *ToastStore) Info(ctx context.Context, message string) string {
	return t.Push(ctx, entities.ToastInfo, message)
}

// Remove удаляет уведомление и отменяет его таймер. Повторный вызов ничего не делает.
func (t *ToastStore) Remove(ctx context.Context, id string) bool {
	if !t.remove(id) {
		return false
	}
	t.log.Debug(ctx, LogToastRemoved, zap.String("toast_id", id))
	return true
}

// Clear удаляет все уведомления и отменяет все таймеры.
func (t *ToastStore) Clear(ctx context.Context) {
	t.mu.Lock()
	t.stopAllLocked()
	changed := len(t.toasts) > 0
	t.toasts = nil
	t.mu.Unlock()

	if changed {
		t.log.Debug(ctx, "toasts cleared")
		t.listeners.notify(t.log, nil)
	}
}

// Toasts возвращает уведомления в порядке добавления.
func (t *ToastStore) Toasts() []entities.Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	return snapshotOf(t.toasts)
}

// Subscribe регистрирует слушателя изменений очереди.
func (t *ToastStore) Subscribe(fn func([]entities.Toast)) func() {
	return t.listeners.add(fn)
}

// Close отменяет все таймеры, не трогая очередь.
func (t *ToastStore) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopAllLocked()
}

func (t *ToastStore) expire(id string) {
	if t.remove(id) {
		t.log.Debug(context.Background(), LogToastExpired, zap.String("toast_id", id))
	}
}

func (t *ToastStore) remove(id string) bool {
	t.mu.Lock()
	i := slices.IndexFunc(t.toasts, func(toast entities.Toast) bool { return toast.ID == id })
	if i < 0 {
		t.mu.Unlock()
		return false
	}
	t.toasts = slices.Delete(t.toasts, i, i+1)
	if timer, ok := t.timers[id]; ok {
		timer.Stop()
		delete(t.timers, id)
	}
	state := snapshotOf(t.toasts)
	t.mu.Unlock()

	t.listeners.notify(t.log, state)
	return true
}

func (t *ToastStore) stopAllLocked() {
	for id, timer := range t.timers {
		timer.Stop()
		delete(t.timers, id)
	}
}
