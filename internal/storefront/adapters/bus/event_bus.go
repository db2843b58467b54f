// Package bus содержит синхронную in-memory реализацию шины сигналов.
package bus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	ports "gogetmarket/internal/storefront/ports/bus"
	"gogetmarket/pkg/logger"
)

const (
	LogPublish        = "signal published"
	LogHandlerPanic   = "signal handler panicked"
	LogNoSubscribers  = "signal has no subscribers"
	LogSubscribed     = "handler subscribed"
	LogUnsubscribed   = "handler unsubscribed"
	attrSignal        = "signal"
	attrSubscriptions = "subscriptions"
)

type subscription struct {
	id      uint64
	handler ports.Handler
}

// EventBus доставляет сигналы синхронно, в порядке подписки, без истории.
type EventBus struct {
	mu     sync.RWMutex
	subs   map[ports.Signal][]subscription
	nextID uint64
	now    func() time.Time
	log    *logger.Logger
}

var _ ports.Bus = (*EventBus)(nil)

// NewEventBus создает шину. log может быть nil - тогда используется глобальный логгер.
func NewEventBus(log *logger.Logger) *EventBus {
	if log == nil {
		log = logger.Log(context.Background())
	}
	return &EventBus{
		subs: make(map[ports.Signal][]subscription),
		now:  time.Now,
		log:  log.With(zap.String("component", "event_bus")),
	}
}

// Subscribe регистрирует обработчик. Повторный вызов функции отписки ничего не делает.
func (b *EventBus) Subscribe(signal ports.Signal, handler ports.Handler) func() {
	if handler == nil {
		return func() {}
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[signal] = append(b.subs[signal], subscription{id: id, handler: handler})
	count := len(b.subs[signal])
	b.mu.Unlock()

	b.log.Debug(context.Background(), LogSubscribed, zap.String(attrSignal, string(signal)), zap.Int(attrSubscriptions, count))

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(signal, id) })
	}
}

func (b *EventBus) unsubscribe(signal ports.Signal, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[signal]
	for i, s := range subs {
		if s.id != id {
			continue
		}
		// Новый срез: идущая доставка держит копию старого.
		next := make([]subscription, 0, len(subs)-1)
		next = append(next, subs[:i]...)
		next = append(next, subs[i+1:]...)
		if len(next) == 0 {
			delete(b.subs, signal)
		} else {
			b.subs[signal] = next
		}
		b.log.Debug(context.Background(), LogUnsubscribed, zap.String(attrSignal, string(signal)))
		return
	}
}

// Publish доставляет сигнал всем текущим подписчикам. Паника обработчика логируется
// и не мешает доставке остальным.
func (b *EventBus) Publish(signal ports.Signal, payload any) {
	b.mu.RLock()
	subs := b.subs[signal]
	b.mu.RUnlock()

	ctx := context.Background()
	if len(subs) == 0 {
		b.log.Debug(ctx, LogNoSubscribers, zap.String(attrSignal, string(signal)))
		return
	}

	event := ports.Event{Signal: signal, Payload: payload, Published: b.now()}
	b.log.Debug(ctx, LogPublish, zap.String(attrSignal, string(signal)), zap.Int(attrSubscriptions, len(subs)))

	for _, s := range subs {
		b.deliver(s.handler, event)
	}
}

func (b *EventBus) deliver(handler ports.Handler, event ports.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error(context.Background(), LogHandlerPanic,
				zap.String(attrSignal, string(event.Signal)),
				zap.String("panic", fmt.Sprintf("%v", r)))
		}
	}()
	handler(event)
}

// SubscriberCount возвращает число подписчиков сигнала.
func (b *EventBus) SubscriberCount(signal ports.Signal) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[signal])
}
