package app

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"gogetmarket/pkg/logger"
)

type listener[T any] struct {
	id uint64
	fn func(T)
}

// listeners - подписчики одного хранилища. Доставка синхронная, в порядке подписки.
type listeners[T any] struct {
	mu     sync.Mutex
	nextID uint64
	items  []listener[T]
}

func (l *listeners[T]) add(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}

	l.mu.Lock()
	l.nextID++
	id := l.nextID
	l.items = append(l.items, listener[T]{id: id, fn: fn})
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { l.remove(id) })
	}
}

func (l *listeners[T]) remove(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, item := range l.items {
		if item.id == id {
			next := make([]listener[T], 0, len(l.items)-1)
			next = append(next, l.items[:i]...)
			l.items = append(next, l.items[i+1:]...)
			return
		}
	}
}

func (l *listeners[T]) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// notify вызывается без блокировки хранилища.
func (l *listeners[T]) notify(log *logger.Logger, value T) {
	l.mu.Lock()
	items := l.items
	l.mu.Unlock()

	for _, item := range items {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error(context.Background(), "store listener panicked", zap.String("panic", fmt.Sprintf("%v", r)))
				}
			}()
			item.fn(value)
		}()
	}
}

// snapshotOf копирует срез для слушателей и API. Пустой результат не равен nil.
func snapshotOf[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}
