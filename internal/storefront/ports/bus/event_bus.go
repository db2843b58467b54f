// Package bus определяет шину сигналов между независимыми частями витрины.
package bus

import "time"

// Signal - имя широковещательного сигнала.
type Signal string

// Сигналы витрины.
const (
	SignalSessionExpired Signal = "session-expired"
	SignalNetworkError   Signal = "network-error"
	SignalOnline         Signal = "online"
	SignalOffline        Signal = "offline"
)

// Event - доставленный подписчику сигнал.
type Event struct {
	Signal    Signal
	Payload   any
	Published time.Time
}

// Handler обрабатывает сигнал. Обработчик должен быть идемпотентным.
type Handler func(Event)

// Bus - шина без буферизации и повторов: опоздавшие подписчики прошлых сигналов не получают.
type Bus interface {
	// Publish синхронно доставляет сигнал текущим подписчикам в порядке подписки.
	Publish(signal Signal, payload any)
	// Subscribe регистрирует обработчик и возвращает функцию отписки.
	Subscribe(signal Signal, handler Handler) (unsubscribe func())
}
