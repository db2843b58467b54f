// Package scheduler содержит реализации часов и таймеров для хранилищ.
package scheduler

import (
	"time"

	ports "gogetmarket/internal/storefront/ports/scheduler"
)

// Clock использует системное время и time.AfterFunc.
type Clock struct{}

var _ ports.Scheduler = Clock{}

// NewClock создает системный планировщик.
func NewClock() Clock {
	return Clock{}
}

func (Clock) Now() time.Time {
	return time.Now()
}

func (Clock) AfterFunc(d time.Duration, fn func()) ports.Timer {
	return time.AfterFunc(d, fn)
}
