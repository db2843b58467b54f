// Package scheduler определяет часы и отложенные вызовы, которыми владеют хранилища.
package scheduler

import "time"

// Timer - отменяемый отложенный вызов.
type Timer interface {
	// Stop отменяет вызов. Возвращает false, если вызов уже произошел или отменен.
	Stop() bool
}

// Scheduler - источник времени и таймеров.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}
