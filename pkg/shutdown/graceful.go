// Package shutdown ждет SIGINT/SIGTERM и выполняет хуки остановки в пределах таймаута.
package shutdown

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gogetmarket/pkg/logger"
)

// Hook - функция остановки одного компонента.
type Hook func(context.Context) error

// Wait блокируется до сигнала или отмены ctx, затем параллельно выполняет хуки.
func Wait(ctx context.Context, timeout time.Duration, hooks ...Hook) {
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	Run(ctx, timeout, hooks...)
}

// Run выполняет хуки без ожидания сигнала. Ошибки хуков логируются.
func Run(ctx context.Context, timeout time.Duration, hooks ...Hook) {
	log := logger.Log(ctx)

	hookCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	var wg sync.WaitGroup
	for i, hook := range hooks {
		wg.Add(1)
		go func(idx int, fn Hook) {
			defer wg.Done()
			if err := fn(hookCtx); err != nil {
				log.Warn(hookCtx, "shutdown hook failed", zap.Int("hook", idx), zap.Error(err))
			}
		}(i, hook)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-hookCtx.Done():
		log.Warn(hookCtx, "shutdown timed out", zap.Duration("timeout", timeout))
	}
}
