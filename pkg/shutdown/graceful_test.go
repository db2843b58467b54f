package shutdown_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gogetmarket/pkg/shutdown"
)

func TestRun(t *testing.T) {
	t.Run("runs every hook", func(t *testing.T) {
		var calls atomic.Int32
		hook := func(context.Context) error {
			calls.Add(1)
			return nil
		}

		shutdown.Run(context.Background(), time.Second, hook, hook, hook)

		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("failing hook does not stop others", func(t *testing.T) {
		var calls atomic.Int32
		failing := func(context.Context) error { return errors.New("boom") }
		ok := func(context.Context) error {
			calls.Add(1)
			return nil
		}

		shutdown.Run(context.Background(), time.Second, failing, ok)

		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("returns after timeout", func(t *testing.T) {
		slow := func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}

		start := time.Now()
		shutdown.Run(context.Background(), 50*time.Millisecond, slow)

		assert.Less(t, time.Since(start), time.Second)
	})
}

func TestWaitCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var called atomic.Bool
	shutdown.Wait(ctx, time.Second, func(context.Context) error {
		called.Store(true)
		return nil
	})

	assert.True(t, called.Load())
}
