package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool(t *testing.T) {
	t.Run("RunsEveryCallBeforeStopping", func(t *testing.T) {
		pool := NewPool(context.Background(), 3)

		var ran int32

		for i := 0; i < 20; i++ {
			pool.Push(func(ctx context.Context) error {
				atomic.AddInt32(&ran, 1)
				return nil
			})
		}

		pool.StopWait()

		assert.EqualValues(t, 20, atomic.LoadInt32(&ran))
	})

	t.Run("FailedCallDoesNotStopOthers", func(t *testing.T) {
		pool := NewPool(context.Background(), 2)

		var ran int32

		pool.Push(func(ctx context.Context) error {
			return errors.New("bad page")
		})
		pool.Push(func(ctx context.Context) error {
			atomic.AddInt32(&ran, 1)
			return nil
		})

		pool.StopWait()

		assert.EqualValues(t, 1, atomic.LoadInt32(&ran))
	})

	t.Run("StopWaitIsIdempotent", func(t *testing.T) {
		pool := NewPool(context.Background(), 1)

		pool.StopWait()
		pool.StopWait()
	})
}
