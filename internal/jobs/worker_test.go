package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rentora/rentora-api/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func waitFor(t *testing.T, done <-chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("job %d of %d never ran", i+1, n)
		}
	}
}

func TestWorkerProcessesQueuedJobs(t *testing.T) {
	logger.Setup("test")
	w := NewWorker(2)

	var count atomic.Int32
	done := make(chan struct{}, 5)
	for i := 0; i < 5; i++ {
		w.Enqueue("count", func(ctx context.Context) error {
			count.Add(1)
			done <- struct{}{}
			return nil
		})
	}
	waitFor(t, done, 5)
	w.Shutdown()

	assert.Equal(t, int32(5), count.Load())

	stats := w.GetStats()
	assert.Equal(t, int64(5), stats.FinishedJobs)
	assert.Zero(t, stats.ActiveJobs)
	assert.Zero(t, stats.QueueLength)
	assert.Equal(t, 2, stats.Workers)
}

func TestWorkerShutdownDrainsQueue(t *testing.T) {
	logger.Setup("test")
	w := NewWorker(1)

	var count atomic.Int32
	for i := 0; i < 10; i++ {
		w.Enqueue("count", func(ctx context.Context) error {
			count.Add(1)
			return nil
		})
	}
	w.Shutdown()

	// Everything enqueued before shutdown still runs
	assert.Equal(t, int32(10), count.Load())
}

func TestWorkerSurvivesFailingJobs(t *testing.T) {
	logger.Setup("test")
	w := NewWorker(1)

	done := make(chan struct{}, 3)
	w.Enqueue("panics", func(ctx context.Context) error {
		defer func() { done <- struct{}{} }()
		panic("boom")
	})
	w.Enqueue("errors", func(ctx context.Context) error {
		done <- struct{}{}
		return errors.New("nope")
	})

	var ran atomic.Bool
	w.Enqueue("fine", func(ctx context.Context) error {
		ran.Store(true)
		done <- struct{}{}
		return nil
	})
	waitFor(t, done, 3)
	w.Shutdown()

	assert.True(t, ran.Load(), "pool keeps processing after a panic")

	stats := w.GetStats()
	assert.Equal(t, int64(3), stats.FinishedJobs)
	assert.Equal(t, int64(2), stats.FailedJobs)
	assert.Zero(t, stats.ActiveJobs)
}

func TestScheduleEveryImmediateRunsAtStartup(t *testing.T) {
	logger.Setup("test")
	w := NewWorker(1)

	done := make(chan struct{}, 1)
	w.ScheduleEveryImmediate(time.Hour, "startup", func(ctx context.Context) error {
		done <- struct{}{}
		return nil
	})
	waitFor(t, done, 1)
	w.Shutdown()
}
