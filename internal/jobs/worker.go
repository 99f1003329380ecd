package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rentora/rentora-api/pkg/logger"
)

// Job is a unit of background work
type Job func(ctx context.Context) error

// Worker runs background jobs: post-commit side effects from mutation paths
// and the periodic lease sweeps. All one-off jobs flow through one bounded
// queue drained by a fixed goroutine pool.
type Worker struct {
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	queue   chan namedJob
	workers int
	stats   WorkerStats
	statsMu sync.RWMutex
}

type namedJob struct {
	name string
	job  Job
}

// WorkerStats holds statistics about the worker
type WorkerStats struct {
	ActiveJobs   int   `json:"active_jobs"`
	FinishedJobs int64 `json:"finished_jobs"`
	FailedJobs   int64 `json:"failed_jobs"`
	QueueLength  int   `json:"queue_length"`
	Workers      int   `json:"workers"`
}

// NewWorker creates a worker with numWorkers queue processors
func NewWorker(numWorkers int) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	w := &Worker{
		ctx:     ctx,
		cancel:  cancel,
		queue:   make(chan namedJob, 100),
		workers: numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		w.wg.Add(1)
		go w.process()
	}

	return w
}

// Enqueue adds a job to the worker pool queue. If the queue is full the job
// runs synchronously so it is never dropped.
func (w *Worker) Enqueue(name string, job Job) {
	select {
	case w.queue <- namedJob{name: name, job: job}:
	default:
		logger.Warn("[Worker] queue full, running job synchronously", "job", name)
		w.runJob(name, job)
	}
}

// process drains the queue until Shutdown closes it. Ranging rather than
// selecting on ctx.Done means queued jobs still run during shutdown.
func (w *Worker) process() {
	defer w.wg.Done()
	for nj := range w.queue {
		w.runJob(nj.name, nj.job)
	}
}

func (w *Worker) runJob(name string, job Job) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Sprintf("[Worker] job %s panic: %v", name, r))
			w.trackJobFailure()
			w.trackJobEnd()
		}
	}()
	w.trackJobStart()
	start := time.Now()
	if err := job(w.ctx); err != nil {
		logger.Error(fmt.Sprintf("[Worker] job %s error: %v", name, err))
		w.trackJobFailure()
	} else {
		logger.Info(fmt.Sprintf("[Worker] job %s completed in %v", name, time.Since(start)))
	}
	w.trackJobEnd()
}

// ScheduleEvery runs a job at fixed intervals. The first run happens after
// the interval, not at startup.
func (w *Worker) ScheduleEvery(interval time.Duration, name string, job Job) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.runJob(name, job)
			}
		}
	}()
}

// ScheduleEveryImmediate runs a job once at startup, then at fixed
// intervals. Sweeps use this so a restarted process catches up on overdue
// leases instead of waiting a full interval.
func (w *Worker) ScheduleEveryImmediate(interval time.Duration, name string, job Job) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.runJob(name, job)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.runJob(name, job)
			}
		}
	}()
}

// Shutdown stops the schedulers, drains the queue and waits for in-flight
// jobs.
func (w *Worker) Shutdown() {
	w.cancel()
	close(w.queue)
	w.wg.Wait()
}

// GetStats returns the current worker statistics. FinishedJobs counts every
// completed run; FailedJobs is the subset that returned an error or panicked.
func (w *Worker) GetStats() WorkerStats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	stats := w.stats
	stats.QueueLength = len(w.queue)
	stats.Workers = w.workers
	return stats
}

func (w *Worker) trackJobStart() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs++
}

func (w *Worker) trackJobEnd() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs--
	w.stats.FinishedJobs++
}

func (w *Worker) trackJobFailure() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.FailedJobs++
}
