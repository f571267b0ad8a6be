package task

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// RunnerConfig holds configuration for the task runner.
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount: 2,
		QueueSize:   100,
	}
}

// schedule is a recurring job registration: every interval, factory
// produces a fresh task instance which is enqueued for the pool.
type schedule struct {
	interval time.Duration
	factory  func() Task
}

// Runner ties together the queue, the worker pool, and a set of
// recurring schedules. Register schedules and submit one-off tasks,
// then call Start; Stop drains and shuts everything down.
type Runner struct {
	queue     *Queue
	pool      *WorkerPool
	logger    *slog.Logger
	schedules []schedule
	stop      chan struct{}
	wg        sync.WaitGroup
	started   bool
}

// NewRunner creates a Runner with its own queue and worker pool.
func NewRunner(config RunnerConfig, logger *slog.Logger) *Runner {
	queue := NewQueue(config.QueueSize, logger)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: config.WorkerCount}, logger)

	return &Runner{
		queue:  queue,
		pool:   pool,
		logger: logger.With(slog.String("component", "task_runner")),
		stop:   make(chan struct{}),
	}
}

// SetErrorHandler sets a custom handler for task execution failures.
// Must be called before Start.
func (r *Runner) SetErrorHandler(handler func(task Task, err error)) {
	r.pool.SetErrorHandler(handler)
}

// Submit enqueues a one-off task for background execution.
func (r *Runner) Submit(task Task) error {
	return r.queue.Enqueue(task)
}

// Schedule registers a recurring job. Every interval the factory is
// invoked to build a fresh task, which is then enqueued. Must be
// called before Start.
func (r *Runner) Schedule(interval time.Duration, factory func() Task) {
	r.schedules = append(r.schedules, schedule{interval: interval, factory: factory})
}

// Start launches the worker pool and one ticker goroutine per
// registered schedule.
func (r *Runner) Start() {
	if r.started {
		return
	}
	r.started = true

	r.pool.Start()

	for _, s := range r.schedules {
		r.wg.Add(1)
		go r.runSchedule(s)
	}

	r.logger.Info("task runner started",
		slog.Int("schedules", len(r.schedules)))
}

// Stop shuts the runner down: schedules stop ticking, the queue
// refuses new work, and the worker pool drains and exits.
func (r *Runner) Stop() {
	if !r.started {
		return
	}

	close(r.stop)
	r.wg.Wait()
	r.queue.Close()
	r.pool.Stop()
	r.started = false

	r.logger.Info("task runner stopped")
}

func (r *Runner) runSchedule(s schedule) {
	defer r.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			t := s.factory()
			if err := r.queue.Enqueue(t); err != nil {
				// A full queue means workers are behind; skip this
				// tick rather than blocking the scheduler.
				if errors.Is(err, ErrQueueClosed) {
					return
				}
				r.logger.Warn("skipping scheduled task",
					slog.String("task_type", t.Type()),
					slog.String("error", err.Error()))
			}
		}
	}
}
