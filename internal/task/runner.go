package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
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
		WorkerCount: 4,
		QueueSize:   100,
	}
}

// Runner manages background task processing. Each submitted work unit
// executes independently of the HTTP request that created it; work for
// different task ids runs in parallel across the worker pool. The queue is
// in-memory only: the persisted task row is the sole handle that survives
// the process.
type Runner struct {
	queue  *Queue
	wg     sync.WaitGroup
	config RunnerConfig
	logger *slog.Logger
}

// NewRunner creates a new Runner.
func NewRunner(config RunnerConfig, logger *slog.Logger) *Runner {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
		logger.Warn("invalid worker count specified, using default",
			"default_count", 1)
	}

	return &Runner{
		queue:  NewQueue(config.QueueSize, logger),
		config: config,
		logger: logger.With("component", "task_runner"),
	}
}

// Submit adds a work unit to the queue. The caller has already persisted
// the task row, so a submission failure here leaves a stuck in_progress row
// rather than a lost record.
func (r *Runner) Submit(ctx context.Context, task Task) error {
	if err := r.queue.Enqueue(task); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}
	return nil
}

// Start launches the worker pool.
func (r *Runner) Start() {
	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}
	r.logger.Info("task runner started", "worker_count", r.config.WorkerCount)
}

// Stop gracefully shuts down the runner: no new submissions are accepted
// and workers drain the queue before exiting.
func (r *Runner) Stop() {
	r.queue.Close()
	r.wg.Wait()
	r.logger.Info("task runner stopped")
}

// worker processes tasks from the queue until it is closed and drained.
func (r *Runner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", "worker_id", id)

	for task := range r.queue.GetChannel() {
		r.processTask(task, id)
	}

	r.logger.Debug("task channel closed, stopping worker", "worker_id", id)
}

// processTask handles execution of a single work unit. Execution errors are
// logged and consumed here: nothing that happens after submission is ever
// surfaced to the original HTTP caller except through the task row.
func (r *Runner) processTask(task Task, workerID int) {
	logger := r.logger.With(
		"task_id", task.ID(),
		"task_kind", task.Kind(),
		"worker_id", workerID,
	)

	logger.Info("processing task")

	if err := task.Execute(context.Background()); err != nil {
		logger.Error("task execution failed", "error", err)
		return
	}

	logger.Info("task finished")
}
