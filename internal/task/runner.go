package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrQueueFull is returned by Submit when the in-memory queue has no room.
var ErrQueueFull = errors.New("task queue is full, try again later")

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int

	// StuckTaskAge defines how long a task can be in processing state
	// before it's considered stuck and reset
	StuckTaskAge time.Duration

	// StuckTaskCheckInterval defines how often to check for stuck tasks and
	// for pending tasks that did not fit in the queue. If zero, defaults to
	// 5 minutes.
	StuckTaskCheckInterval time.Duration
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount:            2,
		QueueSize:              100,
		StuckTaskAge:           30 * time.Minute,
		StuckTaskCheckInterval: 5 * time.Minute,
	}
}

// TaskRunner manages background task processing
type TaskRunner struct {
	store      TaskStore
	taskChan   chan Task
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     TaskRunnerConfig
	logger     *slog.Logger

	mu         sync.RWMutex
	factories  map[string]Factory
	errHandler func(task Task, err error)

	// queued holds the ids sitting in taskChan, so the monitor can tell
	// overflowed pending tasks from ones already waiting for a worker.
	queuedMu sync.Mutex
	queued   map[uuid.UUID]struct{}
}

// NewTaskRunner creates a new TaskRunner
func NewTaskRunner(store TaskStore, config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	if config.StuckTaskCheckInterval == 0 {
		config.StuckTaskCheckInterval = 5 * time.Minute
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	logger = logger.With("component", "task_runner")

	return &TaskRunner{
		store:      store,
		taskChan:   make(chan Task, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger,
		factories:  make(map[string]Factory),
		queued:     make(map[uuid.UUID]struct{}),
		errHandler: func(task Task, err error) {
			logger.Error("task execution failed",
				"task_id", task.ID(),
				"task_type", task.Type(),
				"error", err)
		},
	}
}

// Register installs the factory used to rebuild recovered tasks of taskType.
func (r *TaskRunner) Register(taskType string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[taskType] = factory
}

// SetErrorHandler replaces the failed-task callback. Call it before Start.
func (r *TaskRunner) SetErrorHandler(handler func(task Task, err error)) {
	r.errHandler = handler
}

// Submit persists the task and adds it to the queue.
func (r *TaskRunner) Submit(ctx context.Context, task Task) error {
	if err := r.store.SaveTask(ctx, task); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	if !r.enqueue(task) {
		// The task stays pending and the monitor enqueues it once there is room.
		return ErrQueueFull
	}
	return nil
}

// enqueue adds task to the queue without blocking. A task that is already
// queued counts as enqueued.
func (r *TaskRunner) enqueue(task Task) bool {
	r.queuedMu.Lock()
	defer r.queuedMu.Unlock()
	if _, ok := r.queued[task.ID()]; ok {
		return true
	}
	select {
	case r.taskChan <- task:
		r.queued[task.ID()] = struct{}{}
		return true
	default:
		return false
	}
}

func (r *TaskRunner) isQueued(id uuid.UUID) bool {
	r.queuedMu.Lock()
	defer r.queuedMu.Unlock()
	_, ok := r.queued[id]
	return ok
}

func (r *TaskRunner) dequeued(id uuid.UUID) {
	r.queuedMu.Lock()
	delete(r.queued, id)
	r.queuedMu.Unlock()
}

// Start recovers unfinished tasks and starts the workers and the stuck task
// monitor.
func (r *TaskRunner) Start(ctx context.Context) error {
	if err := r.Recover(ctx); err != nil {
		return fmt.Errorf("failed to recover tasks: %w", err)
	}

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.wg.Add(1)
	go r.stuckTaskMonitor()

	return nil
}

// Stop signals the workers to exit and waits for in-flight tasks.
func (r *TaskRunner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
}

// Recover requeues pending tasks and resets interrupted processing tasks.
func (r *TaskRunner) Recover(ctx context.Context) error {
	pending, err := r.store.GetPendingTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending tasks: %w", err)
	}

	// Every processing task is stale at startup, whatever its age.
	processing, err := r.store.GetProcessingTasks(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to get processing tasks: %w", err)
	}

	r.logger.Info("recovering unfinished tasks",
		"pending_count", len(pending),
		"processing_count", len(processing))

	for _, rec := range pending {
		r.requeue(rec)
	}
	r.resetAndRequeue(ctx, processing, "Reset after recovery")
	return nil
}

func (r *TaskRunner) resetAndRequeue(ctx context.Context, records []Record, reason string) {
	for _, rec := range records {
		if err := r.store.UpdateTaskStatus(ctx, rec.ID, TaskStatusPending, reason); err != nil {
			r.logger.Error("failed to reset task status",
				"task_id", rec.ID,
				"task_type", rec.Type,
				"error", err)
			continue
		}
		r.requeue(rec)
	}
}

func (r *TaskRunner) requeue(rec Record) {
	task, err := r.rehydrate(rec)
	if err != nil {
		r.logger.Error("failed to rebuild task",
			"task_id", rec.ID,
			"task_type", rec.Type,
			"error", err)
		if updateErr := r.store.UpdateTaskStatus(context.Background(), rec.ID, TaskStatusFailed, err.Error()); updateErr != nil {
			r.logger.Error("failed to mark task as failed", "task_id", rec.ID, "error", updateErr)
		}
		return
	}

	if !r.enqueue(task) {
		r.logger.Warn("queue is full, task left pending",
			"task_id", rec.ID,
			"task_type", rec.Type)
		return
	}
	r.logger.Debug("requeued task", "task_id", rec.ID, "task_type", rec.Type)
}

func (r *TaskRunner) rehydrate(rec Record) (Task, error) {
	r.mu.RLock()
	factory, ok := r.factories[rec.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no factory registered for task type %q", rec.Type)
	}
	return factory(rec.ID, rec.Payload)
}

func (r *TaskRunner) worker(id int) {
	defer r.wg.Done()
	r.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", "worker_id", id)
			return
		case task := <-r.taskChan:
			r.processTask(task, id)
		}
	}
}

func (r *TaskRunner) processTask(task Task, workerID int) {
	ctx := r.ctx
	logger := r.logger.With(
		"task_id", task.ID(),
		"task_type", task.Type(),
		"worker_id", workerID,
	)

	// The id leaves the queued set only once the store no longer says
	// pending, so the monitor never enqueues it twice.
	err := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusProcessing, "")
	r.dequeued(task.ID())
	if err != nil {
		logger.Error("failed to update task status to processing", "error", err)
		return
	}

	logger.Info("processing task")

	if err := task.Execute(ctx); err != nil {
		if updateErr := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusFailed, err.Error()); updateErr != nil {
			logger.Error("failed to update task status to failed", "error", updateErr)
		}
		r.errHandler(task, err)
		return
	}

	logger.Info("task completed successfully")
	if err := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusCompleted, ""); err != nil {
		logger.Error("failed to update task status to completed", "error", err)
	}
}

// stuckTaskMonitor periodically resets tasks that have been processing for
// longer than StuckTaskAge and enqueues pending tasks that overflowed the
// queue.
func (r *TaskRunner) stuckTaskMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckTaskCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.checkStuckTasks(r.ctx)
		}
	}
}

func (r *TaskRunner) checkStuckTasks(ctx context.Context) {
	r.requeuePending(ctx)

	stuck, err := r.store.GetProcessingTasks(ctx, r.config.StuckTaskAge)
	if err != nil {
		r.logger.Error("failed to check for stuck tasks", "error", err)
		return
	}
	if len(stuck) == 0 {
		return
	}
	r.logger.Info("found stuck tasks", "count", len(stuck))
	r.resetAndRequeue(ctx, stuck, "Reset after being stuck in processing state")
}

// requeuePending enqueues pending tasks that are not already queued.
func (r *TaskRunner) requeuePending(ctx context.Context) {
	pending, err := r.store.GetPendingTasks(ctx)
	if err != nil {
		r.logger.Error("failed to check for pending tasks", "error", err)
		return
	}
	for _, rec := range pending {
		if r.isQueued(rec.ID) {
			continue
		}
		r.requeue(rec)
	}
}
