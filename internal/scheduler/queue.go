package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/logger"
)

// Task is one unit of work run by a Queue.
type Task func(ctx context.Context) error

type job struct {
	reason string
	task   Task
}

// Queue runs tasks one at a time in the order they were enqueued. A failing
// or panicking task is logged and does not stop the tasks behind it.
type Queue struct {
	name   string
	logger logger.Logger

	mu      sync.Mutex
	pending []job
	stopped bool

	wake   chan struct{}
	stopCh chan struct{}
	done   chan struct{}

	startOnce sync.Once
	once      sync.Once
}

// NewQueue creates a stopped queue. Tasks enqueued before Start wait for it.
func NewQueue(name string, log logger.Logger) *Queue {
	return &Queue{
		name:   name,
		logger: log,
		wake:   make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Enqueue appends task to the queue. It reports false once the queue is stopped.
func (q *Queue) Enqueue(reason string, task Task) bool {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		q.logger.Warn("queue stopped, dropping task",
			logger.String("queue", q.name),
			logger.String("reason", reason))
		return false
	}
	q.pending = append(q.pending, job{reason: reason, task: task})
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

// Len returns the number of tasks waiting to run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Start launches the worker goroutine. Later calls do nothing. Once ctx is
// done the queue behaves as if Stop had been called.
func (q *Queue) Start(ctx context.Context) {
	q.startOnce.Do(func() { go q.work(ctx) })
}

func (q *Queue) work(ctx context.Context) {
	defer close(q.done)
	for {
		for {
			j, ok := q.next()
			if !ok {
				break
			}
			q.run(ctx, j)
		}

		select {
		case <-q.wake:
		case <-q.stopCh:
			return
		case <-ctx.Done():
			q.logger.Debug("queue context done", logger.String("queue", q.name))
			q.Stop()
			return
		}
	}
}

// Stop refuses new tasks and drops the ones still waiting. A running task
// finishes; Wait blocks until it has.
func (q *Queue) Stop() {
	q.once.Do(func() {
		q.mu.Lock()
		q.stopped = true
		dropped := len(q.pending)
		q.pending = nil
		q.mu.Unlock()

		close(q.stopCh)
		if dropped > 0 {
			q.logger.Info("queue stopped with pending tasks",
				logger.String("queue", q.name),
				logger.Int("dropped", dropped))
		}
	})
}

// Wait blocks until the worker started by Start has exited. Only call it
// after Start.
func (q *Queue) Wait() {
	<-q.done
}

func (q *Queue) next() (job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.stopped || len(q.pending) == 0 {
		return job{}, false
	}
	j := q.pending[0]
	q.pending[0] = job{}
	q.pending = q.pending[1:]
	return j, true
}

func (q *Queue) run(ctx context.Context, j job) {
	start := time.Now()
	err := safeRun(ctx, j.task)
	if err != nil {
		q.logger.Error("queued task failed",
			logger.String("queue", q.name),
			logger.String("reason", j.reason),
			logger.Error(err))
		return
	}
	q.logger.Debug("queued task done",
		logger.String("queue", q.name),
		logger.String("reason", j.reason),
		logger.Duration("took", time.Since(start)))
}

func safeRun(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return task(ctx)
}
