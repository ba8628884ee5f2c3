package tasks

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusRunning Status = "RUNNING"
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
)

// Task is the polled record of a background job. Result is set on success,
// Error on failure.
type Task struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Status    Status      `json:"status"`
	Result    interface{} `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	StartedAt *time.Time  `json:"started_at,omitempty"`
	EndedAt   *time.Time  `json:"ended_at,omitempty"`
}

// TaskFunc is the unit of background work. It runs on a worker goroutine,
// decoupled from the request that submitted it.
type TaskFunc func(ctx context.Context) (interface{}, error)

type job struct {
	id string
	fn TaskFunc
}

// Runner executes submitted work on a fixed worker pool and keeps task
// records for the polling endpoint. Submit never blocks the caller on the
// work itself.
type Runner struct {
	workers int

	mu    sync.RWMutex
	tasks map[string]*Task
	queue chan job
}

func NewRunner(workers, queueSize int) *Runner {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Runner{
		workers: workers,
		tasks:   make(map[string]*Task),
		queue:   make(chan job, queueSize),
	}
}

// Start launches the worker pool. Workers drain until ctx is cancelled.
func (r *Runner) Start(ctx context.Context) {
	for i := 0; i < r.workers; i++ {
		go r.worker(ctx)
	}
}

func (r *Runner) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-r.queue:
			r.run(ctx, j)
		}
	}
}

func (r *Runner) run(ctx context.Context, j job) {
	now := time.Now().UTC()
	r.update(j.id, func(t *Task) {
		t.Status = StatusRunning
		t.StartedAt = &now
	})

	result, err := j.fn(ctx)

	ended := time.Now().UTC()
	r.update(j.id, func(t *Task) {
		t.EndedAt = &ended
		if err != nil {
			t.Status = StatusFailure
			t.Error = err.Error()
			log.Printf("Task failed: %s (%s): %v", t.Name, t.ID, err)
			return
		}
		t.Status = StatusSuccess
		t.Result = result
	})
}

// Submit registers the task and enqueues it, returning the task id
// immediately. A full queue fails the task up front rather than blocking the
// request worker.
func (r *Runner) Submit(name string, fn TaskFunc) string {
	id := uuid.NewString()
	task := &Task{
		ID:        id,
		Name:      name,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	r.mu.Lock()
	r.tasks[id] = task
	r.mu.Unlock()

	select {
	case r.queue <- job{id: id, fn: fn}:
	default:
		r.update(id, func(t *Task) {
			t.Status = StatusFailure
			t.Error = "task queue full"
		})
	}
	return id
}

// Get returns a snapshot of the task record.
func (r *Runner) Get(id string) (Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *task, true
}

func (r *Runner) update(id string, apply func(*Task)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if task, ok := r.tasks[id]; ok {
		apply(task)
	}
}
