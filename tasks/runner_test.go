package tasks

import (
	"context"
	"errors"
	"testing"
	"time"
)

func waitForTerminal(t *testing.T, r *Runner, id string) Task {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		task, ok := r.Get(id)
		if !ok {
			t.Fatalf("task %s disappeared", id)
		}
		if task.Status == StatusSuccess || task.Status == StatusFailure {
			return task
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("task %s never reached a terminal status", id)
	return Task{}
}

func TestRunnerSuccess(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRunner(2, 10)
	r.Start(ctx)

	id := r.Submit("ok_task", func(ctx context.Context) (interface{}, error) {
		return map[string]interface{}{"answer": 42}, nil
	})
	if id == "" {
		t.Fatal("Submit returned empty id")
	}

	task := waitForTerminal(t, r, id)
	if task.Status != StatusSuccess {
		t.Fatalf("status = %s, want SUCCESS (error: %s)", task.Status, task.Error)
	}
	if task.Result == nil {
		t.Error("successful task has no result")
	}
	if task.StartedAt == nil || task.EndedAt == nil {
		t.Error("timestamps not recorded")
	}
}

func TestRunnerFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRunner(1, 10)
	r.Start(ctx)

	id := r.Submit("bad_task", func(ctx context.Context) (interface{}, error) {
		return nil, errors.New("boom")
	})

	task := waitForTerminal(t, r, id)
	if task.Status != StatusFailure {
		t.Fatalf("status = %s, want FAILURE", task.Status)
	}
	if task.Error != "boom" {
		t.Errorf("error = %q, want boom", task.Error)
	}
}

func TestRunnerUnknownTask(t *testing.T) {
	r := NewRunner(1, 10)
	if _, ok := r.Get("no-such-id"); ok {
		t.Error("unknown task id reported as found")
	}
}

func TestRunnerFullQueue(t *testing.T) {
	// No workers started, queue of one: the second submit cannot enqueue.
	r := NewRunner(1, 1)

	block := func(ctx context.Context) (interface{}, error) { return nil, nil }
	r.Submit("first", block)
	id := r.Submit("second", block)

	task, ok := r.Get(id)
	if !ok {
		t.Fatal("task record missing")
	}
	if task.Status != StatusFailure || task.Error != "task queue full" {
		t.Errorf("status = %s, error = %q", task.Status, task.Error)
	}
}

func TestRunnerZeroWorkerConfig(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A zero worker count still gets one worker; tasks must not sit
	// PENDING forever.
	r := NewRunner(0, 10)
	r.Start(ctx)

	id := r.Submit("ok_task", func(ctx context.Context) (interface{}, error) {
		return "done", nil
	})

	task := waitForTerminal(t, r, id)
	if task.Status != StatusSuccess {
		t.Fatalf("status = %s, want SUCCESS (error: %s)", task.Status, task.Error)
	}
}

func TestRunnerPendingBeforeStart(t *testing.T) {
	r := NewRunner(1, 10)

	id := r.Submit("queued", func(ctx context.Context) (interface{}, error) {
		return nil, nil
	})
	task, ok := r.Get(id)
	if !ok {
		t.Fatal("task record missing")
	}
	if task.Status != StatusPending {
		t.Errorf("status = %s, want PENDING", task.Status)
	}
}
