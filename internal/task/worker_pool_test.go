package task

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerPoolDefaultsInvalidCount(t *testing.T) {
	logger := setupTestLogger()
	q := NewQueue(1, logger)

	pool := NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 0}, logger)
	assert.Equal(t, 1, pool.workerCount)

	pool = NewWorkerPool(q, WorkerPoolConfig{WorkerCount: -3}, logger)
	assert.Equal(t, 1, pool.workerCount)

	pool = NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 4}, logger)
	assert.Equal(t, 4, pool.workerCount)
}

func TestWorkerPoolExecutesTasks(t *testing.T) {
	logger := setupTestLogger()
	q := NewQueue(10, logger)
	pool := NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 2}, logger)

	done := make(chan struct{}, 3)
	task := func() *testTask {
		return newTestTask("test", func(ctx context.Context) error {
			done <- struct{}{}
			return nil
		})
	}

	for i := 0; i < 3; i++ {
		require.NoError(t, q.Enqueue(task()))
	}

	pool.Start()
	defer pool.Stop()

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for task execution")
		}
	}
}

func TestWorkerPoolErrorHandler(t *testing.T) {
	logger := setupTestLogger()
	q := NewQueue(1, logger)
	pool := NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 1}, logger)

	wantErr := errors.New("boom")
	failing := newTestTask("test", func(ctx context.Context) error {
		return wantErr
	})

	var mu sync.Mutex
	var gotTask Task
	var gotErr error
	handled := make(chan struct{})
	pool.SetErrorHandler(func(task Task, err error) {
		mu.Lock()
		gotTask, gotErr = task, err
		mu.Unlock()
		close(handled)
	})

	require.NoError(t, q.Enqueue(failing))
	pool.Start()
	defer pool.Stop()

	select {
	case <-handled:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for error handler")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, failing.ID(), gotTask.ID())
	assert.ErrorIs(t, gotErr, wantErr)
}

func TestWorkerPoolRecoversFromPanic(t *testing.T) {
	logger := setupTestLogger()
	q := NewQueue(2, logger)
	pool := NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 1}, logger)

	handled := make(chan error, 1)
	pool.SetErrorHandler(func(task Task, err error) {
		handled <- err
	})

	panicking := newTestTask("test", func(ctx context.Context) error {
		panic("unexpected state")
	})
	after := newTestTask("test", nil)
	done := make(chan struct{})
	after.execFn = func(ctx context.Context) error {
		close(done)
		return nil
	}

	require.NoError(t, q.Enqueue(panicking))
	require.NoError(t, q.Enqueue(after))
	pool.Start()
	defer pool.Stop()

	select {
	case err := <-handled:
		assert.Contains(t, err.Error(), "task panicked")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for panic to surface as error")
	}

	// The worker must survive the panic and process the next task.
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not process tasks after a panic")
	}
}

func TestWorkerPoolStopWaitsForWorkers(t *testing.T) {
	logger := setupTestLogger()
	q := NewQueue(1, logger)
	pool := NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 2}, logger)

	pool.Start()

	finished := make(chan struct{})
	go func() {
		pool.Stop()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestWorkerPoolStopsOnQueueClose(t *testing.T) {
	logger := setupTestLogger()
	q := NewQueue(1, logger)
	pool := NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 1}, logger)

	pool.Start()
	q.Close()

	finished := make(chan struct{})
	go func() {
		pool.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not exit after queue close")
	}
}
