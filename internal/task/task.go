// Package task provides in-process background job execution: a bounded
// queue, a worker pool draining it, and a runner that schedules
// recurring jobs (such as the periodic analytics rollup) onto the queue.
package task

import (
	"context"

	"github.com/google/uuid"
)

// Task represents a unit of background work.
type Task interface {
	// ID returns the unique identifier for this task instance
	ID() uuid.UUID

	// Type returns a stable name for the kind of work, used in logs
	Type() string

	// Execute performs the work, respecting ctx cancellation
	Execute(ctx context.Context) error
}

// QueueReader defines the interface for consuming tasks from a queue.
type QueueReader interface {
	// GetChannel returns a channel that can be used to receive tasks
	GetChannel() <-chan Task
}

// QueueWriter defines the interface for submitting tasks to a queue.
type QueueWriter interface {
	// Enqueue adds a task to the queue for processing
	Enqueue(task Task) error
}
