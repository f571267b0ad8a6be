package task

import (
	"context"

	"github.com/google/uuid"
)

// SnapshotTaskType is the task type for scheduled analytics rollups.
const SnapshotTaskType = "analytics_snapshot"

// SnapshotFunc computes and persists one analytics snapshot.
type SnapshotFunc func(ctx context.Context) error

// SnapshotTask wraps an analytics rollup so it can run on the task
// runner's schedule. Each scheduled tick gets a fresh instance with
// its own ID.
type SnapshotTask struct {
	id      uuid.UUID
	compute SnapshotFunc
}

// NewSnapshotTask creates a snapshot rollup task.
func NewSnapshotTask(compute SnapshotFunc) *SnapshotTask {
	return &SnapshotTask{
		id:      uuid.New(),
		compute: compute,
	}
}

// ID returns the unique identifier for this task instance.
func (t *SnapshotTask) ID() uuid.UUID { return t.id }

// Type returns the task type.
func (t *SnapshotTask) Type() string { return SnapshotTaskType }

// Execute computes and persists the snapshot.
func (t *SnapshotTask) Execute(ctx context.Context) error {
	return t.compute(ctx)
}
