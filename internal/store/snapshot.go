package store

import (
	"context"

	"github.com/storybridge/storybridge-api/internal/domain"
)

// SnapshotStore defines the interface for persisted analytics rollups.
type SnapshotStore interface {
	// Create persists one metrics snapshot.
	Create(ctx context.Context, snapshot *domain.MetricsSnapshot) error

	// FindRecent retrieves the most recent snapshots, newest first.
	FindRecent(ctx context.Context, limit int) ([]*domain.MetricsSnapshot, error)
}
