package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storybridge/storybridge-api/internal/domain"
)

// ProgressStore defines the interface for progress persistence. There
// is at most one record per (user, story) pair; Upsert enforces that
// composite key.
type ProgressStore interface {
	// Upsert inserts the progress record, or replaces the existing one
	// for the same (user, story) pair while preserving its ID and
	// creation timestamp.
	Upsert(ctx context.Context, progress *domain.Progress) error

	// GetByUserAndStory retrieves the record for one (user, story) pair.
	// Returns ErrProgressNotFound if no record exists.
	GetByUserAndStory(ctx context.Context, userID, storyID uuid.UUID) (*domain.Progress, error)

	// FindByUser retrieves the user's entire progress history.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Progress, error)

	// FindUpdatedBetween retrieves all records with updated_at inside the
	// half-open interval [start, end), for analytics rollups.
	FindUpdatedBetween(ctx context.Context, start, end time.Time) ([]*domain.Progress, error)
}
