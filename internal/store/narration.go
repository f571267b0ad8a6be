package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/storybridge/storybridge-api/internal/domain"
)

// NarrationStore defines the interface for narration persistence.
type NarrationStore interface {
	// Create saves a new narration to the store.
	// Returns ErrInvalidEntity if the referenced story does not exist.
	Create(ctx context.Context, narration *domain.Narration) error

	// GetByID retrieves a narration by its unique ID.
	// Returns ErrNarrationNotFound if the narration does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Narration, error)

	// Update saves changes to an existing narration.
	// Returns ErrNarrationNotFound if the narration does not exist.
	Update(ctx context.Context, narration *domain.Narration) error

	// Delete removes a narration permanently.
	// Returns ErrNarrationNotFound if the narration does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByNarrator retrieves all narrations owned by the given
	// narrator, newest first.
	FindByNarrator(ctx context.Context, narratorID uuid.UUID) ([]*domain.Narration, error)

	// FindByStory retrieves the narrations attached to a story, optionally
	// restricted to one status. Results are ordered by most recent update
	// first, so the first published entry is the current audio source.
	FindByStory(ctx context.Context, storyID uuid.UUID, status domain.ContentStatus) ([]*domain.Narration, error)

	// FindByStatus retrieves narrations in the given status, oldest first,
	// for the review queue. A non-positive limit means no limit.
	FindByStatus(ctx context.Context, status domain.ContentStatus, limit, offset int) ([]*domain.Narration, error)

	// WithTx returns a new NarrationStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) NarrationStore
}
