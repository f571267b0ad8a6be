package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/storybridge/storybridge-api/internal/domain"
)

// StoryFilter narrows story listings. Zero values mean "any".
type StoryFilter struct {
	Status   domain.ContentStatus
	Language string
	AgeGroup string

	// NarratedOnly restricts results to stories with a resolved audio
	// reference.
	NarratedOnly bool
}

// StoryStore defines the interface for story persistence.
type StoryStore interface {
	// Create saves a new story to the store.
	// Returns validation errors from the domain Story if data is invalid.
	Create(ctx context.Context, story *domain.Story) error

	// GetByID retrieves a story by its unique ID.
	// Returns ErrStoryNotFound if the story does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Story, error)

	// Update saves changes to an existing story.
	// Returns ErrStoryNotFound if the story does not exist.
	Update(ctx context.Context, story *domain.Story) error

	// Delete removes a story permanently.
	// Returns ErrStoryNotFound if the story does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByCreator retrieves all stories owned by the given creator,
	// newest first.
	FindByCreator(ctx context.Context, creatorID uuid.UUID) ([]*domain.Story, error)

	// Find retrieves stories matching the filter, newest first.
	// A non-positive limit means no limit.
	Find(ctx context.Context, filter StoryFilter, limit, offset int) ([]*domain.Story, error)

	// WithTx returns a new StoryStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) StoryStore
}
