package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/storybridge/storybridge-api/internal/domain"
)

// ReviewStore defines the interface for the immutable review audit log.
// Records are only ever inserted and read; there is no update or delete.
type ReviewStore interface {
	// Create appends one audit record for a review action.
	Create(ctx context.Context, review *domain.ContentReview) error

	// FindByContent retrieves the audit trail for one content item,
	// newest first.
	FindByContent(ctx context.Context, contentType domain.ContentType, contentID uuid.UUID) ([]*domain.ContentReview, error)

	// WithTx returns a new ReviewStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) ReviewStore
}
