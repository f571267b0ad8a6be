package store

import (
	"context"

	"github.com/google/uuid"
)

// BlobStore defines the interface for opaque binary assets (narration
// audio). Assets are immutable once stored.
type BlobStore interface {
	// Put stores the asset and returns its generated ID.
	Put(ctx context.Context, data []byte, contentType string) (uuid.UUID, error)

	// Get retrieves the asset bytes and content type.
	// Returns ErrAssetNotFound if the asset does not exist.
	Get(ctx context.Context, id uuid.UUID) ([]byte, string, error)

	// Delete removes the asset. Returns ErrAssetNotFound if the asset
	// does not exist; callers that clean up after content deletion treat
	// that as best-effort and ignore it.
	Delete(ctx context.Context, id uuid.UUID) error
}
