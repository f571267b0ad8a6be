package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/storybridge/storybridge-api/internal/domain"
)

// BadgeStore defines the interface for badge persistence. Badges are
// create-once: a second Create for the same (user, type) pair must fail
// with ErrBadgeExists regardless of interleaving, which the
// implementation enforces with a uniqueness constraint rather than a
// read-then-write.
type BadgeStore interface {
	// Create awards a badge. Returns ErrBadgeExists if the user already
	// holds a badge of this type.
	Create(ctx context.Context, badge *domain.Badge) error

	// Exists reports whether the user already holds a badge of the given
	// type.
	Exists(ctx context.Context, userID uuid.UUID, badgeType domain.BadgeType) (bool, error)

	// FindByUser retrieves all badges held by the user, oldest first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Badge, error)
}
