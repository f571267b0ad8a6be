package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/storybridge/storybridge-api/internal/domain"
	"github.com/storybridge/storybridge-api/internal/platform/logger"
	"github.com/storybridge/storybridge-api/internal/store"
)

// PostgresBadgeStore implements the store.BadgeStore interface using a
// PostgreSQL database. The unique (user_id, badge_type) constraint is
// what makes badge awards idempotent under concurrent syncs.
type PostgresBadgeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBadgeStore creates a new PostgreSQL implementation of the
// BadgeStore interface.
func NewPostgresBadgeStore(db store.DBTX, log *slog.Logger) *PostgresBadgeStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresBadgeStore{
		db:     db,
		logger: log.With(slog.String("component", "badge_store")),
	}
}

// Ensure PostgresBadgeStore implements store.BadgeStore interface
var _ store.BadgeStore = (*PostgresBadgeStore)(nil)

// Create implements store.BadgeStore.Create
func (s *PostgresBadgeStore) Create(ctx context.Context, badge *domain.Badge) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := badge.Validate(); err != nil {
		log.Warn("badge validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO badges (id, user_id, badge_type, awarded_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query, badge.ID, badge.UserID, badge.Type, badge.AwardedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrBadgeExists
		}
		if isForeignKeyViolation(err) {
			return store.ErrInvalidEntity
		}
		log.Error("failed to create badge",
			slog.String("error", err.Error()),
			slog.String("user_id", badge.UserID.String()))
		return err
	}

	log.Info("badge awarded",
		slog.String("user_id", badge.UserID.String()),
		slog.String("badge_type", string(badge.Type)))
	return nil
}

// Exists implements store.BadgeStore.Exists
func (s *PostgresBadgeStore) Exists(ctx context.Context, userID uuid.UUID, badgeType domain.BadgeType) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM badges WHERE user_id = $1 AND badge_type = $2)`
	err := s.db.QueryRowContext(ctx, query, userID, badgeType).Scan(&exists)
	if err != nil {
		log.Error("failed to check badge existence",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return false, err
	}

	return exists, nil
}

// FindByUser implements store.BadgeStore.FindByUser
func (s *PostgresBadgeStore) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Badge, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, badge_type, awarded_at
		FROM badges
		WHERE user_id = $1
		ORDER BY awarded_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query badges", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	var badges []*domain.Badge
	for rows.Next() {
		var badge domain.Badge
		var badgeType string
		var awardedAt time.Time

		if err := rows.Scan(&badge.ID, &badge.UserID, &badgeType, &awardedAt); err != nil {
			log.Error("failed to scan badge row", slog.String("error", err.Error()))
			return nil, err
		}

		badge.Type = domain.BadgeType(badgeType)
		badge.AwardedAt = awardedAt.UTC()
		badges = append(badges, &badge)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return badges, nil
}
