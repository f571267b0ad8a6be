package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/storybridge/storybridge-api/internal/domain"
	"github.com/storybridge/storybridge-api/internal/platform/logger"
	"github.com/storybridge/storybridge-api/internal/store"
)

// PostgresReviewStore implements the store.ReviewStore interface using
// a PostgreSQL database. The content_reviews table is append-only.
type PostgresReviewStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewStore creates a new PostgreSQL implementation of the
// ReviewStore interface.
func NewPostgresReviewStore(db store.DBTX, log *slog.Logger) *PostgresReviewStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresReviewStore{
		db:     db,
		logger: log.With(slog.String("component", "review_store")),
	}
}

// Ensure PostgresReviewStore implements store.ReviewStore interface
var _ store.ReviewStore = (*PostgresReviewStore)(nil)

// Create implements store.ReviewStore.Create
func (s *PostgresReviewStore) Create(ctx context.Context, review *domain.ContentReview) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := review.Validate(); err != nil {
		log.Warn("review validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO content_reviews (id, content_type, content_id, reviewer_id, decision, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		review.ID,
		review.ContentType,
		review.ContentID,
		review.ReviewerID,
		review.Decision,
		review.Notes,
		review.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrInvalidEntity
		}
		log.Error("failed to create review record",
			slog.String("error", err.Error()),
			slog.String("review_id", review.ID.String()))
		return err
	}

	return nil
}

// FindByContent implements store.ReviewStore.FindByContent
func (s *PostgresReviewStore) FindByContent(ctx context.Context, contentType domain.ContentType, contentID uuid.UUID) ([]*domain.ContentReview, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, content_type, content_id, reviewer_id, decision, notes, created_at
		FROM content_reviews
		WHERE content_type = $1 AND content_id = $2
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, contentType, contentID)
	if err != nil {
		log.Error("failed to query reviews", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	var reviews []*domain.ContentReview
	for rows.Next() {
		var review domain.ContentReview
		var contentTypeStr, decision string
		var notes sql.NullString
		var createdAt time.Time

		err := rows.Scan(
			&review.ID,
			&contentTypeStr,
			&review.ContentID,
			&review.ReviewerID,
			&decision,
			&notes,
			&createdAt,
		)
		if err != nil {
			log.Error("failed to scan review row", slog.String("error", err.Error()))
			return nil, err
		}

		review.ContentType = domain.ContentType(contentTypeStr)
		review.Decision = domain.ReviewDecision(decision)
		review.Notes = notes.String
		review.CreatedAt = createdAt.UTC()
		reviews = append(reviews, &review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reviews, nil
}

// WithTx implements store.ReviewStore.WithTx
func (s *PostgresReviewStore) WithTx(tx *sql.Tx) store.ReviewStore {
	return &PostgresReviewStore{
		db:     tx,
		logger: s.logger,
	}
}
