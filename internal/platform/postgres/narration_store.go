package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/storybridge/storybridge-api/internal/domain"
	"github.com/storybridge/storybridge-api/internal/platform/logger"
	"github.com/storybridge/storybridge-api/internal/store"
)

// PostgresNarrationStore implements the store.NarrationStore interface
// using a PostgreSQL database.
type PostgresNarrationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNarrationStore creates a new PostgreSQL implementation of
// the NarrationStore interface.
func NewPostgresNarrationStore(db store.DBTX, log *slog.Logger) *PostgresNarrationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresNarrationStore{
		db:     db,
		logger: log.With(slog.String("component", "narration_store")),
	}
}

// Ensure PostgresNarrationStore implements store.NarrationStore interface
var _ store.NarrationStore = (*PostgresNarrationStore)(nil)

const narrationColumns = `id, story_id, narrator_id, audio_id, transcript, status,
	review_notes, created_at, updated_at`

// Create implements store.NarrationStore.Create
func (s *PostgresNarrationStore) Create(ctx context.Context, narration *domain.Narration) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := narration.Validate(); err != nil {
		log.Warn("narration validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO narrations (id, story_id, narrator_id, audio_id, transcript, status,
			review_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		narration.ID,
		narration.StoryID,
		narration.NarratorID,
		narration.AudioID,
		narration.Transcript,
		narration.Status,
		narration.ReviewNotes,
		narration.CreatedAt,
		narration.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			log.Debug("narration references missing story or user",
				slog.String("story_id", narration.StoryID.String()))
			return store.ErrInvalidEntity
		}
		log.Error("failed to create narration",
			slog.String("error", err.Error()),
			slog.String("narration_id", narration.ID.String()))
		return err
	}

	log.Info("narration created",
		slog.String("narration_id", narration.ID.String()),
		slog.String("story_id", narration.StoryID.String()))
	return nil
}

// GetByID implements store.NarrationStore.GetByID
func (s *PostgresNarrationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Narration, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`SELECT %s FROM narrations WHERE id = $1`, narrationColumns)
	row := s.db.QueryRowContext(ctx, query, id)

	narration, err := scanNarration(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNarrationNotFound
		}
		log.Error("failed to get narration",
			slog.String("error", err.Error()),
			slog.String("narration_id", id.String()))
		return nil, err
	}

	return narration, nil
}

// Update implements store.NarrationStore.Update
func (s *PostgresNarrationStore) Update(ctx context.Context, narration *domain.Narration) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := narration.Validate(); err != nil {
		log.Warn("narration validation failed during update",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		UPDATE narrations
		SET audio_id = $2, transcript = $3, status = $4, review_notes = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		narration.ID,
		narration.AudioID,
		narration.Transcript,
		narration.Status,
		narration.ReviewNotes,
		narration.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update narration",
			slog.String("error", err.Error()),
			slog.String("narration_id", narration.ID.String()))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrNarrationNotFound
	}

	return nil
}

// Delete implements store.NarrationStore.Delete
func (s *PostgresNarrationStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM narrations WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete narration",
			slog.String("error", err.Error()),
			slog.String("narration_id", id.String()))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrNarrationNotFound
	}

	log.Info("narration deleted", slog.String("narration_id", id.String()))
	return nil
}

// FindByNarrator implements store.NarrationStore.FindByNarrator
func (s *PostgresNarrationStore) FindByNarrator(ctx context.Context, narratorID uuid.UUID) ([]*domain.Narration, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM narrations
		WHERE narrator_id = $1
		ORDER BY created_at DESC
	`, narrationColumns)

	return s.queryNarrations(ctx, query, narratorID)
}

// FindByStory implements store.NarrationStore.FindByStory
func (s *PostgresNarrationStore) FindByStory(ctx context.Context, storyID uuid.UUID, status domain.ContentStatus) ([]*domain.Narration, error) {
	if status == "" {
		query := fmt.Sprintf(`
			SELECT %s FROM narrations
			WHERE story_id = $1
			ORDER BY updated_at DESC
		`, narrationColumns)
		return s.queryNarrations(ctx, query, storyID)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM narrations
		WHERE story_id = $1 AND status = $2
		ORDER BY updated_at DESC
	`, narrationColumns)
	return s.queryNarrations(ctx, query, storyID, status)
}

// FindByStatus implements store.NarrationStore.FindByStatus
func (s *PostgresNarrationStore) FindByStatus(ctx context.Context, status domain.ContentStatus, limit, offset int) ([]*domain.Narration, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM narrations
		WHERE status = $1
		ORDER BY created_at ASC
	`, narrationColumns)
	args := []any{status}

	// A non-positive limit means no limit; LIMIT 0 would return nothing.
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return s.queryNarrations(ctx, query, args...)
}

// WithTx implements store.NarrationStore.WithTx
func (s *PostgresNarrationStore) WithTx(tx *sql.Tx) store.NarrationStore {
	return &PostgresNarrationStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresNarrationStore) queryNarrations(ctx context.Context, query string, args ...any) ([]*domain.Narration, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query narrations", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	var narrations []*domain.Narration
	for rows.Next() {
		narration, err := scanNarration(rows)
		if err != nil {
			log.Error("failed to scan narration row", slog.String("error", err.Error()))
			return nil, err
		}
		narrations = append(narrations, narration)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return narrations, nil
}

func scanNarration(row rowScanner) (*domain.Narration, error) {
	var narration domain.Narration
	var status string
	var audioID uuid.NullUUID
	var transcript, reviewNotes sql.NullString
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&narration.ID,
		&narration.StoryID,
		&narration.NarratorID,
		&audioID,
		&transcript,
		&status,
		&reviewNotes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	narration.Status = domain.ContentStatus(status)
	if audioID.Valid {
		id := audioID.UUID
		narration.AudioID = &id
	}
	narration.Transcript = transcript.String
	narration.ReviewNotes = reviewNotes.String
	narration.CreatedAt = createdAt.UTC()
	narration.UpdatedAt = updatedAt.UTC()

	return &narration, nil
}
