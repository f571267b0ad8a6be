package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storybridge/storybridge-api/internal/domain"
	"github.com/storybridge/storybridge-api/internal/platform/logger"
	"github.com/storybridge/storybridge-api/internal/store"
)

// PostgresStoryStore implements the store.StoryStore interface using a
// PostgreSQL database. Vocabulary and quizzes are persisted as JSONB
// columns.
type PostgresStoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStoryStore creates a new PostgreSQL implementation of the
// StoryStore interface.
func NewPostgresStoryStore(db store.DBTX, log *slog.Logger) *PostgresStoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresStoryStore{
		db:     db,
		logger: log.With(slog.String("component", "story_store")),
	}
}

// Ensure PostgresStoryStore implements store.StoryStore interface
var _ store.StoryStore = (*PostgresStoryStore)(nil)

const storyColumns = `id, title, text, language, age_group, vocabulary, quizzes,
	creator_id, status, audio_id, review_notes, created_at, updated_at`

// Create implements store.StoryStore.Create
func (s *PostgresStoryStore) Create(ctx context.Context, story *domain.Story) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := story.Validate(); err != nil {
		log.Warn("story validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	vocabJSON, quizJSON, err := marshalStoryFields(story)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO stories (id, title, text, language, age_group, vocabulary, quizzes,
			creator_id, status, audio_id, review_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		story.ID,
		story.Title,
		story.Text,
		story.Language,
		story.AgeGroup,
		vocabJSON,
		quizJSON,
		story.CreatorID,
		story.Status,
		story.AudioID,
		story.ReviewNotes,
		story.CreatedAt,
		story.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrInvalidEntity
		}
		log.Error("failed to create story",
			slog.String("error", err.Error()),
			slog.String("story_id", story.ID.String()))
		return err
	}

	log.Info("story created",
		slog.String("story_id", story.ID.String()),
		slog.String("creator_id", story.CreatorID.String()))
	return nil
}

// GetByID implements store.StoryStore.GetByID
func (s *PostgresStoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Story, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`SELECT %s FROM stories WHERE id = $1`, storyColumns)
	row := s.db.QueryRowContext(ctx, query, id)

	story, err := scanStory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrStoryNotFound
		}
		log.Error("failed to get story",
			slog.String("error", err.Error()),
			slog.String("story_id", id.String()))
		return nil, err
	}

	return story, nil
}

// Update implements store.StoryStore.Update
func (s *PostgresStoryStore) Update(ctx context.Context, story *domain.Story) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := story.Validate(); err != nil {
		log.Warn("story validation failed during update",
			slog.String("error", err.Error()))
		return err
	}

	vocabJSON, quizJSON, err := marshalStoryFields(story)
	if err != nil {
		return err
	}

	query := `
		UPDATE stories
		SET title = $2, text = $3, language = $4, age_group = $5, vocabulary = $6,
			quizzes = $7, status = $8, audio_id = $9, review_notes = $10, updated_at = $11
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		story.ID,
		story.Title,
		story.Text,
		story.Language,
		story.AgeGroup,
		vocabJSON,
		quizJSON,
		story.Status,
		story.AudioID,
		story.ReviewNotes,
		story.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update story",
			slog.String("error", err.Error()),
			slog.String("story_id", story.ID.String()))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrStoryNotFound
	}

	return nil
}

// Delete implements store.StoryStore.Delete
func (s *PostgresStoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM stories WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete story",
			slog.String("error", err.Error()),
			slog.String("story_id", id.String()))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrStoryNotFound
	}

	log.Info("story deleted", slog.String("story_id", id.String()))
	return nil
}

// FindByCreator implements store.StoryStore.FindByCreator
func (s *PostgresStoryStore) FindByCreator(ctx context.Context, creatorID uuid.UUID) ([]*domain.Story, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM stories
		WHERE creator_id = $1
		ORDER BY created_at DESC
	`, storyColumns)

	return s.queryStories(ctx, query, creatorID)
}

// Find implements store.StoryStore.Find
func (s *PostgresStoryStore) Find(ctx context.Context, filter store.StoryFilter, limit, offset int) ([]*domain.Story, error) {
	var conditions []string
	var args []any

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Language != "" {
		args = append(args, filter.Language)
		conditions = append(conditions, fmt.Sprintf("language = $%d", len(args)))
	}
	if filter.AgeGroup != "" {
		args = append(args, filter.AgeGroup)
		conditions = append(conditions, fmt.Sprintf("age_group = $%d", len(args)))
	}
	if filter.NarratedOnly {
		conditions = append(conditions, "audio_id IS NOT NULL")
	}

	query := fmt.Sprintf(`SELECT %s FROM stories`, storyColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC"
	// A non-positive limit means no limit; LIMIT 0 would return nothing.
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return s.queryStories(ctx, query, args...)
}

// WithTx implements store.StoryStore.WithTx
func (s *PostgresStoryStore) WithTx(tx *sql.Tx) store.StoryStore {
	return &PostgresStoryStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresStoryStore) queryStories(ctx context.Context, query string, args ...any) ([]*domain.Story, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query stories", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	var stories []*domain.Story
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			log.Error("failed to scan story row", slog.String("error", err.Error()))
			return nil, err
		}
		stories = append(stories, story)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stories, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan logic.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanStory(row rowScanner) (*domain.Story, error) {
	var story domain.Story
	var status string
	var vocabJSON, quizJSON []byte
	var audioID uuid.NullUUID
	var reviewNotes sql.NullString
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&story.ID,
		&story.Title,
		&story.Text,
		&story.Language,
		&story.AgeGroup,
		&vocabJSON,
		&quizJSON,
		&story.CreatorID,
		&status,
		&audioID,
		&reviewNotes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(vocabJSON) > 0 {
		if err := json.Unmarshal(vocabJSON, &story.Vocabulary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal vocabulary: %w", err)
		}
	}
	if len(quizJSON) > 0 {
		if err := json.Unmarshal(quizJSON, &story.Quizzes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal quizzes: %w", err)
		}
	}

	story.Status = domain.ContentStatus(status)
	if audioID.Valid {
		id := audioID.UUID
		story.AudioID = &id
	}
	story.ReviewNotes = reviewNotes.String
	story.CreatedAt = createdAt.UTC()
	story.UpdatedAt = updatedAt.UTC()

	return &story, nil
}

func marshalStoryFields(story *domain.Story) ([]byte, []byte, error) {
	vocab := story.Vocabulary
	if vocab == nil {
		vocab = []string{}
	}
	vocabJSON, err := json.Marshal(vocab)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal vocabulary: %w", err)
	}

	quizzes := story.Quizzes
	if quizzes == nil {
		quizzes = []json.RawMessage{}
	}
	quizJSON, err := json.Marshal(quizzes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal quizzes: %w", err)
	}

	return vocabJSON, quizJSON, nil
}
