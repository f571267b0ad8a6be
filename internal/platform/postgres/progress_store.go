package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/storybridge/storybridge-api/internal/domain"
	"github.com/storybridge/storybridge-api/internal/platform/logger"
	"github.com/storybridge/storybridge-api/internal/store"
)

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database. The (user_id, story_id) pair carries a
// unique constraint; Upsert relies on it via ON CONFLICT.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of
// the ProgressStore interface.
func NewPostgresProgressStore(db store.DBTX, log *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: log.With(slog.String("component", "progress_store")),
	}
}

// Ensure PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

const progressColumns = `id, user_id, story_id, completed, time_spent, vocabulary,
	quiz_results, coins_earned, created_at, updated_at`

// Upsert implements store.ProgressStore.Upsert
func (s *PostgresProgressStore) Upsert(ctx context.Context, progress *domain.Progress) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := progress.Validate(); err != nil {
		log.Warn("progress validation failed during upsert",
			slog.String("error", err.Error()))
		return err
	}

	vocabJSON, quizJSON, err := marshalProgressFields(progress)
	if err != nil {
		return err
	}

	// On conflict the existing row keeps its id and created_at so the
	// record is stable across repeated syncs.
	query := `
		INSERT INTO progress (id, user_id, story_id, completed, time_spent, vocabulary,
			quiz_results, coins_earned, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, story_id) DO UPDATE
		SET completed = EXCLUDED.completed,
			time_spent = EXCLUDED.time_spent,
			vocabulary = EXCLUDED.vocabulary,
			quiz_results = EXCLUDED.quiz_results,
			coins_earned = EXCLUDED.coins_earned,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		progress.ID,
		progress.UserID,
		progress.StoryID,
		progress.Completed,
		progress.TimeSpent,
		vocabJSON,
		quizJSON,
		progress.CoinsEarned,
		progress.CreatedAt,
		progress.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrInvalidEntity
		}
		log.Error("failed to upsert progress",
			slog.String("error", err.Error()),
			slog.String("user_id", progress.UserID.String()),
			slog.String("story_id", progress.StoryID.String()))
		return err
	}

	return nil
}

// GetByUserAndStory implements store.ProgressStore.GetByUserAndStory
func (s *PostgresProgressStore) GetByUserAndStory(ctx context.Context, userID, storyID uuid.UUID) (*domain.Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`
		SELECT %s FROM progress
		WHERE user_id = $1 AND story_id = $2
	`, progressColumns)

	row := s.db.QueryRowContext(ctx, query, userID, storyID)
	progress, err := scanProgress(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressNotFound
		}
		log.Error("failed to get progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	return progress, nil
}

// FindByUser implements store.ProgressStore.FindByUser
func (s *PostgresProgressStore) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Progress, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM progress
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, progressColumns)

	return s.queryProgress(ctx, query, userID)
}

// FindUpdatedBetween implements store.ProgressStore.FindUpdatedBetween
func (s *PostgresProgressStore) FindUpdatedBetween(ctx context.Context, start, end time.Time) ([]*domain.Progress, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM progress
		WHERE updated_at >= $1 AND updated_at < $2
		ORDER BY updated_at ASC
	`, progressColumns)

	return s.queryProgress(ctx, query, start, end)
}

func (s *PostgresProgressStore) queryProgress(ctx context.Context, query string, args ...any) ([]*domain.Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query progress", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	var records []*domain.Progress
	for rows.Next() {
		progress, err := scanProgress(rows)
		if err != nil {
			log.Error("failed to scan progress row", slog.String("error", err.Error()))
			return nil, err
		}
		records = append(records, progress)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func scanProgress(row rowScanner) (*domain.Progress, error) {
	var progress domain.Progress
	var vocabJSON, quizJSON []byte
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&progress.ID,
		&progress.UserID,
		&progress.StoryID,
		&progress.Completed,
		&progress.TimeSpent,
		&vocabJSON,
		&quizJSON,
		&progress.CoinsEarned,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(vocabJSON) > 0 {
		if err := json.Unmarshal(vocabJSON, &progress.Vocabulary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal vocabulary: %w", err)
		}
	}
	if len(quizJSON) > 0 {
		if err := json.Unmarshal(quizJSON, &progress.QuizResults); err != nil {
			return nil, fmt.Errorf("failed to unmarshal quiz results: %w", err)
		}
	}

	progress.CreatedAt = createdAt.UTC()
	progress.UpdatedAt = updatedAt.UTC()

	return &progress, nil
}

func marshalProgressFields(progress *domain.Progress) ([]byte, []byte, error) {
	vocab := progress.Vocabulary
	if vocab == nil {
		vocab = []domain.VocabularyEntry{}
	}
	vocabJSON, err := json.Marshal(vocab)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal vocabulary: %w", err)
	}

	results := progress.QuizResults
	if results == nil {
		results = []domain.QuizResult{}
	}
	quizJSON, err := json.Marshal(results)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal quiz results: %w", err)
	}

	return vocabJSON, quizJSON, nil
}
