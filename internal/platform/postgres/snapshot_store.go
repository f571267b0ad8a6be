package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/storybridge/storybridge-api/internal/domain"
	"github.com/storybridge/storybridge-api/internal/platform/logger"
	"github.com/storybridge/storybridge-api/internal/store"
)

// PostgresSnapshotStore implements the store.SnapshotStore interface
// using a PostgreSQL database.
type PostgresSnapshotStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSnapshotStore creates a new PostgreSQL implementation of
// the SnapshotStore interface.
func NewPostgresSnapshotStore(db store.DBTX, log *slog.Logger) *PostgresSnapshotStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresSnapshotStore{
		db:     db,
		logger: log.With(slog.String("component", "snapshot_store")),
	}
}

// Ensure PostgresSnapshotStore implements store.SnapshotStore interface
var _ store.SnapshotStore = (*PostgresSnapshotStore)(nil)

// Create implements store.SnapshotStore.Create
func (s *PostgresSnapshotStore) Create(ctx context.Context, snapshot *domain.MetricsSnapshot) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := snapshot.Validate(); err != nil {
		log.Warn("snapshot validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO analytics_snapshots (id, window_start, window_end, active_users,
			completed_stories, avg_session_seconds, vocab_retention_rate, quiz_success_rate, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		snapshot.ID,
		snapshot.WindowStart,
		snapshot.WindowEnd,
		snapshot.ActiveUsers,
		snapshot.CompletedStories,
		snapshot.AvgSessionSeconds,
		snapshot.VocabRetentionRate,
		snapshot.QuizSuccessRate,
		snapshot.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create snapshot",
			slog.String("error", err.Error()),
			slog.String("snapshot_id", snapshot.ID.String()))
		return err
	}

	return nil
}

// FindRecent implements store.SnapshotStore.FindRecent
func (s *PostgresSnapshotStore) FindRecent(ctx context.Context, limit int) ([]*domain.MetricsSnapshot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, window_start, window_end, active_users, completed_stories,
			avg_session_seconds, vocab_retention_rate, quiz_success_rate, created_at
		FROM analytics_snapshots
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		log.Error("failed to query snapshots", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	var snapshots []*domain.MetricsSnapshot
	for rows.Next() {
		var snapshot domain.MetricsSnapshot
		var windowStart, windowEnd, createdAt time.Time

		err := rows.Scan(
			&snapshot.ID,
			&windowStart,
			&windowEnd,
			&snapshot.ActiveUsers,
			&snapshot.CompletedStories,
			&snapshot.AvgSessionSeconds,
			&snapshot.VocabRetentionRate,
			&snapshot.QuizSuccessRate,
			&createdAt,
		)
		if err != nil {
			log.Error("failed to scan snapshot row", slog.String("error", err.Error()))
			return nil, err
		}

		snapshot.WindowStart = windowStart.UTC()
		snapshot.WindowEnd = windowEnd.UTC()
		snapshot.CreatedAt = createdAt.UTC()
		snapshots = append(snapshots, &snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return snapshots, nil
}
