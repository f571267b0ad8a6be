package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/storybridge/storybridge-api/internal/platform/logger"
	"github.com/storybridge/storybridge-api/internal/store"
)

// PostgresBlobStore implements the store.BlobStore interface, keeping
// narration audio as bytea rows. Assets are written once and never
// updated; replacing audio means storing a new asset and deleting the
// old one.
type PostgresBlobStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBlobStore creates a new PostgreSQL implementation of the
// BlobStore interface.
func NewPostgresBlobStore(db store.DBTX, log *slog.Logger) *PostgresBlobStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresBlobStore{
		db:     db,
		logger: log.With(slog.String("component", "blob_store")),
	}
}

// Ensure PostgresBlobStore implements store.BlobStore interface
var _ store.BlobStore = (*PostgresBlobStore)(nil)

// Put implements store.BlobStore.Put
func (s *PostgresBlobStore) Put(ctx context.Context, data []byte, contentType string) (uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	id := uuid.New()
	query := `
		INSERT INTO assets (id, data, content_type, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query, id, data, contentType, time.Now().UTC())
	if err != nil {
		log.Error("failed to store asset",
			slog.String("error", err.Error()),
			slog.Int("size_bytes", len(data)))
		return uuid.Nil, err
	}

	log.Debug("asset stored",
		slog.String("asset_id", id.String()),
		slog.Int("size_bytes", len(data)))
	return id, nil
}

// Get implements store.BlobStore.Get
func (s *PostgresBlobStore) Get(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var data []byte
	var contentType string
	query := `SELECT data, content_type FROM assets WHERE id = $1`
	err := s.db.QueryRowContext(ctx, query, id).Scan(&data, &contentType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", store.ErrAssetNotFound
		}
		log.Error("failed to get asset",
			slog.String("error", err.Error()),
			slog.String("asset_id", id.String()))
		return nil, "", err
	}

	return data, contentType, nil
}

// Delete implements store.BlobStore.Delete
func (s *PostgresBlobStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete asset",
			slog.String("error", err.Error()),
			slog.String("asset_id", id.String()))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrAssetNotFound
	}

	return nil
}
