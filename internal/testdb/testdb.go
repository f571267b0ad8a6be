// Package testdb provides helpers for integration tests that need a
// real PostgreSQL database. Tests are skipped unless
// STORYBRIDGE_TEST_DB_URL is set, so the default `go test ./...` run
// stays hermetic.
package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
)

// EnvTestDatabaseURL names the environment variable holding the test
// database connection string.
const EnvTestDatabaseURL = "STORYBRIDGE_TEST_DB_URL"

// URL returns the configured test database URL, or empty when unset.
func URL() string {
	return os.Getenv(EnvTestDatabaseURL)
}

// New opens a connection to the test database and applies all
// migrations. The test is skipped when no test database is configured.
// The connection is closed automatically when the test finishes.
func New(t *testing.T) *sql.DB {
	t.Helper()

	url := URL()
	if url == "" {
		t.Skipf("skipping: %s not set", EnvTestDatabaseURL)
	}

	db, err := sql.Open("pgx", url)
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "failed to ping test database")

	require.NoError(t, goose.SetDialect("postgres"))
	goose.SetLogger(goose.NopLogger())
	require.NoError(t, goose.Up(db, migrationsDir(t)), "failed to apply migrations")

	return db
}

// WithTx runs fn inside a transaction that is always rolled back,
// keeping test data out of the shared database.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "failed to begin transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("warning: transaction rollback failed: %v", err)
		}
	}()

	fn(t, tx)
}

// migrationsDir locates the migrations directory by walking up from
// the current working directory to the module root (marked by go.mod).
func migrationsDir(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, "migrations")
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not locate module root from working directory")
		}
		dir = parent
	}
}
