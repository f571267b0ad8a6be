package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storybridge/storybridge-api/internal/config"
)

const testDatabaseURL = "postgres://localhost:5432/storybridge_test"

// setRequiredEnv sets the keys without which Load fails validation.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STORYBRIDGE_DATABASE_URL", testDatabaseURL)
	t.Setenv("STORYBRIDGE_AUTH_JWT_SECRET", "test-secret-key-thats-at-least-32-chars")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, testDatabaseURL, cfg.Database.URL)
	assert.Equal(t, 60*24*30, cfg.Auth.TokenLifetimeMinutes)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 3, cfg.Content.MinRepetitions)
	assert.Equal(t, 10, cfg.Badges.WordWizardWords)
	assert.Equal(t, 5, cfg.Badges.QuizMasterAnswers)
	assert.Equal(t, 7, cfg.Analytics.WindowDays)
	assert.Equal(t, 60, cfg.Analytics.SnapshotIntervalMinutes)
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STORYBRIDGE_SERVER_PORT", "9090")
	t.Setenv("STORYBRIDGE_SERVER_LOG_LEVEL", "debug")
	t.Setenv("STORYBRIDGE_CONTENT_MIN_REPETITIONS", "5")
	t.Setenv("STORYBRIDGE_BADGES_WORD_WIZARD_WORDS", "25")
	t.Setenv("STORYBRIDGE_ANALYTICS_WINDOW_DAYS", "30")
	t.Setenv("STORYBRIDGE_ANALYTICS_SNAPSHOT_INTERVAL_MINUTES", "0")
	t.Setenv("STORYBRIDGE_AUTH_ADMIN_EMAIL", "ops@example.com")
	t.Setenv("STORYBRIDGE_AUTH_ADMIN_PASSWORD", "admin-password-1")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 5, cfg.Content.MinRepetitions)
	assert.Equal(t, 25, cfg.Badges.WordWizardWords)
	assert.Equal(t, 30, cfg.Analytics.WindowDays)
	assert.Equal(t, 0, cfg.Analytics.SnapshotIntervalMinutes)
	assert.Equal(t, "ops@example.com", cfg.Auth.AdminEmail)
	assert.Equal(t, "admin-password-1", cfg.Auth.AdminPassword)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(t *testing.T)
		required bool
	}{
		{
			name:   "missing database url",
			mutate: func(t *testing.T) { t.Setenv("STORYBRIDGE_DATABASE_URL", "") },
		},
		{
			name:   "short jwt secret",
			mutate: func(t *testing.T) { t.Setenv("STORYBRIDGE_AUTH_JWT_SECRET", "too-short") },
		},
		{
			name:   "port out of range",
			mutate: func(t *testing.T) { t.Setenv("STORYBRIDGE_SERVER_PORT", "70000") },
		},
		{
			name:   "unknown log level",
			mutate: func(t *testing.T) { t.Setenv("STORYBRIDGE_SERVER_LOG_LEVEL", "loud") },
		},
		{
			name:   "negative snapshot interval",
			mutate: func(t *testing.T) { t.Setenv("STORYBRIDGE_ANALYTICS_SNAPSHOT_INTERVAL_MINUTES", "-1") },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			tc.mutate(t)

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
