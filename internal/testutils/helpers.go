package testutils

import (
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/storybridge/storybridge-api/internal/config"
	"github.com/storybridge/storybridge-api/internal/domain"
	"github.com/storybridge/storybridge-api/internal/service"
	"github.com/storybridge/storybridge-api/internal/service/auth"
)

// NewTestLogger returns a logger that discards all output.
func NewTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTestJWTService creates a real JWT service with test configuration.
func NewTestJWTService(t *testing.T) auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            "test-secret-key-thats-at-least-32-chars",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)
	return svc
}

// CallerFor builds the service caller for a user.
func CallerFor(user *domain.User) service.Caller {
	return service.Caller{ID: user.ID, Role: user.Role}
}

// AdminCaller builds a caller with admin capability and a fresh ID.
func AdminCaller() service.Caller {
	return service.Caller{ID: uuid.New(), Role: domain.RoleAdmin}
}

// MustNewUser creates a valid user of the given role.
func MustNewUser(t *testing.T, email string, role domain.Role) *domain.User {
	t.Helper()
	user, err := domain.NewUser(email, "password123", role, "en")
	require.NoError(t, err)
	return user
}

// MustNewStory creates a valid draft story owned by creatorID. The
// default text repeats each vocabulary term enough times to pass the
// repetition gate at its default threshold.
func MustNewStory(t *testing.T, creatorID uuid.UUID) *domain.Story {
	t.Helper()
	story, err := domain.NewStory(creatorID,
		"The Brave Cat",
		"The cat saw a dog. The cat ran from the dog. At last the cat and the dog became friends.",
		"en", "6-8",
		[]string{"cat", "dog"}, nil)
	require.NoError(t, err)
	return story
}

// MustNewNarration creates a valid draft narration for the story.
func MustNewNarration(t *testing.T, storyID, narratorID uuid.UUID, audioID *uuid.UUID) *domain.Narration {
	t.Helper()
	narration, err := domain.NewNarration(storyID, narratorID, audioID, "read-along text")
	require.NoError(t, err)
	return narration
}
