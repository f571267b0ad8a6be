package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/storybridge/storybridge-api/internal/api/shared"
	"github.com/storybridge/storybridge-api/internal/config"
	"github.com/storybridge/storybridge-api/internal/domain"
	"github.com/storybridge/storybridge-api/internal/domain/tprs"
	"github.com/storybridge/storybridge-api/internal/service"
	"github.com/storybridge/storybridge-api/internal/testutils"
)

// apiEnv wires the handlers over in-memory fakes and exposes the fakes
// for seeding and assertions. Routes mirror cmd/server/router.go minus
// the JWT middleware; callers are injected straight into the request
// context (the middleware itself is covered in its own package).
type apiEnv struct {
	router chi.Router

	users      *testutils.FakeUserStore
	stories    *testutils.FakeStoryStore
	narrations *testutils.FakeNarrationStore
	reviews    *testutils.FakeReviewStore
	blobs      *testutils.FakeBlobStore
	progress   *testutils.FakeProgressStore
	badges     *testutils.FakeBadgeStore
	snapshots  *testutils.FakeSnapshotStore
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()

	env := &apiEnv{
		users:      testutils.NewFakeUserStore(),
		stories:    testutils.NewFakeStoryStore(),
		narrations: testutils.NewFakeNarrationStore(),
		reviews:    testutils.NewFakeReviewStore(),
		blobs:      testutils.NewFakeBlobStore(),
		progress:   testutils.NewFakeProgressStore(),
		badges:     testutils.NewFakeBadgeStore(),
		snapshots:  testutils.NewFakeSnapshotStore(),
	}

	logger := testutils.NewTestLogger()

	userService := service.NewUserService(
		env.users, testutils.FakePasswordVerifier{}, testutils.NewTestJWTService(t), logger,
	)
	contentService := service.NewContentService(
		nil,
		env.stories, env.narrations, env.reviews, env.blobs,
		tprs.NewValidatorWithParams(&tprs.Params{MinRepetitions: 2}),
		logger,
	)
	progressService := service.NewProgressService(env.progress, env.badges, config.BadgeConfig{
		WordWizardWords:   10,
		QuizMasterAnswers: 5,
	}, logger)
	analyticsService := service.NewAnalyticsService(env.progress, env.snapshots, config.AnalyticsConfig{
		WindowDays: 7,
	}, logger)

	authHandler := NewAuthHandler(userService)
	storyHandler := NewStoryHandler(contentService)
	narrationHandler := NewNarrationHandler(contentService)
	adminHandler := NewAdminHandler(contentService)
	progressHandler := NewProgressHandler(progressService)
	analyticsHandler := NewAnalyticsHandler(analyticsService)
	audioHandler := NewAudioHandler(env.blobs)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/auth/me", authHandler.Me)

		r.Get("/stories", storyHandler.ListPublished)
		r.Post("/stories", storyHandler.Create)
		r.Get("/stories/mine", storyHandler.ListMine)
		r.Get("/stories/{storyID}", storyHandler.Get)
		r.Put("/stories/{storyID}", storyHandler.Update)
		r.Delete("/stories/{storyID}", storyHandler.Delete)
		r.Post("/stories/{storyID}/submit", storyHandler.Submit)

		r.Post("/narrations", narrationHandler.Create)
		r.Get("/narrations/mine", narrationHandler.ListMine)
		r.Put("/narrations/{narrationID}", narrationHandler.Update)
		r.Delete("/narrations/{narrationID}", narrationHandler.Delete)
		r.Post("/narrations/{narrationID}/submit", narrationHandler.Submit)

		r.Get("/audio/{audioID}", audioHandler.Get)

		r.Post("/progress", progressHandler.Sync)
		r.Get("/progress", progressHandler.List)
		r.Get("/badges", progressHandler.Badges)

		r.Get("/admin/pending", adminHandler.Pending)
		r.Post("/admin/content/{contentType}/{contentID}/approve", adminHandler.Approve)
		r.Post("/admin/content/{contentType}/{contentID}/reject", adminHandler.Reject)
		r.Post("/admin/analytics/compute", analyticsHandler.Compute)
		r.Get("/admin/analytics/snapshots", analyticsHandler.Recent)
	})
	env.router = r

	return env
}

// do issues a request through the router, optionally as the given caller.
func (env *apiEnv) do(t *testing.T, method, path string, body io.Reader, caller *service.Caller) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return env.doRequest(t, req, caller)
}

// doRequest injects the caller identity the way the auth middleware
// would and routes the request.
func (env *apiEnv) doRequest(t *testing.T, req *http.Request, caller *service.Caller) *httptest.ResponseRecorder {
	t.Helper()

	if caller != nil {
		ctx := context.WithValue(req.Context(), shared.UserIDContextKey, caller.ID)
		ctx = context.WithValue(ctx, shared.UserRoleContextKey, caller.Role)
		req = req.WithContext(ctx)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

// doJSON marshals payload and issues the request.
func (env *apiEnv) doJSON(t *testing.T, method, path string, payload any, caller *service.Caller) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return env.do(t, method, path, bytes.NewReader(data), caller)
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[shared.ErrorResponse](t, rec).Error
}

func (env *apiEnv) seedUser(t *testing.T, email string, role domain.Role) *domain.User {
	t.Helper()

	user := testutils.MustNewUser(t, email, role)
	require.NoError(t, env.users.Create(context.Background(), user))
	return user
}

// seedStory stores a valid story forced into the given status.
func (env *apiEnv) seedStory(t *testing.T, creatorID uuid.UUID, status domain.ContentStatus) *domain.Story {
	t.Helper()

	story := testutils.MustNewStory(t, creatorID)
	story.Status = status
	require.NoError(t, env.stories.Create(context.Background(), story))
	return story
}

func callerFor(user *domain.User) *service.Caller {
	caller := testutils.CallerFor(user)
	return &caller
}

func adminCaller() *service.Caller {
	caller := testutils.AdminCaller()
	return &caller
}

func compliantStoryRequest() StoryRequest {
	return StoryRequest{
		Title:      "The Cat and the Dog",
		Text:       "The cat met a dog. The cat liked the dog.",
		AgeGroup:   "6-8",
		Vocabulary: []string{"cat", "dog"},
	}
}
