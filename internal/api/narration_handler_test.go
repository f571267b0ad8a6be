package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storybridge/storybridge-api/internal/domain"
	"github.com/storybridge/storybridge-api/internal/service"
)

// narrationUpload builds a multipart narration request body. Any field
// left empty is omitted from the form.
func narrationUpload(t *testing.T, storyID, transcript string, audio []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if storyID != "" {
		require.NoError(t, writer.WriteField("story_id", storyID))
	}
	if transcript != "" {
		require.NoError(t, writer.WriteField("transcript", transcript))
	}
	if audio != nil {
		part, err := writer.CreateFormFile("audio", "narration.mp3")
		require.NoError(t, err)
		_, err = part.Write(audio)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func (env *apiEnv) doMultipart(t *testing.T, method, path string, body *bytes.Buffer, contentType string, caller *service.Caller) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	return env.doRequest(t, req, caller)
}

func TestCreateNarrationEndpoint(t *testing.T) {
	env := newAPIEnv(t)
	creator := env.seedUser(t, "creator@example.com", domain.RoleCreator)
	narrator := env.seedUser(t, "narrator@example.com", domain.RoleNarrator)
	story := env.seedStory(t, creator.ID, domain.ContentStatusPublished)

	body, contentType := narrationUpload(t, story.ID.String(), "the cat met a dog", []byte("mp3-bytes"))
	rec := env.doMultipart(t, http.MethodPost, "/api/narrations", body, contentType, callerFor(narrator))

	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	resp := decodeBody[NarrationResponse](t, rec)
	assert.Equal(t, story.ID.String(), resp.StoryID)
	assert.Equal(t, narrator.ID.String(), resp.NarratorID)
	assert.Equal(t, "draft", resp.Status)
	require.NotNil(t, resp.AudioID)

	// The stored asset is served back through the audio endpoint.
	audioRec := env.do(t, http.MethodGet, "/api/audio/"+*resp.AudioID, nil, nil)
	require.Equal(t, http.StatusOK, audioRec.Code)
	assert.Equal(t, []byte("mp3-bytes"), audioRec.Body.Bytes())
}

func TestCreateNarrationEndpointMissingStoryID(t *testing.T) {
	env := newAPIEnv(t)
	narrator := env.seedUser(t, "narrator@example.com", domain.RoleNarrator)

	body, contentType := narrationUpload(t, "", "transcript only", nil)
	rec := env.doMultipart(t, http.MethodPost, "/api/narrations", body, contentType, callerFor(narrator))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing story_id", errorMessage(t, rec))
}

func TestCreateNarrationEndpointNarratorOnly(t *testing.T) {
	env := newAPIEnv(t)
	creator := env.seedUser(t, "creator@example.com", domain.RoleCreator)
	story := env.seedStory(t, creator.ID, domain.ContentStatusPublished)

	body, contentType := narrationUpload(t, story.ID.String(), "", []byte("mp3"))
	rec := env.doMultipart(t, http.MethodPost, "/api/narrations", body, contentType, callerFor(creator))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateNarrationEndpointUnknownStory(t *testing.T) {
	env := newAPIEnv(t)
	narrator := env.seedUser(t, "narrator@example.com", domain.RoleNarrator)

	body, contentType := narrationUpload(t, uuid.NewString(), "", []byte("mp3"))
	rec := env.doMultipart(t, http.MethodPost, "/api/narrations", body, contentType, callerFor(narrator))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateNarrationEndpointReplacesAudio(t *testing.T) {
	env := newAPIEnv(t)
	creator := env.seedUser(t, "creator@example.com", domain.RoleCreator)
	narrator := env.seedUser(t, "narrator@example.com", domain.RoleNarrator)
	story := env.seedStory(t, creator.ID, domain.ContentStatusPublished)

	body, contentType := narrationUpload(t, story.ID.String(), "take one", []byte("take-one"))
	created := env.doMultipart(t, http.MethodPost, "/api/narrations", body, contentType, callerFor(narrator))
	require.Equal(t, http.StatusCreated, created.Code)
	narration := decodeBody[NarrationResponse](t, created)
	require.NotNil(t, narration.AudioID)
	oldAudioID := *narration.AudioID

	body, contentType = narrationUpload(t, "", "take two", []byte("take-two"))
	updated := env.doMultipart(t, http.MethodPut, "/api/narrations/"+narration.ID, body, contentType, callerFor(narrator))

	require.Equal(t, http.StatusOK, updated.Code, "body: %s", updated.Body.String())
	resp := decodeBody[NarrationResponse](t, updated)
	assert.Equal(t, "take two", resp.Transcript)
	require.NotNil(t, resp.AudioID)
	assert.NotEqual(t, oldAudioID, *resp.AudioID)

	// The replaced asset is gone, the new one is servable.
	oldRec := env.do(t, http.MethodGet, "/api/audio/"+oldAudioID, nil, nil)
	assert.Equal(t, http.StatusNotFound, oldRec.Code)
	newRec := env.do(t, http.MethodGet, "/api/audio/"+*resp.AudioID, nil, nil)
	require.Equal(t, http.StatusOK, newRec.Code)
	assert.Equal(t, []byte("take-two"), newRec.Body.Bytes())
}

func TestSubmitNarrationEndpoint(t *testing.T) {
	env := newAPIEnv(t)
	creator := env.seedUser(t, "creator@example.com", domain.RoleCreator)
	narrator := env.seedUser(t, "narrator@example.com", domain.RoleNarrator)
	story := env.seedStory(t, creator.ID, domain.ContentStatusPublished)

	body, contentType := narrationUpload(t, story.ID.String(), "", []byte("mp3"))
	created := env.doMultipart(t, http.MethodPost, "/api/narrations", body, contentType, callerFor(narrator))
	require.Equal(t, http.StatusCreated, created.Code)
	narration := decodeBody[NarrationResponse](t, created)

	rec := env.do(t, http.MethodPost, "/api/narrations/"+narration.ID+"/submit", nil, callerFor(narrator))

	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, "pending", decodeBody[NarrationResponse](t, rec).Status)
}

func TestDeleteNarrationEndpoint(t *testing.T) {
	env := newAPIEnv(t)
	creator := env.seedUser(t, "creator@example.com", domain.RoleCreator)
	narrator := env.seedUser(t, "narrator@example.com", domain.RoleNarrator)
	story := env.seedStory(t, creator.ID, domain.ContentStatusPublished)

	body, contentType := narrationUpload(t, story.ID.String(), "", []byte("mp3"))
	created := env.doMultipart(t, http.MethodPost, "/api/narrations", body, contentType, callerFor(narrator))
	require.Equal(t, http.StatusCreated, created.Code)
	narration := decodeBody[NarrationResponse](t, created)

	rec := env.do(t, http.MethodDelete, "/api/narrations/"+narration.ID, nil, callerFor(narrator))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Cascade removed the audio asset too.
	assert.Equal(t, 0, env.blobs.Len())
}

func TestListMyNarrationsEndpoint(t *testing.T) {
	env := newAPIEnv(t)
	creator := env.seedUser(t, "creator@example.com", domain.RoleCreator)
	narrator := env.seedUser(t, "narrator@example.com", domain.RoleNarrator)
	other := env.seedUser(t, "other@example.com", domain.RoleNarrator)
	story := env.seedStory(t, creator.ID, domain.ContentStatusPublished)

	for _, caller := range []*domain.User{narrator, other} {
		body, contentType := narrationUpload(t, story.ID.String(), "", []byte("mp3"))
		created := env.doMultipart(t, http.MethodPost, "/api/narrations", body, contentType, callerFor(caller))
		require.Equal(t, http.StatusCreated, created.Code)
	}

	rec := env.do(t, http.MethodGet, "/api/narrations/mine", nil, callerFor(narrator))

	require.Equal(t, http.StatusOK, rec.Code)
	narrations := decodeBody[[]NarrationResponse](t, rec)
	require.Len(t, narrations, 1)
	assert.Equal(t, narrator.ID.String(), narrations[0].NarratorID)
}

func TestGetAudioEndpointUnknownAsset(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodGet, "/api/audio/"+uuid.NewString(), nil, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
