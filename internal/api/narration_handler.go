package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/storybridge/storybridge-api/internal/api/shared"
	"github.com/storybridge/storybridge-api/internal/service"
)

// maxAudioUploadBytes caps narration audio uploads at 25 MiB.
const maxAudioUploadBytes = 25 << 20

// NarrationHandler handles narration lifecycle API requests. Create and
// Update accept multipart/form-data with an optional "audio" file part,
// a "story_id" field (create only), and an optional "transcript" field.
type NarrationHandler struct {
	contentService *service.ContentService
}

// NewNarrationHandler creates a new NarrationHandler with the given dependencies.
func NewNarrationHandler(contentService *service.ContentService) *NarrationHandler {
	return &NarrationHandler{
		contentService: contentService,
	}
}

// Create handles POST /narrations requests.
func (h *NarrationHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(w, r)
	if !ok {
		return
	}

	form, ok := parseNarrationForm(w, r)
	if !ok {
		return
	}

	if form.storyID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing story_id")
		return
	}

	narration, err := h.contentService.CreateNarration(
		r.Context(), caller, form.storyID, form.audio, form.audioContentType, form.transcript,
	)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, narrationToResponse(narration))
}

// Update handles PUT /narrations/{narrationID} requests.
func (h *NarrationHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(w, r)
	if !ok {
		return
	}

	narrationID, ok := getPathUUID(w, r, "narrationID")
	if !ok {
		return
	}

	form, ok := parseNarrationForm(w, r)
	if !ok {
		return
	}

	narration, err := h.contentService.UpdateNarration(
		r.Context(), caller, narrationID, form.audio, form.audioContentType, form.transcript,
	)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, narrationToResponse(narration))
}

// Submit handles POST /narrations/{narrationID}/submit requests.
func (h *NarrationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(w, r)
	if !ok {
		return
	}

	narrationID, ok := getPathUUID(w, r, "narrationID")
	if !ok {
		return
	}

	narration, err := h.contentService.SubmitNarration(r.Context(), caller, narrationID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, narrationToResponse(narration))
}

// Delete handles DELETE /narrations/{narrationID} requests.
func (h *NarrationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(w, r)
	if !ok {
		return
	}

	narrationID, ok := getPathUUID(w, r, "narrationID")
	if !ok {
		return
	}

	if err := h.contentService.DeleteNarration(r.Context(), caller, narrationID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListMine handles GET /narrations/mine requests.
func (h *NarrationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(w, r)
	if !ok {
		return
	}

	narrations, err := h.contentService.ListNarratorNarrations(r.Context(), caller)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, narrationsToResponse(narrations))
}

// narrationForm holds the parsed multipart fields of a narration upload.
type narrationForm struct {
	storyID          uuid.UUID
	audio            []byte
	audioContentType string
	transcript       string
}

// parseNarrationForm reads the multipart body, writing an error
// response and returning false on malformed input.
func parseNarrationForm(w http.ResponseWriter, r *http.Request) (narrationForm, bool) {
	var form narrationForm

	r.Body = http.MaxBytesReader(w, r.Body, maxAudioUploadBytes)
	if err := r.ParseMultipartForm(maxAudioUploadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			shared.RespondWithError(w, r, http.StatusRequestEntityTooLarge, "Audio upload too large")
			return form, false
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid multipart form")
		return form, false
	}

	if storyIDValue := r.FormValue("story_id"); storyIDValue != "" {
		storyID, err := uuid.Parse(storyIDValue)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid story_id")
			return form, false
		}
		form.storyID = storyID
	}

	form.transcript = r.FormValue("transcript")

	file, header, err := r.FormFile("audio")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return form, true
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid audio file")
		return form, false
	}
	defer func() { _ = file.Close() }()

	audio, err := io.ReadAll(file)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Failed to read audio file")
		return form, false
	}

	form.audio = audio
	form.audioContentType = header.Header.Get("Content-Type")
	if form.audioContentType == "" {
		form.audioContentType = "application/octet-stream"
	}

	return form, true
}
