package api

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/storybridge/storybridge-api/internal/api/shared"
	"github.com/storybridge/storybridge-api/internal/service"
)

// Story listing defaults.
const (
	defaultStoryPageSize = 50
	maxStoryPageSize     = 200
)

// StoryHandler handles story lifecycle API requests.
type StoryHandler struct {
	contentService *service.ContentService
	validator      *validator.Validate
}

// NewStoryHandler creates a new StoryHandler with the given dependencies.
func NewStoryHandler(contentService *service.ContentService) *StoryHandler {
	return &StoryHandler{
		contentService: contentService,
		validator:      validator.New(),
	}
}

// Create handles POST /stories requests.
func (h *StoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(w, r)
	if !ok {
		return
	}

	var req StoryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	story, err := h.contentService.CreateStory(r.Context(), caller, storyRequestToInput(req))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, storyToResponse(story))
}

// Update handles PUT /stories/{storyID} requests.
func (h *StoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(w, r)
	if !ok {
		return
	}

	storyID, ok := getPathUUID(w, r, "storyID")
	if !ok {
		return
	}

	var req StoryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	story, err := h.contentService.UpdateStory(r.Context(), caller, storyID, storyRequestToInput(req))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, storyToResponse(story))
}

// Delete handles DELETE /stories/{storyID} requests.
func (h *StoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(w, r)
	if !ok {
		return
	}

	storyID, ok := getPathUUID(w, r, "storyID")
	if !ok {
		return
	}

	if err := h.contentService.DeleteStory(r.Context(), caller, storyID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Submit handles POST /stories/{storyID}/submit requests.
func (h *StoryHandler) Submit(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(w, r)
	if !ok {
		return
	}

	storyID, ok := getPathUUID(w, r, "storyID")
	if !ok {
		return
	}

	story, err := h.contentService.SubmitStory(r.Context(), caller, storyID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, storyToResponse(story))
}

// ListMine handles GET /stories/mine requests: the caller's own stories
// in every status.
func (h *StoryHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(w, r)
	if !ok {
		return
	}

	stories, err := h.contentService.ListCreatorStories(r.Context(), caller)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, storiesToResponse(stories))
}

// ListPublished handles GET /stories requests: the reader-facing
// library with optional language/age_group/narrated filters.
func (h *StoryHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	language := query.Get("language")
	ageGroup := query.Get("age_group")
	narratedOnly := query.Get("narrated") == "true"

	limit := parseQueryInt(query.Get("limit"), defaultStoryPageSize)
	if limit <= 0 || limit > maxStoryPageSize {
		limit = defaultStoryPageSize
	}
	offset := parseQueryInt(query.Get("offset"), 0)
	if offset < 0 {
		offset = 0
	}

	stories, err := h.contentService.ListPublishedStories(
		r.Context(), language, ageGroup, narratedOnly, limit, offset,
	)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, storiesToResponse(stories))
}

// Get handles GET /stories/{storyID} requests. Only published stories
// are visible through this endpoint.
func (h *StoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	storyID, ok := getPathUUID(w, r, "storyID")
	if !ok {
		return
	}

	story, err := h.contentService.GetPublishedStory(r.Context(), storyID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, storyToResponse(story))
}

func storyRequestToInput(req StoryRequest) service.StoryInput {
	return service.StoryInput{
		Title:      req.Title,
		Text:       req.Text,
		Language:   req.Language,
		AgeGroup:   req.AgeGroup,
		Vocabulary: req.Vocabulary,
		Quizzes:    req.Quizzes,
	}
}

func parseQueryInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
