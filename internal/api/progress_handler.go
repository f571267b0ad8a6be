package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/storybridge/storybridge-api/internal/api/shared"
	"github.com/storybridge/storybridge-api/internal/service"
)

// ProgressHandler handles progress sync and badge API requests.
type ProgressHandler struct {
	progressService *service.ProgressService
	validator       *validator.Validate
}

// NewProgressHandler creates a new ProgressHandler with the given dependencies.
func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
		validator:       validator.New(),
	}
}

// Sync handles POST /progress requests. Replaying the same payload is
// safe: the record is upserted and badges are awarded at most once.
func (h *ProgressHandler) Sync(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(w, r)
	if !ok {
		return
	}

	var req ProgressRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	storyID, err := uuid.Parse(req.StoryID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid story_id")
		return
	}

	result, err := h.progressService.SyncProgress(r.Context(), caller, service.ProgressInput{
		StoryID:     storyID,
		Completed:   req.Completed,
		TimeSpent:   req.TimeSpent,
		Vocabulary:  req.Vocabulary,
		QuizResults: req.QuizResults,
		CoinsEarned: req.CoinsEarned,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SyncProgressResponse{
		Progress:      progressToResponse(result.Progress),
		AwardedBadges: badgesToResponse(result.AwardedBadges),
	})
}

// List handles GET /progress requests: the caller's full history.
func (h *ProgressHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(w, r)
	if !ok {
		return
	}

	records, err := h.progressService.GetUserProgress(r.Context(), caller)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	responses := make([]ProgressResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, progressToResponse(record))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// Badges handles GET /badges requests: the caller's earned badges.
func (h *ProgressHandler) Badges(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(w, r)
	if !ok {
		return
	}

	badges, err := h.progressService.GetUserBadges(r.Context(), caller)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, badgesToResponse(badges))
}
