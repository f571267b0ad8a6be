package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/storybridge/storybridge-api/internal/api/shared"
	"github.com/storybridge/storybridge-api/internal/domain"
	"github.com/storybridge/storybridge-api/internal/service"
)

// AdminHandler handles the review queue and approve/reject decisions.
type AdminHandler struct {
	contentService *service.ContentService
	validator      *validator.Validate
}

// NewAdminHandler creates a new AdminHandler with the given dependencies.
func NewAdminHandler(contentService *service.ContentService) *AdminHandler {
	return &AdminHandler{
		contentService: contentService,
		validator:      validator.New(),
	}
}

// Pending handles GET /admin/pending requests: every story and
// narration awaiting review.
func (h *AdminHandler) Pending(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(w, r)
	if !ok {
		return
	}

	pending, err := h.contentService.ListPendingContent(r.Context(), caller)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, PendingContentResponse{
		Stories:    storiesToResponse(pending.Stories),
		Narrations: narrationsToResponse(pending.Narrations),
	})
}

// Approve handles POST /admin/content/{contentType}/{contentID}/approve requests.
func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(w, r)
	if !ok {
		return
	}

	contentType, contentID, ok := h.contentParams(w, r)
	if !ok {
		return
	}

	if err := h.contentService.ApproveContent(r.Context(), caller, contentType, contentID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"status":       "approved",
		"content_type": string(contentType),
		"content_id":   contentID.String(),
	})
}

// Reject handles POST /admin/content/{contentType}/{contentID}/reject requests.
func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(w, r)
	if !ok {
		return
	}

	contentType, contentID, ok := h.contentParams(w, r)
	if !ok {
		return
	}

	var req RejectRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.contentService.RejectContent(r.Context(), caller, contentType, contentID, req.Notes); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"status":       "rejected",
		"content_type": string(contentType),
		"content_id":   contentID.String(),
	})
}

// contentParams extracts and validates the content type and ID path
// parameters shared by the review endpoints.
func (h *AdminHandler) contentParams(
	w http.ResponseWriter,
	r *http.Request,
) (domain.ContentType, uuid.UUID, bool) {
	contentType := domain.ContentType(chi.URLParam(r, "contentType"))
	if !contentType.Valid() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Content type must be 'story' or 'narration'")
		return "", uuid.Nil, false
	}

	contentID, ok := getPathUUID(w, r, "contentID")
	if !ok {
		return "", uuid.Nil, false
	}

	return contentType, contentID, true
}
