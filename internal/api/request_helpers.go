package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/storybridge/storybridge-api/internal/api/middleware"
	"github.com/storybridge/storybridge-api/internal/api/shared"
	"github.com/storybridge/storybridge-api/internal/service"
)

// getCaller extracts the authenticated caller from the request context,
// writing a 401 response if the auth middleware did not run.
func getCaller(w http.ResponseWriter, r *http.Request) (service.Caller, bool) {
	caller, ok := middleware.GetCaller(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return service.Caller{}, false
	}
	return caller, true
}

// getPathUUID extracts and parses a UUID path parameter, writing a 400
// response on a missing or malformed value.
func getPathUUID(w http.ResponseWriter, r *http.Request, paramName string) (uuid.UUID, bool) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing "+paramName)
		return uuid.Nil, false
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+paramName)
		return uuid.Nil, false
	}

	return id, true
}
