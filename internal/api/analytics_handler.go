package api

import (
	"net/http"

	"github.com/storybridge/storybridge-api/internal/api/shared"
	"github.com/storybridge/storybridge-api/internal/service"
)

// AnalyticsHandler handles windowed metrics rollups. Admin only.
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler with the given dependencies.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// Compute handles POST /admin/analytics/compute requests: aggregates
// the configured window and persists the snapshot.
func (h *AnalyticsHandler) Compute(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(w, r)
	if !ok {
		return
	}

	snapshot, err := h.analyticsService.ComputeWindowMetrics(r.Context(), caller)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, snapshotToResponse(snapshot))
}

// Recent handles GET /admin/analytics/snapshots requests.
func (h *AnalyticsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(w, r)
	if !ok {
		return
	}

	limit := parseQueryInt(r.URL.Query().Get("limit"), 0)

	snapshots, err := h.analyticsService.RecentSnapshots(r.Context(), caller, limit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	responses := make([]SnapshotResponse, 0, len(snapshots))
	for _, snapshot := range snapshots {
		responses = append(responses, snapshotToResponse(snapshot))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}
