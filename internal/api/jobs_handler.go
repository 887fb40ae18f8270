package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"freightops/harbormaster/internal/jobs"
	"freightops/harbormaster/internal/logging"
	"freightops/harbormaster/internal/models/dtos/responses"
)

// JobsHandler handles manual job triggering endpoints
type JobsHandler struct {
	syncJob *jobs.ArticleSyncJob
	deps    *Dependencies
}

func NewJobsHandler(syncJob *jobs.ArticleSyncJob, deps *Dependencies) *JobsHandler {
	return &JobsHandler{syncJob: syncJob, deps: deps}
}

// TriggerFullSync handles POST /api/v1/admin/jobs/full-sync
func (h *JobsHandler) TriggerFullSync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logging.Info("Full sync manually triggered")

		summary, err := h.deps.Services.Sync.FullSync(r.Context())
		if err != nil {
			respondWithError(w, http.StatusBadGateway, fmt.Sprintf("Full sync failed: %v", err))
			return
		}

		resp := responses.SyncTriggerResponse{
			RunID:        summary.RunID,
			Pages:        summary.Pages,
			Items:        summary.Items,
			Errors:       summary.Errors,
			ResponseTime: fmt.Sprintf("%dms", time.Since(start).Milliseconds()),
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// ListSyncRunsHandler handles GET /api/v1/sync-runs. Accepts optional
// run_type and limit query parameters.
func ListSyncRunsHandler(deps *Dependencies) http.HandlerFunc {
	const defaultRunLimit = 50

	return func(w http.ResponseWriter, r *http.Request) {
		runType := r.URL.Query().Get("run_type")
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit < 1 || limit > 200 {
			limit = defaultRunLimit
		}

		runs, err := deps.Repo.SyncRuns.ListRecent(r.Context(), runType, limit)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list sync runs")
			return
		}

		resp := responses.SyncRunListResponse{Items: make([]responses.SyncRunInfo, 0, len(runs))}
		for _, run := range runs {
			info := responses.SyncRunInfo{
				ID:         run.ID,
				RunType:    run.RunType,
				Status:     run.Status,
				StartedAt:  run.StartedAt.Format(time.RFC3339),
				ItemCount:  run.ItemCount,
				ErrorCount: run.ErrorCount,
				Error:      run.Error,
			}
			if run.CompletedAt != nil {
				info.CompletedAt = run.CompletedAt.Format(time.RFC3339)
			}
			resp.Items = append(resp.Items, info)
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// TriggerMetadataRefresh handles POST /api/v1/admin/jobs/refresh-metadata.
// With an external_id in the body only that article is refreshed; otherwise
// one stale batch runs.
func (h *JobsHandler) TriggerMetadataRefresh() http.HandlerFunc {
	type request struct {
		ExternalID string `json:"external_id"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		items := 0
		if req.ExternalID != "" {
			if err := h.deps.Services.Sync.RefreshMetadata(r.Context(), req.ExternalID); err != nil {
				respondWithError(w, http.StatusBadGateway, fmt.Sprintf("Refresh failed: %v", err))
				return
			}
			items = 1
		} else {
			if err := h.syncJob.RunMetadataRefresh(r.Context()); err != nil {
				respondWithError(w, http.StatusBadGateway, fmt.Sprintf("Refresh failed: %v", err))
				return
			}
		}

		resp := responses.SyncTriggerResponse{
			Items:        items,
			ResponseTime: fmt.Sprintf("%dms", time.Since(start).Milliseconds()),
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}
