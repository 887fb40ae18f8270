package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"freightops/harbormaster/internal/models/dtos/responses"
	"freightops/harbormaster/internal/services"
)

// pushRequest selects which fields to push. An empty list means every
// pushable field.
type pushRequest struct {
	Fields []string `json:"fields"`
}

type bulkPushRequest struct {
	ExternalIDs []string `json:"external_ids"`
	Fields      []string `json:"fields"`
}

// PushArticleHandler handles POST /api/v1/articles/{external_id}/push
func PushArticleHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		externalID := chi.URLParam(r, "external_id")

		var req pushRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		fields := req.Fields
		if len(fields) == 0 {
			fields = services.AllPushFieldKeys()
		}

		result := deps.Services.Push.PushArticle(r.Context(), externalID, fields)

		resp := responses.PushTriggerResponse{
			Results:      []responses.PushItemResult{pushItemOf(result)},
			ResponseTime: fmt.Sprintf("%dms", time.Since(start).Milliseconds()),
		}
		if result.Status == services.PushStatusFailed {
			respondWithSuccess(w, http.StatusBadGateway, &resp)
			return
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// PushBulkHandler handles POST /api/v1/articles/push
func PushBulkHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		var req bulkPushRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if len(req.ExternalIDs) == 0 {
			respondWithError(w, http.StatusBadRequest, "external_ids is required")
			return
		}
		fields := req.Fields
		if len(fields) == 0 {
			fields = services.AllPushFieldKeys()
		}

		bulk := deps.Services.Push.PushBulk(r.Context(), req.ExternalIDs, fields)

		resp := responses.PushTriggerResponse{
			Results:         make([]responses.PushItemResult, 0, len(bulk.Results)),
			SucceededFields: bulk.SucceededFields,
			ResponseTime:    fmt.Sprintf("%dms", time.Since(start).Milliseconds()),
		}
		for _, result := range bulk.Results {
			resp.Results = append(resp.Results, pushItemOf(result))
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

func pushItemOf(r services.PushResult) responses.PushItemResult {
	return responses.PushItemResult{
		ExternalID:   r.ExternalID,
		Status:       r.Status,
		Error:        r.Error,
		Attempts:     r.Attempts,
		PushedFields: r.PushedFields,
	}
}
