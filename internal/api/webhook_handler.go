package api

import (
	"encoding/json"
	"net/http"

	"freightops/harbormaster/internal/logging"
	"freightops/harbormaster/internal/models/dtos"
)

// ArticleWebhookHandler handles POST /webhooks/articles. The upstream posts
// the full article payload on create/update; unknown event types are
// acknowledged with 200 so the upstream does not redeliver them.
func ArticleWebhookHandler(deps *Dependencies) http.HandlerFunc {
	type ack struct {
		Received string `json:"received"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var event dtos.ArticleWebhookEvent
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid webhook payload")
			return
		}

		switch event.Event {
		case dtos.WebhookArticleCreated, dtos.WebhookArticleUpdated:
		default:
			logging.Debug("Ignoring webhook event", "event", event.Event)
			respondWithSuccess(w, http.StatusOK, &ack{Received: event.Event})
			return
		}

		if err := deps.Services.Sync.SyncFromWebhook(r.Context(), &event.Article); err != nil {
			logging.Error("Webhook sync failed", "event", event.Event, "article", event.Article.ID, "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to apply webhook")
			return
		}

		respondWithSuccess(w, http.StatusOK, &ack{Received: event.Event})
	}
}
