package routes

import (
	"github.com/go-chi/chi/v5"

	"freightops/harbormaster/internal/api"
	"freightops/harbormaster/internal/middleware"
)

// RegisterAPIRoutes registers the webhook endpoint and the keyed management
// API. Route registration stays separate from router construction.
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies, jobsHandler *api.JobsHandler, webhookSecret string) {
	// Webhook intake: rate limited and verified against the upstream's
	// signing secret instead of a management API key.
	r.Group(func(hooks chi.Router) {
		hooks.Use(middleware.RateLimitMiddleware)
		hooks.Use(middleware.WebhookAuthMiddleware(webhookSecret))
		hooks.Post("/webhooks/articles", api.ArticleWebhookHandler(deps))
	})

	// Management API
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.RateLimitMiddleware)
		v1.Use(middleware.AuthMiddleware(deps.Repo.Keys))

		v1.Get("/articles", api.ListArticlesHandler(deps))
		v1.Get("/articles/review", api.ListReviewArticlesHandler(deps))
		v1.Get("/articles/{external_id}", api.GetArticleHandler(deps))

		v1.Get("/sync-runs", api.ListSyncRunsHandler(deps))

		v1.Post("/articles/push", api.PushBulkHandler(deps))
		v1.Post("/articles/{external_id}/push", api.PushArticleHandler(deps))

		v1.Post("/admin/jobs/full-sync", jobsHandler.TriggerFullSync())
		v1.Post("/admin/jobs/refresh-metadata", jobsHandler.TriggerMetadataRefresh())
	})
}
