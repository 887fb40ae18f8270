package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"freightops/harbormaster/internal/api"
	"freightops/harbormaster/internal/config"
	"freightops/harbormaster/internal/db"
	"freightops/harbormaster/internal/jobs"
	"freightops/harbormaster/internal/logging"
	"freightops/harbormaster/internal/middleware"
)

// RegisterRoutes builds the router, wires the dependency graph and starts
// the background jobs.
func RegisterRoutes(ctx context.Context, cfg *config.Config, upSince time.Time) http.Handler {
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:8081"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	logging.Info("Router initialized with metrics and logging middleware")

	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(db.DB, upSince))

	deps, err := api.InitDependencies(cfg)
	if err != nil {
		panic("Failed to initialize dependencies: " + err.Error())
	}

	syncJob, _, err := jobs.InitializeJobs(ctx, deps.Services.Sync, deps.Repo.Articles, cfg.Sync)
	if err != nil {
		panic("Failed to start background jobs: " + err.Error())
	}
	jobsHandler := api.NewJobsHandler(syncJob, deps)

	RegisterAPIRoutes(r, deps, jobsHandler, cfg.Upstream.WebhookSecret)

	return r
}
