package jobs

import (
	"context"

	"github.com/robfig/cron/v3"

	"freightops/harbormaster/internal/config"
	"freightops/harbormaster/internal/db/repositories"
	"freightops/harbormaster/internal/logging"
	"freightops/harbormaster/internal/services"
)

// InitializeJobs wires and starts all background jobs: the cron-scheduled
// nightly full sync and the interval-driven metadata refresh loop. The
// returned job handle is used by the jobs API for manual triggering; the
// returned cron must be stopped on shutdown.
func InitializeJobs(
	ctx context.Context,
	syncService *services.ArticleSyncService,
	articles *repositories.ArticleRepository,
	cfg config.SyncConfig,
) (*ArticleSyncJob, *cron.Cron, error) {
	job := NewArticleSyncJob(syncService, articles, cfg)

	scheduler := cron.New()
	_, err := scheduler.AddFunc(cfg.FullSyncSchedule, func() {
		if err := job.RunFullSync(ctx); err != nil {
			logging.Error("Cron full sync failed", "error", err)
		}
	})
	if err != nil {
		return nil, nil, err
	}
	scheduler.Start()

	go job.RunScheduled(ctx, cfg.MetadataInterval)

	logging.Info("Background jobs started",
		"full_sync_schedule", cfg.FullSyncSchedule,
		"metadata_interval", cfg.MetadataInterval.String())
	return job, scheduler, nil
}
