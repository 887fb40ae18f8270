package jobs

import (
	"context"
	"time"

	"freightops/harbormaster/internal/config"
	"freightops/harbormaster/internal/db/repositories"
	"freightops/harbormaster/internal/logging"
	"freightops/harbormaster/internal/metrics"
	"freightops/harbormaster/internal/services"
)

// metadataBatchSize bounds how many stale articles one refresh pass touches,
// keeping a pass well under the upstream request quota.
const metadataBatchSize = 25

// ArticleSyncJob drives the scheduled catalog syncs: the nightly full walk
// of the offers listing and the rolling metadata refresh of stale articles.
type ArticleSyncJob struct {
	syncService *services.ArticleSyncService
	articles    *repositories.ArticleRepository
	cfg         config.SyncConfig
}

func NewArticleSyncJob(
	syncService *services.ArticleSyncService,
	articles *repositories.ArticleRepository,
	cfg config.SyncConfig,
) *ArticleSyncJob {
	return &ArticleSyncJob{
		syncService: syncService,
		articles:    articles,
		cfg:         cfg,
	}
}

// RunFullSync executes one full catalog sync. Exported for manual triggering
// through the jobs API.
func (j *ArticleSyncJob) RunFullSync(ctx context.Context) error {
	start := time.Now()
	logging.Info("Scheduled full sync starting")

	summary, err := j.syncService.FullSync(ctx)
	if err != nil {
		metrics.SyncRunsTotal.WithLabelValues("full", "failed").Inc()
		logging.Error("Scheduled full sync failed", "error", err)
		return err
	}

	metrics.SyncRunsTotal.WithLabelValues("full", "completed").Inc()
	metrics.SyncDuration.WithLabelValues("full").Observe(time.Since(start).Seconds())
	metrics.ArticlesSynced.Add(float64(summary.Items))
	logging.Info("Scheduled full sync finished",
		"duration", time.Since(start).Truncate(time.Millisecond).String(),
		"pages", summary.Pages, "items", summary.Items, "errors", summary.Errors)
	return nil
}

// RunMetadataRefresh refreshes one batch of stale articles. Per-article
// failures are already absorbed by the sync service's retry ladder.
func (j *ArticleSyncJob) RunMetadataRefresh(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-j.cfg.MetadataInterval)
	stale, err := j.articles.ListStaleSince(ctx, cutoff, metadataBatchSize)
	if err != nil {
		logging.Error("Stale article listing failed", "error", err)
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	start := time.Now()
	logging.Info("Metadata refresh starting", "batch", len(stale))

	refreshed := 0
	for _, article := range stale {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := j.syncService.RefreshMetadata(ctx, article.ExternalID); err != nil {
			logging.Warn("Metadata refresh failed", "external_id", article.ExternalID, "error", err)
			continue
		}
		refreshed++
	}

	metrics.SyncRunsTotal.WithLabelValues("metadata", "completed").Inc()
	metrics.SyncDuration.WithLabelValues("metadata").Observe(time.Since(start).Seconds())
	logging.Info("Metadata refresh finished",
		"duration", time.Since(start).Truncate(time.Millisecond).String(),
		"refreshed", refreshed, "batch", len(stale))
	return nil
}

// RunScheduled runs the metadata refresh loop until the context ends.
func (j *ArticleSyncJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := j.RunMetadataRefresh(ctx); err != nil {
				logging.Warn("Scheduled metadata refresh failed", "error", err)
			}
		case <-ctx.Done():
			logging.Info("Shutting down metadata refresh loop")
			return
		}
	}
}
