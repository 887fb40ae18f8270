package api

import (
	"freightops/harbormaster/internal/common"
	"freightops/harbormaster/internal/config"
	"freightops/harbormaster/internal/db"
	"freightops/harbormaster/internal/db/repositories"
	"freightops/harbormaster/internal/extract"
	"freightops/harbormaster/internal/logging"
	"freightops/harbormaster/internal/providers"
	"freightops/harbormaster/internal/registry"
	"freightops/harbormaster/internal/services"
)

type Repositories struct {
	Articles *repositories.ArticleRepository
	Links    *repositories.ArticleLinkRepository
	Ports    *repositories.PortRepository
	Carriers *repositories.CarrierRepository
	SyncRuns *repositories.SyncRunRepository
	Keys     *repositories.KeysRepo
}

type Services struct {
	Cache    common.CacheInterface
	Quota    *common.QuotaGuard
	Provider providers.CatalogProvider
	Ports    *registry.PortDirectory
	Carriers *registry.CarrierDirectory
	Sync     *services.ArticleSyncService
	Push     *services.ArticlePushService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
}

// InitDependencies wires the repository and service graph. The shared cache
// prefers Redis so that quota counters are visible across workers; when Redis
// is unreachable the in-memory cache serves a single-instance deployment.
func InitDependencies(cfg *config.Config) (*Dependencies, error) {
	repos := &Repositories{
		Articles: repositories.NewArticleRepository(db.PgDB),
		Links:    repositories.NewArticleLinkRepository(db.PgDB),
		Ports:    repositories.NewPortRepository(db.PgDB),
		Carriers: repositories.NewCarrierRepository(db.PgDB),
		SyncRuns: repositories.NewSyncRunRepository(db.DB),
		Keys:     repositories.NewApiKeysRepo(db.DB),
	}

	var cache common.CacheInterface
	if redisCache, err := common.NewRedisCacheService(cfg.Redis); err != nil {
		logging.Warn("Redis unavailable, using in-memory cache", "error", err)
		cache = common.NewCacheService(300, 600)
	} else {
		cache = redisCache
	}

	quota := common.NewQuotaGuard(cache, cfg.Sync.RateLimitLowWater, cfg.Sync.DefaultCooldown)
	provider := providers.NewCargowiseProvider(cfg.Upstream, quota)

	portDir := registry.NewPortDirectory(repos.Ports, cache)
	carrierDir := registry.NewCarrierDirectory(repos.Carriers, cache)

	syncSvc := services.NewArticleSyncService(
		provider,
		repos.Articles,
		repos.Links,
		repos.SyncRuns,
		portDir,
		carrierDir,
		extract.New(portDir),
		cfg.Sync,
		cfg.Upstream.PageSize,
	)
	pushSvc := services.NewArticlePushService(provider, repos.Articles, repos.SyncRuns, cfg.Push)

	return &Dependencies{
		Repo: repos,
		Services: &Services{
			Cache:    cache,
			Quota:    quota,
			Provider: provider,
			Ports:    portDir,
			Carriers: carrierDir,
			Sync:     syncSvc,
			Push:     pushSvc,
		},
	}, nil
}
