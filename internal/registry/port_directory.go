// Package registry exposes the port and carrier directories the extractors
// and sync services resolve codes and names against. Lookups are served from
// the shared cache; the database is only hit on a miss.
package registry

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"freightops/harbormaster/internal/common"
	"freightops/harbormaster/internal/db/repositories"
	"freightops/harbormaster/internal/logging"
	gormmodels "freightops/harbormaster/internal/models/gorm"
)

const portCacheTTL = 30 * time.Minute

// PortDirectory resolves port codes and fuzzy port names.
type PortDirectory struct {
	repo  *repositories.PortRepository
	cache common.CacheInterface

	// group collapses concurrent directory reloads into one DB query.
	// Full syncs call the extractor from every page worker at once.
	group singleflight.Group
}

func NewPortDirectory(repo *repositories.PortRepository, cache common.CacheInterface) *PortDirectory {
	return &PortDirectory{repo: repo, cache: cache}
}

// PortByCode resolves an exact port code. Returns nil when unknown.
func (d *PortDirectory) PortByCode(code string) *gormmodels.Port {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil
	}

	for _, p := range d.directory() {
		if p.Code == code {
			port := p
			return &port
		}
	}
	return nil
}

// PortByNameContains resolves a free-text fragment against port names and
// aliases: a port matches when its name (or one of its aliases) appears
// inside the text. Longer names are preferred so "New York" beats "York".
func (d *PortDirectory) PortByNameContains(text string) *gormmodels.Port {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return nil
	}

	var best *gormmodels.Port
	bestLen := 0
	ports := d.directory()
	for i := range ports {
		for _, candidate := range namesOf(&ports[i]) {
			if len(candidate) > bestLen && strings.Contains(lower, candidate) {
				best = &ports[i]
				bestLen = len(candidate)
			}
		}
	}
	return best
}

// directory returns the cached full port list, loading it on a miss. An
// unreachable database degrades to an empty directory rather than an error;
// extraction then falls back to bare codes.
func (d *PortDirectory) directory() []gormmodels.Port {
	val, err := d.cache.GetOrSet("registry:ports", portCacheTTL, func() (any, error) {
		ports, err, _ := d.group.Do("registry:ports", func() (any, error) {
			return d.repo.All(context.Background())
		})
		if err != nil {
			return nil, err
		}
		return ports, nil
	})
	if err != nil {
		logging.Warn("Port directory unavailable", "error", err)
		return nil
	}
	ports, ok := val.([]gormmodels.Port)
	if !ok {
		// Redis round-trips lose the concrete type; reload directly.
		ports, err = d.repo.All(context.Background())
		if err != nil {
			logging.Warn("Port directory reload failed", "error", err)
			return nil
		}
	}
	return ports
}

func namesOf(p *gormmodels.Port) []string {
	names := []string{strings.ToLower(p.Name)}
	if p.Aliases != "" {
		for _, a := range strings.Split(p.Aliases, ",") {
			if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
				names = append(names, a)
			}
		}
	}
	return names
}
