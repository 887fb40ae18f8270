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

const carrierCacheTTL = 30 * time.Minute

// CarrierDirectory resolves carrier names against the carriers table.
type CarrierDirectory struct {
	repo  *repositories.CarrierRepository
	cache common.CacheInterface
	group singleflight.Group
}

func NewCarrierDirectory(repo *repositories.CarrierRepository, cache common.CacheInterface) *CarrierDirectory {
	return &CarrierDirectory{repo: repo, cache: cache}
}

// CarrierByName resolves a name or alias, case-insensitive. Nil when unknown.
func (d *CarrierDirectory) CarrierByName(name string) *gormmodels.Carrier {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == "" {
		return nil
	}

	carriers := d.directory()
	for i := range carriers {
		if strings.ToUpper(carriers[i].Name) == upper {
			return &carriers[i]
		}
		for _, a := range strings.Split(carriers[i].Aliases, ",") {
			if strings.ToUpper(strings.TrimSpace(a)) == upper {
				return &carriers[i]
			}
		}
	}
	return nil
}

// RoRoNames returns every name and alias of the carriers flagged as RoRo
// operators, for keyword scans over article text.
func (d *CarrierDirectory) RoRoNames() []string {
	var names []string
	for _, c := range d.directory() {
		if !c.IsRoRo {
			continue
		}
		names = append(names, c.Name)
		for _, a := range strings.Split(c.Aliases, ",") {
			if a = strings.TrimSpace(a); a != "" {
				names = append(names, a)
			}
		}
	}
	return names
}

func (d *CarrierDirectory) directory() []gormmodels.Carrier {
	val, err := d.cache.GetOrSet("registry:carriers", carrierCacheTTL, func() (any, error) {
		carriers, err, _ := d.group.Do("registry:carriers", func() (any, error) {
			return d.repo.All(context.Background())
		})
		if err != nil {
			return nil, err
		}
		return carriers, nil
	})
	if err != nil {
		logging.Warn("Carrier directory unavailable", "error", err)
		return nil
	}
	carriers, ok := val.([]gormmodels.Carrier)
	if !ok {
		carriers, err = d.repo.All(context.Background())
		if err != nil {
			logging.Warn("Carrier directory reload failed", "error", err)
			return nil
		}
	}
	return carriers
}
