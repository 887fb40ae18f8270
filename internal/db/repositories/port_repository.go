package repositories

import (
	"context"
	"strings"

	gormlib "gorm.io/gorm"

	"freightops/harbormaster/internal/models/gorm"
)

// PortRepository handles the ports directory table
type PortRepository struct {
	db *gormlib.DB
}

func NewPortRepository(db *gormlib.DB) *PortRepository {
	return &PortRepository{db: db}
}

// FindByCode finds a port by its code (case-insensitive)
func (r *PortRepository) FindByCode(ctx context.Context, code string) (*gorm.Port, error) {
	var port gorm.Port
	err := r.db.WithContext(ctx).
		Where("UPPER(code) = UPPER(?)", code).
		First(&port).Error
	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &port, nil
}

// All returns the full directory, used to build the in-memory name index.
func (r *PortRepository) All(ctx context.Context) ([]gorm.Port, error) {
	var ports []gorm.Port
	err := r.db.WithContext(ctx).Order("code").Find(&ports).Error
	return ports, err
}

// BatchInsert inserts directory entries, skipping codes already present.
func (r *PortRepository) BatchInsert(ctx context.Context, ports []gorm.Port) error {
	valid := make([]gorm.Port, 0, len(ports))
	for _, p := range ports {
		p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
		if p.Code == "" || p.Name == "" {
			continue
		}
		valid = append(valid, p)
	}
	if len(valid) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(valid, 100).Error
}

// Count returns total number of ports
func (r *PortRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&gorm.Port{}).Count(&count).Error
	return count, err
}
