package repositories

import (
	"context"

	gormlib "gorm.io/gorm"

	"freightops/harbormaster/internal/models/gorm"
)

// CarrierRepository handles the carriers directory table
type CarrierRepository struct {
	db *gormlib.DB
}

func NewCarrierRepository(db *gormlib.DB) *CarrierRepository {
	return &CarrierRepository{db: db}
}

// FindByName finds a carrier by exact name (case-insensitive)
func (r *CarrierRepository) FindByName(ctx context.Context, name string) (*gorm.Carrier, error) {
	var carrier gorm.Carrier
	err := r.db.WithContext(ctx).
		Where("UPPER(name) = UPPER(?)", name).
		First(&carrier).Error
	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &carrier, nil
}

// All returns the full carrier directory.
func (r *CarrierRepository) All(ctx context.Context) ([]gorm.Carrier, error) {
	var carriers []gorm.Carrier
	err := r.db.WithContext(ctx).Order("name").Find(&carriers).Error
	return carriers, err
}

// BatchInsert inserts carrier entries.
func (r *CarrierRepository) BatchInsert(ctx context.Context, carriers []gorm.Carrier) error {
	if len(carriers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(carriers, 100).Error
}
