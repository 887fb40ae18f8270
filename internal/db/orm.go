package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"freightops/harbormaster/internal/logging"
	gormmodels "freightops/harbormaster/internal/models/gorm"
)

var PgDB *gorm.DB

// InitPostgresORM opens the GORM connection used for the article catalog
// tables and migrates their schema.
func InitPostgresORM(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := db.AutoMigrate(
		&gormmodels.Article{},
		&gormmodels.ArticleLink{},
		&gormmodels.Port{},
		&gormmodels.Carrier{},
		&gormmodels.SyncRun{},
		&gormmodels.APIKey{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	PgDB = db
	logging.Info("Connected to Postgres via GORM")
	return db, nil
}
