package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"freightops/harbormaster/internal/constants"
	"freightops/harbormaster/internal/models/gorm"
)

type SyncRunRepository struct {
	db *sqlx.DB
}

func NewSyncRunRepository(db *sqlx.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

// Start records a new running sync and returns its id.
func (r *SyncRunRepository) Start(ctx context.Context, runType string) (string, error) {
	run := &gorm.SyncRun{
		ID:        uuid.NewString(),
		RunType:   runType,
		Status:    constants.SyncStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	const query = `
		INSERT INTO sync_runs (id, run_type, status, started_at, item_count, error_count, error)
		VALUES (:id, :run_type, :status, :started_at, 0, 0, '')
	`
	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return "", err
	}
	return run.ID, nil
}

// Complete finalizes a run as COMPLETED with its counters.
func (r *SyncRunRepository) Complete(ctx context.Context, id string, itemCount, errorCount int) error {
	const query = `
		UPDATE sync_runs
		SET status = $1, completed_at = $2, item_count = $3, error_count = $4
		WHERE id = $5
	`
	_, err := r.db.ExecContext(ctx, query,
		constants.SyncStatusCompleted, time.Now().UTC(), itemCount, errorCount, id)
	return err
}

// Fail finalizes a run as FAILED with an error message.
func (r *SyncRunRepository) Fail(ctx context.Context, id string, itemCount, errorCount int, errMsg string) error {
	const query = `
		UPDATE sync_runs
		SET status = $1, completed_at = $2, item_count = $3, error_count = $4, error = $5
		WHERE id = $6
	`
	_, err := r.db.ExecContext(ctx, query,
		constants.SyncStatusFailed, time.Now().UTC(), itemCount, errorCount, errMsg, id)
	return err
}

// ListRecent returns the most recent runs, newest first. An empty runType
// returns runs of every type.
func (r *SyncRunRepository) ListRecent(ctx context.Context, runType string, limit int) ([]gorm.SyncRun, error) {
	runs := []gorm.SyncRun{}
	if runType != "" {
		const query = `
			SELECT id, run_type, status, started_at, completed_at, item_count, error_count, error
			FROM sync_runs
			WHERE run_type = $1
			ORDER BY started_at DESC
			LIMIT $2
		`
		err := r.db.SelectContext(ctx, &runs, query, runType, limit)
		return runs, err
	}

	const query = `
		SELECT id, run_type, status, started_at, completed_at, item_count, error_count, error
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT $1
	`
	err := r.db.SelectContext(ctx, &runs, query, limit)
	return runs, err
}
