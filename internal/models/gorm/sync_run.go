package gorm

import "time"

// SyncRun records one sync or push invocation. Created when the run starts,
// finalized exactly once on completion or failure, never deleted.
type SyncRun struct {
	ID          string     `db:"id" gorm:"primaryKey"`
	RunType     string     `db:"run_type" gorm:"index"`
	Status      string     `db:"status"`
	StartedAt   time.Time  `db:"started_at"`
	CompletedAt *time.Time `db:"completed_at"`
	ItemCount   int        `db:"item_count"`
	ErrorCount  int        `db:"error_count"`
	Error       string     `db:"error"`
}
