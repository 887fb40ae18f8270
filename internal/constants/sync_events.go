package constants

// Sync run types for the sync_runs table
const (
	SyncRunFull     = "FULL_ARTICLE_SYNC"
	SyncRunMetadata = "ARTICLE_METADATA_SYNC"
	SyncRunWebhook  = "ARTICLE_WEBHOOK_SYNC"
	SyncRunPush     = "ARTICLE_PUSH"
)

// Sync run statuses
const (
	SyncStatusRunning   = "RUNNING"
	SyncStatusCompleted = "COMPLETED"
	SyncStatusFailed    = "FAILED"
)
