package responses

import "time"

type APIResponse[T any] struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
	Data      *T        `json:"data,omitempty"`
}

// ServiceStatus is one dependency's health probe result.
type ServiceStatus struct {
	Status  string `json:"status"`
	Details string `json:"details,omitempty"`
}

// HealthCheckResponse is the GET /healthCheck payload.
type HealthCheckResponse struct {
	Status   string                   `json:"status"`
	Uptime   string                   `json:"uptime"`
	Services map[string]ServiceStatus `json:"services"`
}

// ArticleSummary is the list-view projection of a cached article.
type ArticleSummary struct {
	ID            string   `json:"id"`
	ExternalID    string   `json:"external_id"`
	Code          string   `json:"code"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	TransportMode string   `json:"transport_mode,omitempty"`
	POLCode       string   `json:"pol_code,omitempty"`
	PODCode       string   `json:"pod_code,omitempty"`
	Carriers      []string `json:"carriers,omitempty"`
	ServiceTags   []string `json:"service_tags,omitempty"`
	Price         string   `json:"price"`
	Currency      string   `json:"currency,omitempty"`
	IsParent      bool     `json:"is_parent"`
	IsSurcharge   bool     `json:"is_surcharge"`
	NeedsReview   bool     `json:"needs_review"`
}

// ArticleListResponse is the paged article listing payload.
type ArticleListResponse struct {
	Items  []ArticleSummary `json:"items"`
	Total  int64            `json:"total"`
	Offset int              `json:"offset"`
	Limit  int              `json:"limit"`
}

// LinkedChild is one parent/child edge with the child's identity inlined.
type LinkedChild struct {
	ArticleID  string `json:"article_id"`
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	SortOrder  int    `json:"sort_order"`
	Required   bool   `json:"required"`
	CostType   string `json:"cost_type,omitempty"`
}

// SyncRunInfo is one sync run's bookkeeping record.
type SyncRunInfo struct {
	ID          string `json:"id"`
	RunType     string `json:"run_type"`
	Status      string `json:"status"`
	StartedAt   string `json:"started_at"`
	CompletedAt string `json:"completed_at,omitempty"`
	ItemCount   int    `json:"item_count"`
	ErrorCount  int    `json:"error_count"`
	Error       string `json:"error,omitempty"`
}

// SyncRunListResponse is the sync-run history payload.
type SyncRunListResponse struct {
	Items []SyncRunInfo `json:"items"`
}

// SyncTriggerResponse reports a manually triggered sync run.
type SyncTriggerResponse struct {
	RunID        string `json:"run_id,omitempty"`
	Pages        int    `json:"pages,omitempty"`
	Items        int    `json:"items"`
	Errors       int    `json:"errors"`
	ResponseTime string `json:"response_time"`
}

// PushTriggerResponse reports a manually triggered push.
type PushTriggerResponse struct {
	Results         []PushItemResult `json:"results"`
	SucceededFields []string         `json:"succeeded_fields,omitempty"`
	ResponseTime    string           `json:"response_time"`
}

// PushItemResult is one article's push outcome.
type PushItemResult struct {
	ExternalID   string   `json:"external_id"`
	Status       string   `json:"status"`
	Error        string   `json:"error,omitempty"`
	Attempts     int      `json:"attempts"`
	PushedFields []string `json:"pushed_fields,omitempty"`
}
