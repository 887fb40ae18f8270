package dtos

// ArticleWebhookEvent is the inbound payload the upstream ERP posts when an
// article changes. It carries the full article representation, so the
// metadata sync can run with zero outbound calls.
type ArticleWebhookEvent struct {
	Event     string        `json:"event"`
	Timestamp APIDate       `json:"timestamp"`
	Article   ArticleDetail `json:"article"`
}

// Webhook event names we act on. Anything else is acknowledged and ignored.
const (
	WebhookArticleCreated = "article.created"
	WebhookArticleUpdated = "article.updated"
)
