package providers

import (
	"context"
	"fmt"

	"freightops/harbormaster/internal/models/dtos"
)

// CatalogProvider is the outbound interface to the upstream ERP catalog.
type CatalogProvider interface {
	// ListOffers fetches one page of the offers listing with line items and
	// client data included.
	ListOffers(ctx context.Context, page, size int) (*dtos.OfferListResponse, error)

	// GetArticle fetches the full article representation.
	GetArticle(ctx context.Context, externalID string) (*dtos.ArticleDetail, error)

	// UpdateArticle applies a partial update to an article.
	UpdateArticle(ctx context.Context, externalID string, update *dtos.ArticleUpdate) error
}

// ProviderError wraps every upstream failure with a stable code.
type ProviderError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
