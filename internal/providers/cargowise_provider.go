package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"freightops/harbormaster/internal/common"
	"freightops/harbormaster/internal/config"
	"freightops/harbormaster/internal/constants"
	"freightops/harbormaster/internal/metrics"
	"freightops/harbormaster/internal/models/dtos"
)

// CargowiseProvider talks to the upstream ERP catalog API. Every outbound
// call passes the quota guard first; every response feeds its rate-limit
// headers back into the shared counter.
type CargowiseProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Quota   *common.QuotaGuard
}

var _ CatalogProvider = (*CargowiseProvider)(nil)

// NewCargowiseProvider builds a provider from the upstream config. The
// per-call timeout and the connect timeout are both explicit.
func NewCargowiseProvider(cfg config.UpstreamConfig, quota *common.QuotaGuard) *CargowiseProvider {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
	}
	return &CargowiseProvider{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Client: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: transport,
		},
		Quota: quota,
	}
}

// ListOffers fetches one page of the paged offers listing.
func (p *CargowiseProvider) ListOffers(ctx context.Context, page, size int) (*dtos.OfferListResponse, error) {
	if page < 1 {
		return nil, fmt.Errorf("page number must be >= 1, got %d", page)
	}

	endpoint := fmt.Sprintf("%s/api/v1/offers?page=%d&size=%d&include=lineItems,client",
		p.BaseURL, page, size)

	body, err := p.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var listing dtos.OfferListResponse
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeMalformedReply,
			Message: constants.GetErrorMessage(constants.ErrCodeMalformedReply),
			Err:     err,
		}
	}
	return &listing, nil
}

// GetArticle fetches the full detail payload of one article.
func (p *CargowiseProvider) GetArticle(ctx context.Context, externalID string) (*dtos.ArticleDetail, error) {
	if externalID == "" {
		return nil, fmt.Errorf("external ID is required")
	}

	endpoint := fmt.Sprintf("%s/api/v1/articles/%s", p.BaseURL, url.PathEscape(externalID))

	body, err := p.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	detail, err := dtos.DecodeArticleDetail(body)
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeMalformedReply,
			Message: constants.GetErrorMessage(constants.ErrCodeMalformedReply),
			Err:     err,
		}
	}
	return detail, nil
}

// UpdateArticle issues a partial update for one article.
func (p *CargowiseProvider) UpdateArticle(ctx context.Context, externalID string, update *dtos.ArticleUpdate) error {
	if externalID == "" {
		return fmt.Errorf("external ID is required")
	}
	if update == nil || update.IsEmpty() {
		return fmt.Errorf("update payload is empty")
	}

	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal update: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/v1/articles/%s", p.BaseURL, url.PathEscape(externalID))
	_, err = p.doRequest(ctx, http.MethodPatch, endpoint, payload)
	return err
}

// doRequest runs one guarded HTTP call and returns the response body.
func (p *CargowiseProvider) doRequest(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	if p.Quota != nil {
		p.Quota.Wait()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		code := constants.ErrCodeNetworkError
		if isTimeout(err) {
			code = constants.ErrCodeTimeout
		}
		metrics.UpstreamRequestsTotal.WithLabelValues(code).Inc()
		return nil, &ProviderError{
			Code:    code,
			Message: constants.GetErrorMessage(code),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if p.Quota != nil {
		p.Quota.ObserveHeaders(resp.Header)
	}

	if err := p.handleHTTPError(resp); err != nil {
		var provErr *ProviderError
		if errors.As(err, &provErr) {
			metrics.UpstreamRequestsTotal.WithLabelValues(provErr.Code).Inc()
		}
		return nil, err
	}
	metrics.UpstreamRequestsTotal.WithLabelValues("OK").Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	return body, nil
}

func (p *CargowiseProvider) handleHTTPError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(resp.Body)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ProviderError{
			Code:    constants.ErrCodeInvalidAPIKey,
			Message: constants.GetErrorMessage(constants.ErrCodeInvalidAPIKey),
			Details: string(body),
		}
	case http.StatusNotFound:
		return &ProviderError{
			Code:    constants.ErrCodeNotFound,
			Message: constants.GetErrorMessage(constants.ErrCodeNotFound),
			Details: string(body),
		}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &ProviderError{
			Code:    constants.ErrCodeBadRequest,
			Message: constants.GetErrorMessage(constants.ErrCodeBadRequest),
			Details: string(body),
		}
	case http.StatusTooManyRequests:
		var rateErr error
		if p.Quota != nil {
			rateErr = p.Quota.OnRateLimited(resp.Header)
		} else {
			rateErr = &common.RateLimitError{RetryAfter: retryAfterOf(resp.Header)}
		}
		return &ProviderError{
			Code:    constants.ErrCodeRateLimited,
			Message: constants.GetErrorMessage(constants.ErrCodeRateLimited),
			Details: string(body),
			Err:     rateErr,
		}
	default:
		return &ProviderError{
			Code:    constants.ErrCodeUpstreamError,
			Message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)),
			Details: string(body),
		}
	}
}

func retryAfterOf(h http.Header) time.Duration {
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 30 * time.Second
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
