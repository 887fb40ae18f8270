package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"freightops/harbormaster/internal/common"
	"freightops/harbormaster/internal/config"
	"freightops/harbormaster/internal/constants"
	"freightops/harbormaster/internal/db/repositories"
	"freightops/harbormaster/internal/fieldmap"
	"freightops/harbormaster/internal/logging"
	"freightops/harbormaster/internal/metrics"
	"freightops/harbormaster/internal/models/dtos"
	gormmodels "freightops/harbormaster/internal/models/gorm"
	"freightops/harbormaster/internal/providers"
)

// Push outcome statuses.
const (
	PushStatusUpdated = "UPDATED"
	PushStatusNoop    = "NOTHING_TO_UPDATE"
	PushStatusFailed  = "FAILED"
)

// PushResult is the structured outcome of one push. Pushes never raise past
// this boundary; failures are carried in Status and Error.
type PushResult struct {
	ExternalID   string
	Status       string
	Error        string
	Attempts     int
	PushedFields []string
}

// BulkPushResult aggregates a batch of pushes.
type BulkPushResult struct {
	Results []PushResult
	// SucceededFields is the deduplicated set of field keys that made it
	// upstream anywhere in the batch.
	SucceededFields []string
}

// ArticlePushService writes locally edited fields back to the upstream ERP.
// Updates are diff-based and minimal: the remote record is fetched first and
// only fields that actually differ are sent.
type ArticlePushService struct {
	provider providers.CatalogProvider
	articles *repositories.ArticleRepository
	runs     SyncRunStore
	fields   *fieldmap.Mapper
	cfg      config.PushConfig

	// sleep is swapped out in tests
	sleep func(time.Duration)
}

func NewArticlePushService(
	provider providers.CatalogProvider,
	articles *repositories.ArticleRepository,
	runs SyncRunStore,
	cfg config.PushConfig,
) *ArticlePushService {
	return &ArticlePushService{
		provider: provider,
		articles: articles,
		runs:     runs,
		fields:   fieldmap.New(),
		cfg:      cfg,
		sleep:    time.Sleep,
	}
}

// resolvedField is one locally resolved value ready for diffing.
type resolvedField struct {
	field     *PushField
	value     any
	formatted string
}

// buildPayload resolves the requested field keys against the article.
// Unknown keys are skipped; nil values are skipped unless the field allows
// empty; values that format to empty are skipped the same way.
func (s *ArticlePushService) buildPayload(article *gormmodels.Article, fieldKeys []string) []resolvedField {
	resolved := make([]resolvedField, 0, len(fieldKeys))
	for _, key := range fieldKeys {
		field, ok := pushFieldByKey[key]
		if !ok {
			continue
		}

		value := field.Accessor(article)
		if value == nil && field.Fallback != nil {
			value = field.Fallback(article)
		}
		if value == nil && !field.AllowEmpty {
			continue
		}

		formatted := formatPushValue(field, value)
		if formatted == "" && !field.AllowEmpty {
			if _, isBool := value.(bool); !isBool {
				continue
			}
		}
		resolved = append(resolved, resolvedField{field: field, value: value, formatted: formatted})
	}
	return resolved
}

// PushArticle diffs the requested fields against the current remote state
// and issues one minimal update. Identical state short-circuits into a
// "nothing to update" result without touching the API.
func (s *ArticlePushService) PushArticle(ctx context.Context, externalID string, fieldKeys []string) PushResult {
	result := PushResult{ExternalID: externalID, Status: PushStatusFailed}
	defer func() { metrics.PushResultsTotal.WithLabelValues(result.Status).Inc() }()

	article, err := s.articles.FindByExternalID(ctx, externalID)
	if err != nil {
		result.Error = fmt.Sprintf("article lookup failed: %v", err)
		return result
	}
	if article == nil {
		result.Error = "article is not in the local cache"
		return result
	}

	var remote *dtos.ArticleDetail
	attempts, err := s.withTransientRetry(func() error {
		var fetchErr error
		remote, fetchErr = s.provider.GetArticle(ctx, externalID)
		return fetchErr
	})
	result.Attempts = attempts
	if err != nil {
		result.Error = fmt.Sprintf("remote fetch failed: %v", err)
		return result
	}

	toSend := s.diff(s.buildPayload(article, fieldKeys), remote)
	if len(toSend) == 0 {
		result.Status = PushStatusNoop
		return result
	}

	update := s.renderUpdate(toSend, remote)
	attempts, err = s.withTransientRetry(func() error {
		return s.provider.UpdateArticle(ctx, externalID, update)
	})
	result.Attempts += attempts
	if err != nil {
		result.Error = fmt.Sprintf("update failed: %v", err)
		return result
	}

	now := time.Now().UTC()
	article.LastPushedAt = &now
	if err := s.articles.Save(ctx, article); err != nil {
		logging.Warn("Failed to record push timestamp", "external_id", externalID, "error", err)
	}

	result.Status = PushStatusUpdated
	for _, f := range toSend {
		result.PushedFields = append(result.PushedFields, f.field.Key)
	}
	return result
}

// diff drops every resolved field whose remote state already matches.
func (s *ArticlePushService) diff(resolved []resolvedField, remote *dtos.ArticleDetail) []resolvedField {
	remoteFields := remote.ExtraFieldMap()
	out := make([]resolvedField, 0, len(resolved))

	for _, rf := range resolved {
		if rf.field.TopLevel {
			local, ok := rf.value.(float64)
			if !ok {
				continue
			}
			if math.Abs(local-remote.SalePrice) > s.cfg.PriceEpsilon {
				out = append(out, rf)
			}
			continue
		}

		switch rf.field.Type {
		case PushChoice:
			// Choice options are predefined upstream; a field absent
			// remotely must never be created by a push.
			if !s.fields.HasField(remoteFields, rf.field.Key) {
				continue
			}
			remoteVal := s.fields.FindStringValue(remoteFields, rf.field.Key)
			if !strings.EqualFold(strings.TrimSpace(remoteVal), rf.formatted) {
				out = append(out, rf)
			}

		case PushCheckbox:
			local, _ := rf.value.(bool)
			remoteVal := s.fields.GetBooleanValue(remoteFields, rf.field.Key)
			remoteTrue := remoteVal != nil && *remoteVal
			// Only actual transitions go out. Unsetting (false locally,
			// true remotely) is a transition; false against false or an
			// absent remote field is not.
			if local != remoteTrue {
				out = append(out, rf)
			}

		case PushNumber:
			local, ok := rf.value.(float64)
			if !ok {
				continue
			}
			remoteRaw := s.fields.FindFieldValue(remoteFields, rf.field.Key)
			remoteNum, isNum := remoteRaw.(float64)
			if !isNum || math.Abs(local-remoteNum) > s.cfg.PriceEpsilon {
				out = append(out, rf)
			}

		default:
			remoteVal := strings.TrimSpace(s.fields.FindStringValue(remoteFields, rf.field.Key))
			if !strings.EqualFold(remoteVal, rf.formatted) {
				out = append(out, rf)
			}
		}
	}
	return out
}

// renderUpdate builds the wire payload. Fields reuse the spelling the
// remote record actually carries so updates land on the existing field.
func (s *ArticlePushService) renderUpdate(toSend []resolvedField, remote *dtos.ArticleDetail) *dtos.ArticleUpdate {
	remoteFields := remote.ExtraFieldMap()
	update := &dtos.ArticleUpdate{ExtraFields: make(map[string]dtos.UpdateField)}

	for _, rf := range toSend {
		if rf.field.TopLevel {
			if v, ok := rf.value.(float64); ok {
				update.SalePrice = &v
			}
			continue
		}

		name := s.fields.ActualFieldName(remoteFields, rf.field.Key)
		if name == "" {
			name = rf.field.UpstreamName
		}

		switch v := rf.value.(type) {
		case bool:
			update.ExtraFields[name] = dtos.BoolField(v, rf.field.Group)
		case float64:
			// Decimal vs integer by fractional-part presence
			if v == math.Trunc(v) {
				update.ExtraFields[name] = dtos.IntegerField(int64(v), rf.field.Group)
			} else {
				update.ExtraFields[name] = dtos.DecimalField(v, rf.field.Group)
			}
		default:
			update.ExtraFields[name] = dtos.StringField(rf.formatted, rf.field.Group)
		}
	}
	return update
}

// maxRetryDelay caps the exponential backoff between push attempts.
const maxRetryDelay = 30 * time.Second

// withTransientRetry runs op up to the configured attempt count. Only the
// transient status classes are retried; anything else returns immediately.
func (s *ArticlePushService) withTransientRetry(op func() error) (int, error) {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return attempt, nil
		}
		if attempt == s.cfg.MaxAttempts || !isTransientPushError(lastErr) {
			return attempt, lastErr
		}

		delay := s.cfg.RetryBaseDelay * time.Duration(1<<(attempt-1))
		if delay > maxRetryDelay {
			delay = maxRetryDelay
		}
		var rateErr *common.RateLimitError
		if errors.As(lastErr, &rateErr) && rateErr.RetryAfter > delay {
			delay = rateErr.RetryAfter
		}
		s.sleep(delay)
	}
	return s.cfg.MaxAttempts, lastErr
}

// isTransientPushError maps provider error codes back to the fixed set of
// retryable HTTP statuses (429, 500, 502, 503, 504).
func isTransientPushError(err error) bool {
	var provErr *providers.ProviderError
	if !errors.As(err, &provErr) {
		return false
	}
	switch provErr.Code {
	case constants.ErrCodeRateLimited, constants.ErrCodeUpstreamError,
		constants.ErrCodeNetworkError, constants.ErrCodeTimeout:
		return true
	default:
		return false
	}
}

// PushBulk pushes a batch sequentially with a fixed inter-item delay and
// aggregates per-item outcomes.
func (s *ArticlePushService) PushBulk(ctx context.Context, externalIDs []string, fieldKeys []string) BulkPushResult {
	bulk := BulkPushResult{Results: make([]PushResult, 0, len(externalIDs))}
	succeeded := make(map[string]bool)

	runID, err := s.runs.Start(ctx, constants.SyncRunPush)
	if err != nil {
		logging.Warn("Failed to record push run", "error", err)
	}
	log := logging.WithSyncRun(runID, constants.SyncRunPush)

	errCount := 0
	for i, id := range externalIDs {
		if i > 0 {
			s.sleep(s.cfg.BulkItemDelay)
		}

		result := s.PushArticle(ctx, id, fieldKeys)
		bulk.Results = append(bulk.Results, result)

		switch result.Status {
		case PushStatusUpdated:
			for _, key := range result.PushedFields {
				succeeded[key] = true
			}
		case PushStatusFailed:
			errCount++
			log.Warnw("Push failed", "external_id", id, "error", result.Error)
		}
	}

	for key := range succeeded {
		bulk.SucceededFields = append(bulk.SucceededFields, key)
	}
	sort.Strings(bulk.SucceededFields)

	if runID != "" {
		_ = s.runs.Complete(ctx, runID, len(externalIDs)-errCount, errCount)
	}
	return bulk
}
