package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"freightops/harbormaster/internal/config"
	"freightops/harbormaster/internal/constants"
	"freightops/harbormaster/internal/db/repositories"
	"freightops/harbormaster/internal/models/dtos"
	gormModels "freightops/harbormaster/internal/models/gorm"
	"freightops/harbormaster/internal/providers"
)

func testPushConfig() config.PushConfig {
	return config.PushConfig{
		MaxAttempts:    3,
		RetryBaseDelay: time.Millisecond,
		BulkItemDelay:  time.Millisecond,
		PriceEpsilon:   0.01,
	}
}

func seedArticle(t *testing.T, repo *repositories.ArticleRepository, article *gormModels.Article) *gormModels.Article {
	t.Helper()
	ctx := context.Background()
	if err := repo.Upsert(ctx, article); err != nil {
		t.Fatalf("Failed to seed article: %v", err)
	}
	stored, err := repo.FindByExternalID(ctx, article.ExternalID)
	if err != nil || stored == nil {
		t.Fatalf("Failed to reload seeded article: %v", err)
	}
	return stored
}

func TestPushArticle_SendsOnlyChangedFields(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewArticleRepository(db)

	seedArticle(t, repo, &gormModels.Article{
		ExternalID:    "art-1",
		Name:          "Grimaldi RORO Export",
		POLCode:       "ANR",
		TransportMode: constants.ModeRoRo,
		IsParent:      true,
	})

	var received *dtos.ArticleUpdate
	provider := &mockCatalogProvider{
		getArticleFunc: func(ctx context.Context, externalID string) (*dtos.ArticleDetail, error) {
			return &dtos.ArticleDetail{
				ID: externalID,
				ExtraFields: []dtos.ExtraField{
					{Name: "Pol Code", StringValue: strPtr("RTM")},
					{Name: "TRANSPORT_MODE", StringValue: strPtr("FCL")},
				},
			}, nil
		},
		updateArticleFunc: func(ctx context.Context, externalID string, update *dtos.ArticleUpdate) error {
			received = update
			return nil
		},
	}

	svc := NewArticlePushService(provider, repo, &fakeRunStore{}, testPushConfig())
	svc.sleep = func(time.Duration) {}

	result := svc.PushArticle(context.Background(), "art-1",
		[]string{"pol_code", "transport_mode", "parent_item"})

	if result.Status != PushStatusUpdated {
		t.Fatalf("Expected UPDATED, got %s (%s)", result.Status, result.Error)
	}
	if received == nil {
		t.Fatal("Expected update payload sent upstream")
	}

	// POL lands on the spelling the remote record carries
	pol, ok := received.ExtraFields["Pol Code"]
	if !ok {
		t.Fatalf("Expected POL under remote spelling, got %+v", received.ExtraFields)
	}
	if pol.StringValue == nil || *pol.StringValue != "ANR" {
		t.Errorf("Unexpected POL value: %+v", pol)
	}

	mode, ok := received.ExtraFields["TRANSPORT_MODE"]
	if !ok || mode.StringValue == nil || *mode.StringValue != "RORO" {
		t.Errorf("Expected transport mode RORO, got %+v", mode)
	}

	// Checkbox true against an absent remote field is a transition
	parent, ok := received.ExtraFields["PARENT_ITEM"]
	if !ok || parent.BoolValue == nil || !*parent.BoolValue {
		t.Errorf("Expected parent checkbox set, got %+v", parent)
	}

	if len(result.PushedFields) != 3 {
		t.Errorf("Expected 3 pushed fields, got %v", result.PushedFields)
	}
}

func TestPushArticle_IdenticalStateIsNoop(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewArticleRepository(db)

	seedArticle(t, repo, &gormModels.Article{
		ExternalID: "art-1",
		Name:       "Grimaldi RORO Export",
		POLCode:    "ANR",
		IsParent:   false,
	})

	provider := &mockCatalogProvider{
		getArticleFunc: func(ctx context.Context, externalID string) (*dtos.ArticleDetail, error) {
			return &dtos.ArticleDetail{
				ID: externalID,
				ExtraFields: []dtos.ExtraField{
					{Name: "POL", StringValue: strPtr("ANR")},
				},
			}, nil
		},
	}

	svc := NewArticlePushService(provider, repo, &fakeRunStore{}, testPushConfig())
	svc.sleep = func(time.Duration) {}

	result := svc.PushArticle(context.Background(), "art-1", []string{"pol_code", "parent_item"})

	if result.Status != PushStatusNoop {
		t.Fatalf("Expected NOTHING_TO_UPDATE, got %s (%s)", result.Status, result.Error)
	}
	if provider.updateCalls != 0 {
		t.Errorf("Noop must not call the update endpoint, got %d calls", provider.updateCalls)
	}
}

func TestPushArticle_SecondPushIsNoop(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewArticleRepository(db)

	seedArticle(t, repo, &gormModels.Article{
		ExternalID: "art-1",
		Name:       "Service line",
		Notes:      "West Africa service",
	})

	// Remote state converges after the first successful push
	var remoteNotes string
	provider := &mockCatalogProvider{
		getArticleFunc: func(ctx context.Context, externalID string) (*dtos.ArticleDetail, error) {
			detail := &dtos.ArticleDetail{ID: externalID}
			if remoteNotes != "" {
				detail.ExtraFields = []dtos.ExtraField{
					{Name: "NOTES", StringValue: strPtr(remoteNotes)},
				}
			}
			return detail, nil
		},
		updateArticleFunc: func(ctx context.Context, externalID string, update *dtos.ArticleUpdate) error {
			if f, ok := update.ExtraFields["NOTES"]; ok && f.StringValue != nil {
				remoteNotes = *f.StringValue
			}
			return nil
		},
	}

	svc := NewArticlePushService(provider, repo, &fakeRunStore{}, testPushConfig())
	svc.sleep = func(time.Duration) {}

	ctx := context.Background()
	first := svc.PushArticle(ctx, "art-1", []string{"notes"})
	if first.Status != PushStatusUpdated {
		t.Fatalf("Expected first push to update, got %s (%s)", first.Status, first.Error)
	}

	second := svc.PushArticle(ctx, "art-1", []string{"notes"})
	if second.Status != PushStatusNoop {
		t.Errorf("Expected idempotent second push, got %s", second.Status)
	}
	if provider.updateCalls != 1 {
		t.Errorf("Expected exactly one update call, got %d", provider.updateCalls)
	}
}

func TestPushArticle_ChoiceAbsentRemotelyIsDropped(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewArticleRepository(db)

	seedArticle(t, repo, &gormModels.Article{
		ExternalID:   "art-1",
		Name:         "Service line",
		CustomerType: "DEALER",
	})

	provider := &mockCatalogProvider{
		getArticleFunc: func(ctx context.Context, externalID string) (*dtos.ArticleDetail, error) {
			return &dtos.ArticleDetail{ID: externalID}, nil
		},
	}

	svc := NewArticlePushService(provider, repo, &fakeRunStore{}, testPushConfig())
	svc.sleep = func(time.Duration) {}

	result := svc.PushArticle(context.Background(), "art-1", []string{"customer_type"})

	if result.Status != PushStatusNoop {
		t.Errorf("Choice fields must never be created remotely, got %s", result.Status)
	}
	if provider.updateCalls != 0 {
		t.Errorf("Expected no update call, got %d", provider.updateCalls)
	}
}

func TestPushArticle_CheckboxUnsetTransition(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewArticleRepository(db)

	seedArticle(t, repo, &gormModels.Article{
		ExternalID: "art-1",
		Name:       "Service line",
		Mandatory:  false,
	})

	yes := true
	var received *dtos.ArticleUpdate
	provider := &mockCatalogProvider{
		getArticleFunc: func(ctx context.Context, externalID string) (*dtos.ArticleDetail, error) {
			return &dtos.ArticleDetail{
				ID: externalID,
				ExtraFields: []dtos.ExtraField{
					{Name: "MANDATORY", BoolValue: &yes},
				},
			}, nil
		},
		updateArticleFunc: func(ctx context.Context, externalID string, update *dtos.ArticleUpdate) error {
			received = update
			return nil
		},
	}

	svc := NewArticlePushService(provider, repo, &fakeRunStore{}, testPushConfig())
	svc.sleep = func(time.Duration) {}

	result := svc.PushArticle(context.Background(), "art-1", []string{"mandatory"})

	if result.Status != PushStatusUpdated {
		t.Fatalf("Unsetting a checkbox is a transition, got %s", result.Status)
	}
	field, ok := received.ExtraFields["MANDATORY"]
	if !ok || field.BoolValue == nil || *field.BoolValue {
		t.Errorf("Expected explicit false, got %+v", field)
	}
}

func TestPushArticle_PriceWithinEpsilonIsNoop(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewArticleRepository(db)

	article := &gormModels.Article{
		ExternalID: "art-1",
		Name:       "Service line",
	}
	article.PriceAmount = decimal.NewFromFloat(1250.004)
	seedArticle(t, repo, article)

	provider := &mockCatalogProvider{
		getArticleFunc: func(ctx context.Context, externalID string) (*dtos.ArticleDetail, error) {
			return &dtos.ArticleDetail{ID: externalID, SalePrice: 1250.0}, nil
		},
	}

	svc := NewArticlePushService(provider, repo, &fakeRunStore{}, testPushConfig())
	svc.sleep = func(time.Duration) {}

	result := svc.PushArticle(context.Background(), "art-1", []string{"sale_price"})
	if result.Status != PushStatusNoop {
		t.Errorf("Sub-epsilon price drift must not push, got %s", result.Status)
	}
}

func TestPushArticle_PriceBeyondEpsilonIsPushed(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewArticleRepository(db)

	article := &gormModels.Article{
		ExternalID: "art-1",
		Name:       "Service line",
	}
	article.PriceAmount = decimal.NewFromFloat(1300)
	seedArticle(t, repo, article)

	var received *dtos.ArticleUpdate
	provider := &mockCatalogProvider{
		getArticleFunc: func(ctx context.Context, externalID string) (*dtos.ArticleDetail, error) {
			return &dtos.ArticleDetail{ID: externalID, SalePrice: 1250.0}, nil
		},
		updateArticleFunc: func(ctx context.Context, externalID string, update *dtos.ArticleUpdate) error {
			received = update
			return nil
		},
	}

	svc := NewArticlePushService(provider, repo, &fakeRunStore{}, testPushConfig())
	svc.sleep = func(time.Duration) {}

	result := svc.PushArticle(context.Background(), "art-1", []string{"sale_price"})
	if result.Status != PushStatusUpdated {
		t.Fatalf("Expected price push, got %s (%s)", result.Status, result.Error)
	}
	if received.SalePrice == nil || *received.SalePrice != 1300 {
		t.Errorf("Expected top-level sale price 1300, got %+v", received.SalePrice)
	}
}

func TestPushArticle_TransientFailuresAreRetried(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewArticleRepository(db)

	seedArticle(t, repo, &gormModels.Article{
		ExternalID: "art-1",
		Name:       "Service line",
		Notes:      "note",
	})

	failures := 2
	provider := &mockCatalogProvider{
		getArticleFunc: func(ctx context.Context, externalID string) (*dtos.ArticleDetail, error) {
			return &dtos.ArticleDetail{ID: externalID}, nil
		},
		updateArticleFunc: func(ctx context.Context, externalID string, update *dtos.ArticleUpdate) error {
			if failures > 0 {
				failures--
				return &providers.ProviderError{
					Code:    constants.ErrCodeUpstreamError,
					Message: "bad gateway",
				}
			}
			return nil
		},
	}

	svc := NewArticlePushService(provider, repo, &fakeRunStore{}, testPushConfig())
	slept := 0
	svc.sleep = func(time.Duration) { slept++ }

	result := svc.PushArticle(context.Background(), "art-1", []string{"notes"})

	if result.Status != PushStatusUpdated {
		t.Fatalf("Expected success after retries, got %s (%s)", result.Status, result.Error)
	}
	if provider.updateCalls != 3 {
		t.Errorf("Expected 3 update attempts, got %d", provider.updateCalls)
	}
	if slept != 2 {
		t.Errorf("Expected backoff between attempts, slept %d times", slept)
	}
}

func TestPushArticle_PermanentFailureIsNotRetried(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewArticleRepository(db)

	seedArticle(t, repo, &gormModels.Article{
		ExternalID: "art-1",
		Name:       "Service line",
		Notes:      "note",
	})

	provider := &mockCatalogProvider{
		getArticleFunc: func(ctx context.Context, externalID string) (*dtos.ArticleDetail, error) {
			return &dtos.ArticleDetail{ID: externalID}, nil
		},
		updateArticleFunc: func(ctx context.Context, externalID string, update *dtos.ArticleUpdate) error {
			return &providers.ProviderError{
				Code:    constants.ErrCodeBadRequest,
				Message: "unknown field",
			}
		},
	}

	svc := NewArticlePushService(provider, repo, &fakeRunStore{}, testPushConfig())
	svc.sleep = func(time.Duration) {}

	result := svc.PushArticle(context.Background(), "art-1", []string{"notes"})

	if result.Status != PushStatusFailed {
		t.Fatalf("Expected failure, got %s", result.Status)
	}
	if provider.updateCalls != 1 {
		t.Errorf("Permanent rejection must not retry, got %d calls", provider.updateCalls)
	}
}

func TestPushArticle_UnknownLocalArticleFails(t *testing.T) {
	db := setupTestDB(t)

	provider := &mockCatalogProvider{}
	svc := NewArticlePushService(provider, repositories.NewArticleRepository(db), &fakeRunStore{}, testPushConfig())

	result := svc.PushArticle(context.Background(), "ghost", []string{"notes"})

	if result.Status != PushStatusFailed {
		t.Fatalf("Expected failure for unknown article, got %s", result.Status)
	}
	if provider.getCalls != 0 {
		t.Errorf("Unknown article must not hit the API, got %d calls", provider.getCalls)
	}
}

func TestPushBulk_AggregatesOutcomes(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewArticleRepository(db)

	seedArticle(t, repo, &gormModels.Article{ExternalID: "art-1", Name: "A", Notes: "changed"})
	seedArticle(t, repo, &gormModels.Article{ExternalID: "art-2", Name: "B", Notes: "same"})

	provider := &mockCatalogProvider{
		getArticleFunc: func(ctx context.Context, externalID string) (*dtos.ArticleDetail, error) {
			detail := &dtos.ArticleDetail{ID: externalID}
			if externalID == "art-2" {
				detail.ExtraFields = []dtos.ExtraField{
					{Name: "NOTES", StringValue: strPtr("same")},
				}
			}
			return detail, nil
		},
	}

	runs := &fakeRunStore{}
	svc := NewArticlePushService(provider, repo, runs, testPushConfig())
	svc.sleep = func(time.Duration) {}

	bulk := svc.PushBulk(context.Background(), []string{"art-1", "art-2", "ghost"}, []string{"notes"})

	if len(bulk.Results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(bulk.Results))
	}
	statuses := map[string]string{}
	for _, r := range bulk.Results {
		statuses[r.ExternalID] = r.Status
	}
	if statuses["art-1"] != PushStatusUpdated {
		t.Errorf("Expected art-1 updated, got %s", statuses["art-1"])
	}
	if statuses["art-2"] != PushStatusNoop {
		t.Errorf("Expected art-2 noop, got %s", statuses["art-2"])
	}
	if statuses["ghost"] != PushStatusFailed {
		t.Errorf("Expected ghost failed, got %s", statuses["ghost"])
	}

	if len(bulk.SucceededFields) != 1 || bulk.SucceededFields[0] != "notes" {
		t.Errorf("Expected succeeded fields [notes], got %v", bulk.SucceededFields)
	}

	if len(runs.started) != 1 || runs.started[0] != constants.SyncRunPush {
		t.Errorf("Expected one push run recorded, got %v", runs.started)
	}
	if runs.completed != 1 {
		t.Errorf("Expected run finalized, got %d completions", runs.completed)
	}
}
