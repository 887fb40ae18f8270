package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"freightops/harbormaster/internal/common"
	"freightops/harbormaster/internal/constants"
	"freightops/harbormaster/internal/models/dtos"
)

func testProvider(serverURL string) *CargowiseProvider {
	quota := common.NewQuotaGuard(common.NewCacheService(300, 600), 5, 30*time.Second)
	return &CargowiseProvider{
		BaseURL: serverURL,
		APIKey:  "test-key",
		Client:  &http.Client{},
		Quota:   quota,
	}
}

func TestListOffers_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		if r.URL.Path != "/api/v1/offers" {
			t.Errorf("Expected path /api/v1/offers, got %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("page") != "1" || q.Get("size") != "50" {
			t.Errorf("Unexpected paging params: %s", r.URL.RawQuery)
		}
		if q.Get("include") != "lineItems,client" {
			t.Errorf("Expected include=lineItems,client, got %s", q.Get("include"))
		}

		response := dtos.OfferListResponse{
			Page:       1,
			TotalPages: 3,
			TotalItems: 120,
			Items: []dtos.Offer{
				{
					ID:     "offer-1",
					Number: "Q-2025-001",
					LineItems: []dtos.OfferLineItem{
						{ArticleID: "art-1", Name: "Seafreight FCL Export ST332", Price: 1250.0, Currency: "EUR"},
					},
				},
			},
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	provider := testProvider(server.URL)

	result, err := provider.ListOffers(context.Background(), 1, 50)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.TotalPages != 3 {
		t.Errorf("Expected 3 total pages, got %d", result.TotalPages)
	}
	if len(result.Items) != 1 || len(result.Items[0].LineItems) != 1 {
		t.Fatalf("Unexpected listing shape: %+v", result)
	}
	if result.Items[0].LineItems[0].ArticleID != "art-1" {
		t.Errorf("Expected article art-1, got %s", result.Items[0].LineItems[0].ArticleID)
	}
}

func TestListOffers_InvalidPage(t *testing.T) {
	provider := testProvider("http://localhost:1")

	_, err := provider.ListOffers(context.Background(), 0, 50)
	if err == nil {
		t.Error("Expected error for page number < 1")
	}
}

func TestGetArticle_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/articles/art-42" {
			t.Errorf("Expected path /api/v1/articles/art-42, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Missing bearer token, got %q", r.Header.Get("Authorization"))
		}

		yes := true
		detail := dtos.ArticleDetail{
			ID:   "art-42",
			Name: "Grimaldi RORO Antwerp - Lagos",
			ExtraFields: []dtos.ExtraField{
				{Name: "PARENT_ITEM", BoolValue: &yes},
			},
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(detail)
	}))
	defer server.Close()

	provider := testProvider(server.URL)

	detail, err := provider.GetArticle(context.Background(), "art-42")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if detail.ID != "art-42" {
		t.Errorf("Expected id art-42, got %s", detail.ID)
	}
	if len(detail.ExtraFields) != 1 || detail.ExtraFields[0].Name != "PARENT_ITEM" {
		t.Errorf("Unexpected extra fields: %+v", detail.ExtraFields)
	}
}

func TestGetArticle_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "no such article"}`))
	}))
	defer server.Close()

	provider := testProvider(server.URL)

	_, err := provider.GetArticle(context.Background(), "missing")
	if err == nil {
		t.Fatal("Expected error for 404 response")
	}

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got %T", err)
	}
	if provErr.Code != constants.ErrCodeNotFound {
		t.Errorf("Expected code %s, got %s", constants.ErrCodeNotFound, provErr.Code)
	}
}

func TestGetArticle_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "12")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := testProvider(server.URL)

	_, err := provider.GetArticle(context.Background(), "art-1")
	if err == nil {
		t.Fatal("Expected rate limit error")
	}

	var rateErr *common.RateLimitError
	if !errors.As(err, &rateErr) {
		t.Fatalf("Expected RateLimitError in chain, got %v", err)
	}
	if rateErr.RetryAfter != 12*time.Second {
		t.Errorf("Expected 12s retry-after, got %v", rateErr.RetryAfter)
	}
}

func TestUpdateArticle_Success(t *testing.T) {
	var received dtos.ArticleUpdate

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PATCH" {
			t.Errorf("Expected PATCH request, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("Failed to decode update payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	provider := testProvider(server.URL)

	update := &dtos.ArticleUpdate{
		ExtraFields: map[string]dtos.UpdateField{
			"CARRIER": dtos.StringField("GRIMALDI", "shipping"),
		},
	}
	if err := provider.UpdateArticle(context.Background(), "art-1", update); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	field, ok := received.ExtraFields["CARRIER"]
	if !ok {
		t.Fatal("Expected CARRIER field in payload")
	}
	if field.StringValue == nil || *field.StringValue != "GRIMALDI" {
		t.Errorf("Unexpected carrier value: %+v", field)
	}
}

func TestUpdateArticle_EmptyPayloadRejectedLocally(t *testing.T) {
	provider := testProvider("http://localhost:1")

	err := provider.UpdateArticle(context.Background(), "art-1", &dtos.ArticleUpdate{})
	if err == nil {
		t.Error("Expected error for empty update payload")
	}
}

func TestDoRequest_ObservesQuotaHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "42")
		w.Header().Set("X-RateLimit-Reset", "60")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(dtos.OfferListResponse{Page: 1, TotalPages: 1})
	}))
	defer server.Close()

	cache := common.NewCacheService(300, 600)
	provider := &CargowiseProvider{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Client:  &http.Client{},
		Quota:   common.NewQuotaGuard(cache, 5, 30*time.Second),
	}

	if _, err := provider.ListOffers(context.Background(), 1, 10); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, found := cache.Get("erp:quota:remaining"); !found {
		t.Error("Expected quota remaining counter to be recorded")
	}
}
