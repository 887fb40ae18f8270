package dtos

import (
	"encoding/json"
	"time"
)

// -------- helper types -----------------------------------------------------

// APIDate tolerates the two timestamp layouts the upstream ERP emits and
// decodes null/empty to a zero time instead of erroring.
type APIDate struct{ time.Time }

var apiDateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (d *APIDate) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" {
		return nil
	}
	var lastErr error
	for _, layout := range apiDateLayouts {
		tt, err := time.Parse(layout, s)
		if err == nil {
			d.Time = tt
			return nil
		}
		lastErr = err
	}
	return lastErr
}

// -------- article detail ---------------------------------------------------

// ArticleDetail is the full upstream representation of one article, as
// returned by the detail endpoint and as delivered by webhooks.
type ArticleDetail struct {
	ID          string  `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	SalePrice   float64 `json:"salePrice"`
	CostPrice   float64 `json:"costPrice"`
	Currency    string  `json:"currency"`

	ExtraFields []ExtraField `json:"extraFields"`

	// The upstream API is inconsistent about which key carries child lines.
	CompositeItems []CompositeItem `json:"compositeItems"`
	ChildItems     []CompositeItem `json:"childItems"`
	SubArticles    []CompositeItem `json:"subArticles"`

	UpdatedAt APIDate `json:"updatedAt"`
}

// Children returns the composite/child items regardless of which of the
// alternate payload keys the upstream used.
func (a *ArticleDetail) Children() []CompositeItem {
	if len(a.CompositeItems) > 0 {
		return a.CompositeItems
	}
	if len(a.ChildItems) > 0 {
		return a.ChildItems
	}
	return a.SubArticles
}

// ExtraField is one entry of the upstream's typed custom-field dictionary.
// Exactly one of the typed slots is populated per entry; Value is a catch-all
// the older API versions used. Decoded once here, at the API boundary.
type ExtraField struct {
	Name        string   `json:"name"`
	StringValue *string  `json:"stringValue"`
	BoolValue   *bool    `json:"boolValue"`
	NumberValue *float64 `json:"numberValue"`
	Value       any      `json:"value"`
}

// FirstValue returns the first populated slot, or nil when every slot is null.
func (f *ExtraField) FirstValue() any {
	if f.StringValue != nil {
		return *f.StringValue
	}
	if f.BoolValue != nil {
		return *f.BoolValue
	}
	if f.NumberValue != nil {
		return *f.NumberValue
	}
	return f.Value
}

// CompositeItem is a surcharge or sub-line attached to a parent article.
type CompositeItem struct {
	ArticleID        string  `json:"articleId"`
	Name             string  `json:"name"`
	SortOrder        int     `json:"sortOrder"`
	Required         bool    `json:"required"`
	Conditional      bool    `json:"conditional"`
	CostType         string  `json:"costType"`
	DefaultQty       int     `json:"defaultQty"`
	DefaultCostPrice float64 `json:"defaultCostPrice"`
	UnitType         string  `json:"unitType"`
}

// ExtraFieldMap indexes the dictionary by field name as received, without
// normalizing spellings. Spelling resolution is the field mapper's job.
func (a *ArticleDetail) ExtraFieldMap() map[string]*ExtraField {
	out := make(map[string]*ExtraField, len(a.ExtraFields))
	for i := range a.ExtraFields {
		out[a.ExtraFields[i].Name] = &a.ExtraFields[i]
	}
	return out
}

// DecodeArticleDetail decodes one article payload, used by both the provider
// and the webhook handler.
func DecodeArticleDetail(raw []byte) (*ArticleDetail, error) {
	var detail ArticleDetail
	if err := json.Unmarshal(raw, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}
