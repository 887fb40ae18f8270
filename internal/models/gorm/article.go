package gorm

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	gormlib "gorm.io/gorm"
)

// Article is the locally cached copy of an upstream ERP article, enriched
// with shipping metadata parsed from its free-text name.
type Article struct {
	ID          string `gorm:"column:id;primaryKey"`
	ExternalID  string `gorm:"column:external_id;uniqueIndex;not null"`
	Code        string `gorm:"column:code;index"`
	Name        string `gorm:"column:name;not null"`
	Description string `gorm:"column:description;type:text"`
	Category    string `gorm:"column:category"`

	PriceAmount   decimal.Decimal `gorm:"column:price_amount;type:numeric(14,4)"`
	PriceCurrency string          `gorm:"column:price_currency;type:varchar(3)"`

	// Ordered service tags and carrier names, comma-joined
	ApplicableServices string `gorm:"column:applicable_services"`
	ApplicableCarriers string `gorm:"column:applicable_carriers"`

	TransportMode string `gorm:"column:transport_mode;type:varchar(20)"`

	POLCode     string `gorm:"column:pol_code;type:varchar(4)"`
	POLTerminal string `gorm:"column:pol_terminal"`
	PODCode     string `gorm:"column:pod_code;type:varchar(4)"`

	CustomerType string `gorm:"column:customer_type"`

	QtyMin   int    `gorm:"column:qty_min"`
	QtyMax   int    `gorm:"column:qty_max"`
	QtyLabel string `gorm:"column:qty_label"`

	// Optional pricing formula: base / divisor + fixed
	FormulaBase    string          `gorm:"column:formula_base"`
	FormulaDivisor int             `gorm:"column:formula_divisor"`
	FormulaFixed   decimal.Decimal `gorm:"column:formula_fixed;type:numeric(14,4)"`

	IsParent    bool `gorm:"column:is_parent;index"`
	IsSurcharge bool `gorm:"column:is_surcharge"`
	NeedsReview bool `gorm:"column:needs_review;index"`

	Mandatory          bool   `gorm:"column:mandatory"`
	MandatoryCondition string `gorm:"column:mandatory_condition"`
	Notes              string `gorm:"column:notes;type:text"`

	ValidFrom  *time.Time `gorm:"column:valid_from"`
	ValidUntil *time.Time `gorm:"column:valid_until"`

	LastSyncedAt *time.Time `gorm:"column:last_synced_at"`
	LastPushedAt *time.Time `gorm:"column:last_pushed_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Article) TableName() string {
	return "articles"
}

func (a *Article) BeforeCreate(tx *gormlib.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// ServiceTags returns the ordered applicable-service tags.
func (a *Article) ServiceTags() []string {
	return splitTags(a.ApplicableServices)
}

// SetServiceTags stores tags preserving order, dropping duplicates.
func (a *Article) SetServiceTags(tags []string) {
	a.ApplicableServices = joinTags(tags)
}

// AddServiceTag appends a tag if not already present.
func (a *Article) AddServiceTag(tag string) {
	if tag == "" {
		return
	}
	tags := a.ServiceTags()
	for _, t := range tags {
		if t == tag {
			return
		}
	}
	a.SetServiceTags(append(tags, tag))
}

// CarrierNames returns the ordered applicable carrier names.
func (a *Article) CarrierNames() []string {
	return splitTags(a.ApplicableCarriers)
}

// AddCarrier appends a carrier if not already present.
func (a *Article) AddCarrier(name string) {
	if name == "" {
		return
	}
	names := a.CarrierNames()
	for _, n := range names {
		if n == name {
			return
		}
	}
	a.ApplicableCarriers = joinTags(append(names, name))
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinTags(tags []string) string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return strings.Join(out, ",")
}
