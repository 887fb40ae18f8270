package gorm

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	gormlib "gorm.io/gorm"
)

// ArticleLink is a directed parent-to-child edge between two cached articles,
// linking a service article to one of its surcharge lines. Edges carry their
// own attributes. A child may be linked under multiple parents; the only
// structural rule is no self-loops.
type ArticleLink struct {
	ID       string `gorm:"column:id;primaryKey"`
	ParentID string `gorm:"column:parent_id;index:idx_link_pair,unique;not null"`
	ChildID  string `gorm:"column:child_id;index:idx_link_pair,unique;not null"`

	SortOrder   int    `gorm:"column:sort_order"`
	Required    bool   `gorm:"column:required"`
	Conditional bool   `gorm:"column:conditional"`
	CostType    string `gorm:"column:cost_type"`

	DefaultQty       int             `gorm:"column:default_qty"`
	DefaultCostPrice decimal.Decimal `gorm:"column:default_cost_price;type:numeric(14,4)"`
	UnitType         string          `gorm:"column:unit_type"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	Parent *Article `gorm:"foreignKey:ParentID"`
	Child  *Article `gorm:"foreignKey:ChildID"`
}

// TableName specifies the table name for GORM
func (ArticleLink) TableName() string {
	return "article_links"
}

func (l *ArticleLink) BeforeCreate(tx *gormlib.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
