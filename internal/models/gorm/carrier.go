package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// Carrier is a shipping line known to the catalog. IsRoRo marks lines whose
// presence in an article name counts as vehicle-carrier evidence when
// resolving the transport mode.
type Carrier struct {
	ID     string `gorm:"column:id;primaryKey"`
	Name   string `gorm:"column:name;uniqueIndex;not null"`
	SCAC   string `gorm:"column:scac;type:varchar(4)"`
	IsRoRo bool   `gorm:"column:is_roro"`
	// Alternate spellings seen in article names, comma-joined
	Aliases string `gorm:"column:aliases"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Carrier) TableName() string {
	return "carriers"
}

func (c *Carrier) BeforeCreate(tx *gormlib.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
