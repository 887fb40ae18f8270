package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// Port is a UN/LOCODE-style port directory entry used to resolve the
// three-letter codes parsed out of article names.
type Port struct {
	ID      string `gorm:"column:id;primaryKey"`
	Code    string `gorm:"column:code;uniqueIndex;not null;type:varchar(5)"`
	Name    string `gorm:"column:name;not null"`
	Country string `gorm:"column:country;type:varchar(2)"`
	// Alternate spellings seen in article names, comma-joined
	Aliases string `gorm:"column:aliases"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Port) TableName() string {
	return "ports"
}

func (p *Port) BeforeCreate(tx *gormlib.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
