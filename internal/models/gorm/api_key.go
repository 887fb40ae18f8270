package gorm

import "time"

// APIKey is a hashed inbound API key. Only the SHA-256 hash is stored.
type APIKey struct {
	ID        string     `db:"id" gorm:"primaryKey"`
	KeyHash   string     `db:"key_hash" gorm:"uniqueIndex"`
	Label     string     `db:"label"`
	Active    bool       `db:"active"`
	CreatedAt time.Time  `db:"created_at"`
	LastUsed  *time.Time `db:"last_used"`
}
