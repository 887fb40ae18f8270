package repositories

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"freightops/harbormaster/internal/models/gorm"
)

type KeysRepo struct {
	db *sqlx.DB
}

func NewApiKeysRepo(db *sqlx.DB) *KeysRepo {
	return &KeysRepo{db}
}

// HashKey returns the hex SHA-256 of a raw key. Raw keys never touch the DB.
func HashKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// GetStatus looks a raw key up by hash. Returns nil, nil when unknown.
func (r *KeysRepo) GetStatus(ctx context.Context, rawKey string) (*gorm.APIKey, error) {
	var key gorm.APIKey
	const query = `
		SELECT id, key_hash, label, active, created_at, last_used
		FROM api_keys
		WHERE key_hash = $1
	`
	err := r.db.QueryRowxContext(ctx, query, HashKey(rawKey)).StructScan(&key)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// Insert stores a new key hash with a label.
func (r *KeysRepo) Insert(ctx context.Context, rawKey, label string) (string, error) {
	id := uuid.NewString()
	const query = `
		INSERT INTO api_keys (id, key_hash, label, active, created_at)
		VALUES ($1, $2, $3, true, $4)
	`
	_, err := r.db.ExecContext(ctx, query, id, HashKey(rawKey), label, time.Now().UTC())
	return id, err
}

// TouchLastUsed updates the last_used marker, best effort.
func (r *KeysRepo) TouchLastUsed(ctx context.Context, id string) {
	const query = `UPDATE api_keys SET last_used = $1 WHERE id = $2`
	_, _ = r.db.ExecContext(ctx, query, time.Now().UTC(), id)
}
