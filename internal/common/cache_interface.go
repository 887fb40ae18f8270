package common

import "time"

// CacheInterface is the contract shared by the in-memory and Redis caches.
// The quota guard and the registries only depend on this.
type CacheInterface interface {
	// Set stores a value under key for the given duration
	Set(key string, value interface{}, duration time.Duration)

	// Get returns the value and true if found, nil and false otherwise
	Get(key string) (interface{}, bool)

	// Delete removes a key
	Delete(key string)

	// GetOrSet returns the cached value or loads and stores it on a miss
	GetOrSet(key string, duration time.Duration, loader func() (any, error)) (interface{}, error)

	// Close closes any underlying connections
	Close() error
}
