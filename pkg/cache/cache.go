// Package cache provides pluggable byte caches for acquirer HTTP
// responses.
//
// Backends: file (CLI default), redis (long-lived server deployments),
// and null (caching disabled). Keys are hashed before storage so
// arbitrary URLs are safe as keys.
package cache

import (
	"context"
	"time"
)

// Cache stores byte values with per-entry TTLs.
type Cache interface {
	// Get retrieves a value. The second return reports a cache hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}
