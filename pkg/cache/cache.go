// Package cache provides byte caching for synthesis results.
//
// The [Cache] interface abstracts the storage backend: an in-process map
// ([MemoryCache]), a sharded directory for CLI use ([FileCache]), a Redis
// server for shared deployments ([RedisCache]), or nothing at all
// ([NullCache]). Values are opaque byte slices; callers serialize.
//
// Keys are produced by a [Keyer] so every consumer agrees on what goes
// into a key. The default keyer hashes its inputs with SHA-256, which
// keeps keys fixed-length and free of path- or protocol-unsafe
// characters.
package cache

import (
	"context"
	"time"
)

// TTLs per payload kind. Zero means no expiry.
const (
	// TTLModel is how long synthesized construction models stay cached.
	// Models are fully determined by their project hash, so this mainly
	// bounds disk usage for abandoned projects.
	TTLModel = 7 * 24 * time.Hour

	// TTLReport is how long derived artifacts (part lists, renders)
	// stay cached.
	TTLReport = 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present (and unexpired); an absent key is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a time-to-live. A zero ttl means the entry
	// never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
