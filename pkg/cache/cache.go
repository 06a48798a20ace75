// Package cache stores fetched backend responses so that reopening a
// collection does not hit the network every time.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON entry files under the user cache directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for several viewers behind one backend
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so that every backend sees the same key
// space; [NewScopedKeyer] prefixes keys per backend URL so that two backends
// never share entries.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the value for key. A miss returns (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Key types reported to observability hooks.
const (
	KeyTypeCollection = "collection"
	KeyTypeUser       = "user"
)

// Keyer generates cache keys for backend responses.
type Keyer interface {
	// CollectionKey is the key of one collection page.
	CollectionKey(userID string, page, size int) string

	// UserKey is the key of one user profile.
	UserKey(userID string) string
}

// DefaultKeyer is the unscoped Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the unscoped Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// CollectionKey hashes the page coordinates so that keys have a fixed shape.
func (DefaultKeyer) CollectionKey(userID string, page, size int) string {
	return hashKey(KeyTypeCollection, userID, page, size)
}

// UserKey returns "user:<id>".
func (DefaultKeyer) UserKey(userID string) string {
	return KeyTypeUser + ":" + userID
}
