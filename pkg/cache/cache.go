// Package cache provides byte-level caching with a thumbnail layer on top.
//
// Decoding and scaling large images is the slowest part of restoring a
// board, so first-frame previews are cached between runs. The Cache
// interface is a plain byte store; ThumbnailCache adds image encoding and
// mtime-aware keys so an edited file never serves a stale preview.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-level cache with TTL support.
type Cache interface {
	// Get retrieves a value. The second return reports a hit; a miss is
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
