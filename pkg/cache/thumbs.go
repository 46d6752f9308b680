package cache

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"time"
)

// DefaultThumbTTL keeps previews for a month; stale entries are cheap to
// rebuild and the mtime key already invalidates edited files.
const DefaultThumbTTL = 30 * 24 * time.Hour

// ThumbnailCache stores decoded first-frame previews as PNG bytes in any
// byte-level Cache.
type ThumbnailCache struct {
	inner Cache
}

// NewThumbnailCache wraps a byte cache. A nil inner cache degrades to a
// NullCache so callers never have to branch.
func NewThumbnailCache(inner Cache) *ThumbnailCache {
	if inner == nil {
		inner = NewNullCache()
	}
	return &ThumbnailCache{inner: inner}
}

// Key derives the cache key for one source file at one scale. The file's
// modification time is part of the key, so editing the file invalidates its
// preview without any explicit eviction.
func (t *ThumbnailCache) Key(path string, maxDimension int) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	return hashKey("thumb", path, info.ModTime().UnixNano(), info.Size(), maxDimension), nil
}

// Get returns the cached preview for key, or a miss.
func (t *ThumbnailCache) Get(ctx context.Context, key string) (image.Image, bool, error) {
	data, hit, err := t.inner.Get(ctx, key)
	if err != nil || !hit {
		return nil, false, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		// Corrupt entry: drop it and report a miss.
		_ = t.inner.Delete(ctx, key)
		return nil, false, nil
	}
	return img, true, nil
}

// Set stores a preview under key.
func (t *ThumbnailCache) Set(ctx context.Context, key string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}
	return t.inner.Set(ctx, key, buf.Bytes(), DefaultThumbTTL)
}

// Close closes the underlying cache.
func (t *ThumbnailCache) Close() error {
	return t.inner.Close()
}
