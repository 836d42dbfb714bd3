// Package cache stores rendered plate artifacts.
//
// # Overview
//
// Rendering is pure: the same plate with the same render options always
// produces the same bytes. The cache exploits that by keying artifacts on a
// hash of the plate's canonical content plus the render options:
//
//	key := keyer.ArtifactKey(plateHash, cache.ArtifactKeyOpts{Format: "svg"})
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return data
//	}
//
// # Backends
//
//   - [FileCache]: JSON files, one directory per plate, for the CLI
//   - [RedisCache]: a shared cache for the HTTP server
//   - [NullCache]: never stores anything (--no-cache)
//
// # Keys
//
// [Keyer] builds keys that embed the plate hash, so a backend can group a
// plate's export with every artifact rendered from it ([ParseKey]).
// [NewScopedKeyer] adds a namespace prefix so several deployments can share
// one redis database.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered artifacts are kept.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry. A zero ttl never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry.
type Clearer interface {
	Clear(ctx context.Context) error
}

// PlateDeleter is implemented by caches that can drop one plate's export
// and all of its artifacts.
type PlateDeleter interface {
	DeletePlate(ctx context.Context, plateHash string) (int, error)
}

// NullCache never stores anything. It backs --no-cache.
type NullCache struct{}

// NewNullCache returns a cache that always misses.
func NewNullCache() *NullCache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error { return nil }
func (*NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
