// Package cache stores computed layouts and rendered artifacts.
//
// # Overview
//
// A force layout takes a few hundred simulation frames to settle. The
// [Cache] interface lets the CLI and server skip that work when the same
// graph is rendered again with the same simulation settings:
//
//	key := keyer.LayoutKey(cache.Hash(graphBytes), cache.LayoutOptsFromConfig(cfg, maxTicks))
//	if l, err := cache.LoadLayout(ctx, c, key); err == nil {
//	    g = l.Seed(g)
//	}
//
// # Backends
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one file per entry under a local directory
//   - [RedisCache]: shared cache for server deployments
//
// # Keys
//
// Keys are built by a [Keyer]. [DefaultKeyer] hashes every option that
// influences the result, so changing gravity or the viewport never returns a
// stale layout. [ScopedKeyer] adds a prefix for namespacing.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. A miss is reported as
// (nil, false, nil), not as an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Default entry lifetimes.
const (
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 24 * time.Hour
)
