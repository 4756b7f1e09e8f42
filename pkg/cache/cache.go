// Package cache stores computed layout results so repeated layout passes
// over an unchanged graph skip the Graphviz run.
//
// Three backends implement [Cache]:
//
//   - [NullCache] never stores anything; use it to disable caching.
//   - [FileCache] keeps one JSON entry file per key under a directory and is
//     the default for the CLI.
//   - [RedisCache] shares entries between processes, typically several
//     `drawctl serve` instances behind the same Redis.
//
// Keys come from a [Keyer], so callers never build key strings by hand:
//
//	k := cache.NewDefaultKeyer()
//	key := k.LayoutKey(cache.Hash(dot), cache.LayoutKeyOpts{Algorithm: "hierarchical"})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// TTLLayout is the default lifetime of a cached layout result.
const TTLLayout = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// A miss is reported as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}
