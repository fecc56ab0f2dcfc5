// Package cache stores clustered trees and rendered artifacts between runs.
//
// Backends implement [Cache]: [FileCache] keeps entries under a local
// directory, [RedisCache] shares them between machines and [NullCache]
// disables caching. Keys come from a [Keyer] so that the same input table
// and options always map to the same entry.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
//
// Get reports a miss with ok == false and a nil error. A zero ttl in Set
// means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}
