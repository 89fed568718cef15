package cache

import "time"

// Cache is the minimal cache surface the subsystem depends on, satisfied by
// the ristretto adapter and by test fakes.
type Cache[K comparable, V any] interface {
	// Get returns the cached value and whether the key was present.
	Get(key K) (V, bool)

	// Set stores a value under the given cost. A false return means the
	// entry was dropped rather than admitted.
	Set(key K, value V, cost int64) bool

	// SetWithTTL is Set with an expiry after which the entry vanishes.
	SetWithTTL(key K, value V, cost int64, ttl time.Duration) bool
}
