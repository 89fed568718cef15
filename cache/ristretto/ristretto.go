package ristretto

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/latticehq/lattice/cache"
)

type Cache[V any] struct {
	cache *ristretto.Cache[string, V]
}

func (rc *Cache[V]) Get(key string) (V, bool) {
	return rc.cache.Get(key)
}

func (rc *Cache[V]) Set(key string, value V, cost int64) bool {
	return rc.cache.Set(key, value, cost)
}

func (rc *Cache[V]) SetWithTTL(key string, value V, cost int64, ttl time.Duration) bool {
	return rc.cache.SetWithTTL(key, value, cost, ttl)
}

// sizing presets. MaxCost assumes cost roughly tracks bytes; NumCounters is
// kept at ~10x the expected item count as the ristretto docs recommend.
var levels = map[string]ristretto.Config[string, any]{
	"small":      {NumCounters: 1e4, MaxCost: 1 << 20, BufferItems: 64},
	"medium":     {NumCounters: 1e5, MaxCost: 1 << 24, BufferItems: 64},
	"large":      {NumCounters: 1e6, MaxCost: 1 << 27, BufferItems: 64},
	"very-large": {NumCounters: 1e7, MaxCost: 1 << 30, BufferItems: 64},
}

// New creates a string-keyed cache sized by level: one of
// "small", "medium", "large", "very-large".
func New[V any](level string) (cache.Cache[string, V], error) {
	sizing, ok := levels[level]
	if !ok {
		return nil, fmt.Errorf("unknown cache size level %q", level)
	}

	c, err := ristretto.NewCache(&ristretto.Config[string, V]{
		NumCounters: sizing.NumCounters,
		MaxCost:     sizing.MaxCost,
		BufferItems: sizing.BufferItems,
	})
	if err != nil {
		return nil, err
	}

	return &Cache[V]{cache: c}, nil
}
