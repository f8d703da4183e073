package mask

import (
	"context"
	"image"
	"log/slog"
	"sync"

	"github.com/gogpu/winclip"
)

// cacheKey identifies a rasterized mask.
type cacheKey struct {
	clip   winclip.Key
	bounds image.Rectangle
}

// cacheEntry holds a mask with its access time.
type cacheEntry struct {
	mask  *image.Alpha
	atime int64
}

// maskCache is a soft-limit cache of rasterized masks. When it grows past
// the limit the least recently used quarter is evicted.
//
// maskCache is safe for concurrent use.
type maskCache struct {
	mu        sync.Mutex
	entries   map[cacheKey]*cacheEntry
	softLimit int
	tick      int64 // monotonic access counter

	hits, misses, evictions uint64
}

func newMaskCache(softLimit int) *maskCache {
	return &maskCache{
		entries:   make(map[cacheKey]*cacheEntry),
		softLimit: softLimit,
	}
}

// getOrCreate returns the cached mask for key or stores the result of create.
// create runs under the lock so a mask is never rasterized twice.
func (c *maskCache) getOrCreate(key cacheKey, create func() *image.Alpha) *image.Alpha {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	if e, ok := c.entries[key]; ok {
		e.atime = c.tick
		c.hits++
		return e.mask
	}

	c.misses++
	m := create()
	c.entries[key] = &cacheEntry{mask: m, atime: c.tick}
	if len(c.entries) > c.softLimit {
		c.evictOldest()
	}
	return m
}

// evictOldest removes entries until the cache is at 3/4 of its soft limit.
// Caller must hold c.mu.
func (c *maskCache) evictOldest() {
	target := max(c.softLimit*3/4, 1)
	toEvict := len(c.entries) - target
	if toEvict <= 0 {
		return
	}

	type aged struct {
		key   cacheKey
		atime int64
	}
	all := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, aged{key: k, atime: e.atime})
	}

	// Selection sort, toEvict is small.
	for i := 0; i < toEvict; i++ {
		oldest := i
		for j := i + 1; j < len(all); j++ {
			if all[j].atime < all[oldest].atime {
				oldest = j
			}
		}
		all[i], all[oldest] = all[oldest], all[i]
		delete(c.entries, all[i].key)
	}
	c.evictions += uint64(toEvict)

	if l := winclip.Logger(); l.Enabled(context.Background(), slog.LevelDebug) {
		l.Debug("mask: cache evicted", "count", toEvict, "remaining", len(c.entries))
	}
}

func (c *maskCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[cacheKey]*cacheEntry)
	c.tick = 0
}

func (c *maskCache) stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Len:       len(c.entries),
		Capacity:  c.softLimit,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// Stats contains mask cache statistics.
type Stats struct {
	// Len is the current number of cached masks.
	Len int
	// Capacity is the soft limit.
	Capacity int
	// Hits is the number of masks served from the cache.
	Hits uint64
	// Misses is the number of masks rasterized.
	Misses uint64
	// HitRate is Hits / (Hits + Misses), 0 before the first request.
	HitRate float64
	// Evictions is the number of masks dropped by the soft limit.
	Evictions uint64
}
