package metadata

import (
	"sync"
	"time"

	"github.com/ultratube/ultratube/internal/media"
)

type cacheEntry struct {
	info      *media.VideoInfo
	fetchedAt time.Time
}

// Cache holds fetched video metadata keyed by video ID with a time-to-live.
// An entry older than the TTL is never returned: a stale lookup is a miss,
// and the subsequent Put overwrites it (last-write-wins, no merging).
//
// The cache is constructed once per session and passed by reference to the
// metadata service. There is no size bound: process lifetime is a single
// interactive session, so growth is bounded by the number of distinct
// videos the user looks at.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

// NewCache creates a cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached info for videoID, or false on miss or staleness.
func (c *Cache) Get(videoID string) (*media.VideoInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[videoID]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.fetchedAt) > c.ttl {
		return nil, false
	}
	return entry.info, true
}

// Put stores info for videoID, unconditionally overwriting any existing
// entry and resetting its timestamp.
func (c *Cache) Put(videoID string, info *media.VideoInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[videoID] = cacheEntry{info: info, fetchedAt: c.now()}
}

// Purge drops all stale entries and returns how many were removed.
// Freshness-on-read already guarantees correctness; this only reclaims
// memory between requests.
func (c *Cache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := c.now()
	for id, entry := range c.entries {
		if now.Sub(entry.fetchedAt) > c.ttl {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries currently held, stale ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
