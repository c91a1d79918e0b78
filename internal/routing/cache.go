package routing

import (
	"sync"
	"time"

	"fleetdesk-backend/internal/models"
)

// GeoCache is an injected collaborator for memoising geocoding results.
// The geometric backend never keeps ambient state of its own.
type GeoCache interface {
	Get(address string) (models.Coordinates, bool)
	Set(address string, coords models.Coordinates)
}

type cacheEntry struct {
	coords       models.Coordinates
	createdAt    time.Time
	lastAccessed time.Time
}

// MemoryGeoCache is a bounded TTL cache keyed by address string
type MemoryGeoCache struct {
	mu         sync.RWMutex
	entries    map[string]*cacheEntry
	maxEntries int
	ttl        time.Duration
}

func NewMemoryGeoCache() *MemoryGeoCache {
	return &MemoryGeoCache{
		entries:    make(map[string]*cacheEntry),
		maxEntries: 2000,
		ttl:        24 * time.Hour,
	}
}

func (c *MemoryGeoCache) Get(address string) (models.Coordinates, bool) {
	c.mu.RLock()
	entry, found := c.entries[address]
	c.mu.RUnlock()

	if !found {
		return models.Coordinates{}, false
	}

	if time.Since(entry.createdAt) > c.ttl {
		c.mu.Lock()
		delete(c.entries, address)
		c.mu.Unlock()
		return models.Coordinates{}, false
	}

	c.mu.Lock()
	entry.lastAccessed = time.Now()
	c.mu.Unlock()

	return entry.coords, true
}

func (c *MemoryGeoCache) Set(address string, coords models.Coordinates) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}

	now := time.Now()
	c.entries[address] = &cacheEntry{coords: coords, createdAt: now, lastAccessed: now}
}

// evictOldest removes the least recently used entry; caller holds the lock
func (c *MemoryGeoCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range c.entries {
		if oldestKey == "" || entry.lastAccessed.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.lastAccessed
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
