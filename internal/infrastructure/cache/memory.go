package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pricescout/backend/internal/domain"
)

// cacheItem represents a single item in the cache with expiration
type cacheItem struct {
	payload    []byte
	expiration time.Time
}

// MemoryCache is a thread-safe in-memory offer cache with TTL support.
// Entries are stored as marshaled JSON to keep the same serialization
// contract as the Redis backend.
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	cache := &MemoryCache{
		data: make(map[string]cacheItem),
	}

	// Remove expired entries every 10 minutes
	go cache.cleanupExpired()

	return cache
}

// Get retrieves an offer list from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) ([]domain.Offer, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists || time.Now().After(item.expiration) {
		Misses.WithLabelValues("memory").Inc()
		return nil, domain.ErrCacheMiss
	}

	var offers []domain.Offer
	if err := json.Unmarshal(item.payload, &offers); err != nil {
		Errors.WithLabelValues("get").Inc()
		return nil, err
	}

	Hits.WithLabelValues("memory").Inc()
	return offers, nil
}

// Set stores an offer list in the cache with TTL. An existing entry under
// the same key is overwritten, not merged.
func (c *MemoryCache) Set(ctx context.Context, key string, offers []domain.Offer, ttl time.Duration) error {
	payload, err := json.Marshal(offers)
	if err != nil {
		Errors.WithLabelValues("set").Inc()
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheItem{
		payload:    payload,
		expiration: time.Now().Add(ttl),
	}

	return nil
}

// Delete removes an entry from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// cleanupExpired removes expired entries from the cache periodically
func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, item := range c.data {
			if now.After(item.expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}

// Size returns the current number of items in the cache (for debugging/monitoring)
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem)
}
