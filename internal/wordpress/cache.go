package wordpress

import (
	"encoding/json"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a successful response is served from memory.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	data     json.RawMessage
	storedAt time.Time
}

// Cache keeps raw GraphQL response data for a fixed TTL.
type Cache struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewCache returns an empty cache; a non-positive ttl selects DefaultCacheTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the data stored under key while it is younger than the TTL.
// Expired entries are evicted on access.
func (c *Cache) Get(key string) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if ok && c.now().Sub(entry.storedAt) < c.ttl {
		return entry.data, true
	}
	delete(c.entries, key)
	return nil, false
}

// Set stores data under key.
func (c *Cache) Set(key string, data json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{data: data, storedAt: c.now()}
}

// Clear removes key, or every entry when key is empty.
func (c *Cache) Clear(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if key == "" {
		c.entries = make(map[string]cacheEntry)
		return
	}
	delete(c.entries, key)
}

// Len reports the number of stored entries, fresh or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// CacheKey derives the cache key of a query: the JSON encoding of the query
// and its variables. Map keys are encoded in sorted order so equal variables
// always produce the same key.
func CacheKey(query string, variables map[string]any) (string, error) {
	if variables == nil {
		variables = map[string]any{}
	}
	raw, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
