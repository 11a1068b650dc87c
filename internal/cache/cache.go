// Package cache provides the process-wide in-memory result cache. There is
// no eviction, no TTL, and no persistence: an entry lives until the process
// terminates.
package cache

import (
	"sync"

	"dashengine/internal/domain"
)

// Compile-time check.
var _ domain.ResultCache = (*ResultCache)(nil)

// ResultCache maps query identifiers to previously computed results. A plain
// mutex guards each individual operation; callers hold no lock across a
// warehouse round trip.
type ResultCache struct {
	mu      sync.Mutex
	entries map[string]*domain.QueryResult
	order   []string // identifiers in first-insertion order
}

// New creates an empty ResultCache.
func New() *ResultCache {
	return &ResultCache{entries: make(map[string]*domain.QueryResult)}
}

// Get returns the cached result for identifier, or (nil, false) when no
// entry exists. A miss is never an error.
func (c *ResultCache) Get(identifier string) (*domain.QueryResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[identifier]
	return r, ok
}

// Put stores result under identifier. A second Put for the same identifier
// silently overwrites the entry; avoiding double insertion during a single
// execution sequence is the coordinator's responsibility.
func (c *ResultCache) Put(identifier string, result *domain.QueryResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[identifier]; !exists {
		c.order = append(c.order, identifier)
	}
	c.entries[identifier] = result
}

// All returns a snapshot of every stored result in insertion order. The
// returned slice does not reflect mutations made after the call.
func (c *ResultCache) All() []*domain.QueryResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*domain.QueryResult, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.entries[id])
	}
	return out
}

// Len returns the number of cached entries.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
