package schema

import (
	"context"
	"sync"
)

// Cache stores resolved record types keyed by "typeKey@generation".
// Read-mostly: entries are written once per schema publish and then read
// by every engine instance in the process.
type Cache interface {
	Get(ctx context.Context, key string) (*RecordType, bool)
	Set(ctx context.Context, key string, rt *RecordType) error
}

// MemoryCache is the in-process default. Entries for stale generations
// are left behind; a publish event changes the key, so stale entries are
// simply never read again.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*RecordType
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*RecordType)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*RecordType, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rt, ok := c.entries[key]
	return rt, ok
}

func (c *MemoryCache) Set(_ context.Context, key string, rt *RecordType) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = rt
	return nil
}
