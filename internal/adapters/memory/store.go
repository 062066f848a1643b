package memory

import (
	"context"
	"sync"

	"github.com/aretw0/romote/pkg/domain"
)

// Cache implements ports.AddressCache in memory. Nothing survives the process.
// Safe for concurrent use.
type Cache struct {
	mu   sync.RWMutex
	addr domain.Address
}

// New creates an empty in-memory cache.
func New() *Cache {
	return &Cache{}
}

// Load returns the stored address or domain.ErrCacheMiss.
func (c *Cache) Load(ctx context.Context) (domain.Address, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.addr == "" {
		return "", domain.ErrCacheMiss
	}
	return c.addr, nil
}

// Save replaces the stored address.
func (c *Cache) Save(ctx context.Context, addr domain.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addr = addr
	return nil
}

// Clear forgets the stored address.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addr = ""
	return nil
}
