package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/romote/pkg/domain"
)

// Cache implements ports.AddressCache on a single Redis string key.
type Cache struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Cache)

// WithTTL sets the expiration of the record. Zero keeps it forever.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// New creates a cache from a redis:// URL.
func New(url string, opts ...Option) (*Cache, error) {
	o, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewFromClient(backend.NewClient(o), opts...), nil
}

// NewFromClient creates a cache from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Cache {
	c := &Cache{
		client: client,
		prefix: "romote:",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) key() string {
	return c.prefix + "recent_ip"
}

// Load returns the stored address.
func (c *Cache) Load(ctx context.Context) (domain.Address, error) {
	val, err := c.client.Get(ctx, c.key()).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return "", domain.ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get from redis: %w", err)
	}
	if val == "" {
		return "", domain.ErrCacheMiss
	}

	addr, err := domain.NormalizeAddress(val)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrMalformedCache, err)
	}
	return addr, nil
}

// Save replaces the stored address.
func (c *Cache) Save(ctx context.Context, addr domain.Address) error {
	if err := c.client.Set(ctx, c.key(), addr.String(), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Clear deletes the record.
func (c *Cache) Clear(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key()).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// Close closes the redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
