package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/romote/internal/adapters/redis"
	"github.com/aretw0/romote/pkg/domain"
	"github.com/aretw0/romote/pkg/ports"
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	return mr, client
}

func TestRedisCache_Contract(t *testing.T) {
	_, client := setup(t)
	ports.RunAddressCacheContract(t, redis.NewFromClient(client))
}

func TestRedisCache_KeyAndTTL(t *testing.T) {
	mr, client := setup(t)
	cache := redis.NewFromClient(client, redis.WithPrefix("test:"), redis.WithTTL(time.Hour))

	require.NoError(t, cache.Save(context.Background(), "192.168.1.134"))

	got, err := mr.Get("test:recent_ip")
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.134", got)
	assert.Equal(t, time.Hour, mr.TTL("test:recent_ip"))

	mr.FastForward(2 * time.Hour)
	_, err = cache.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_MalformedRecord(t *testing.T) {
	mr, client := setup(t)
	require.NoError(t, mr.Set("romote:recent_ip", "not an address"))

	_, err := redis.NewFromClient(client).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrMalformedCache)
}

func TestRedisCache_BackendDown(t *testing.T) {
	mr, client := setup(t)
	mr.Close()

	_, err := redis.NewFromClient(client).Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCacheMiss)
	assert.NotErrorIs(t, err, domain.ErrMalformedCache)
}

func TestNew_FromURL(t *testing.T) {
	mr, _ := setup(t)

	cache, err := redis.New("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	defer cache.Close()
	ports.RunAddressCacheContract(t, cache)

	_, err = redis.New("http://nope")
	assert.Error(t, err)
}
