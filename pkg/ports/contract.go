package ports

import (
	"context"
	"testing"

	"github.com/aretw0/romote/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunAddressCacheContract runs a suite of tests to verify that an AddressCache
// implementation adheres to the defined interface contract.
// The cache must be empty when passed in.
func RunAddressCacheContract(t *testing.T, cache AddressCache) {
	ctx := context.Background()

	t.Run("Load Empty", func(t *testing.T) {
		_, err := cache.Load(ctx)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, cache.Save(ctx, "192.168.1.20"))

		got, err := cache.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.Address("192.168.1.20"), got)
	})

	t.Run("Save Replaces", func(t *testing.T) {
		require.NoError(t, cache.Save(ctx, "192.168.1.21"))

		got, err := cache.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.Address("192.168.1.21"), got)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, cache.Clear(ctx))

		_, err := cache.Load(ctx)
		assert.ErrorIs(t, err, domain.ErrCacheMiss, "Load after Clear should miss")

		assert.NoError(t, cache.Clear(ctx), "Clear on empty cache should not fail")
	})
}
