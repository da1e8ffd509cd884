package cache

import (
	"context"
	"testing"
	"time"

	"recipe-normalizer/internal/infrastructure/config"
	"recipe-normalizer/internal/pkg/common"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mr := miniredis.RunT(t)

	store, err := New(config.CacheConfig{
		Enabled:   true,
		Backend:   config.CacheBackendRedis,
		RedisAddr: mr.Addr(),
		TTL:       time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.Get(ctx, "index:abc")
	assert.ErrorIs(t, err, common.ErrCacheMiss)

	require.NoError(t, store.Set(ctx, "index:abc", []byte(`["salt"]`)))
	assert.True(t, mr.Exists("recipes:index:abc"))

	got, err := store.Get(ctx, "index:abc")
	require.NoError(t, err)
	assert.Equal(t, `["salt"]`, string(got))

	mr.FastForward(2 * time.Minute)
	_, err = store.Get(ctx, "index:abc")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
}

func TestRedisStoreUnreachable(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(config.CacheConfig{RedisAddr: addr, TTL: time.Minute})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}
