package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Source string   `json:"source"`
	Rows   []string `json:"rows"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "dataset:sentiment", snapshot{Source: "myfxbook", Rows: []string{"XAUUSD"}}, time.Minute))

	var got snapshot
	require.NoError(t, mc.Get(ctx, "dataset:sentiment", &got))
	assert.Equal(t, "myfxbook", got.Source)
	assert.Equal(t, []string{"XAUUSD"}, got.Rows)

	var miss snapshot
	assert.ErrorIs(t, mc.Get(ctx, "dataset:cot", &miss), ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", 1, time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	var v int
	assert.ErrorIs(t, mc.Get(ctx, "k", &v), ErrCacheMiss)
}

func TestMemoryCacheDeleteByPattern(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	_ = mc.Set(ctx, "dataset:cot", 1, 0)
	_ = mc.Set(ctx, "dataset:sentiment", 2, 0)
	_ = mc.Set(ctx, "lock:collector", 3, 0)

	require.NoError(t, mc.DeleteByPattern(ctx, "dataset:*"))

	var v int
	assert.ErrorIs(t, mc.Get(ctx, "dataset:cot", &v), ErrCacheMiss)
	assert.ErrorIs(t, mc.Get(ctx, "dataset:sentiment", &v), ErrCacheMiss)
	require.NoError(t, mc.Get(ctx, "lock:collector", &v))
	assert.Equal(t, 3, v)
}

func TestMemoryCacheEvictsLRU(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	_ = mc.Set(ctx, "a", 1, 0)
	time.Sleep(time.Millisecond)
	_ = mc.Set(ctx, "b", 2, 0)
	time.Sleep(time.Millisecond)
	_ = mc.Set(ctx, "c", 3, 0)

	var v int
	assert.ErrorIs(t, mc.Get(ctx, "a", &v), ErrCacheMiss)
	assert.NoError(t, mc.Get(ctx, "c", &v))
}

func TestMemoryCacheTryLock(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	ok, err := mc.TryLock(ctx, "lock:orderbook", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = mc.TryLock(ctx, "lock:orderbook", time.Minute)
	assert.False(t, ok)

	require.NoError(t, mc.Unlock(ctx, "lock:orderbook"))
	ok, _ = mc.TryLock(ctx, "lock:orderbook", time.Minute)
	assert.True(t, ok)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "dataset:orderbook", Key("dataset", "orderbook"))
}
