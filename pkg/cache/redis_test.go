package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T, prefix string) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisCache(context.Background(), RedisOptions{Addr: mr.Addr(), Prefix: prefix})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestRedisCacheGetSet(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t, "")

	_, hit, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "plate:1", []byte("<svg/>"), time.Hour))

	data, hit, err := c.Get(ctx, "plate:1")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "<svg/>", string(data))

	stored, err := mr.Get("plate:1")
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", stored)
	assert.Equal(t, time.Hour, mr.TTL("plate:1"))
}

func TestRedisCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t, "")

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit, "entry should expire")
}

func TestRedisCacheNoTTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t, "")

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	assert.Equal(t, time.Duration(0), mr.TTL("k"))
}

func TestRedisCacheDelete(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t, "")

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, c.Delete(ctx, "k"))
	assert.False(t, mr.Exists("k"))

	// Deleting again is fine
	require.NoError(t, c.Delete(ctx, "k"))
}

func TestRedisCacheClear(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t, "platemap:")

	keyer := NewScopedKeyer(nil, "platemap:")
	for i, format := range []string{"svg", "json", "dot"} {
		key := keyer.ArtifactKey(Hash([]byte("plate")), ArtifactKeyOpts{Format: format})
		require.NoError(t, c.Set(ctx, key, []byte{byte(i)}, 0))
	}
	require.NoError(t, mr.Set("other:key", "keep"))

	require.NoError(t, c.Clear(ctx))

	assert.Equal(t, []string{"other:key"}, mr.Keys())
}

func TestRedisCacheDeletePlate(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t, "platemap:")

	keyer := NewScopedKeyer(nil, "platemap:")
	gone, kept := Hash([]byte("gone")), Hash([]byte("kept"))
	for _, h := range []string{gone, kept} {
		require.NoError(t, c.Set(ctx, keyer.PlateKey(h), []byte("{}"), 0))
		require.NoError(t, c.Set(ctx, keyer.ArtifactKey(h, ArtifactKeyOpts{Format: "svg"}), []byte("<svg/>"), 0))
		require.NoError(t, c.Set(ctx, keyer.ArtifactKey(h, ArtifactKeyOpts{Format: "svg", Scale: 2}), []byte("<svg/>"), 0))
	}

	n, err := c.DeletePlate(ctx, gone)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Len(t, mr.Keys(), 3)
	assert.True(t, mr.Exists(keyer.PlateKey(kept)))

	n, err = c.DeletePlate(ctx, "not-a-hash")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, RedisOptions{Addr: addr})
	assert.Error(t, err)
}
