package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisStore bound to it
func setupTestRedis(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, "cart", ttl), mr
}

func TestRedisGet_Success(t *testing.T) {
	store, mr := setupTestRedis(t, time.Hour)

	require.NoError(t, mr.Set("cart:session-1:shopping_cart", `[{"id":1}]`))

	data, err := store.Get(context.Background(), "session-1:shopping_cart")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(data))
}

func TestRedisGet_Miss(t *testing.T) {
	store, _ := setupTestRedis(t, time.Hour)

	data, err := store.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, data)
}

func TestRedisSet_WithTTL(t *testing.T) {
	store, mr := setupTestRedis(t, 15*time.Minute)

	err := store.Set(context.Background(), "session-2:shopping_cart", []byte(`[]`))
	require.NoError(t, err)

	stored, err := mr.Get("cart:session-2:shopping_cart")
	require.NoError(t, err)
	assert.Equal(t, `[]`, stored)

	ttl := mr.TTL("cart:session-2:shopping_cart")
	assert.True(t, ttl >= 15*time.Minute, "TTL should be at least base TTL")
	assert.True(t, ttl < 18*time.Minute, "TTL should stay below base + 20%")
}

func TestRedisSet_NoTTL(t *testing.T) {
	store, mr := setupTestRedis(t, 0)

	require.NoError(t, store.Set(context.Background(), "k", []byte("v")))
	assert.Equal(t, time.Duration(0), mr.TTL("cart:k"))
}

func TestRedisDelete(t *testing.T) {
	store, mr := setupTestRedis(t, time.Hour)

	require.NoError(t, mr.Set("cart:k", "v"))
	require.NoError(t, store.Delete(context.Background(), "k"))
	assert.False(t, mr.Exists("cart:k"))

	// deleting a missing key is not an error
	assert.NoError(t, store.Delete(context.Background(), "missing"))
}

func TestRedisGet_ServerDown(t *testing.T) {
	store, mr := setupTestRedis(t, time.Hour)
	mr.Close()

	_, err := store.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorContains(t, err, "redis get failed")
}
