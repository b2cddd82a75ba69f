package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

type page struct {
	Names []string `json:"names"`
	Next  string   `json:"next"`
}

func TestRedisCache_SetGet(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewRedisCache(client, "search", time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "monitors:1", page{Names: []string{"api"}, Next: "2"}))
	assert.True(t, mr.Exists("search:monitors:1"))

	var got page
	found, err := c.Get(ctx, "monitors:1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, page{Names: []string{"api"}, Next: "2"}, got)
}

func TestRedisCache_Miss(t *testing.T) {
	_, client := setupTestRedis(t)
	c := NewRedisCache(client, "search", time.Minute)

	var got page
	found, err := c.Get(context.Background(), "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_Expires(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewRedisCache(client, "search", time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", page{Next: "2"}))

	mr.FastForward(2 * time.Minute)

	var got page
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_CorruptValue(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewRedisCache(client, "search", 0)
	assert.Equal(t, DefaultTTL, c.ttl)

	require.NoError(t, mr.Set("search:k", "{"))

	var got page
	_, err := c.Get(context.Background(), "k", &got)
	assert.Error(t, err)
}

func TestNewRedisCacheFromURL(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisCacheFromURL("redis://"+mr.Addr()+"/0", "search", time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Ping(context.Background()))

	_, err = NewRedisCacheFromURL("http://nope", "search", time.Minute)
	assert.Error(t, err)
}

func TestHashKey(t *testing.T) {
	assert.Equal(t, HashKey("token"), HashKey("token"))
	assert.NotEqual(t, HashKey("a"), HashKey("b"))
	assert.Len(t, HashKey("x"), 16)
}
