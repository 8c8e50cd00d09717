package storage

import (
	"context"
	"testing"
	"time"

	"smartmenu/order-svc/internal/delivery"
	"smartmenu/order-svc/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, ttl), mr
}

func TestRedisCache_Claim(t *testing.T) {
	cache, mr := setupTestRedis(t, time.Minute)
	ctx := context.Background()

	fresh, err := cache.Claim(ctx, "k-1")
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = cache.Claim(ctx, "k-1")
	require.NoError(t, err)
	assert.False(t, fresh, "second submission with the same key is rejected")

	mr.FastForward(2 * time.Minute)

	fresh, err = cache.Claim(ctx, "k-1")
	require.NoError(t, err)
	assert.True(t, fresh, "key can be reused once expired")
}

func TestRedisCache_Release(t *testing.T) {
	cache, mr := setupTestRedis(t, time.Minute)
	ctx := context.Background()

	fresh, err := cache.Claim(ctx, "k-1")
	require.NoError(t, err)
	require.True(t, fresh)

	require.NoError(t, cache.Release(ctx, "k-1"))
	assert.False(t, mr.Exists(cache.SubmissionKey("k-1")))

	fresh, err = cache.Claim(ctx, "k-1")
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestRedisCache_Location(t *testing.T) {
	cache, mr := setupTestRedis(t, time.Hour)
	ctx := context.Background()

	loc, err := cache.GetLocation(ctx, "1 queen street")
	require.NoError(t, err)
	assert.Nil(t, loc)

	want := delivery.Location{
		Coordinates:      domain.Coordinates{Latitude: -36.8446, Longitude: 174.7669},
		FormattedAddress: "1 Queen Street, Auckland CBD",
	}
	require.NoError(t, cache.SetLocation(ctx, "1 queen street", want))
	assert.True(t, mr.Exists("geocode:1 queen street"))
	assert.Equal(t, time.Hour, mr.TTL("geocode:1 queen street"))

	loc, err = cache.GetLocation(ctx, "1 queen street")
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, want, *loc)
}

func TestRedisCache_CorruptLocation(t *testing.T) {
	cache, mr := setupTestRedis(t, time.Hour)
	require.NoError(t, mr.Set("geocode:bad", "{not json"))

	_, err := cache.GetLocation(context.Background(), "bad")

	assert.Error(t, err)
}
