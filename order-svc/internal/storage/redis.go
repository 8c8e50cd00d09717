package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"smartmenu/order-svc/internal/delivery"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

func (c *RedisCache) SubmissionKey(key string) string {
	return "order:submit:" + key
}

// Claim records an idempotency key. It reports false when the key was
// already claimed within the TTL.
func (c *RedisCache) Claim(ctx context.Context, key string) (bool, error) {
	return c.Client.SetNX(ctx, c.SubmissionKey(key), "1", c.TTL).Result()
}

// Release drops a claimed key so the order can be submitted again.
func (c *RedisCache) Release(ctx context.Context, key string) error {
	return c.Client.Del(ctx, c.SubmissionKey(key)).Err()
}

func (c *RedisCache) GeocodeKey(address string) string {
	return "geocode:" + address
}

func (c *RedisCache) GetLocation(ctx context.Context, address string) (*delivery.Location, error) {
	raw, err := c.Client.Get(ctx, c.GeocodeKey(address)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var loc delivery.Location
	if err := json.Unmarshal(raw, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

func (c *RedisCache) SetLocation(ctx context.Context, address string, loc delivery.Location) error {
	payload, err := json.Marshal(loc)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.GeocodeKey(address), payload, c.TTL).Err()
}
