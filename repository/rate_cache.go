package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/caesariomj/jogjaelectrik-sub000/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RateCache stores the most recently quoted shipping options per user so
// checkout can verify the submitted selection against what was actually
// offered.
type RateCache interface {
	Get(ctx context.Context, userID uuid.UUID, cityID, courier string, weightGrams int) ([]models.RateOption, error)
	Set(ctx context.Context, userID uuid.UUID, cityID, courier string, weightGrams int, options []models.RateOption) error
}

// RedisRateCache implements RateCache on Redis with a TTL.
type RedisRateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRateCache creates a new RedisRateCache.
func NewRedisRateCache(client *redis.Client, ttl time.Duration) *RedisRateCache {
	return &RedisRateCache{client: client, ttl: ttl}
}

func (c *RedisRateCache) key(userID uuid.UUID, cityID, courier string, weightGrams int) string {
	return fmt.Sprintf("rates:user:%s:city:%s:courier:%s:weight:%d", userID, cityID, courier, weightGrams)
}

// Get returns the cached options, or nil when nothing is cached.
func (c *RedisRateCache) Get(ctx context.Context, userID uuid.UUID, cityID, courier string, weightGrams int) ([]models.RateOption, error) {
	data, err := c.client.Get(ctx, c.key(userID, cityID, courier, weightGrams)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var options []models.RateOption
	if err := json.Unmarshal([]byte(data), &options); err != nil {
		return nil, err
	}
	return options, nil
}

// Set caches the freshly fetched options.
func (c *RedisRateCache) Set(ctx context.Context, userID uuid.UUID, cityID, courier string, weightGrams int, options []models.RateOption) error {
	data, err := json.Marshal(options)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(userID, cityID, courier, weightGrams), data, c.ttl).Err()
}
