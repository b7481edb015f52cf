package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a read-through JSON cache for catalog payloads. A nil client
// disables caching entirely, which the tests rely on.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

const (
	keyProductList   = "catalog:products:"
	keyProductDetail = "catalog:product:"
)

// GetJSON unmarshals a cached payload into dst, reporting whether the key existed.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if c == nil || c.client == nil || key == "" {
		return false, nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores v as JSON with the configured TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) error {
	if c == nil || c.client == nil || key == "" {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// InvalidateProduct drops the cached detail of one product. Listing keys are
// left to expire on their own; promotions change rarely enough that a short
// TTL covers them.
func (c *Cache) InvalidateProduct(ctx context.Context, slug string) error {
	if c == nil || c.client == nil || slug == "" {
		return nil
	}
	return c.client.Del(ctx, keyProductDetail+slug).Err()
}
