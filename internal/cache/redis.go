package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"luxe-backend/internal/models"
)

// evictionHold is how long a deleted key refuses new writes. A read that
// fetched the product before an update finishes well inside it, so its
// write-back is dropped instead of caching the old copy.
const evictionHold = 10 * time.Second

// evicted marks a key held after Delete. It is never valid product JSON.
const evicted = "\x00evicted"

func NewRedisCache(client *redis.Client, baseTTL time.Duration) *RedisCache {
	if baseTTL <= 0 {
		baseTTL = 15 * time.Minute
	}
	return &RedisCache{
		client:  client,
		baseTTL: baseTTL,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r RedisCache) Get(ctx context.Context, id string) (*models.Product, error) {
	data, err := r.client.Get(ctx, cacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	if string(data) == evicted {
		return nil, ErrCacheMiss
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("unmarshal product failed: %w", err)
	}
	return &product, nil
}

func (r RedisCache) Set(ctx context.Context, id string, product *models.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("marshal product failed: %w", err)
	}

	// jitter spreads out expiry of products cached together
	jitter := time.Duration(rand.Int63n(int64(r.baseTTL/3) + 1))
	// NX: a held key stays held until evictionHold passes
	if err := r.client.SetNX(ctx, cacheKey(id), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Delete drops the cached product and holds the key empty for evictionHold.
func (r RedisCache) Delete(ctx context.Context, id string) error {
	if err := r.client.Set(ctx, cacheKey(id), evicted, evictionHold).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}
