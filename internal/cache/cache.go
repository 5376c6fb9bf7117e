package cache

import (
	"context"
	"errors"

	"luxe-backend/internal/models"
)

// ProductCache is a read-through cache of products by id. Set only fills an
// empty key, and Delete keeps the key from being refilled for a short while,
// so a read that raced an update cannot bring back the old product.
type ProductCache interface {
	Get(ctx context.Context, id string) (*models.Product, error)
	Set(ctx context.Context, id string, product *models.Product) error
	Delete(ctx context.Context, id string) error
}

var ErrCacheMiss = errors.New("cache miss")

// Noop is used when no Redis address is configured; every read misses.
type Noop struct{}

func (Noop) Get(context.Context, string) (*models.Product, error) { return nil, ErrCacheMiss }
func (Noop) Set(context.Context, string, *models.Product) error { return nil }
func (Noop) Delete(context.Context, string) error { return nil }
