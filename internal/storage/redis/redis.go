// Package redis stores the product record set under a single Redis key.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/supplysight/internal/model"
	"github.com/fairyhunter13/supplysight/internal/storage"
)

const defaultKey = "supplysight:products"

// Backend keeps the flat JSON layout as a string value.
type Backend struct {
	rdb *redis.Client
	key string
}

// New parses url, connects and validates connectivity with PING.
func New(ctx context.Context, url, key string) (*Backend, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewWithClient(rdb, key), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(rdb *redis.Client, key string) *Backend {
	if key == "" {
		key = defaultKey
	}
	return &Backend{rdb: rdb, key: key}
}

func (b *Backend) Driver() storage.Driver { return storage.DriverRedis }

func (b *Backend) Load(ctx context.Context) ([]model.Product, error) {
	data, err := b.rdb.Get(ctx, b.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis key %s: %w", b.key, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", b.key, err)
	}
	return storage.Decode(data)
}

func (b *Backend) Save(ctx context.Context, products []model.Product) error {
	data, err := storage.Encode(products)
	if err != nil {
		return err
	}
	if err := b.rdb.Set(ctx, b.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", b.key, err)
	}
	return nil
}

func (b *Backend) Close() error { return b.rdb.Close() }
