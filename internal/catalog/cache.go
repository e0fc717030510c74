package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// Cache keeps hot catalog reads off the database.
type Cache interface {
	GetProduct(ctx context.Context, id int64) (*Product, error)
	SetProduct(ctx context.Context, p *Product) error
	GetAvailable(ctx context.Context) ([]Product, error)
	SetAvailable(ctx context.Context, products []Product) error
	// Invalidate drops the entry for id along with the availability listing.
	Invalidate(ctx context.Context, id int64) error
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

const availableKey = "catalog:available"

func productKey(id int64) string {
	return fmt.Sprintf("catalog:product:%d", id)
}

func (r *RedisCache) get(ctx context.Context, key string, dest any) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal cached value failed: %w", err)
	}
	return nil
}

func (r *RedisCache) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cached value failed: %w", err)
	}

	// jitter spreads expiry so a burst of writes does not expire at once
	ttl := r.baseTTL + time.Duration(rand.Intn(5))*time.Minute
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var p Product
	if err := r.get(ctx, productKey(id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *RedisCache) SetProduct(ctx context.Context, p *Product) error {
	return r.set(ctx, productKey(p.ID), p)
}

func (r *RedisCache) GetAvailable(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := r.get(ctx, availableKey, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *RedisCache) SetAvailable(ctx context.Context, products []Product) error {
	return r.set(ctx, availableKey, products)
}

func (r *RedisCache) Invalidate(ctx context.Context, id int64) error {
	if err := r.client.Del(ctx, productKey(id), availableKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
