package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	domain "github.com/rma010101/ecommerce-fullstack/internal/entity"
	"github.com/rma010101/ecommerce-fullstack/internal/usecase"
)

const (
	productKeyPrefix = "product:"
	productsAllKey   = "products:all"
)

// RedisProductCache is best-effort: any Redis failure reads as a miss
// and writes are fire-and-forget.
type RedisProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisProductCache(rdb *redis.Client, ttl time.Duration) *RedisProductCache {
	return &RedisProductCache{rdb: rdb, ttl: ttl}
}

var _ usecase.ProductCache = (*RedisProductCache)(nil)

func (c *RedisProductCache) Get(ctx context.Context, id string) (*domain.Product, bool) {
	raw, err := c.rdb.Get(ctx, productKeyPrefix+id).Bytes()
	if err != nil {
		return nil, false
	}
	var p domain.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (c *RedisProductCache) Set(ctx context.Context, p *domain.Product) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, productKeyPrefix+p.ID, raw, c.ttl).Err()
}

func (c *RedisProductCache) GetAll(ctx context.Context) ([]domain.Product, bool) {
	raw, err := c.rdb.Get(ctx, productsAllKey).Bytes()
	if err != nil {
		return nil, false
	}
	var products []domain.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, false
	}
	return products, true
}

func (c *RedisProductCache) SetAll(ctx context.Context, products []domain.Product) {
	raw, err := json.Marshal(products)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, productsAllKey, raw, c.ttl).Err()
}

func (c *RedisProductCache) Evict(ctx context.Context, id string) {
	_ = c.rdb.Del(ctx, productKeyPrefix+id).Err()
}

func (c *RedisProductCache) EvictAll(ctx context.Context) {
	_ = c.rdb.Del(ctx, productsAllKey).Err()
}
