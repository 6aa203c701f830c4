// Package cache guarda en Redis el resumen de stock por tienda. Es solo una caché de lectura:
// el libro nunca lee de aquí para validar un movimiento.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/marketplace-api/internal/application/inventory"
	"github.com/jhoicas/marketplace-api/pkg/config"
)

var _ inventory.StockCache = (*RedisStockCache)(nil)

const keyPrefix = "marketplace:stock-overview:"

// RedisStockCache implementa inventory.StockCache. Con client nil se comporta como NoopCache.
type RedisStockCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewClient crea el cliente Redis; devuelve nil si REDIS_ADDR no está configurado.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewRedisStockCache construye la caché. ttl <= 0 usa 30s.
func NewRedisStockCache(client *redis.Client, ttl time.Duration) *RedisStockCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisStockCache{client: client, ttl: ttl}
}

func key(storeID string) string { return keyPrefix + storeID }

// GetOverview decodifica el valor cacheado en dst. (false, nil) si no hay entrada.
func (c *RedisStockCache) GetOverview(ctx context.Context, storeID string, dst any) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	raw, err := c.client.Get(ctx, key(storeID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// entrada corrupta: se trata como miss y se borra
		_ = c.client.Del(ctx, key(storeID)).Err()
		return false, fmt.Errorf("decode cached overview: %w", err)
	}
	return true, nil
}

// SetOverview guarda v como JSON con el TTL configurado.
func (c *RedisStockCache) SetOverview(ctx context.Context, storeID string, v any) error {
	if c.client == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode overview: %w", err)
	}
	if err := c.client.Set(ctx, key(storeID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate borra la entrada de la tienda. Se llama después de cada movimiento confirmado.
func (c *RedisStockCache) Invalidate(ctx context.Context, storeID string) error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, key(storeID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
