// Package cache cachea reportes de reconciliación en Redis con TTL corto.
// Si Redis no está disponible, la API funciona igual con el Noop.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/bellezapp/backend/internal/application/dto"
	"github.com/bellezapp/backend/internal/application/report"
)

var _ report.Cache = (*RedisReportCache)(nil)

// RedisReportCache implementa report.Cache sobre Redis.
type RedisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisReportCache construye el cache con su TTL.
func NewRedisReportCache(addr, password string, db int, ttl time.Duration) *RedisReportCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisReportCache{client: client, ttl: ttl}
}

// Ping verifica la conexión.
func (c *RedisReportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close cierra la conexión.
func (c *RedisReportCache) Close() error {
	return c.client.Close()
}

// GetReconciliation devuelve el reporte cacheado, o (nil, nil) en un miss.
func (c *RedisReportCache) GetReconciliation(ctx context.Context, key string) (*dto.ReconciliationReport, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rep dto.ReconciliationReport
	if err := json.Unmarshal([]byte(val), &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

// SetReconciliation cachea el reporte con el TTL configurado.
func (c *RedisReportCache) SetReconciliation(ctx context.Context, key string, rep *dto.ReconciliationReport) error {
	if rep == nil {
		return nil
	}
	payload, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.ttl).Err()
}

// NoopCache descarta todo; se usa cuando no hay Redis configurado.
type NoopCache struct{}

var _ report.Cache = (*NoopCache)(nil)

// NewNoopCache construye el cache nulo.
func NewNoopCache() *NoopCache { return &NoopCache{} }

func (NoopCache) GetReconciliation(context.Context, string) (*dto.ReconciliationReport, error) {
	return nil, nil
}

func (NoopCache) SetReconciliation(context.Context, string, *dto.ReconciliationReport) error {
	return nil
}
