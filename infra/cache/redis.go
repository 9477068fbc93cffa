package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/backoffice/pkg/cache"
	"github.com/amirasaad/backoffice/pkg/provider/exchange"
	"github.com/redis/go-redis/v9"
)

// RedisRateCache implements RateCache using Redis string keys holding JSON.
type RedisRateCache struct {
	client redis.UniversalClient
	prefix string
	logger *slog.Logger
}

var _ cache.RateCache = (*RedisRateCache)(nil)

// NewRedisRateCache wraps an existing client.
func NewRedisRateCache(client redis.UniversalClient, prefix string, logger *slog.Logger) *RedisRateCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisRateCache{client: client, prefix: prefix, logger: logger}
}

func (r *RedisRateCache) key(base string) string {
	return r.prefix + strings.ToUpper(base)
}

func (r *RedisRateCache) Get(ctx context.Context, base string) (*exchange.RateSet, error) {
	val, err := r.client.Get(ctx, r.key(base)).Result()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Redis cache miss", "base", base)
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Redis cache get error", "base", base, "error", err)
		return nil, err
	}
	var set exchange.RateSet
	if err := json.Unmarshal([]byte(val), &set); err != nil {
		r.logger.Error("Redis cache unmarshal error", "base", base, "error", err)
		return nil, err
	}
	r.logger.Debug("Redis cache hit", "base", base, "rates", len(set.Rates))
	return &set, nil
}

func (r *RedisRateCache) Set(ctx context.Context, set *exchange.RateSet, ttl time.Duration) error {
	data, err := json.Marshal(set)
	if err != nil {
		r.logger.Error("Redis cache marshal error", "base", set.Base, "error", err)
		return err
	}
	if err := r.client.Set(ctx, r.key(set.Base), data, ttl).Err(); err != nil {
		r.logger.Error("Redis cache set error", "base", set.Base, "error", err)
		return err
	}
	r.logger.Debug("Redis cache set", "base", set.Base, "ttl", ttl)
	return nil
}

func (r *RedisRateCache) Delete(ctx context.Context, base string) error {
	if err := r.client.Del(ctx, r.key(base)).Err(); err != nil {
		r.logger.Error("Redis cache delete error", "base", base, "error", err)
		return err
	}
	return nil
}
