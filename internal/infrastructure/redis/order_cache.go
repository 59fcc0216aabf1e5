package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bgoldmann/darkstore/internal/config"
	"github.com/bgoldmann/darkstore/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "escrow:order:"
	defaultTTL = 5 * time.Minute
)

func NewClient(ctx context.Context, cfg config.RedisCache) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     20,
		MinIdleConns: 2,
		MaxRetries:   2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// storeIfNewer writes the order only when no entry exists or the cached version is older.
var storeIfNewer = redis.NewScript(`
local cached = redis.call('HGET', KEYS[1], 'version')
if cached and tonumber(cached) >= tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[1], 'version', ARGV[1], 'data', ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`)

// RedisOrderCache stores order records as JSON in a hash next to their version,
// so a slow reader can never overwrite a newer entry.
type RedisOrderCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisOrderCache(client redis.Cmdable, ttl time.Duration) *RedisOrderCache {
	return &RedisOrderCache{client: client, ttl: ttl}
}

func (c *RedisOrderCache) Get(ctx context.Context, ref string) (*domain.Order, error) {
	val, err := c.client.HGet(ctx, keyPrefix+ref, "data").Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get %s: %w", ref, err)
	}

	var order domain.Order
	if err := json.Unmarshal(val, &order); err != nil {
		return nil, fmt.Errorf("cache decode %s: %w", ref, err)
	}
	return &order, nil
}

// Set is a no-op when the cache already holds the same or a later version.
func (c *RedisOrderCache) Set(ctx context.Context, order *domain.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", order.Ref, err)
	}
	err = storeIfNewer.Run(ctx, c.client, []string{keyPrefix + order.Ref}, order.Version, data, c.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("cache set %s: %w", order.Ref, err)
	}
	return nil
}

func (c *RedisOrderCache) Invalidate(ctx context.Context, ref string) error {
	return c.client.Del(ctx, keyPrefix+ref).Err()
}
