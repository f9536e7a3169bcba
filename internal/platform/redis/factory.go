package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"giveaway-tracker/internal/common/config"
)

// RedisClient is the subset of go-redis the tracker persists through.
type RedisClient interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Set(ctx context.Context, key string, value interface{}, ttl ...time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Close() error
}

// CreateRedisClient connects to the configured server and pings it.
func CreateRedisClient(ctx context.Context, cfg *config.Config) (RedisClient, error) {
	client := Wrap(redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}))
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr(), err)
	}
	return client, nil
}

// Wrap adapts an existing go-redis client.
func Wrap(client *redis.Client) RedisClient {
	return &redisClientWrapper{client: client}
}

type redisClientWrapper struct {
	client *redis.Client
}

func (w *redisClientWrapper) Ping(ctx context.Context) *redis.StatusCmd {
	return w.client.Ping(ctx)
}

func (w *redisClientWrapper) Set(ctx context.Context, key string, value interface{}, ttl ...time.Duration) *redis.StatusCmd {
	if len(ttl) > 0 {
		return w.client.Set(ctx, key, value, ttl[0])
	}
	return w.client.Set(ctx, key, value, 0)
}

func (w *redisClientWrapper) Get(ctx context.Context, key string) *redis.StringCmd {
	return w.client.Get(ctx, key)
}

func (w *redisClientWrapper) Close() error {
	return w.client.Close()
}
