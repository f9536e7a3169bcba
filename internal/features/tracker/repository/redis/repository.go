package redis

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"giveaway-tracker/internal/features/tracker/repository"
	redisplatform "giveaway-tracker/internal/platform/redis"
)

type redisRepository struct {
	client redisplatform.RedisClient
	prefix string
}

func NewRedisDocumentStore(client redisplatform.RedisClient, prefix string) repository.DocumentStore {
	return &redisRepository{client: client, prefix: prefix}
}

func (r *redisRepository) makeKey(name string) string {
	return r.prefix + name
}

// Save writes the document with a single SET, so readers never see a
// partially written value.
func (r *redisRepository) Save(ctx context.Context, name string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	if err := r.client.Set(ctx, r.makeKey(name), data).Err(); err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	return nil
}

func (r *redisRepository) Load(ctx context.Context, name string, dest interface{}) (bool, error) {
	data, err := r.client.Get(ctx, r.makeKey(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", name, err)
	}
	return true, nil
}
