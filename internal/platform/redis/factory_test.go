package redis

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giveaway-tracker/internal/common/config"
)

func configFor(t *testing.T, mr *miniredis.Miniredis) *config.Config {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	cfg := &config.Config{}
	cfg.Redis.Host = mr.Host()
	cfg.Redis.Port = port
	return cfg
}

func TestCreateRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := CreateRedisClient(context.Background(), configFor(t, mr))
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.Set(ctx, "k", "v").Err())
	got, err := client.Get(ctx, "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "v", got)
	assert.Zero(t, mr.TTL("k"))
}

func TestCreateRedisClient_PingFails(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := configFor(t, mr)
	mr.Close()

	_, err := CreateRedisClient(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
}
