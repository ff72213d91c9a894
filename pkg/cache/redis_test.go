package cache

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/performance-portal-api/pkg/config"
)

func redisConfig(t *testing.T, srv *miniredis.Miniredis) config.RedisConfig {
	t.Helper()
	port, err := strconv.Atoi(srv.Port())
	require.NoError(t, err)
	return config.RedisConfig{Host: srv.Host(), Port: port}
}

func TestNewRedisConnects(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewRedis(context.Background(), redisConfig(t, srv))
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, Ping(context.Background(), client))
}

func TestNewRedisFailsWhenServerIsDown(t *testing.T) {
	srv := miniredis.RunT(t)
	cfg := redisConfig(t, srv)
	srv.Close()

	_, err := NewRedis(context.Background(), cfg)
	assert.Error(t, err)
}
