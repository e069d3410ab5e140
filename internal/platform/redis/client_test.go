package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeline/internal/platform/config"
)

func TestNewWithoutURLDisablesRedis(t *testing.T) {
	client, err := New(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewRejectsMalformedURL(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{URL: "http://not-redis"})
	assert.Error(t, err)
}

func TestApplyPoolSettings(t *testing.T) {
	opts := &redis.Options{PoolSize: 3, ReadTimeout: time.Second}

	applyPoolSettings(opts, config.RedisConfig{PoolSize: 20, DialTimeout: 2 * time.Second})

	assert.Equal(t, 20, opts.PoolSize)
	assert.Equal(t, 2*time.Second, opts.DialTimeout)
	assert.Equal(t, time.Second, opts.ReadTimeout, "zero values keep the existing setting")
}
