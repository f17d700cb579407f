package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"drawAuditor/config"
)

// RedisCache stores verification responses in Redis. It satisfies
// source.Cache.
type RedisCache struct {
	client *redis.Client
	log    *zap.SugaredLogger
}

// NewRedisCache connects to Redis and pings it.
func NewRedisCache(ctx context.Context, cfg config.Config, log *zap.SugaredLogger) (*RedisCache, error) {
	log.Info("🔌 Connecting to Redis...")

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisURL,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Infof("✅ Redis connected successfully - URL: %s", cfg.RedisURL)
	return &RedisCache{client: client, log: log}, nil
}

func drawsKey(gameID string) string {
	return fmt.Sprintf(config.RedisDrawsKey, gameID)
}

// Get returns the cached response for a game.
func (c *RedisCache) Get(ctx context.Context, gameID string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, drawsKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached draws: %w", err)
	}
	return data, true, nil
}

// Set stores a response with the given TTL.
func (c *RedisCache) Set(ctx context.Context, gameID string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, drawsKey(gameID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache draws: %w", err)
	}
	c.log.Debugf("💾 Cached draws - Game: %s, TTL: %s", gameID, ttl)
	return nil
}

// Delete drops a cached response.
func (c *RedisCache) Delete(ctx context.Context, gameID string) error {
	if err := c.client.Del(ctx, drawsKey(gameID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cached draws: %w", err)
	}
	return nil
}

// HealthCheck pings Redis.
func (c *RedisCache) HealthCheck(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	c.log.Info("🔌 Closing Redis connection...")
	return c.client.Close()
}
