package database

import (
	"context"

	"github.com/redis/go-redis/v9"

	"insurance-intake/internal/common/config"
)

// RedisClient wraps the go-redis client used by the rate limiter.
type RedisClient struct {
	client *redis.Client
}

func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisClient{client: client}, nil
}

func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

// Client exposes the underlying go-redis client.
func (r *RedisClient) Client() *redis.Client {
	return r.client
}
