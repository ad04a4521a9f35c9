package cloud

import (
	"context"
	"errors"
	"fmt"
	"questlog/internal/providers"
	"questlog/internal/structures"

	"github.com/redis/go-redis/v9"
)

// RedisBackend keeps documents as plain string values under a key prefix.
type RedisBackend struct {
	client *redis.Client
	prefix string
	logger providers.Logger
}

var _ Backend = (*RedisBackend)(nil)

func NewRedisBackend(ctx context.Context, cfg structures.RedisConfig, logger providers.Logger) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", cfg.Addr, err)
	}
	logger.Infof(providers.TypeApp, "Redis backend connected to %s", cfg.Addr)
	return NewRedisBackendWithClient(client, cfg.KeyPrefix, logger), nil
}

func NewRedisBackendWithClient(client *redis.Client, prefix string, logger providers.Logger) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix, logger: logger}
}

func (r *RedisBackend) Get(ctx context.Context, deviceID string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.prefix+deviceID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", deviceID, err)
	}
	return val, nil
}

func (r *RedisBackend) Put(ctx context.Context, deviceID string, blob []byte) error {
	if err := r.client.Set(ctx, r.prefix+deviceID, blob, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", deviceID, err)
	}
	return nil
}

func (r *RedisBackend) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisBackend) Close() error {
	return r.client.Close()
}
