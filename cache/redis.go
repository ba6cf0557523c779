package cache

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
)

// RedisProvider stores cache entries as Redis string values, for
// low-latency caching of report JSON and small output bytes (XM/IT
// modules, short WAVs). Large outputs belong in a blob Provider
// instead.
type RedisProvider struct {
	client *redis.Client
}

// NewRedisProvider connects to a Redis instance at cfg.Endpoint
// (host:port).
func NewRedisProvider(cfg Config) (*RedisProvider, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Endpoint,
		Password: cfg.SecretKey,
	})
	return &RedisProvider{client: client}, nil
}

func (r *RedisProvider) Put(ctx context.Context, key string, reader io.Reader, size int64) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("cache: read entry body: %w", err)
	}
	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("cache: set Redis key: %w", err)
	}
	return nil
}

func (r *RedisProvider) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("cache: key %s not found", key)
		}
		return nil, fmt.Errorf("cache: get Redis key: %w", err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (r *RedisProvider) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache: delete Redis key: %w", err)
	}
	return nil
}

func (r *RedisProvider) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("cache: check Redis key existence: %w", err)
	}
	return n > 0, nil
}
