package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKV stores values in Redis under a common key prefix
type RedisKV struct {
	client *redis.Client
	prefix string
}

// NewRedisKV connects lazily to the Redis server at addr
func NewRedisKV(addr, prefix string) *RedisKV {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisKV{
		client: rdb,
		prefix: prefix,
	}
}

func (r *RedisKV) key(k string) string {
	return r.prefix + k
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", r.key(key), err)
	}
	return val, true, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key(key), err)
	}
	return nil
}

// Close releases the connection pool
func (r *RedisKV) Close() error {
	return r.client.Close()
}
