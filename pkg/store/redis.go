package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces settings keys in a shared Redis.
const DefaultRedisPrefix = "poolwatch:"

// RedisStore implements Store on Redis, for sharing a selection between
// several dashboards.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(addr, password string, db int) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: client, prefix: DefaultRedisPrefix}
}

// Ping checks the connection.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return value, err
}

func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
