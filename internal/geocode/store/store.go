// Package store provides the cache backing the reverse-geocode service.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "geocode:reverse:"

// Store is the reverse-geocode cache. Entries are resolved addresses keyed
// by rounded coordinates; only successful resolutions are ever stored.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, address string) error
}

// RedisStore implements Store on Redis. Entries have no TTL: addresses for
// fixed coordinates do not go stale in any way this service cares about.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed geocode cache.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Compile-time check that RedisStore implements Store.
var _ Store = (*RedisStore)(nil)

// Get retrieves a cached address. The second return value reports whether
// the key was present.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("geocode cache get: %w", err)
	}
	return value, true, nil
}

// Set stores a resolved address.
func (s *RedisStore) Set(ctx context.Context, key, address string) error {
	if err := s.client.Set(ctx, keyPrefix+key, address, 0).Err(); err != nil {
		return fmt.Errorf("geocode cache set: %w", err)
	}
	return nil
}
