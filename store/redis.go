package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sicko7947/foodcart"
)

// RedisClient defines the subset of go-redis used by the store.
// redis.UniversalClient satisfies it; tests pass a fake.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ RedisClient = (redis.UniversalClient)(nil)

// RedisStore implements foodcart.BlobStore using Redis string values
type RedisStore struct {
	client RedisClient
	prefix string
	ttl    time.Duration
}

// RedisOption configures a RedisStore
type RedisOption func(*RedisStore)

// WithKeyPrefix prepends prefix to every Redis key
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// WithExpiration sets a Redis expiration on every write. Zero keeps keys forever.
func WithExpiration(d time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = d
	}
}

// NewRedisStore creates a new Redis-backed blob store
func NewRedisStore(client RedisClient, opts ...RedisOption) foodcart.BlobStore {
	s := &RedisStore{
		client: client,
		prefix: "foodcart:",
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *RedisStore) redisKey(key string) string {
	return s.prefix + key
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get blob %s: %w", key, err)
	}
	return data, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, blob []byte) error {
	if err := s.client.Set(ctx, s.redisKey(key), blob, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set blob %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}
