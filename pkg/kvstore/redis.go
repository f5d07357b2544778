package kvstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-backed store for the serve daemon, where multiple
// instances share cached manifest and registry state. Key expiry is
// delegated to Redis TTLs.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// RedisConfig holds connection settings for a RedisStore.
type RedisConfig struct {
	Addr     string // host:port, e.g. "localhost:6379"
	Password string
	DB       int
	// Prefix is prepended to every key to namespace this application's
	// entries inside a shared Redis instance.
	Prefix string
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "depsense:"
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

// Get retrieves the value at key.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores data at key. A ttl of 0 stores the entry without expiry.
func (s *RedisStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, data, ttl).Err()
}

// Delete removes the entry at key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

// DeletePrefix scans for keys matching the prefix and removes them in
// batches. SCAN is used instead of KEYS to avoid blocking the server.
func (s *RedisStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	var (
		cursor uint64
		count  int
	)
	pattern := s.prefix + prefix + "*"
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return count, err
		}
		if len(keys) > 0 {
			removed, err := s.client.Del(ctx, keys...).Result()
			count += int(removed)
			if err != nil {
				return count, err
			}
		}
		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
