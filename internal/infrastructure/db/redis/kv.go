package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "taskx:"

// KeyValueStore keeps session entries in Redis.
// Key format: <prefix><key>, e.g. taskx:token
type KeyValueStore struct {
	client *redis.Client
	prefix string
}

// NewKeyValueStore wraps client. An empty prefix falls back to "taskx:".
func NewKeyValueStore(client *redis.Client, prefix string) *KeyValueStore {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &KeyValueStore{client: client, prefix: prefix}
}

func (s *KeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

// Set stores value without expiry; the backend decides when a token dies.
func (s *KeyValueStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *KeyValueStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *KeyValueStore) key(k string) string {
	return s.prefix + k
}
