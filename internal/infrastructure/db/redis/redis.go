// Package redis stores the client session in a Redis instance, which lets
// several front-end processes share one login.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options selects the instance and key namespace of a session store.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	// DialTimeout bounds connection setup; zero means 3s.
	DialTimeout time.Duration
}

// Open dials the instance, checks it answers PING and returns a store that
// owns the client.
func Open(ctx context.Context, opts Options) (*KeyValueStore, error) {
	dial := opts.DialTimeout
	if dial <= 0 {
		dial = 3 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout: dial,
		MaxRetries:  -1,
		PoolSize:    2,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("session store redis://%s/%d: %w", opts.Addr, opts.DB, err)
	}

	return NewKeyValueStore(client, opts.Prefix), nil
}

// Close releases the underlying client.
func (s *KeyValueStore) Close() error {
	return s.client.Close()
}
