package store

import (
	"context"
	"fmt"

	"github.com/taskexchange/taskx/internal/core/ports"
	"github.com/taskexchange/taskx/internal/infrastructure/config"
	"github.com/taskexchange/taskx/internal/infrastructure/db/mongo"
	"github.com/taskexchange/taskx/internal/infrastructure/db/redis"
	"github.com/taskexchange/taskx/internal/infrastructure/db/sqlite"
)

// Backend is an opened key-value store plus its release func.
type Backend struct {
	KV    ports.KeyValueStore
	Close func() error
}

// OpenBackend opens the store selected by cfg.Store.
func OpenBackend(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return &Backend{KV: NewMemory(), Close: func() error { return nil }}, nil

	case config.StoreSQLite:
		kv, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		return &Backend{KV: kv, Close: kv.Close}, nil

	case config.StoreRedis:
		kv, err := redis.Open(ctx, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return &Backend{KV: kv, Close: kv.Close}, nil

	case config.StoreMongo:
		kv, err := mongo.Open(ctx, mongo.Options{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Owner:    cfg.Mongo.Owner,
		})
		if err != nil {
			return nil, err
		}
		return &Backend{KV: kv, Close: kv.Close}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
}
