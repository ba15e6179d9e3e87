// Package mongo stores the client session in MongoDB.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Options selects the deployment, database and owner of a session store.
type Options struct {
	URI      string
	Database string
	Owner    string
	// ServerSelection bounds how long to wait for a usable server; zero
	// means 5s.
	ServerSelection time.Duration
}

// Open connects, checks the primary, ensures the client_state index and
// returns a store that owns the client.
func Open(ctx context.Context, opts Options) (*KeyValueStore, error) {
	wait := opts.ServerSelection
	if wait <= 0 {
		wait = 5 * time.Second
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(opts.URI).
		SetAppName("taskx").
		SetServerSelectionTimeout(wait))
	if err != nil {
		return nil, fmt.Errorf("session store mongo: %w", err)
	}

	s := NewKeyValueStore(client.Database(opts.Database), opts.Owner)
	s.client = client

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("session store mongo %s: %w", opts.Database, err)
	}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Close disconnects the client opened by Open; stores built with
// NewKeyValueStore leave their client to the caller.
func (s *KeyValueStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(context.Background())
}
