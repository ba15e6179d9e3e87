package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const stateCollection = "client_state"

// KeyValueStore keeps session entries as documents of the client_state
// collection, one document per key, scoped by owner so several profiles
// can share a database.
type KeyValueStore struct {
	coll   *mongo.Collection
	owner  string
	client *mongo.Client
}

type stateDoc struct {
	Owner     string `bson:"owner"`
	Key       string `bson:"key"`
	Value     string `bson:"value"`
	UpdatedAt int64  `bson:"updated_at"`
}

func NewKeyValueStore(db *mongo.Database, owner string) *KeyValueStore {
	return &KeyValueStore{coll: db.Collection(stateCollection), owner: owner}
}

// EnsureIndexes creates the unique (owner, key) index.
func (s *KeyValueStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner", Value: 1}, {Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create client_state index: %w", err)
	}
	return nil
}

func (s *KeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	var doc stateDoc
	err := s.coll.FindOne(ctx, s.filter(key)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find %s: %w", key, err)
	}
	return doc.Value, true, nil
}

func (s *KeyValueStore) Set(ctx context.Context, key, value string) error {
	update := bson.M{"$set": stateDoc{
		Owner:     s.owner,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC().Unix(),
	}}
	_, err := s.coll.UpdateOne(ctx, s.filter(key), update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *KeyValueStore) Delete(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, s.filter(key)); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *KeyValueStore) filter(key string) bson.M {
	return bson.M{"owner": s.owner, "key": key}
}
