package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// Runs against a live server only when TASKX_TEST_MONGO_URI is set.
func TestKeyValueStore_Live(t *testing.T) {
	uri := os.Getenv("TASKX_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TASKX_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	s, err := Open(ctx, Options{URI: uri, Database: "taskx_test", Owner: "test-" + uuid.NewString()})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if _, ok, err := s.Get(ctx, "token"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "token", "first"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "token", "second"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	if v, ok, err := s.Get(ctx, "token"); err != nil || !ok || v != "second" {
		t.Fatalf("Get: v=%q ok=%v err=%v", v, ok, err)
	}
	if err := s.Delete(ctx, "token"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "token"); ok {
		t.Fatalf("expected key deleted")
	}
}

func TestClose_WithoutOwnedClient(t *testing.T) {
	if err := (&KeyValueStore{owner: "alice"}).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestFilter_ScopesByOwner(t *testing.T) {
	s := &KeyValueStore{owner: "alice"}
	f := s.filter("token")
	if f["owner"] != "alice" || f["key"] != "token" {
		t.Fatalf("unexpected filter: %v", f)
	}
}
