package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/taskexchange/taskx/internal/infrastructure/config"
)

func TestOpenBackend_SQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Store: config.StoreSQLite}
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "session.db")

	b, err := OpenBackend(ctx, cfg)
	if err != nil {
		t.Fatalf("OpenBackend: %v", err)
	}
	if err := NewSession(b.KV).SetToken(ctx, "persisted"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	b, err = OpenBackend(ctx, cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer b.Close()
	if token, _ := NewSession(b.KV).Token(ctx); token != "persisted" {
		t.Fatalf("expected token to survive reopen, got %q", token)
	}
}

func TestOpenBackend_Redis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cfg := &config.Config{Store: config.StoreRedis}
	cfg.Redis.Addr = mr.Addr()
	cfg.Redis.Prefix = "test:"

	b, err := OpenBackend(ctx, cfg)
	if err != nil {
		t.Fatalf("OpenBackend: %v", err)
	}
	defer b.Close()

	if err := NewSession(b.KV).SetToken(ctx, "abc"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if got, _ := mr.Get("test:token"); got != "abc" {
		t.Fatalf("expected token under prefixed key, got %q", got)
	}
}

func TestOpenBackend_Memory(t *testing.T) {
	b, err := OpenBackend(context.Background(), &config.Config{Store: config.StoreMemory})
	if err != nil {
		t.Fatalf("OpenBackend: %v", err)
	}
	if _, ok := b.KV.(*Memory); !ok {
		t.Fatalf("expected memory store, got %T", b.KV)
	}
}

func TestOpenBackend_Unknown(t *testing.T) {
	if _, err := OpenBackend(context.Background(), &config.Config{Store: "etcd"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
