// Package store keeps the client-side session on top of any key-value
// backend: the credential under "token" and the cached profile, JSON
// encoded, under "user".
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/taskexchange/taskx/internal/core/domain"
	"github.com/taskexchange/taskx/internal/core/ports"
)

const (
	TokenKey   = "token"
	ProfileKey = "user"
)

// Session implements ports.CredentialStore and ports.ProfileCache.
type Session struct {
	kv ports.KeyValueStore
}

var (
	_ ports.CredentialStore = (*Session)(nil)
	_ ports.ProfileCache    = (*Session)(nil)
)

func NewSession(kv ports.KeyValueStore) *Session {
	return &Session{kv: kv}
}

// Token returns the stored credential, or "" when absent. The value is
// never inspected.
func (s *Session) Token(ctx context.Context) (string, error) {
	token, _, err := s.kv.Get(ctx, TokenKey)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return token, nil
}

func (s *Session) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return s.ClearToken(ctx)
	}
	if err := s.kv.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

func (s *Session) ClearToken(ctx context.Context) error {
	if err := s.kv.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// Profile returns the cached user, or nil. A corrupt entry reads as absent.
func (s *Session) Profile(ctx context.Context) (*domain.User, error) {
	raw, ok, err := s.kv.Get(ctx, ProfileKey)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, nil
	}
	return &u, nil
}

func (s *Session) SetProfile(ctx context.Context, user *domain.User) error {
	if user == nil {
		return s.ClearProfile(ctx)
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.kv.Set(ctx, ProfileKey, string(raw)); err != nil {
		return fmt.Errorf("store profile: %w", err)
	}
	return nil
}

func (s *Session) ClearProfile(ctx context.Context) error {
	if err := s.kv.Delete(ctx, ProfileKey); err != nil {
		return fmt.Errorf("clear profile: %w", err)
	}
	return nil
}

// Clear removes both entries.
func (s *Session) Clear(ctx context.Context) error {
	if err := s.ClearToken(ctx); err != nil {
		return err
	}
	return s.ClearProfile(ctx)
}
