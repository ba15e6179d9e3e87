package ports

import (
	"context"

	"github.com/taskexchange/taskx/internal/core/domain"
)

// KeyValueStore is the persistent client-side storage area. Reads and
// writes complete before returning.
type KeyValueStore interface {
	// Get returns the value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// CredentialStore holds the session token. An empty token means absent.
type CredentialStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// ProfileCache holds the denormalised copy of the signed-in user.
// Profile returns nil when nothing is cached.
type ProfileCache interface {
	Profile(ctx context.Context) (*domain.User, error)
	SetProfile(ctx context.Context, user *domain.User) error
	ClearProfile(ctx context.Context) error
}
