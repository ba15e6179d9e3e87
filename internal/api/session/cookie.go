// Package session keeps the browser's client-side state in cookies: the
// web front's counterpart of local storage.
package session

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/taskexchange/taskx/internal/core/ports"
)

// MaxValueSize is the largest encoded value written; browsers drop cookies
// past about 4 KiB including name and attributes.
const MaxValueSize = 3800

// ErrValueTooLarge is returned by Set when the encoded value exceeds
// MaxValueSize. The key is cleared instead of keeping a stale value.
var ErrValueTooLarge = errors.New("cookie value too large")

// CookieOptions applies to every cookie written.
type CookieOptions struct {
	Secure bool
	// MaxAge in seconds; 0 keeps the cookie for the browser session.
	MaxAge int
}

// CookieStore is a ports.KeyValueStore bound to one request. Reads see the
// request cookies overlaid with writes made during the request. Values are
// base64url encoded so JSON survives cookie syntax.
type CookieStore struct {
	c    echo.Context
	opts CookieOptions

	mu      sync.Mutex
	written map[string]*string // nil value means deleted
}

var _ ports.KeyValueStore = (*CookieStore)(nil)

func NewCookieStore(c echo.Context, opts CookieOptions) *CookieStore {
	return &CookieStore{c: c, opts: opts, written: make(map[string]*string)}
}

func (s *CookieStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	v, touched := s.written[key]
	s.mu.Unlock()
	if touched {
		if v == nil {
			return "", false, nil
		}
		return *v, true, nil
	}

	cookie, err := s.c.Cookie(key)
	if err != nil || cookie.Value == "" {
		return "", false, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		// Unreadable cookies are treated as absent.
		return "", false, nil
	}
	return string(raw), true, nil
}

func (s *CookieStore) Set(_ context.Context, key, value string) error {
	encoded := base64.RawURLEncoding.EncodeToString([]byte(value))

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(encoded) > MaxValueSize {
		s.written[key] = nil
		s.c.SetCookie(s.cookie(key, "", -1))
		return fmt.Errorf("%s: %d bytes: %w", key, len(encoded), ErrValueTooLarge)
	}
	s.written[key] = &value
	s.c.SetCookie(s.cookie(key, encoded, s.opts.MaxAge))
	return nil
}

func (s *CookieStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.written[key] = nil
	s.c.SetCookie(s.cookie(key, "", -1))
	return nil
}

func (s *CookieStore) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
