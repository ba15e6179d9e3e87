// Package guard decides, on page entry, whether the page may render.
// Presence of a credential is enough; whether the backend still accepts it
// is only learned on the first API call.
package guard

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/taskexchange/taskx/internal/core/domain"
	"github.com/taskexchange/taskx/internal/core/ports"
	"github.com/taskexchange/taskx/internal/infrastructure/metrics"
)

// Guard is the session guard of one front end.
type Guard struct {
	front     string
	creds     ports.CredentialStore
	public    domain.PublicPaths
	loginPath string
	log       zerolog.Logger
}

// New returns a Guard. front labels metrics and logs ("cli", "web").
func New(front string, creds ports.CredentialStore, public domain.PublicPaths, loginPath string, log zerolog.Logger) *Guard {
	return &Guard{
		front:     front,
		creds:     creds,
		public:    public,
		loginPath: loginPath,
		log:       log,
	}
}

// Enforce lets page through when it is public or a credential is present.
// Otherwise it redirects nav to the login page and returns
// domain.ErrRedirected; the caller must not run any page logic after that.
func (g *Guard) Enforce(ctx context.Context, page string, nav ports.Navigator) error {
	if g.public.Match(page) {
		return nil
	}

	token, err := g.creds.Token(ctx)
	if err != nil {
		return fmt.Errorf("session guard: %w", err)
	}
	if token != "" {
		return nil
	}

	metrics.GuardRedirectsTotal.WithLabelValues(g.front).Inc()
	g.log.Debug().Str("page", page).Str("target", g.loginPath).Msg("no credential, redirecting to login")
	nav.Redirect(g.loginPath)
	return domain.ErrRedirected
}

// IsPublic reports whether page is on the allow-list.
func (g *Guard) IsPublic(page string) bool {
	return g.public.Match(page)
}

// LoginPath returns the redirect target.
func (g *Guard) LoginPath() string {
	return g.loginPath
}
