package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskexchange/taskx/internal/api/session"
	"github.com/taskexchange/taskx/internal/core/domain"
	"github.com/taskexchange/taskx/internal/core/service"
	"github.com/taskexchange/taskx/internal/infrastructure/gateway"
	"github.com/taskexchange/taskx/internal/infrastructure/navigation"
	"github.com/taskexchange/taskx/internal/infrastructure/store"
)

const scopeKey = "taskx.scope"

// Scope is the client core bound to one browser request.
type Scope struct {
	Session *store.Session
	Nav     *navigation.Recorder
	API     *gateway.Gateway
	Client  *service.Client
}

// SessionConfig wires Session.
type SessionConfig struct {
	BaseURL    string
	HTTPClient *http.Client
	LoginPath  string
	Public     domain.PublicPaths
	Cookie     session.CookieOptions
	Logger     zerolog.Logger
}

// Session builds a Scope from the request cookies and stores it in the
// context. The current page is the request path, or for API calls the page
// that issued them (Referer).
func Session(cfg SessionConfig) echo.MiddlewareFunc {
	// A rejected sign-in already shows on the form that posted it.
	public := append(domain.PublicPaths{"/session/login", "/session/register"}, cfg.Public...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := store.NewSession(session.NewCookieStore(c, cfg.Cookie))
			nav := navigation.NewRecorder(currentPage(c.Request()))
			log := cfg.Logger.With().Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).Logger()

			api := gateway.New(gateway.Config{
				BaseURL:     cfg.BaseURL,
				HTTPClient:  cfg.HTTPClient,
				Credentials: sess,
				Profile:     sess,
				Navigator:   nav,
				LoginPath:   cfg.LoginPath,
				Public:      public,
				Logger:      log,
			})
			c.Set(scopeKey, &Scope{
				Session: sess,
				Nav:     nav,
				API:     api,
				Client: service.New(service.Deps{
					API:         api,
					Credentials: sess,
					Profile:     sess,
					Navigator:   nav,
					LoginPath:   cfg.LoginPath,
					Logger:      log,
				}),
			})
			return next(c)
		}
	}
}

// ScopeFrom returns the Scope installed by Session, or nil.
func ScopeFrom(c echo.Context) *Scope {
	s, _ := c.Get(scopeKey).(*Scope)
	return s
}

func currentPage(r *http.Request) string {
	if ref := r.Header.Get("Referer"); ref != "" {
		if u, err := url.Parse(ref); err == nil && u.Path != "" && u.Host == r.Host {
			return u.Path
		}
	}
	return r.URL.Path
}
