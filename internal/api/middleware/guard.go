package middleware

import (
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskexchange/taskx/internal/core/domain"
	"github.com/taskexchange/taskx/internal/core/guard"
)

// GuardConfig wires Guard.
type GuardConfig struct {
	Public    domain.PublicPaths
	LoginPath string
	Logger    zerolog.Logger
}

// Guard runs the session guard on page requests, with the request's cookie
// session as credential store. Pages are .html files and extension-less
// paths; assets (css, js, images) pass through. A refused page is answered
// with a redirect to the login page and never rendered.
func Guard(cfg GuardConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			page := c.Request().URL.Path
			if !isPage(page) {
				return next(c)
			}

			scope := ScopeFrom(c)
			if scope == nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "session scope missing")
			}

			g := guard.New("web", scope.Session, cfg.Public, cfg.LoginPath, cfg.Logger)
			err := g.Enforce(c.Request().Context(), page, scope.Nav)
			if errors.Is(err, domain.ErrRedirected) {
				return c.Redirect(http.StatusFound, scope.Nav.Target())
			}
			if err != nil {
				return err
			}
			return next(c)
		}
	}
}

func isPage(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	return ext == "" || ext == ".html" || ext == ".htm"
}
