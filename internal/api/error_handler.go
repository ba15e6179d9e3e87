package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskexchange/taskx/internal/api/middleware"
	"github.com/taskexchange/taskx/internal/core/domain"
)

// errorResponse is the error envelope page scripts read. message follows
// the backend's own convention; redirect is set when the session ended.
type errorResponse struct {
	Message  string            `json:"message"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Passes backend errors through with their status and message.
//   - Answers rejected input with 400 and the per-field messages.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if scope := middleware.ScopeFrom(c); scope != nil {
			body.Redirect = scope.Nav.Target()
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	var (
		he       *echo.HTTPError
		apiErr   *domain.APIError
		invalid  *domain.ValidationError
		transErr *url.Error
	)
	switch {
	case errors.As(err, &he):
		return he.Code, errorResponse{Message: fmt.Sprintf("%v", he.Message)}
	case errors.As(err, &apiErr):
		return apiErr.Status, errorResponse{Message: apiErr.Message}
	case errors.As(err, &invalid):
		return http.StatusBadRequest, errorResponse{Message: invalid.Error(), Fields: invalid.Fields}
	case errors.Is(err, domain.ErrRedirected):
		return http.StatusUnauthorized, errorResponse{Message: "sign in required"}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	if errors.As(err, &transErr) {
		return http.StatusBadGateway, errorResponse{Message: "backend unavailable"}
	}
	return http.StatusInternalServerError, errorResponse{Message: "internal server error"}
}
