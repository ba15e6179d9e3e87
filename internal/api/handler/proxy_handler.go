package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskexchange/taskx/internal/api/middleware"
	"github.com/taskexchange/taskx/internal/core/ports"
)

const maxProxyBody = 1 << 20

// ProxyHandler forwards page API calls to the backend through the request
// gateway, so they carry the cookie credential and a 401 ends the session.
type ProxyHandler struct {
	prefix string
}

// NewProxyHandler strips prefix ("/api") from incoming paths.
func NewProxyHandler(prefix string) *ProxyHandler {
	return &ProxyHandler{prefix: prefix}
}

// Forward relays one call.
//
// @Summary      Backend API passthrough
// @Tags         api
// @Accept       json
// @Produce      json
// @Param        path  path      string  true  "Backend path, e.g. tasks/posted"
// @Success      200   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]string
// @Router       /api/{path} [get]
func (h *ProxyHandler) Forward(c echo.Context) error {
	req := c.Request()

	raw, err := io.ReadAll(io.LimitReader(req.Body, maxProxyBody+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "read body")
	}
	if len(raw) > maxProxyBody {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "body too large")
	}

	path := strings.TrimPrefix(req.URL.Path, h.prefix)
	if path == "" {
		path = "/"
	}
	if req.URL.RawQuery != "" {
		path += "?" + req.URL.RawQuery
	}

	out := ports.Request{Method: req.Method, Path: path}
	if len(raw) > 0 {
		if !json.Valid(raw) {
			return echo.NewHTTPError(http.StatusBadRequest, "body must be JSON")
		}
		out.Body = json.RawMessage(raw)
	}
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		out.Header = http.Header{echo.HeaderXRequestID: []string{id}}
	}

	resp, err := middleware.ScopeFrom(c).API.Send(req.Context(), out)
	if err != nil {
		return err
	}
	if len(resp.Body) == 0 {
		return c.NoContent(resp.Status)
	}
	return c.JSONBlob(resp.Status, resp.Body)
}
