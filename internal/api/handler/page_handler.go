package handler

import (
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
)

// PageHandler serves the static pages of the marketplace from root.
type PageHandler struct {
	root  string
	index string
}

func NewPageHandler(root string) *PageHandler {
	return &PageHandler{root: root, index: "index.html"}
}

// Serve writes the file for the request path; directories get their
// index.html.
func (h *PageHandler) Serve(c echo.Context) error {
	p := path.Clean("/" + c.Request().URL.Path)
	if strings.HasSuffix(p, "/") {
		p += h.index
	}
	if path.Ext(p) == "" {
		p = path.Join(p, h.index)
	}

	file := filepath.Join(h.root, filepath.FromSlash(p))
	if err := c.File(file); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "page not found")
	}
	return nil
}
