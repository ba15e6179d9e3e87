package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskexchange/taskx/internal/api/middleware"
	"github.com/taskexchange/taskx/internal/core/domain"
	"github.com/taskexchange/taskx/internal/core/ports"
)

// AuthHandler serves the browser's sign-in, sign-up and sign-out forms.
// The credential never reaches page scripts: it lives in an HttpOnly cookie.
type AuthHandler struct {
	homePage string
}

func NewAuthHandler(homePage string) *AuthHandler {
	return &AuthHandler{homePage: homePage}
}

type sessionResponse struct {
	User     *domain.User `json:"user,omitempty"`
	Message  string       `json:"message,omitempty"`
	Redirect string       `json:"redirect,omitempty"`
}

// Register creates an account and starts a session.
//
// @Summary      Register a new user
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      ports.RegisterInput  true  "Sign-up form"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /session/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var in ports.RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := middleware.ScopeFrom(c).Client.Auth.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sessionResponse{User: res.User, Message: res.Message, Redirect: h.homePage})
}

// Login starts a session.
//
// @Summary      Login
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      ports.LoginInput  true  "Sign-in form"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /session/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var in ports.LoginInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := middleware.ScopeFrom(c).Client.Auth.Login(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{User: res.User, Message: res.Message, Redirect: h.homePage})
}

// Logout ends the session locally.
//
// @Summary      Logout
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	scope := middleware.ScopeFrom(c)
	if err := scope.Client.Auth.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{Redirect: scope.Nav.Target()})
}

// Profile returns the cached profile without calling the backend.
//
// @Summary      Cached profile
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	u, err := middleware.ScopeFrom(c).Client.Auth.CachedProfile(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{User: u})
}
