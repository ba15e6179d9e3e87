package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskexchange/taskx/internal/api/middleware"
	"github.com/taskexchange/taskx/internal/apitest"
	"github.com/taskexchange/taskx/internal/core/domain"
)

var public = domain.PublicPaths{"/", "/index.html", "/login.html", "/register.html"}

// serve runs h behind the session middleware, like the router does.
func serve(t *testing.T, backend *apitest.Server, h echo.HandlerFunc, method, target, body string, cookies ...*http.Cookie) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := middleware.Session(middleware.SessionConfig{
		BaseURL:    backend.BaseURL(),
		HTTPClient: backend.Client(),
		LoginPath:  "/login.html",
		Public:     public,
		Logger:     zerolog.Nop(),
	})
	return rec, mw(h)(c)
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Register_Success(t *testing.T) {
	backend := apitest.New(t)
	h := NewAuthHandler("/dashboard.html")

	rec, err := serve(t, backend, h.Register, http.MethodPost, "/session/register",
		`{"name":"Alice","email":"alice@example.com","password":"secret1"}`)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["redirect"] != "/dashboard.html" {
		t.Fatalf("expected redirect to home page, got %v", resp["redirect"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["name"] != "Alice" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
	if _, leaked := resp["token"]; leaked {
		t.Fatalf("token must stay in the cookie")
	}

	if c := cookieNamed(rec, "token"); c == nil || c.Value == "" || !c.HttpOnly {
		t.Fatalf("expected HttpOnly token cookie, got %+v", c)
	}
	if c := cookieNamed(rec, "user"); c == nil || c.Value == "" {
		t.Fatalf("expected profile cookie")
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	backend := apitest.New(t)
	h := NewAuthHandler("/dashboard.html")

	_, err := serve(t, backend, h.Register, http.MethodPost, "/session/register", `{"name":"","email":"x","password":"1"}`)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(backend.Requests()) != 0 {
		t.Fatalf("invalid input must not reach the backend")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	backend := apitest.New(t)
	backend.SeedUser("Bob", "bob@example.com", "hunter22")
	h := NewAuthHandler("/dashboard.html")

	_, err := serve(t, backend, h.Login, http.MethodPost, "/session/login", `{"email":"bob@example.com","password":"nope"}`)

	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized || apiErr.Message != "Invalid credentials" {
		t.Fatalf("expected 401 Invalid credentials, got %v", err)
	}
}

func TestAuthHandler_Login_BadPayload(t *testing.T) {
	backend := apitest.New(t)
	h := NewAuthHandler("/dashboard.html")

	_, err := serve(t, backend, h.Login, http.MethodPost, "/session/login", `{not json`)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Logout_ClearsCookies(t *testing.T) {
	backend := apitest.New(t)
	h := NewAuthHandler("/dashboard.html")
	token := &http.Cookie{Name: "token", Value: "YWJj"}

	rec, err := serve(t, backend, h.Logout, http.MethodPost, "/session/logout", "", token)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["redirect"] != "/login.html" {
		t.Fatalf("expected redirect to login, got %v", resp)
	}
	if c := cookieNamed(rec, "token"); c == nil || c.MaxAge >= 0 {
		t.Fatalf("expected token cookie expired, got %+v", c)
	}
	if len(backend.Requests()) != 0 {
		t.Fatalf("logout must not contact the backend")
	}
}
