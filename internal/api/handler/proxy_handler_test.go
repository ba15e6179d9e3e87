package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/taskexchange/taskx/internal/apitest"
	"github.com/taskexchange/taskx/internal/core/domain"
)

func bearerCookie(token string) *http.Cookie {
	return &http.Cookie{Name: "token", Value: base64.RawURLEncoding.EncodeToString([]byte(token))}
}

func TestProxyHandler_ForwardsWithCookieCredential(t *testing.T) {
	backend := apitest.New(t)
	u := backend.SeedUser("Alice", "alice@example.com", "secret1")
	token := backend.TokenFor(u.ID)
	h := NewProxyHandler("/api")

	rec, err := serve(t, backend, h.Forward, http.MethodPost, "/api/tasks",
		`{"title":"Fix bug","description":"Found in homepage","coins":5}`, bearerCookie(token))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var task domain.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &task); err != nil || task.Title != "Fix bug" {
		t.Fatalf("unexpected body %s (%v)", rec.Body.String(), err)
	}

	reqs := backend.Requests()
	last := reqs[len(reqs)-1]
	if last.Path != "/api/tasks" || last.Authorization != "Bearer "+token {
		t.Fatalf("unexpected forwarded request %+v", last)
	}
}

func TestProxyHandler_KeepsQuery(t *testing.T) {
	backend := apitest.New(t)
	h := NewProxyHandler("/api")

	if _, err := serve(t, backend, h.Forward, http.MethodGet, "/api/tasks?status=open&search=logo", ""); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	reqs := backend.Requests()
	if got := reqs[len(reqs)-1].Path; got != "/api/tasks?status=open&search=logo" {
		t.Fatalf("unexpected forwarded path %q", got)
	}
}

func TestProxyHandler_UnauthorizedEndsSession(t *testing.T) {
	backend := apitest.New(t)
	u := backend.SeedUser("Alice", "alice@example.com", "secret1")
	token := backend.TokenFor(u.ID)
	backend.RevokeAll()
	h := NewProxyHandler("/api")

	rec, err := serve(t, backend, h.Forward, http.MethodGet, "/api/auth/profile", "", bearerCookie(token))

	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if c := cookieNamed(rec, "token"); c == nil || c.MaxAge >= 0 {
		t.Fatalf("expected token cookie expired, got %+v", c)
	}
}

func TestProxyHandler_RejectsNonJSONBody(t *testing.T) {
	backend := apitest.New(t)
	h := NewProxyHandler("/api")

	_, err := serve(t, backend, h.Forward, http.MethodPost, "/api/tasks", "title=x")
	if err == nil {
		t.Fatalf("expected error for non-JSON body")
	}
	if len(backend.Requests()) != 0 {
		t.Fatalf("rejected body must not be forwarded")
	}
}
