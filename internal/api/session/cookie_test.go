package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newContext(cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCookieStore_SetIsVisibleInSameRequest(t *testing.T) {
	ctx := context.Background()
	c, rec := newContext()
	s := NewCookieStore(c, CookieOptions{Secure: true})

	if err := s.Set(ctx, "user", `{"_id":"u1","name":"Alice, Jr."}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := s.Get(ctx, "user")
	if err != nil || !ok || v != `{"_id":"u1","name":"Alice, Jr."}` {
		t.Fatalf("unexpected Get: %q %v %v", v, ok, err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one Set-Cookie, got %d", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != "user" || !ck.HttpOnly || !ck.Secure || ck.Path != "/" {
		t.Fatalf("unexpected cookie attributes: %+v", ck)
	}
}

func TestCookieStore_ReadsNextRequest(t *testing.T) {
	ctx := context.Background()
	c, rec := newContext()
	_ = NewCookieStore(c, CookieOptions{}).Set(ctx, "token", "abc.def")

	next, _ := newContext(rec.Result().Cookies()...)
	v, ok, err := NewCookieStore(next, CookieOptions{}).Get(ctx, "token")
	if err != nil || !ok || v != "abc.def" {
		t.Fatalf("expected token from cookie, got %q %v %v", v, ok, err)
	}
}

func TestCookieStore_DeleteExpiresCookie(t *testing.T) {
	ctx := context.Background()
	c, rec := newContext(&http.Cookie{Name: "token", Value: "YWJj"})
	s := NewCookieStore(c, CookieOptions{})

	if err := s.Delete(ctx, "token"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "token"); ok {
		t.Fatalf("expected deleted key to read as absent within the request")
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected an expiring cookie, got %+v", cookies)
	}
}

func TestCookieStore_UnreadableCookieIsAbsent(t *testing.T) {
	c, _ := newContext(&http.Cookie{Name: "token", Value: "%%%"})
	if _, ok, err := NewCookieStore(c, CookieOptions{}).Get(context.Background(), "token"); ok || err != nil {
		t.Fatalf("expected absent, got ok=%v err=%v", ok, err)
	}
}

func TestCookieStore_OversizedValueClearsKey(t *testing.T) {
	ctx := context.Background()
	c, rec := newContext(&http.Cookie{Name: "user", Value: "eyJfaWQiOiJ1MSJ9"})
	s := NewCookieStore(c, CookieOptions{})

	big := `{"_id":"u1","bio":"` + strings.Repeat("x", 4000) + `"}`
	err := s.Set(ctx, "user", big)
	if !errors.Is(err, ErrValueTooLarge) {
		t.Fatalf("expected ErrValueTooLarge, got %v", err)
	}
	if _, ok, _ := s.Get(ctx, "user"); ok {
		t.Fatalf("stale profile must not be readable after a rejected write")
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 || cookies[0].Value != "" {
		t.Fatalf("expected the old cookie to be expired, got %+v", cookies)
	}
}
