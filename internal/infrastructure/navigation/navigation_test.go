package navigation

import (
	"bytes"
	"strings"
	"testing"
)

func TestRecorder_Redirect(t *testing.T) {
	r := NewRecorder("/tasks.html")
	if r.Redirected() {
		t.Fatalf("expected no redirect yet")
	}

	r.Redirect("/login.html")

	if r.Target() != "/login.html" {
		t.Fatalf("unexpected target %q", r.Target())
	}
	if r.Current() != "/login.html" {
		t.Fatalf("expected current page to follow redirect, got %q", r.Current())
	}
}

func TestTerminal_RedirectPrintsHint(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, "taskx", "/tasks/create")

	term.Redirect("/login")

	if !strings.Contains(buf.String(), "`taskx login`") {
		t.Fatalf("expected login hint, got %q", buf.String())
	}
	if !term.Redirected() || term.Current() != "/login" {
		t.Fatalf("expected redirect recorded, got current=%q", term.Current())
	}
}

func TestTerminal_HintPrintedOnce(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, "taskx", "/dashboard")

	term.Redirect("/login")
	term.Redirect("/login")

	if n := strings.Count(buf.String(), "taskx login"); n != 1 {
		t.Fatalf("expected one hint, got %d: %q", n, buf.String())
	}
}
