package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/taskexchange/taskx/internal/apitest"
	"github.com/taskexchange/taskx/internal/core/domain"
	"github.com/taskexchange/taskx/internal/infrastructure/config"
	"github.com/taskexchange/taskx/internal/infrastructure/store"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// env is one user's machine: a local store that outlives each invocation.
type env struct {
	backend *apitest.Server
	kv      *store.Memory
	cfg     *config.Config
}

func newEnv(t *testing.T) *env {
	t.Helper()
	backend := apitest.New(t)
	return &env{
		backend: backend,
		kv:      store.NewMemory(),
		cfg:     &config.Config{APIURL: backend.BaseURL(), Store: config.StoreMemory},
	}
}

type result struct {
	stdout string
	stderr string
	err    error
}

func (e *env) run(stdin string, args ...string) result {
	var out, errOut bytes.Buffer
	err := Execute(context.Background(), Options{
		Config:     e.cfg,
		Stdin:      strings.NewReader(stdin),
		Stdout:     &out,
		Stderr:     &errOut,
		HTTPClient: e.backend.Client(),
		Store:      e.kv,
		Logger:     zerolog.Nop(),
		Version:    "1.2.3",
	}, args)
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func (e *env) token(t *testing.T) string {
	t.Helper()
	token, err := store.NewSession(e.kv).Token(context.Background())
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	return token
}

func (e *env) signUp(t *testing.T, name, email string) {
	t.Helper()
	r := e.run("", "register", "--name", name, "--email", email, "--password", "secret1")
	if r.err != nil {
		t.Fatalf("register: %v (%s)", r.err, r.stderr)
	}
}

// ---------------------------------------------------------------------------
// Session guard
// ---------------------------------------------------------------------------

func TestGuard_ProtectedCommandWithoutSessionRedirects(t *testing.T) {
	e := newEnv(t)

	r := e.run("", "tasks", "list")

	if !errors.Is(r.err, domain.ErrRedirected) {
		t.Fatalf("expected redirect, got %v", r.err)
	}
	if !strings.Contains(r.stderr, "Run `taskx login` to continue") {
		t.Fatalf("expected login hint, got %q", r.stderr)
	}
	if len(e.backend.Requests()) != 0 {
		t.Fatalf("guarded page must not reach the backend")
	}
	if ExitCode(r.err) != 3 || Describe(r.err) != "" {
		t.Fatalf("unexpected exit handling: code=%d msg=%q", ExitCode(r.err), Describe(r.err))
	}
}

func TestGuard_PublicCommandsRunWithoutSession(t *testing.T) {
	e := newEnv(t)

	r := e.run("", "version")
	if r.err != nil {
		t.Fatalf("version: %v", r.err)
	}
	if !strings.Contains(r.stdout, "taskx 1.2.3") {
		t.Fatalf("unexpected version output %q", r.stdout)
	}
}

func TestGuard_PresentTokenIsNotInspected(t *testing.T) {
	e := newEnv(t)
	_ = store.NewSession(e.kv).SetToken(context.Background(), "definitely-not-a-jwt")

	r := e.run("", "tasks", "list")

	// The guard lets the page through; GET /tasks is public on the backend.
	if r.err != nil {
		t.Fatalf("tasks list: %v (%s)", r.err, r.stderr)
	}
	if !strings.Contains(r.stdout, "No tasks.") {
		t.Fatalf("unexpected output %q", r.stdout)
	}
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

func TestRegister_StoresSessionAndGreets(t *testing.T) {
	e := newEnv(t)

	r := e.run("", "register", "--name", "Alice", "--email", "alice@example.com", "--password", "secret1")

	if r.err != nil {
		t.Fatalf("register: %v", r.err)
	}
	if !strings.Contains(r.stdout, "Welcome Alice (50 coins)") {
		t.Fatalf("unexpected output %q", r.stdout)
	}
	if e.token(t) == "" {
		t.Fatalf("expected token stored")
	}
}

func TestLogin_PromptsForPassword(t *testing.T) {
	e := newEnv(t)
	e.backend.SeedUser("Bob", "bob@example.com", "hunter22")

	r := e.run("hunter22\n", "login", "--email", "bob@example.com")

	if r.err != nil {
		t.Fatalf("login: %v (%s)", r.err, r.stderr)
	}
	if !strings.Contains(r.stderr, "Password:") || !strings.Contains(r.stdout, "Signed in as Bob") {
		t.Fatalf("unexpected output stdout=%q stderr=%q", r.stdout, r.stderr)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	e := newEnv(t)
	e.backend.SeedUser("Bob", "bob@example.com", "hunter22")

	r := e.run("", "login", "--email", "bob@example.com", "--password", "nope")

	if got := Describe(r.err); got != "Error: Invalid credentials" {
		t.Fatalf("unexpected message %q", got)
	}
	if strings.Contains(r.stderr, "taskx login") {
		t.Fatalf("login is public, no hint expected: %q", r.stderr)
	}
}

func TestLogout_ThenProtectedCommandRedirects(t *testing.T) {
	e := newEnv(t)
	e.signUp(t, "Alice", "alice@example.com")
	before := len(e.backend.Requests())

	r := e.run("", "logout")
	if r.err != nil {
		t.Fatalf("logout: %v", r.err)
	}
	if len(e.backend.Requests()) != before {
		t.Fatalf("logout must not contact the backend")
	}
	if e.token(t) != "" {
		t.Fatalf("expected token cleared")
	}

	if r := e.run("", "whoami"); !errors.Is(r.err, domain.ErrRedirected) {
		t.Fatalf("expected redirect after logout, got %v", r.err)
	}
}

func TestWhoami_RejectedTokenEndsSession(t *testing.T) {
	e := newEnv(t)
	e.signUp(t, "Alice", "alice@example.com")
	e.backend.RevokeAll()

	r := e.run("", "whoami")

	if !errors.Is(r.err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", r.err)
	}
	if !strings.Contains(r.stderr, "Run `taskx login` to continue") {
		t.Fatalf("expected login hint, got %q", r.stderr)
	}
	if e.token(t) != "" {
		t.Fatalf("expected token purged")
	}
	if p, _ := store.NewSession(e.kv).Profile(context.Background()); p != nil {
		t.Fatalf("expected cached profile purged")
	}
}

func TestWhoami_CachedSkipsBackend(t *testing.T) {
	e := newEnv(t)
	e.signUp(t, "Alice", "alice@example.com")
	before := len(e.backend.Requests())

	r := e.run("", "whoami", "--cached")

	if r.err != nil || !strings.Contains(r.stdout, "Alice") {
		t.Fatalf("whoami --cached: %v %q", r.err, r.stdout)
	}
	if len(e.backend.Requests()) != before {
		t.Fatalf("--cached must not contact the backend")
	}
}

// ---------------------------------------------------------------------------
// Tasks
// ---------------------------------------------------------------------------

func TestTasks_CreateThenGetAsJSON(t *testing.T) {
	e := newEnv(t)
	e.signUp(t, "Alice", "alice@example.com")

	r := e.run("", "tasks", "create", "--title", "Fix bug", "--description", "Found in homepage", "--coins", "5", "-o", "json")
	if r.err != nil {
		t.Fatalf("create: %v", r.err)
	}
	var created domain.Task
	if err := json.Unmarshal([]byte(r.stdout), &created); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", r.stdout, err)
	}
	if created.Status != domain.StatusOpen || created.Coins != 5 {
		t.Fatalf("unexpected task %+v", created)
	}

	r = e.run("", "tasks", "get", created.ID)
	if r.err != nil {
		t.Fatalf("get: %v", r.err)
	}
	for _, want := range []string{"Fix bug", "5 coins", "Open", "taskx tasks assign " + created.ID} {
		if !strings.Contains(r.stdout, want) {
			t.Fatalf("expected %q in output %q", want, r.stdout)
		}
	}
}

func TestTasks_ValidationErrorExitCode(t *testing.T) {
	e := newEnv(t)
	e.signUp(t, "Alice", "alice@example.com")
	before := len(e.backend.Requests())

	r := e.run("", "tasks", "create", "--title", "T", "--description", "D", "--coins", "0")

	if ExitCode(r.err) != 2 {
		t.Fatalf("expected exit code 2, got %d (%v)", ExitCode(r.err), r.err)
	}
	if !strings.Contains(Describe(r.err), "coins must be greater than 0") {
		t.Fatalf("unexpected message %q", Describe(r.err))
	}
	if len(e.backend.Requests()) != before {
		t.Fatalf("invalid input must not reach the backend")
	}
}

func TestTasks_WorkflowBetweenTwoUsers(t *testing.T) {
	alice := newEnv(t)
	alice.signUp(t, "Alice", "alice@example.com")
	bob := &env{backend: alice.backend, kv: store.NewMemory(), cfg: alice.cfg}
	bob.signUp(t, "Bob", "bob@example.com")

	r := alice.run("", "tasks", "create", "--title", "Logo", "--description", "Vector logo", "--coins", "4", "-o", "json")
	var task domain.Task
	if err := json.Unmarshal([]byte(r.stdout), &task); err != nil {
		t.Fatalf("create: %v %q", r.err, r.stdout)
	}

	steps := []struct {
		who  *env
		args []string
		want string
	}{
		{bob, []string{"tasks", "assign", task.ID}, "In progress"},
		{bob, []string{"tasks", "submit", task.ID, "--submission", "logo.svg"}, "Awaiting approval"},
		{alice, []string{"tasks", "approve", task.ID}, "Completed"},
		{bob, []string{"tasks", "assigned"}, "Logo"},
		{alice, []string{"tasks", "posted"}, "Completed"},
	}
	for _, s := range steps {
		r := s.who.run("", s.args...)
		if r.err != nil {
			t.Fatalf("%v: %v", s.args, r.err)
		}
		if !strings.Contains(r.stdout, s.want) {
			t.Fatalf("%v: expected %q in %q", s.args, s.want, r.stdout)
		}
	}
}

func TestTasks_ListAsYAML(t *testing.T) {
	e := newEnv(t)
	e.signUp(t, "Alice", "alice@example.com")
	if r := e.run("", "tasks", "create", "--title", "Fix bug", "--description", "D", "--coins", "2"); r.err != nil {
		t.Fatalf("create: %v", r.err)
	}

	r := e.run("", "tasks", "list", "--status", "open", "-o", "yaml")

	if r.err != nil {
		t.Fatalf("list: %v", r.err)
	}
	if !strings.Contains(r.stdout, "title: Fix bug") || !strings.Contains(r.stdout, "status: open") {
		t.Fatalf("unexpected YAML %q", r.stdout)
	}
}

func TestTasks_DeleteForbiddenMessage(t *testing.T) {
	alice := newEnv(t)
	alice.signUp(t, "Alice", "alice@example.com")
	eve := &env{backend: alice.backend, kv: store.NewMemory(), cfg: alice.cfg}
	eve.signUp(t, "Eve", "eve@example.com")

	r := alice.run("", "tasks", "create", "--title", "T", "--description", "D", "--coins", "1", "-o", "json")
	var task domain.Task
	_ = json.Unmarshal([]byte(r.stdout), &task)

	r = eve.run("", "tasks", "delete", task.ID)
	if got := Describe(r.err); got != "Error: Not authorized to modify this task" {
		t.Fatalf("unexpected message %q", got)
	}
	if eve.token(t) == "" {
		t.Fatalf("403 must keep the session")
	}

	r = alice.run("", "tasks", "delete", task.ID)
	if r.err != nil || !strings.Contains(r.stdout, "deleted") {
		t.Fatalf("delete: %v %q", r.err, r.stdout)
	}
}

// ---------------------------------------------------------------------------
// Users & reviews
// ---------------------------------------------------------------------------

func TestUsersUpdate_DefaultsToSignedInUser(t *testing.T) {
	e := newEnv(t)
	e.signUp(t, "Alice", "alice@example.com")

	r := e.run("", "users", "update", "--bio", "Gopher", "--skills", "go,sql")

	if r.err != nil {
		t.Fatalf("update: %v", r.err)
	}
	if !strings.Contains(r.stdout, "Profile updated.") || !strings.Contains(r.stdout, "go, sql") {
		t.Fatalf("unexpected output %q", r.stdout)
	}
}

func TestReviews_CreateAndList(t *testing.T) {
	alice := newEnv(t)
	bobUser := alice.backend.SeedUser("Bob", "bob@example.com", "secret2")
	alice.signUp(t, "Alice", "alice@example.com")

	r := alice.run("", "reviews", "create", "--user", bobUser.ID, "--rating", "4", "--comment", "Great work")
	if r.err != nil {
		t.Fatalf("create: %v", r.err)
	}
	if !strings.Contains(r.stdout, "★★★★☆") {
		t.Fatalf("unexpected output %q", r.stdout)
	}

	r = alice.run("", "reviews", "list", bobUser.ID)
	if r.err != nil || !strings.Contains(r.stdout, "Great work") {
		t.Fatalf("list: %v %q", r.err, r.stdout)
	}
}

func TestDashboard_Text(t *testing.T) {
	e := newEnv(t)
	e.signUp(t, "Alice", "alice@example.com")

	r := e.run("", "dashboard")

	if r.err != nil {
		t.Fatalf("dashboard: %v", r.err)
	}
	for _, want := range []string{"Alice", "50 coins", "Posted by you:", "Assigned to you:"} {
		if !strings.Contains(r.stdout, want) {
			t.Fatalf("expected %q in %q", want, r.stdout)
		}
	}
}

// ---------------------------------------------------------------------------
// Helpers under test
// ---------------------------------------------------------------------------

func TestUnknownOutputFormat(t *testing.T) {
	e := newEnv(t)
	r := e.run("", "version", "-o", "xml")
	if r.err == nil || !strings.Contains(r.err.Error(), "xml") {
		t.Fatalf("expected format error, got %v", r.err)
	}
}

func TestFormatting(t *testing.T) {
	if got := coins(1); got != "1 coin" {
		t.Fatalf("coins(1) = %q", got)
	}
	if got := coins(7); got != "7 coins" {
		t.Fatalf("coins(7) = %q", got)
	}
	if got := stars(3.6); got != "★★★★☆ 3.6" {
		t.Fatalf("stars(3.6) = %q", got)
	}
	if got := stars(9); got != "★★★★★ 9.0" {
		t.Fatalf("stars(9) = %q", got)
	}
	if got := statusLabel(domain.StatusSubmitted); got != "Awaiting approval" {
		t.Fatalf("statusLabel = %q", got)
	}
	if got := who(nil); got != "-" {
		t.Fatalf("who(nil) = %q", got)
	}
	if got := nextAction(domain.Task{Status: domain.StatusCompleted}); got != "" {
		t.Fatalf("completed task has no next action, got %q", got)
	}
}
