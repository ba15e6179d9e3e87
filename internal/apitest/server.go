// Package apitest runs an in-memory marketplace backend for tests. It
// speaks the same JSON contract as the real service closely enough to
// drive the gateway, the facade and both front ends end to end.
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskexchange/taskx/internal/core/domain"
)

// StartingCoins is the balance of a newly registered user.
const StartingCoins = 50

type account struct {
	user         domain.User
	passwordHash []byte
}

// RecordedRequest is what the backend saw for one call.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
}

// Server is the fake backend.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	secret   []byte
	accounts map[string]*account // by user id
	byEmail  map[string]string
	tasks    map[string]*domain.Task
	reviews  []domain.Review
	seq      int
	requests []RecordedRequest
	now      func() time.Time
}

// New starts a backend and stops it when t finishes.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		secret:   []byte(uuid.NewString()),
		accounts: make(map[string]*account),
		byEmail:  make(map[string]string),
		tasks:    make(map[string]*domain.Task),
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root to hand to the gateway.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

// Requests returns a copy of every call received so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// SeedUser registers an account directly and returns it.
func (s *Server) SeedUser(name, email, password string) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, _ := s.createAccount(name, email, password)
	return acc.user
}

// TokenFor issues a valid token for userID.
func (s *Server) TokenFor(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, _ := s.issueToken(userID)
	return token
}

// RevokeAll invalidates every token issued so far.
func (s *Server) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secret = []byte(uuid.NewString())
}

// Task returns the stored task.
func (s *Server) Task(id string) (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, false
	}
	return *t, true
}

// User returns the stored user.
func (s *Server) User(id string) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return domain.User{}, false
	}
	return acc.user, true
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.record)

	api := e.Group("/api")
	auth := s.requireAuth

	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)
	api.GET("/auth/profile", s.profile, auth)

	api.GET("/users/:id", s.getUser)
	api.PUT("/users/:id", s.updateUser, auth)
	api.GET("/users/:id/reviews", s.userReviews)

	api.GET("/tasks", s.listTasks)
	api.POST("/tasks", s.createTask, auth)
	api.GET("/tasks/posted", s.postedTasks, auth)
	api.GET("/tasks/assigned", s.assignedTasks, auth)
	api.GET("/tasks/:id", s.getTask)
	api.PUT("/tasks/:id", s.updateTask, auth)
	api.DELETE("/tasks/:id", s.deleteTask, auth)
	api.POST("/tasks/:id/assign", s.assignTask, auth)
	api.POST("/tasks/:id/submit", s.submitTask, auth)
	api.POST("/tasks/:id/approve", s.approveTask, auth)

	api.POST("/reviews", s.createReview, auth)
	api.GET("/reviews/user/:id", s.userReviews)

	return e
}

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method:        c.Request().Method,
			Path:          c.Request().URL.RequestURI(),
			Authorization: c.Request().Header.Get(echo.HeaderAuthorization),
			ContentType:   c.Request().Header.Get(echo.HeaderContentType),
		})
		s.mu.Unlock()
		return next(c)
	}
}

// requireAuth validates the bearer JWT and stores the user id in context.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "No token, authorization denied"})
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid authorization header"})
		}

		s.mu.Lock()
		secret := s.secret
		s.mu.Unlock()

		claims := jwt.RegisteredClaims{}
		tkn, err := jwt.ParseWithClaims(parts[1], &claims, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !tkn.Valid {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Token is not valid"})
		}

		s.mu.Lock()
		_, ok := s.accounts[claims.Subject]
		s.mu.Unlock()
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "User no longer exists"})
		}

		c.Set("user_id", claims.Subject)
		return next(c)
	}
}

// ── helpers (callers hold s.mu) ───────────────────────────────────────────────

func (s *Server) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s%d", prefix, s.seq)
}

func (s *Server) createAccount(name, email, password string) (*account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, exists := s.byEmail[email]; exists {
		return nil, errUserExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	acc := &account{
		user: domain.User{
			ID:        s.nextID("u"),
			Name:      name,
			Email:     email,
			Coins:     StartingCoins,
			CreatedAt: s.now(),
		},
		passwordHash: hash,
	}
	s.accounts[acc.user.ID] = acc
	s.byEmail[email] = acc.user.ID
	return acc, nil
}

func (s *Server) issueToken(userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) ref(userID string) domain.UserRef {
	if acc, ok := s.accounts[userID]; ok {
		return domain.UserRef{ID: userID, Name: acc.user.Name}
	}
	return domain.UserRef{ID: userID}
}

func (s *Server) sortedTasks(keep func(*domain.Task) bool) []domain.Task {
	out := make([]domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if keep(t) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func currentUser(c echo.Context) string {
	id, _ := c.Get("user_id").(string)
	return id
}

func message(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"message": msg})
}
