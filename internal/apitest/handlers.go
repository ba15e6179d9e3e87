package apitest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskexchange/taskx/internal/core/domain"
)

var errUserExists = errors.New("user already exists")

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (s *Server) register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "Invalid payload")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return message(c, http.StatusBadRequest, "Please provide name, email and password")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.createAccount(req.Name, req.Email, req.Password)
	if errors.Is(err, errUserExists) {
		return message(c, http.StatusConflict, "User already exists")
	}
	if err != nil {
		return message(c, http.StatusInternalServerError, "Server error")
	}
	token, err := s.issueToken(acc.user.ID)
	if err != nil {
		return message(c, http.StatusInternalServerError, "Server error")
	}
	user := acc.user
	return c.JSON(http.StatusCreated, authResponse{Token: token, User: &user})
}

func (s *Server) login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "Invalid payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(req.Email))]
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	}
	acc := s.accounts[id]
	if bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(req.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	}
	token, err := s.issueToken(id)
	if err != nil {
		return message(c, http.StatusInternalServerError, "Server error")
	}
	user := acc.user
	return c.JSON(http.StatusOK, authResponse{Token: token, User: &user})
}

func (s *Server) profile(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.accounts[currentUser(c)].user)
}

func (s *Server) getUser(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[c.Param("id")]
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"msg": "User not found"})
	}
	return c.JSON(http.StatusOK, acc.user)
}

type updateUserRequest struct {
	Name   string   `json:"name"`
	Bio    string   `json:"bio"`
	Skills []string `json:"skills"`
}

func (s *Server) updateUser(c echo.Context) error {
	if c.Param("id") != currentUser(c) {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "You can only edit your own profile"})
	}
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "Invalid payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.accounts[c.Param("id")]
	if req.Name != "" {
		acc.user.Name = req.Name
	}
	if req.Bio != "" {
		acc.user.Bio = req.Bio
	}
	if req.Skills != nil {
		acc.user.Skills = req.Skills
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Profile updated", "user": acc.user})
}

func (s *Server) userReviews(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Review, 0)
	for _, r := range s.reviews {
		if r.Reviewee.ID == c.Param("id") {
			out = append(out, r)
		}
	}
	return c.JSON(http.StatusOK, out)
}

// ── tasks ─────────────────────────────────────────────────────────────────────

type taskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Coins       int    `json:"coins"`
	Submission  string `json:"submission"`
}

func (s *Server) listTasks(c echo.Context) error {
	status := c.QueryParam("status")
	search := strings.ToLower(c.QueryParam("search"))

	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := s.sortedTasks(func(t *domain.Task) bool {
		if status != "" && string(t.Status) != status {
			return false
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Title+" "+t.Description), search) {
			return false
		}
		return true
	})
	return c.JSON(http.StatusOK, map[string]any{"tasks": tasks, "total": len(tasks)})
}

func (s *Server) getTask(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[c.Param("id")]
	if !ok {
		return message(c, http.StatusNotFound, "Task not found")
	}
	return c.JSON(http.StatusOK, t)
}

// createTask escrows the reward from the poster's balance.
func (s *Server) createTask(c echo.Context) error {
	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "Invalid payload")
	}
	if req.Title == "" || req.Description == "" || req.Coins <= 0 {
		return message(c, http.StatusBadRequest, "Title, description and a positive reward are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	poster := s.accounts[currentUser(c)]
	if poster.user.Coins < req.Coins {
		return message(c, http.StatusBadRequest, "Insufficient coins")
	}
	poster.user.Coins -= req.Coins

	now := s.now()
	t := &domain.Task{
		ID:          s.nextID("t"),
		Title:       req.Title,
		Description: req.Description,
		Coins:       req.Coins,
		Status:      domain.StatusOpen,
		PostedBy:    s.ref(poster.user.ID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks[t.ID] = t
	return c.JSON(http.StatusCreated, t)
}

func (s *Server) updateTask(c echo.Context) error {
	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "Invalid payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok, err := s.ownTask(c)
	if !ok {
		return err
	}
	if t.Status != domain.StatusOpen {
		return message(c, http.StatusBadRequest, "Only open tasks can be edited")
	}
	if req.Coins > 0 && req.Coins != t.Coins {
		poster := s.accounts[t.PostedBy.ID]
		diff := req.Coins - t.Coins
		if poster.user.Coins < diff {
			return message(c, http.StatusBadRequest, "Insufficient coins")
		}
		poster.user.Coins -= diff
		t.Coins = req.Coins
	}
	if req.Title != "" {
		t.Title = req.Title
	}
	if req.Description != "" {
		t.Description = req.Description
	}
	t.UpdatedAt = s.now()
	return c.JSON(http.StatusOK, map[string]any{"task": t})
}

// deleteTask refunds the escrow and answers in plain text.
func (s *Server) deleteTask(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok, err := s.ownTask(c)
	if !ok {
		return err
	}
	if t.Status != domain.StatusOpen {
		return message(c, http.StatusBadRequest, "Only open tasks can be deleted")
	}
	s.accounts[t.PostedBy.ID].user.Coins += t.Coins
	delete(s.tasks, t.ID)
	return c.String(http.StatusOK, "Task deleted")
}

func (s *Server) assignTask(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[c.Param("id")]
	if !ok {
		return message(c, http.StatusNotFound, "Task not found")
	}
	if t.PostedBy.ID == currentUser(c) {
		return message(c, http.StatusBadRequest, "You cannot take your own task")
	}
	if t.Status != domain.StatusOpen {
		return message(c, http.StatusBadRequest, "Task is not open")
	}
	ref := s.ref(currentUser(c))
	t.AssignedTo = &ref
	t.Status = domain.StatusAssigned
	t.UpdatedAt = s.now()
	return c.JSON(http.StatusOK, t)
}

func (s *Server) submitTask(c echo.Context) error {
	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "Invalid payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[c.Param("id")]
	if !ok {
		return message(c, http.StatusNotFound, "Task not found")
	}
	if t.AssignedTo == nil || t.AssignedTo.ID != currentUser(c) {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Task is not assigned to you"})
	}
	if !t.Status.CanTransitionTo(domain.StatusSubmitted) {
		return message(c, http.StatusBadRequest, "Task cannot be submitted")
	}
	t.Submission = req.Submission
	t.Status = domain.StatusSubmitted
	t.UpdatedAt = s.now()
	return c.JSON(http.StatusOK, t)
}

// approveTask completes the task and pays the escrow to the assignee.
func (s *Server) approveTask(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok, err := s.ownTask(c)
	if !ok {
		return err
	}
	if t.Status != domain.StatusSubmitted {
		return message(c, http.StatusBadRequest, "Task has not been submitted")
	}
	s.accounts[t.AssignedTo.ID].user.Coins += t.Coins
	t.Status = domain.StatusCompleted
	t.UpdatedAt = s.now()
	return c.JSON(http.StatusOK, t)
}

func (s *Server) postedTasks(c echo.Context) error {
	uid := currentUser(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.sortedTasks(func(t *domain.Task) bool { return t.PostedBy.ID == uid }))
}

func (s *Server) assignedTasks(c echo.Context) error {
	uid := currentUser(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.sortedTasks(func(t *domain.Task) bool {
		return t.AssignedTo != nil && t.AssignedTo.ID == uid
	}))
}

// ownTask loads the task in :id and checks the caller posted it. When ok is
// false the response is already written and err is what the handler returns.
func (s *Server) ownTask(c echo.Context) (*domain.Task, bool, error) {
	t, found := s.tasks[c.Param("id")]
	if !found {
		return nil, false, message(c, http.StatusNotFound, "Task not found")
	}
	if t.PostedBy.ID != currentUser(c) {
		return nil, false, c.JSON(http.StatusForbidden, map[string]string{"error": "Not authorized to modify this task"})
	}
	return t, true, nil
}

// ── reviews ───────────────────────────────────────────────────────────────────

type reviewRequest struct {
	RevieweeID string `json:"revieweeId"`
	TaskID     string `json:"taskId"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

func (s *Server) createReview(c echo.Context) error {
	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "Invalid payload")
	}
	if req.Rating < domain.MinRating || req.Rating > domain.MaxRating {
		return message(c, http.StatusBadRequest, "Rating must be between 0 and 5")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	reviewee, ok := s.accounts[req.RevieweeID]
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"msg": "User not found"})
	}
	if req.RevieweeID == currentUser(c) {
		return message(c, http.StatusBadRequest, "You cannot review yourself")
	}

	r := domain.Review{
		ID:        s.nextID("r"),
		Reviewer:  s.ref(currentUser(c)),
		Reviewee:  s.ref(req.RevieweeID),
		Task:      req.TaskID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: s.now(),
	}
	s.reviews = append(s.reviews, r)

	var sum, n int
	for _, existing := range s.reviews {
		if existing.Reviewee.ID == req.RevieweeID {
			sum += existing.Rating
			n++
		}
	}
	reviewee.user.Rating = float64(sum) / float64(n)

	return c.JSON(http.StatusCreated, r)
}
