package ports

import (
	"context"
	"net/url"
	"strconv"

	"github.com/taskexchange/taskx/internal/core/domain"
)

// RegisterInput carries the sign-up form.
type RegisterInput struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginInput carries the sign-in form.
type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserInput carries profile edits. Empty fields are left untouched.
type UpdateUserInput struct {
	Name   string   `json:"name,omitempty"`
	Bio    string   `json:"bio,omitempty"    validate:"max=500"`
	Skills []string `json:"skills,omitempty"`
}

// ListTasksFilter carries the optional query filters of GET /tasks.
type ListTasksFilter struct {
	Status string `validate:"omitempty,oneof=open assigned submitted completed cancelled"`
	Search string
	Page   int `validate:"gte=0"`
	Limit  int `validate:"gte=0,lte=100"`
}

// CreateTaskInput carries a new task. Field order is the wire order.
type CreateTaskInput struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description" validate:"required"`
	Coins       int    `json:"coins"       validate:"gt=0"`
}

// UpdateTaskInput carries task edits. Empty fields are left untouched.
type UpdateTaskInput struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Coins       int    `json:"coins,omitempty" validate:"gte=0"`
}

// SubmitTaskInput carries the assignee's delivered work.
type SubmitTaskInput struct {
	Submission string `json:"submission" validate:"required"`
}

// CreateReviewInput carries a new review.
type CreateReviewInput struct {
	RevieweeID string `json:"revieweeId"       validate:"required"`
	TaskID     string `json:"taskId,omitempty"`
	Rating     int    `json:"rating"           validate:"gte=0,lte=5"`
	Comment    string `json:"comment"          validate:"max=1000"`
}

// Dashboard is the joined result of the calls a home page issues together.
type Dashboard struct {
	Profile  *domain.User  `json:"profile"`
	Posted   []domain.Task `json:"posted"`
	Assigned []domain.Task `json:"assigned"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*domain.AuthResult, error)
	Profile(ctx context.Context) (*domain.User, error)
	Logout(ctx context.Context) error
}

type UserService interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error)
	Reviews(ctx context.Context, id string) ([]domain.Review, error)
}

type TaskService interface {
	List(ctx context.Context, filter ListTasksFilter) ([]domain.Task, error)
	Get(ctx context.Context, id string) (*domain.Task, error)
	Create(ctx context.Context, in CreateTaskInput) (*domain.Task, error)
	Update(ctx context.Context, id string, in UpdateTaskInput) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
	Assign(ctx context.Context, id string) (*domain.Task, error)
	Submit(ctx context.Context, id string, in SubmitTaskInput) (*domain.Task, error)
	Approve(ctx context.Context, id string) (*domain.Task, error)
	Posted(ctx context.Context) ([]domain.Task, error)
	Assigned(ctx context.Context) ([]domain.Task, error)
}

type ReviewService interface {
	Create(ctx context.Context, in CreateReviewInput) (*domain.Review, error)
	ForUser(ctx context.Context, userID string) ([]domain.Review, error)
}

// Query encodes the non-empty filters, sorted by key.
func (f ListTasksFilter) Query() string {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q.Encode()
}
