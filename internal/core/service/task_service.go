package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/taskexchange/taskx/internal/core/domain"
	"github.com/taskexchange/taskx/internal/core/ports"
)

// TaskService forwards task reads and transition requests. It holds no task
// state; results always come from the backend.
type TaskService struct {
	api      ports.Requester
	validate *inputValidator
	log      zerolog.Logger
}

var _ ports.TaskService = (*TaskService)(nil)

func NewTaskService(api ports.Requester, log zerolog.Logger) *TaskService {
	return &TaskService{api: api, validate: newInputValidator(), log: log}
}

func (s *TaskService) List(ctx context.Context, filter ports.ListTasksFilter) ([]domain.Task, error) {
	if err := s.validate.check(filter); err != nil {
		return nil, err
	}
	path := "/tasks"
	if q := filter.Query(); q != "" {
		path += "?" + q
	}
	return s.list(ctx, path)
}

func (s *TaskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	return s.one(ctx, http.MethodGet, taskPath(id), nil)
}

func (s *TaskService) Create(ctx context.Context, in ports.CreateTaskInput) (*domain.Task, error) {
	if err := s.validate.check(in); err != nil {
		return nil, err
	}
	task, err := s.one(ctx, http.MethodPost, "/tasks", in)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("task_id", task.ID).Int("coins", in.Coins).Msg("task posted")
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, id string, in ports.UpdateTaskInput) (*domain.Task, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	if err := s.validate.check(in); err != nil {
		return nil, err
	}
	return s.one(ctx, http.MethodPut, taskPath(id), in)
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := requireID("id", id); err != nil {
		return err
	}
	_, err := s.api.Send(ctx, ports.Request{Method: http.MethodDelete, Path: taskPath(id)})
	return err
}

func (s *TaskService) Assign(ctx context.Context, id string) (*domain.Task, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	return s.one(ctx, http.MethodPost, taskPath(id)+"/assign", nil)
}

func (s *TaskService) Submit(ctx context.Context, id string, in ports.SubmitTaskInput) (*domain.Task, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	if err := s.validate.check(in); err != nil {
		return nil, err
	}
	return s.one(ctx, http.MethodPost, taskPath(id)+"/submit", in)
}

func (s *TaskService) Approve(ctx context.Context, id string) (*domain.Task, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	return s.one(ctx, http.MethodPost, taskPath(id)+"/approve", nil)
}

// Posted lists tasks the signed-in user posted.
func (s *TaskService) Posted(ctx context.Context) ([]domain.Task, error) {
	return s.list(ctx, "/tasks/posted")
}

// Assigned lists tasks assigned to the signed-in user.
func (s *TaskService) Assigned(ctx context.Context) ([]domain.Task, error) {
	return s.list(ctx, "/tasks/assigned")
}

func (s *TaskService) one(ctx context.Context, method, path string, body any) (*domain.Task, error) {
	resp, err := s.api.Send(ctx, ports.Request{Method: method, Path: path, Body: body})
	if err != nil {
		return nil, err
	}
	return decodeOne[domain.Task](resp, "task")
}

func (s *TaskService) list(ctx context.Context, path string) ([]domain.Task, error) {
	resp, err := s.api.Send(ctx, ports.Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Task](resp, "tasks")
}

func taskPath(id string) string {
	return "/tasks/" + url.PathEscape(id)
}
