package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/taskexchange/taskx/internal/core/domain"
	"github.com/taskexchange/taskx/internal/core/ports"
)

type UserService struct {
	api      ports.Requester
	profile  ports.ProfileCache
	validate *inputValidator
	log      zerolog.Logger
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(api ports.Requester, profile ports.ProfileCache, log zerolog.Logger) *UserService {
	return &UserService{api: api, profile: profile, validate: newInputValidator(), log: log}
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	resp, err := s.api.Send(ctx, ports.Request{Method: http.MethodGet, Path: userPath(id)})
	if err != nil {
		return nil, err
	}
	return decodeOne[domain.User](resp, "user")
}

// Update edits a profile. When the edited user is the signed-in one, the
// cached profile is refreshed from the reply.
func (s *UserService) Update(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	if err := s.validate.check(in); err != nil {
		return nil, err
	}
	resp, err := s.api.Send(ctx, ports.Request{Method: http.MethodPut, Path: userPath(id), Body: in})
	if err != nil {
		return nil, err
	}
	user, err := decodeOne[domain.User](resp, "user")
	if err != nil {
		return nil, err
	}

	cached, err := s.profile.Profile(ctx)
	if err == nil && cached != nil && cached.ID == user.ID {
		if err := s.profile.SetProfile(ctx, user); err != nil {
			s.log.Warn().Err(err).Msg("failed to refresh cached profile")
		}
	}
	return user, nil
}

func (s *UserService) Reviews(ctx context.Context, id string) ([]domain.Review, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	resp, err := s.api.Send(ctx, ports.Request{Method: http.MethodGet, Path: userPath(id) + "/reviews"})
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Review](resp, "reviews")
}

func userPath(id string) string {
	return "/users/" + url.PathEscape(id)
}
