package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/taskexchange/taskx/internal/core/domain"
	"github.com/taskexchange/taskx/internal/core/ports"
)

type ReviewService struct {
	api      ports.Requester
	validate *inputValidator
	log      zerolog.Logger
}

var _ ports.ReviewService = (*ReviewService)(nil)

func NewReviewService(api ports.Requester, log zerolog.Logger) *ReviewService {
	return &ReviewService{api: api, validate: newInputValidator(), log: log}
}

func (s *ReviewService) Create(ctx context.Context, in ports.CreateReviewInput) (*domain.Review, error) {
	if err := s.validate.check(in); err != nil {
		return nil, err
	}
	resp, err := s.api.Send(ctx, ports.Request{Method: http.MethodPost, Path: "/reviews", Body: in})
	if err != nil {
		return nil, err
	}
	return decodeOne[domain.Review](resp, "review")
}

func (s *ReviewService) ForUser(ctx context.Context, userID string) ([]domain.Review, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}
	resp, err := s.api.Send(ctx, ports.Request{Method: http.MethodGet, Path: "/reviews/user/" + url.PathEscape(userID)})
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Review](resp, "reviews")
}
