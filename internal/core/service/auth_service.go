package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/taskexchange/taskx/internal/core/domain"
	"github.com/taskexchange/taskx/internal/core/ports"
)

// AuthService implements registration, login, profile and logout.
type AuthService struct {
	api       ports.Requester
	creds     ports.CredentialStore
	profile   ports.ProfileCache
	nav       ports.Navigator
	loginPath string
	validate  *inputValidator
	log       zerolog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(
	api ports.Requester,
	creds ports.CredentialStore,
	profile ports.ProfileCache,
	nav ports.Navigator,
	loginPath string,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		api:       api,
		creds:     creds,
		profile:   profile,
		nav:       nav,
		loginPath: loginPath,
		validate:  newInputValidator(),
		log:       log,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.AuthResult, error) {
	if err := s.validate.check(in); err != nil {
		return nil, err
	}
	return s.authenticate(ctx, "/auth/register", in)
}

func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*domain.AuthResult, error) {
	if err := s.validate.check(in); err != nil {
		return nil, err
	}
	return s.authenticate(ctx, "/auth/login", in)
}

// authenticate posts credentials and keeps whatever session the backend
// hands back before returning.
func (s *AuthService) authenticate(ctx context.Context, path string, in any) (*domain.AuthResult, error) {
	var res domain.AuthResult
	if err := s.api.Do(ctx, http.MethodPost, path, in, &res); err != nil {
		return nil, err
	}

	if res.Token != "" {
		if err := s.creds.SetToken(ctx, res.Token); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	}
	if res.User != nil {
		if err := s.profile.SetProfile(ctx, res.User); err != nil {
			s.log.Warn().Err(err).Msg("failed to cache profile")
		}
		s.log.Info().Str("user_id", res.User.ID).Msg("signed in")
	}
	return &res, nil
}

// Profile fetches the signed-in user and refreshes the cached copy.
func (s *AuthService) Profile(ctx context.Context) (*domain.User, error) {
	resp, err := s.api.Send(ctx, ports.Request{Method: http.MethodGet, Path: "/auth/profile"})
	if err != nil {
		return nil, err
	}
	user, err := decodeOne[domain.User](resp, "user")
	if err != nil {
		return nil, err
	}
	if user.ID == "" {
		return user, nil
	}
	if err := s.profile.SetProfile(ctx, user); err != nil {
		s.log.Warn().Err(err).Msg("failed to refresh cached profile")
	}
	return user, nil
}

// CachedProfile returns the local copy without a round trip. It may be
// stale or nil.
func (s *AuthService) CachedProfile(ctx context.Context) (*domain.User, error) {
	return s.profile.Profile(ctx)
}

// Logout ends the session locally and sends the user to the login page.
// The backend is not contacted.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.creds.ClearToken(ctx); err != nil {
		return err
	}
	if err := s.profile.ClearProfile(ctx); err != nil {
		return err
	}
	s.log.Info().Msg("signed out")
	s.nav.Redirect(s.loginPath)
	return nil
}
