// Package service is the domain API facade: named marketplace operations
// on top of the request gateway.
package service

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/taskexchange/taskx/internal/core/ports"
)

// Deps wires a Client.
type Deps struct {
	API         ports.Requester
	Credentials ports.CredentialStore
	Profile     ports.ProfileCache
	Navigator   ports.Navigator
	LoginPath   string
	Logger      zerolog.Logger
}

// Client groups the facade by resource.
type Client struct {
	Auth    *AuthService
	Users   *UserService
	Tasks   *TaskService
	Reviews *ReviewService
}

func New(d Deps) *Client {
	return &Client{
		Auth:    NewAuthService(d.API, d.Credentials, d.Profile, d.Navigator, d.LoginPath, d.Logger),
		Users:   NewUserService(d.API, d.Profile, d.Logger),
		Tasks:   NewTaskService(d.API, d.Logger),
		Reviews: NewReviewService(d.API, d.Logger),
	}
}

// Dashboard issues the profile, posted and assigned calls together and
// waits for all of them. The first failure cancels the others.
func (c *Client) Dashboard(ctx context.Context) (*ports.Dashboard, error) {
	var d ports.Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		u, err := c.Auth.Profile(gctx)
		d.Profile = u
		return err
	})
	g.Go(func() error {
		tasks, err := c.Tasks.Posted(gctx)
		d.Posted = tasks
		return err
	})
	g.Go(func() error {
		tasks, err := c.Tasks.Assigned(gctx)
		d.Assigned = tasks
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
