// Package cli is the command-line front end. Every command is a page: the
// session guard runs before it, and a rejected session sends the user to
// `taskx login`.
package cli

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/taskexchange/taskx/internal/core/domain"
	"github.com/taskexchange/taskx/internal/core/guard"
	"github.com/taskexchange/taskx/internal/core/ports"
	"github.com/taskexchange/taskx/internal/core/service"
	"github.com/taskexchange/taskx/internal/infrastructure/config"
	"github.com/taskexchange/taskx/internal/infrastructure/gateway"
	"github.com/taskexchange/taskx/internal/infrastructure/navigation"
	"github.com/taskexchange/taskx/internal/infrastructure/store"
)

const (
	programName = "taskx"
	loginPage   = "/login"
)

// PublicPages are the commands that run without a credential.
var PublicPages = domain.PublicPaths{
	"/",
	"/login",
	"/register",
	"/help",
	"/version",
	"/completion/bash",
	"/completion/zsh",
	"/completion/fish",
	"/completion/powershell",
}

// Options wires the command tree. Zero values fall back to the process
// defaults; tests inject a memory store and a fake backend.
type Options struct {
	Config     *config.Config
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	HTTPClient *http.Client
	// Store overrides the backend selected by Config.Store.
	Store   ports.KeyValueStore
	Logger  zerolog.Logger
	Version string
}

// app is the per-invocation wiring, built once the page is known.
type app struct {
	opts    Options
	out     *printer
	backend *store.Backend
	session *store.Session
	nav     *navigation.Terminal
	client  *service.Client
	guard   *guard.Guard
}

func newApp(opts Options) *app {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &app{opts: opts}
}

// open connects the store and builds the core for page.
func (a *app) open(ctx context.Context, page, apiURL string) error {
	kv := a.opts.Store
	if kv == nil {
		backend, err := store.OpenBackend(ctx, a.opts.Config)
		if err != nil {
			return err
		}
		a.backend = backend
		kv = backend.KV
	}

	a.session = store.NewSession(kv)
	a.nav = navigation.NewTerminal(a.opts.Stderr, programName, page)

	baseURL := a.opts.Config.APIURL
	if apiURL != "" {
		baseURL = apiURL
	}
	log := a.opts.Logger

	gw := gateway.New(gateway.Config{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		HTTPClient:  a.opts.HTTPClient,
		Credentials: a.session,
		Profile:     a.session,
		Navigator:   a.nav,
		LoginPath:   loginPage,
		Public:      PublicPages,
		Logger:      log.With().Str("component", "gateway").Logger(),
	})
	a.client = service.New(service.Deps{
		API:         gw,
		Credentials: a.session,
		Profile:     a.session,
		Navigator:   a.nav,
		LoginPath:   loginPage,
		Logger:      log.With().Str("component", "service").Logger(),
	})
	a.guard = guard.New("cli", a.session, PublicPages, loginPage, log.With().Str("component", "guard").Logger())
	return nil
}

func (a *app) close() error {
	if a.backend == nil {
		return nil
	}
	return a.backend.Close()
}
