// Command taskx-web serves the marketplace pages, guards the protected ones
// and relays their API calls to the backend with the browser's session.
//
// @title        taskx web front
// @version      1.0
// @description  Session endpoints and backend passthrough of the task-exchange web front.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskexchange/taskx/internal/api"
	"github.com/taskexchange/taskx/internal/infrastructure/config"
	"github.com/taskexchange/taskx/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.IsDevelopment(),
		App:    "taskx-web",
	})

	e := api.NewRouter(api.Deps{
		BaseURL:      cfg.APIURL,
		WebRoot:      cfg.Web.Root,
		LoginPage:    cfg.Web.LoginPage,
		HomePage:     cfg.Web.HomePage,
		PublicPages:  cfg.Web.PublicPages,
		CookieSecure: cfg.Web.CookieSecure,
		Logger:       log,
	})

	go func() {
		log.Info().Str("port", cfg.Web.Port).Str("backend", cfg.APIURL).Msg("starting web front")
		if err := e.Start(":" + cfg.Web.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("web front stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
