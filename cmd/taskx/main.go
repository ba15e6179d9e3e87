// Command taskx is the command-line client of the task-exchange marketplace.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/taskexchange/taskx/internal/cli"
	"github.com/taskexchange/taskx/internal/infrastructure/config"
	"github.com/taskexchange/taskx/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

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
		App:    "taskx",
	})

	err = cli.Execute(ctx, cli.Options{
		Config:  cfg,
		Logger:  log,
		Version: version,
	}, os.Args[1:])
	if msg := cli.Describe(err); msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}
	stop()
	os.Exit(cli.ExitCode(err))
}
