package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviex/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)
	if err := shared.LoadEnvFile(os.Getenv("MOVIEX_ENV_FILE")); err != nil {
		logger.Warn("ignoring env file", "error", err)
	}

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "moviex",
		Usage:    "Browse and manage a movie catalog that stays in sync with its backend",
		Version:  "0.1.0",
		Flags:    rootFlags(),
		Before:   runner.configure,
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		stop()
		logger.Fatalf("application error: %v", err)
	}
}
