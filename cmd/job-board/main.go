// Package main contains the entry point for the job board API.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/devhire/job-board/internal/app/jobboard"
	"github.com/devhire/job-board/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting job board API", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := jobboard.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize job board app", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("job board app stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("job board app stopped gracefully")
}
