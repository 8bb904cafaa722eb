package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pavelc4/aether-dl-bot/config"
	"github.com/pavelc4/aether-dl-bot/internal/app"
	"github.com/pavelc4/aether-dl-bot/internal/report"
	"github.com/pavelc4/aether-dl-bot/pkg/logger"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		logger.Error("Fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.Warn("Ignoring LOG_LEVEL", "error", err)
	}

	if err := report.Init(cfg.SentryDSN, cfg.SentryEnvironment, version); err != nil {
		logger.Warn("Sentry init failed", "error", err)
	}
	defer report.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}

	logger.Info("Bot starting", "version", version)
	if err := a.Run(ctx); err != nil {
		return err
	}
	logger.Info("Shutting down...")
	return nil
}
