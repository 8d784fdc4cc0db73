package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"threadboard/cmd/app"
	"threadboard/internal/config"
	"threadboard/internal/logger"
)

func main() {
	cfg := config.LoadConfig()

	log := logger.New(cfg.Log)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	if cfg.JWT.SecretKey == "" {
		return errors.New("JWT_SECRET_KEY is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer application.Close()

	return application.Run(ctx)
}
