package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"threadboard/internal/config"
	"threadboard/internal/database"
	handlers "threadboard/internal/handler"
	"threadboard/internal/middleware"
	"threadboard/internal/repository"
	"threadboard/internal/service"
	"threadboard/internal/storage"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	DB       *database.DB
	Services *service.Service
	Handler  http.Handler

	cfg    *config.Config
	logger *slog.Logger
}

// New connects to PostgreSQL and MinIO and wires every layer.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	minioClient, err := storage.NewMinIOClient(ctx, cfg.MinIO, logger)
	if err != nil {
		_ = db.CloseDB()
		return nil, fmt.Errorf("init minio: %w", err)
	}

	repo := repository.NewRepository(db.DB)
	services := service.NewService(repo, db, minioClient, cfg, logger)

	return &App{
		DB:       db,
		Services: services,
		Handler:  Routes(services, cfg, logger),
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// Routes builds the router and wraps it in the middleware chain. The last
// middleware listed runs first.
func Routes(services *service.Service, cfg *config.Config, logger *slog.Logger) http.Handler {
	router := handlers.NewRouter(handlers.NewHandlers(services, cfg, logger))

	return middleware.Chain(
		router,
		middleware.AuthMiddleware(services.Auth),
		middleware.CORSMiddleware,
		middleware.RecoverMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.RequestIDMiddleware,
	)
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.ServerPort),
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server started", "addr", server.Addr, "database", a.cfg.DB.DbNAME)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

func (a *App) Close() error {
	return a.DB.CloseDB()
}
