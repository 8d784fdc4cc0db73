package service

import (
	"context"
	"log/slog"

	"threadboard/internal/models"
	"threadboard/internal/repository"
	"threadboard/internal/result"
)

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthService interface {
	Check(ctx context.Context) result.Result[models.HealthView]
}

type healthService struct {
	db         Pinger
	schemaRepo repository.SchemaRepository
	logger     *slog.Logger
}

func NewHealthService(db Pinger, schemaRepo repository.SchemaRepository, logger *slog.Logger) HealthService {
	return &healthService{
		db:         db,
		schemaRepo: schemaRepo,
		logger:     logger.With("component", "health_service"),
	}
}

func (s *healthService) Check(ctx context.Context) result.Result[models.HealthView] {
	if err := s.db.PingContext(ctx); err != nil {
		return fail[models.HealthView](s.logger, storageFault("ping database", err))
	}

	tables, err := s.schemaRepo.CountTables(ctx)
	if err != nil {
		return fail[models.HealthView](s.logger, storageFault("count tables", err))
	}

	return result.Success(models.HealthView{Status: "ok", Tables: tables})
}
