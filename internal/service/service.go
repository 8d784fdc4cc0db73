package service

import (
	"log/slog"

	"threadboard/internal/config"
	"threadboard/internal/repository"
	"threadboard/internal/storage"
)

type Service struct {
	Post   PostService
	Reply  ReplyService
	Image  ImageService
	User   UserService
	Auth   AuthService
	Health HealthService
}

// NewService wires every service to repo. repo also opens the transactions
// used by multi-step writes.
func NewService(repo *repository.Repository, db Pinger, storage storage.Storage, cfg *config.Config, logger *slog.Logger) *Service {
	return &Service{
		Post:   NewPostService(repo, repo, storage, logger),
		Reply:  NewReplyService(repo, repo, logger),
		Image:  NewImageService(repo, storage, logger),
		User:   NewUserService(repo.User, logger),
		Auth:   NewAuthService(repo.User, cfg.JWT, logger),
		Health: NewHealthService(db, repo.Schema, logger),
	}
}
