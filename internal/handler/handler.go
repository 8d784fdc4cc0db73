package handlers

import (
	"log/slog"

	"threadboard/internal/config"
	"threadboard/internal/service"
)

type Handlers struct {
	PostService   service.PostService
	ReplyService  service.ReplyService
	ImageService  service.ImageService
	UserService   service.UserService
	AuthService   service.AuthService
	HealthService service.HealthService
	Cfg           *config.Config
	logger        *slog.Logger
}

func NewHandlers(service *service.Service, cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{
		PostService:   service.Post,
		ReplyService:  service.Reply,
		ImageService:  service.Image,
		UserService:   service.User,
		AuthService:   service.Auth,
		HealthService: service.Health,
		Cfg:           cfg,
		logger:        logger.With("component", "http"),
	}
}
