package service

import (
	"context"
	"log/slog"

	"threadboard/internal/models"
	"threadboard/internal/repository"
	"threadboard/internal/result"
)

type UserService interface {
	Profile(ctx context.Context, email string) result.Result[models.UserView]
}

type userService struct {
	userRepo repository.UserRepository
	logger   *slog.Logger
}

func NewUserService(userRepo repository.UserRepository, logger *slog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger.With("component", "user_service"),
	}
}

func (s *userService) Profile(ctx context.Context, email string) result.Result[models.UserView] {
	user, f := lookupUser(ctx, s.userRepo, email)
	if f != nil {
		return fail[models.UserView](s.logger, f)
	}

	return result.Success(models.NewUserView(user))
}
