package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"threadboard/internal/config"
	"threadboard/internal/models"
	"threadboard/internal/repository"
	"threadboard/internal/result"
)

var ErrInvalidToken = errors.New("invalid token")

type AuthService interface {
	Register(ctx context.Context, input models.RegisterInput) result.Result[models.TokenView]
	Login(ctx context.Context, input models.LoginInput) result.Result[models.TokenView]
	// ValidateToken returns the principal email carried by a bearer token.
	ValidateToken(tokenString string) (string, error)
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type authService struct {
	userRepo repository.UserRepository
	cfg      config.JWT
	validate *validator.Validate
	logger   *slog.Logger
}

func NewAuthService(userRepo repository.UserRepository, cfg config.JWT, logger *slog.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
		validate: newValidator(),
		logger:   logger.With("component", "auth_service"),
	}
}

func (s *authService) Register(ctx context.Context, input models.RegisterInput) result.Result[models.TokenView] {
	if f := validate(s.validate, input); f != nil {
		return fail[models.TokenView](s.logger, f)
	}

	if input.Password != input.ConfirmPassword {
		return result.Error[models.TokenView](result.StatusBadRequest, "Passwords do not match")
	}

	_, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err == nil {
		return result.Error[models.TokenView](result.StatusBadRequest, "Email already registered")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fail[models.TokenView](s.logger, storageFault("find user", err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return fail[models.TokenView](s.logger, storageFault("hash password", err))
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
	}
	err = s.userRepo.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		return result.Error[models.TokenView](result.StatusBadRequest, "Email already registered")
	}
	if err != nil {
		return fail[models.TokenView](s.logger, storageFault("create user", err))
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return s.issue(user.Email)
}

func (s *authService) Login(ctx context.Context, input models.LoginInput) result.Result[models.TokenView] {
	if f := validate(s.validate, input); f != nil {
		return fail[models.TokenView](s.logger, f)
	}

	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return result.Error[models.TokenView](result.StatusUnauthorized, "Invalid credentials")
	}
	if err != nil {
		return fail[models.TokenView](s.logger, storageFault("find user", err))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return result.Error[models.TokenView](result.StatusUnauthorized, "Invalid credentials")
	}

	return s.issue(user.Email)
}

func (s *authService) issue(email string) result.Result[models.TokenView] {
	token, err := s.generateAccessToken(email, time.Now())
	if err != nil {
		return fail[models.TokenView](s.logger, storageFault("sign token", err))
	}

	return result.Success(models.TokenView{Token: token})
}

func (s *authService) generateAccessToken(email string, now time.Time) (string, error) {
	claims := tokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

func (s *authService) ValidateToken(tokenString string) (string, error) {
	var claims tokenClaims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.SecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Email == "" {
		return "", ErrInvalidToken
	}

	return claims.Email, nil
}
