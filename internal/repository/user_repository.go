package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"threadboard/internal/models"
)

const uniqueViolation pq.ErrorCode = "23505"

type userRepository struct {
	db Querier
}

func NewUserRepository(db Querier) UserRepository {
	return &userRepository{db: db}
}

// Create inserts user and fills in its generated id. The password must already be hashed.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	err := r.db.GetContext(ctx, &user.ID, query, user.Username, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("user %s: %w", user.Email, ErrDuplicate)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *userRepository) FindByID(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User

	query := `SELECT id, username, email, password_hash, created_at FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, &user, query, userID)
	if err != nil {
		if nf := notFound(err, "user %d", userID); nf != nil {
			return nil, nf
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	query := `SELECT id, username, email, password_hash, created_at FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if nf := notFound(err, "user %s", email); nf != nil {
			return nil, nf
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}
