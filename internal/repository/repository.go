package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"threadboard/internal/models"
)

// ErrNotFound is returned (wrapped) when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned (wrapped) when an insert violates a unique constraint.
var ErrDuplicate = errors.New("already exists")

// Querier is the subset of *sqlx.DB and *sqlx.Tx the repositories use.
type Querier interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type TagRepository interface {
	FindByName(ctx context.Context, name string) (*models.Tag, error)
}

// PostSearch is the full-text search primitive. Nil Query and empty Tags
// mean no filter.
type PostSearch struct {
	Query    *string
	Tags     []string
	Pageable models.Pageable
}

type PostRepository interface {
	Search(ctx context.Context, params PostSearch) (models.Page[models.Post], error)
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, postID int64) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, postID int64) error
}

type ReplyRepository interface {
	ListTopLevel(ctx context.Context, postID int64, pageable models.Pageable) (models.Page[models.Reply], error)
	ListChildren(ctx context.Context, postID, parentReplyID int64, pageable models.Pageable) (models.Page[models.Reply], error)
	GetByID(ctx context.Context, replyID int64) (*models.Reply, error)
	GetByIDAndPostID(ctx context.Context, replyID, postID int64) (*models.Reply, error)
	Create(ctx context.Context, reply *models.Reply) error
	UpdateBody(ctx context.Context, replyID int64, body string) error
	Delete(ctx context.Context, replyID int64) error
	DetachFromPost(ctx context.Context, postID int64) (int64, error)
	DetachChildren(ctx context.Context, parentReplyID int64) (int64, error)
}

type ImageRepository interface {
	Create(ctx context.Context, image *models.Image) error
	GetByID(ctx context.Context, imageID string) (*models.Image, error)
	GetByPostID(ctx context.Context, postID int64) ([]*models.Image, error)
	Delete(ctx context.Context, imageID string) error
}

type SchemaRepository interface {
	CountTables(ctx context.Context) (int, error)
}

// Transactor runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	Transaction(ctx context.Context, fn func(repo *Repository) error) error
}

type Repository struct {
	User   UserRepository
	Tag    TagRepository
	Post   PostRepository
	Reply  ReplyRepository
	Image  ImageRepository
	Schema SchemaRepository

	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	repo := bind(db)
	repo.db = db
	return repo
}

func bind(q Querier) *Repository {
	return &Repository{
		User:   NewUserRepository(q),
		Tag:    NewTagRepository(q),
		Post:   NewPostRepository(q),
		Reply:  NewReplyRepository(q),
		Image:  NewImageRepository(q),
		Schema: NewSchemaRepository(q),
	}
}

func (r *Repository) Transaction(ctx context.Context, fn func(repo *Repository) error) (err error) {
	if r.db == nil {
		return errors.New("repository is not bound to a database")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("commit transaction: %w", cErr)
		}
	}()

	return fn(bind(tx))
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
	}
	return nil
}

func checkAffected(result sql.Result, what string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
