package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"threadboard/internal/models"
	"threadboard/internal/policy"
	"threadboard/internal/repository"
	"threadboard/internal/result"
	"threadboard/internal/storage"
)

type PostService interface {
	Search(ctx context.Context, query string, tags []string, pageable models.Pageable) result.Result[models.Page[models.PostView]]
	Create(ctx context.Context, input models.PostInput, ownerEmail string) result.Result[models.PostView]
	Get(ctx context.Context, postID int64) result.Result[models.PostView]
	Update(ctx context.Context, postID int64, input models.PostInput, actorEmail string) result.Result[models.PostView]
	Delete(ctx context.Context, postID int64, actorEmail string) result.Result[result.Void]
}

type postService struct {
	repo     *repository.Repository
	tx       repository.Transactor
	storage  storage.Storage
	validate *validator.Validate
	logger   *slog.Logger
}

func NewPostService(repo *repository.Repository, tx repository.Transactor, storage storage.Storage, logger *slog.Logger) PostService {
	return &postService{
		repo:     repo,
		tx:       tx,
		storage:  storage,
		validate: newValidator(),
		logger:   logger.With("component", "post_service"),
	}
}

// Search checks every tag name before the data query runs. A blank query is
// the same as no query.
func (s *postService) Search(ctx context.Context, query string, tags []string, pageable models.Pageable) result.Result[models.Page[models.PostView]] {
	for _, name := range tags {
		_, err := s.repo.Tag.FindByName(ctx, name)
		if errors.Is(err, repository.ErrNotFound) {
			return result.Error[models.Page[models.PostView]](result.StatusBadRequest, "Tag not found")
		}
		if err != nil {
			return fail[models.Page[models.PostView]](s.logger, storageFault("find tag", err))
		}
	}

	params := repository.PostSearch{Tags: tags, Pageable: pageable}
	if trimmed := strings.TrimSpace(query); trimmed != "" {
		params.Query = &trimmed
	}

	page, err := s.repo.Post.Search(ctx, params)
	if err != nil {
		return fail[models.Page[models.PostView]](s.logger, storageFault("search posts", err))
	}

	return result.Success(models.MapPage(page, func(post models.Post) models.PostView {
		return models.NewPostView(&post)
	}))
}

func (s *postService) Create(ctx context.Context, input models.PostInput, ownerEmail string) result.Result[models.PostView] {
	var post *models.Post

	f := transact(ctx, s.tx, func(repo *repository.Repository) *failure {
		owner, f := lookupUser(ctx, repo.User, ownerEmail)
		if f != nil {
			return f
		}

		if f := validate(s.validate, input); f != nil {
			return f
		}

		tags, f := resolveTags(ctx, repo.Tag, input.Tags)
		if f != nil {
			return f
		}

		post = &models.Post{
			Title: input.Title,
			Body:  input.Body,
			User:  owner,
			Tags:  tags,
		}
		if err := repo.Post.Create(ctx, post); err != nil {
			return storageFault("create post", err)
		}

		return nil
	})
	if f != nil {
		return fail[models.PostView](s.logger, f)
	}

	s.logger.Info("post created", "post_id", post.ID, "owner", ownerEmail)
	return result.Created(models.NewPostView(post))
}

func (s *postService) Get(ctx context.Context, postID int64) result.Result[models.PostView] {
	post, f := loadPost(ctx, s.repo.Post, postID)
	if f != nil {
		return fail[models.PostView](s.logger, f)
	}

	return result.Success(models.NewPostView(post))
}

// Update replaces title, body and the whole tag set. Ownership is checked
// before the input is validated.
func (s *postService) Update(ctx context.Context, postID int64, input models.PostInput, actorEmail string) result.Result[models.PostView] {
	var post *models.Post

	f := transact(ctx, s.tx, func(repo *repository.Repository) *failure {
		var f *failure
		if post, f = loadPost(ctx, repo.Post, postID); f != nil {
			return f
		}

		if f := authorize(post.User, actorEmail, policy.UpdatePost); f != nil {
			return f
		}

		if f := validate(s.validate, input); f != nil {
			return f
		}

		tags, f := resolveTags(ctx, repo.Tag, input.Tags)
		if f != nil {
			return f
		}

		post.Title = input.Title
		post.Body = input.Body
		post.Tags = tags
		if err := repo.Post.Update(ctx, post); err != nil {
			return storageFault("update post", err)
		}

		return nil
	})
	if f != nil {
		return fail[models.PostView](s.logger, f)
	}

	return result.Success(models.NewPostView(post))
}

// Delete detaches the post's replies, which survive, before removing the
// post. Stored images are removed once the transaction has committed.
func (s *postService) Delete(ctx context.Context, postID int64, actorEmail string) result.Result[result.Void] {
	var images []*models.Image

	f := transact(ctx, s.tx, func(repo *repository.Repository) *failure {
		post, f := loadPost(ctx, repo.Post, postID)
		if f != nil {
			return f
		}

		if f := authorize(post.User, actorEmail, policy.DeletePost); f != nil {
			return f
		}

		var err error
		if images, err = repo.Image.GetByPostID(ctx, postID); err != nil {
			return storageFault("list post images", err)
		}

		detached, err := repo.Reply.DetachFromPost(ctx, postID)
		if err != nil {
			return storageFault("detach replies", err)
		}

		if err := repo.Post.Delete(ctx, postID); err != nil {
			return storageFault("delete post", err)
		}

		s.logger.Info("post deleted", "post_id", postID, "detached_replies", detached)
		return nil
	})
	if f != nil {
		return fail[result.Void](s.logger, f)
	}

	for _, image := range images {
		if err := s.storage.Remove(ctx, image.ObjectName); err != nil {
			s.logger.Warn("failed to remove stored image", "object", image.ObjectName, "error", err)
		}
	}

	return result.Success(result.Void{})
}
