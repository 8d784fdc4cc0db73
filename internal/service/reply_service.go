package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"threadboard/internal/models"
	"threadboard/internal/policy"
	"threadboard/internal/repository"
	"threadboard/internal/result"
)

type ReplyService interface {
	ListTopLevel(ctx context.Context, postID int64, pageable models.Pageable) result.Result[models.Page[models.ReplyView]]
	ListChildren(ctx context.Context, postID, parentReplyID int64, pageable models.Pageable) result.Result[models.Page[models.ReplyView]]
	Get(ctx context.Context, postID, replyID int64) result.Result[models.ReplyView]
	Create(ctx context.Context, postID int64, input models.ReplyInput, authorEmail string) result.Result[models.ReplyView]
	Update(ctx context.Context, replyID int64, input models.UpdateReplyInput, actorEmail string) result.Result[models.ReplyView]
	Delete(ctx context.Context, replyID int64, actorEmail string) result.Result[result.Void]
}

type replyService struct {
	repo     *repository.Repository
	tx       repository.Transactor
	validate *validator.Validate
	logger   *slog.Logger
}

func NewReplyService(repo *repository.Repository, tx repository.Transactor, logger *slog.Logger) ReplyService {
	return &replyService{
		repo:     repo,
		tx:       tx,
		validate: newValidator(),
		logger:   logger.With("component", "reply_service"),
	}
}

func toReplyViews(page models.Page[models.Reply]) models.Page[models.ReplyView] {
	return models.MapPage(page, func(reply models.Reply) models.ReplyView {
		return models.NewReplyView(&reply)
	})
}

func (s *replyService) ListTopLevel(ctx context.Context, postID int64, pageable models.Pageable) result.Result[models.Page[models.ReplyView]] {
	page, err := s.repo.Reply.ListTopLevel(ctx, postID, pageable)
	if err != nil {
		return fail[models.Page[models.ReplyView]](s.logger, storageFault("list replies", err))
	}

	return result.Success(toReplyViews(page))
}

func (s *replyService) ListChildren(ctx context.Context, postID, parentReplyID int64, pageable models.Pageable) result.Result[models.Page[models.ReplyView]] {
	page, err := s.repo.Reply.ListChildren(ctx, postID, parentReplyID, pageable)
	if err != nil {
		return fail[models.Page[models.ReplyView]](s.logger, storageFault("list child replies", err))
	}

	return result.Success(toReplyViews(page))
}

func (s *replyService) Get(ctx context.Context, postID, replyID int64) result.Result[models.ReplyView] {
	reply, err := s.repo.Reply.GetByIDAndPostID(ctx, replyID, postID)
	if errors.Is(err, repository.ErrNotFound) {
		return result.Error[models.ReplyView](result.StatusNotFound, "Reply not found")
	}
	if err != nil {
		return fail[models.ReplyView](s.logger, storageFault("get reply", err))
	}

	return result.Success(models.NewReplyView(reply))
}

// Create looks the parent up by id alone, then rejects it when it hangs off
// a different post.
func (s *replyService) Create(ctx context.Context, postID int64, input models.ReplyInput, authorEmail string) result.Result[models.ReplyView] {
	var reply *models.Reply

	f := transact(ctx, s.tx, func(repo *repository.Repository) *failure {
		author, f := lookupUser(ctx, repo.User, authorEmail)
		if f != nil {
			return f
		}

		if f := validate(s.validate, input); f != nil {
			return f
		}

		var parent *models.Reply
		if input.ParentReplyID != nil {
			var err error
			parent, err = repo.Reply.GetByID(ctx, *input.ParentReplyID)
			if errors.Is(err, repository.ErrNotFound) {
				return reject(result.StatusBadRequest, "Parent reply not found")
			}
			if err != nil {
				return storageFault("get parent reply", err)
			}
		}

		post, f := loadPost(ctx, repo.Post, postID)
		if f != nil {
			return f
		}

		if parent != nil && (parent.PostID == nil || *parent.PostID != post.ID) {
			return reject(result.StatusBadRequest, "Parent reply belongs to a different post")
		}

		reply = &models.Reply{
			Body:   input.Body,
			PostID: &post.ID,
			User:   author,
		}
		if parent != nil {
			reply.ParentReplyID = &parent.ID
		}

		if err := repo.Reply.Create(ctx, reply); err != nil {
			return storageFault("create reply", err)
		}

		return nil
	})
	if f != nil {
		return fail[models.ReplyView](s.logger, f)
	}

	return result.Created(models.NewReplyView(reply))
}

func (s *replyService) loadReply(ctx context.Context, replies repository.ReplyRepository, replyID int64) (*models.Reply, *failure) {
	reply, err := replies.GetByID(ctx, replyID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, reject(result.StatusNotFound, "Reply not found")
	}
	if err != nil {
		return nil, storageFault("get reply", err)
	}
	return reply, nil
}

func (s *replyService) Update(ctx context.Context, replyID int64, input models.UpdateReplyInput, actorEmail string) result.Result[models.ReplyView] {
	var reply *models.Reply

	f := transact(ctx, s.tx, func(repo *repository.Repository) *failure {
		var f *failure
		if reply, f = s.loadReply(ctx, repo.Reply, replyID); f != nil {
			return f
		}

		if f := authorize(reply.User, actorEmail, policy.UpdateReply); f != nil {
			return f
		}

		if f := validate(s.validate, input); f != nil {
			return f
		}

		if err := repo.Reply.UpdateBody(ctx, replyID, input.Body); err != nil {
			return storageFault("update reply", err)
		}
		reply.Body = input.Body

		return nil
	})
	if f != nil {
		return fail[models.ReplyView](s.logger, f)
	}

	return result.Success(models.NewReplyView(reply))
}

// Delete moves the reply's direct children to the top level of their post
// before removing it.
func (s *replyService) Delete(ctx context.Context, replyID int64, actorEmail string) result.Result[result.Void] {
	f := transact(ctx, s.tx, func(repo *repository.Repository) *failure {
		reply, f := s.loadReply(ctx, repo.Reply, replyID)
		if f != nil {
			return f
		}

		if f := authorize(reply.User, actorEmail, policy.DeleteReply); f != nil {
			return f
		}

		if _, err := repo.Reply.DetachChildren(ctx, replyID); err != nil {
			return storageFault("detach child replies", err)
		}

		if err := repo.Reply.Delete(ctx, replyID); err != nil {
			return storageFault("delete reply", err)
		}

		return nil
	})
	if f != nil {
		return fail[result.Void](s.logger, f)
	}

	return result.Success(result.Void{})
}
