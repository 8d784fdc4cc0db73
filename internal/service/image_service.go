package service

import (
	"context"
	"errors"
	"log/slog"

	"threadboard/internal/models"
	"threadboard/internal/policy"
	"threadboard/internal/repository"
	"threadboard/internal/result"
	"threadboard/internal/storage"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type ImageService interface {
	Attach(ctx context.Context, postID int64, upload models.ImageUpload, actorEmail string) result.Result[models.Image]
	List(ctx context.Context, postID int64) result.Result[[]*models.Image]
	Remove(ctx context.Context, postID int64, imageID string, actorEmail string) result.Result[result.Void]
}

type imageService struct {
	repo    *repository.Repository
	storage storage.Storage
	logger  *slog.Logger
}

func NewImageService(repo *repository.Repository, storage storage.Storage, logger *slog.Logger) ImageService {
	return &imageService{
		repo:    repo,
		storage: storage,
		logger:  logger.With("component", "image_service"),
	}
}

// ownedPost resolves the actor and the post and checks that one owns the other.
func (s *imageService) ownedPost(ctx context.Context, postID int64, actorEmail string, action policy.Action) (*models.Post, *failure) {
	if _, f := lookupUser(ctx, s.repo.User, actorEmail); f != nil {
		return nil, f
	}

	post, f := loadPost(ctx, s.repo.Post, postID)
	if f != nil {
		return nil, f
	}

	if f := authorize(post.User, actorEmail, action); f != nil {
		return nil, f
	}

	return post, nil
}

// Attach stores the file and then records it. When the record cannot be
// written the stored object is removed again.
func (s *imageService) Attach(ctx context.Context, postID int64, upload models.ImageUpload, actorEmail string) result.Result[models.Image] {
	post, f := s.ownedPost(ctx, postID, actorEmail, policy.AttachImage)
	if f != nil {
		return fail[models.Image](s.logger, f)
	}

	if !allowedImageTypes[upload.ContentType] {
		return result.Error[models.Image](result.StatusBadRequest, "Unsupported image type: "+upload.ContentType)
	}

	objectName, url, err := s.storage.Upload(ctx, post.ID, upload.FileName, upload.ContentType, upload.Content, upload.Size)
	if err != nil {
		return fail[models.Image](s.logger, storageFault("upload image", err))
	}

	image := &models.Image{
		PostID:      post.ID,
		ObjectName:  objectName,
		ImageURL:    url,
		FileName:    upload.FileName,
		ContentType: upload.ContentType,
		Size:        upload.Size,
	}

	if err := s.repo.Image.Create(ctx, image); err != nil {
		if rmErr := s.storage.Remove(ctx, objectName); rmErr != nil {
			s.logger.Warn("failed to remove orphaned object", "object", objectName, "error", rmErr)
		}
		return fail[models.Image](s.logger, storageFault("create image", err))
	}

	s.logger.Info("image attached", "post_id", post.ID, "image_id", image.ImageID)
	return result.Created(*image)
}

func (s *imageService) List(ctx context.Context, postID int64) result.Result[[]*models.Image] {
	if _, f := loadPost(ctx, s.repo.Post, postID); f != nil {
		return fail[[]*models.Image](s.logger, f)
	}

	images, err := s.repo.Image.GetByPostID(ctx, postID)
	if err != nil {
		return fail[[]*models.Image](s.logger, storageFault("list images", err))
	}

	return result.Success(images)
}

func (s *imageService) Remove(ctx context.Context, postID int64, imageID string, actorEmail string) result.Result[result.Void] {
	if _, f := s.ownedPost(ctx, postID, actorEmail, policy.RemoveImage); f != nil {
		return fail[result.Void](s.logger, f)
	}

	image, err := s.repo.Image.GetByID(ctx, imageID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && image.PostID != postID) {
		return result.Error[result.Void](result.StatusNotFound, "Image not found")
	}
	if err != nil {
		return fail[result.Void](s.logger, storageFault("get image", err))
	}

	if err := s.repo.Image.Delete(ctx, imageID); err != nil {
		return fail[result.Void](s.logger, storageFault("delete image", err))
	}

	if err := s.storage.Remove(ctx, image.ObjectName); err != nil {
		s.logger.Warn("failed to remove stored image", "object", image.ObjectName, "error", err)
	}

	return result.Success(result.Void{})
}
