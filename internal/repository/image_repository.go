package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"threadboard/internal/models"
)

type imageRepository struct {
	db Querier
}

func NewImageRepository(db Querier) ImageRepository {
	return &imageRepository{db: db}
}

const imageColumns = `image_id, post_id, object_name, image_url, file_name, content_type, size, created_at`

func (r *imageRepository) Create(ctx context.Context, image *models.Image) error {
	query := `
		INSERT INTO post_images (` + imageColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if image.ImageID == "" {
		image.ImageID = uuid.New().String()
	}

	if image.CreatedAt.IsZero() {
		image.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query,
		image.ImageID, image.PostID, image.ObjectName, image.ImageURL,
		image.FileName, image.ContentType, image.Size, image.CreatedAt)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}

	return nil
}

func (r *imageRepository) GetByID(ctx context.Context, imageID string) (*models.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM post_images WHERE image_id = $1`

	var image models.Image
	if err := r.db.GetContext(ctx, &image, query, imageID); err != nil {
		if nf := notFound(err, "image %s", imageID); nf != nil {
			return nil, nf
		}
		return nil, fmt.Errorf("get image: %w", err)
	}

	return &image, nil
}

func (r *imageRepository) GetByPostID(ctx context.Context, postID int64) ([]*models.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM post_images WHERE post_id = $1 ORDER BY created_at`

	images := []*models.Image{}
	if err := r.db.SelectContext(ctx, &images, query, postID); err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}

	return images, nil
}

func (r *imageRepository) Delete(ctx context.Context, imageID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM post_images WHERE image_id = $1`, imageID)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}

	return checkAffected(result, fmt.Sprintf("image %s", imageID))
}
