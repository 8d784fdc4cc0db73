package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"threadboard/internal/config"
)

// Storage keeps the binary content of post images.
type Storage interface {
	Upload(ctx context.Context, postID int64, fileName, contentType string, file io.Reader, size int64) (objectName string, url string, err error)
	Remove(ctx context.Context, objectName string) error
}

type MinIOClient struct {
	client  *minio.Client
	bucket  string
	baseURL string
	logger  *slog.Logger
}

func newClient(cfg config.MinIO) (*minio.Client, error) {
	return minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
}

// NewMinIOClient connects to MinIO and creates the bucket when it is missing.
func NewMinIOClient(ctx context.Context, cfg config.MinIO, logger *slog.Logger) (*MinIOClient, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.BucketName, err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.BucketName, err)
		}
		logger.Info("bucket created", "bucket", cfg.BucketName)
	}

	return &MinIOClient{
		client:  client,
		bucket:  cfg.BucketName,
		baseURL: BaseURL(cfg),
		logger:  logger,
	}, nil
}

// BaseURL is the public prefix of every object in the configured bucket.
func BaseURL(cfg config.MinIO) string {
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, strings.TrimSuffix(cfg.Endpoint, "/"), cfg.BucketName)
}

// ObjectName lays objects out as posts/<id>/<yyyy>/<mm>/<uuid><ext>.
func ObjectName(postID int64, fileName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = ".bin"
	}

	return fmt.Sprintf("posts/%d/%d/%02d/%s%s",
		postID,
		now.Year(),
		now.Month(),
		uuid.New().String(),
		ext)
}

func (m *MinIOClient) Upload(ctx context.Context, postID int64, fileName, contentType string, file io.Reader, size int64) (string, string, error) {
	now := time.Now().UTC()
	objectName := ObjectName(postID, fileName, now)

	_, err := m.client.PutObject(ctx, m.bucket, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"post-id":           fmt.Sprint(postID),
				"uploaded-at":       now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", "", fmt.Errorf("upload %s: %w", objectName, err)
	}

	m.logger.Debug("object uploaded", "object", objectName, "size", size)

	return objectName, m.baseURL + "/" + objectName, nil
}

func (m *MinIOClient) Remove(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("remove %s: %w", objectName, err)
	}
	return nil
}
