package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"threadboard/internal/models"
	"threadboard/internal/result"
)

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) Search(ctx context.Context, query string, tags []string, pageable models.Pageable) result.Result[models.Page[models.PostView]] {
	args := m.Called(ctx, query, tags, pageable)
	return args.Get(0).(result.Result[models.Page[models.PostView]])
}

func (m *MockPostService) Create(ctx context.Context, input models.PostInput, ownerEmail string) result.Result[models.PostView] {
	args := m.Called(ctx, input, ownerEmail)
	return args.Get(0).(result.Result[models.PostView])
}

func (m *MockPostService) Get(ctx context.Context, postID int64) result.Result[models.PostView] {
	args := m.Called(ctx, postID)
	return args.Get(0).(result.Result[models.PostView])
}

func (m *MockPostService) Update(ctx context.Context, postID int64, input models.PostInput, actorEmail string) result.Result[models.PostView] {
	args := m.Called(ctx, postID, input, actorEmail)
	return args.Get(0).(result.Result[models.PostView])
}

func (m *MockPostService) Delete(ctx context.Context, postID int64, actorEmail string) result.Result[result.Void] {
	args := m.Called(ctx, postID, actorEmail)
	return args.Get(0).(result.Result[result.Void])
}

type MockReplyService struct {
	mock.Mock
}

func (m *MockReplyService) ListTopLevel(ctx context.Context, postID int64, pageable models.Pageable) result.Result[models.Page[models.ReplyView]] {
	args := m.Called(ctx, postID, pageable)
	return args.Get(0).(result.Result[models.Page[models.ReplyView]])
}

func (m *MockReplyService) ListChildren(ctx context.Context, postID, parentReplyID int64, pageable models.Pageable) result.Result[models.Page[models.ReplyView]] {
	args := m.Called(ctx, postID, parentReplyID, pageable)
	return args.Get(0).(result.Result[models.Page[models.ReplyView]])
}

func (m *MockReplyService) Get(ctx context.Context, postID, replyID int64) result.Result[models.ReplyView] {
	args := m.Called(ctx, postID, replyID)
	return args.Get(0).(result.Result[models.ReplyView])
}

func (m *MockReplyService) Create(ctx context.Context, postID int64, input models.ReplyInput, authorEmail string) result.Result[models.ReplyView] {
	args := m.Called(ctx, postID, input, authorEmail)
	return args.Get(0).(result.Result[models.ReplyView])
}

func (m *MockReplyService) Update(ctx context.Context, replyID int64, input models.UpdateReplyInput, actorEmail string) result.Result[models.ReplyView] {
	args := m.Called(ctx, replyID, input, actorEmail)
	return args.Get(0).(result.Result[models.ReplyView])
}

func (m *MockReplyService) Delete(ctx context.Context, replyID int64, actorEmail string) result.Result[result.Void] {
	args := m.Called(ctx, replyID, actorEmail)
	return args.Get(0).(result.Result[result.Void])
}

type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) Attach(ctx context.Context, postID int64, upload models.ImageUpload, actorEmail string) result.Result[models.Image] {
	args := m.Called(ctx, postID, upload, actorEmail)
	return args.Get(0).(result.Result[models.Image])
}

func (m *MockImageService) List(ctx context.Context, postID int64) result.Result[[]*models.Image] {
	args := m.Called(ctx, postID)
	return args.Get(0).(result.Result[[]*models.Image])
}

func (m *MockImageService) Remove(ctx context.Context, postID int64, imageID string, actorEmail string) result.Result[result.Void] {
	args := m.Called(ctx, postID, imageID, actorEmail)
	return args.Get(0).(result.Result[result.Void])
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Profile(ctx context.Context, email string) result.Result[models.UserView] {
	args := m.Called(ctx, email)
	return args.Get(0).(result.Result[models.UserView])
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, input models.RegisterInput) result.Result[models.TokenView] {
	args := m.Called(ctx, input)
	return args.Get(0).(result.Result[models.TokenView])
}

func (m *MockAuthService) Login(ctx context.Context, input models.LoginInput) result.Result[models.TokenView] {
	args := m.Called(ctx, input)
	return args.Get(0).(result.Result[models.TokenView])
}

func (m *MockAuthService) ValidateToken(tokenString string) (string, error) {
	args := m.Called(tokenString)
	return args.String(0), args.Error(1)
}

type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) Check(ctx context.Context) result.Result[models.HealthView] {
	args := m.Called(ctx)
	return args.Get(0).(result.Result[models.HealthView])
}
