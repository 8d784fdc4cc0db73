package service

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/mock"

	"threadboard/internal/logger"
	"threadboard/internal/models"
	"threadboard/internal/repository"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) FindByName(ctx context.Context, name string) (*models.Tag, error) {
	args := m.Called(ctx, name)
	tag, _ := args.Get(0).(*models.Tag)
	return tag, args.Error(1)
}

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Search(ctx context.Context, params repository.PostSearch) (models.Page[models.Post], error) {
	args := m.Called(ctx, params)
	return args.Get(0).(models.Page[models.Post]), args.Error(1)
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, postID int64) (*models.Post, error) {
	args := m.Called(ctx, postID)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, postID int64) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

type MockReplyRepository struct {
	mock.Mock
}

func (m *MockReplyRepository) ListTopLevel(ctx context.Context, postID int64, pageable models.Pageable) (models.Page[models.Reply], error) {
	args := m.Called(ctx, postID, pageable)
	return args.Get(0).(models.Page[models.Reply]), args.Error(1)
}

func (m *MockReplyRepository) ListChildren(ctx context.Context, postID, parentReplyID int64, pageable models.Pageable) (models.Page[models.Reply], error) {
	args := m.Called(ctx, postID, parentReplyID, pageable)
	return args.Get(0).(models.Page[models.Reply]), args.Error(1)
}

func (m *MockReplyRepository) GetByID(ctx context.Context, replyID int64) (*models.Reply, error) {
	args := m.Called(ctx, replyID)
	reply, _ := args.Get(0).(*models.Reply)
	return reply, args.Error(1)
}

func (m *MockReplyRepository) GetByIDAndPostID(ctx context.Context, replyID, postID int64) (*models.Reply, error) {
	args := m.Called(ctx, replyID, postID)
	reply, _ := args.Get(0).(*models.Reply)
	return reply, args.Error(1)
}

func (m *MockReplyRepository) Create(ctx context.Context, reply *models.Reply) error {
	args := m.Called(ctx, reply)
	return args.Error(0)
}

func (m *MockReplyRepository) UpdateBody(ctx context.Context, replyID int64, body string) error {
	args := m.Called(ctx, replyID, body)
	return args.Error(0)
}

func (m *MockReplyRepository) Delete(ctx context.Context, replyID int64) error {
	args := m.Called(ctx, replyID)
	return args.Error(0)
}

func (m *MockReplyRepository) DetachFromPost(ctx context.Context, postID int64) (int64, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReplyRepository) DetachChildren(ctx context.Context, parentReplyID int64) (int64, error) {
	args := m.Called(ctx, parentReplyID)
	return args.Get(0).(int64), args.Error(1)
}

type MockImageRepository struct {
	mock.Mock
}

func (m *MockImageRepository) Create(ctx context.Context, image *models.Image) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockImageRepository) GetByID(ctx context.Context, imageID string) (*models.Image, error) {
	args := m.Called(ctx, imageID)
	image, _ := args.Get(0).(*models.Image)
	return image, args.Error(1)
}

func (m *MockImageRepository) GetByPostID(ctx context.Context, postID int64) ([]*models.Image, error) {
	args := m.Called(ctx, postID)
	images, _ := args.Get(0).([]*models.Image)
	return images, args.Error(1)
}

func (m *MockImageRepository) Delete(ctx context.Context, imageID string) error {
	args := m.Called(ctx, imageID)
	return args.Error(0)
}

type MockSchemaRepository struct {
	mock.Mock
}

func (m *MockSchemaRepository) CountTables(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, postID int64, fileName, contentType string, file io.Reader, size int64) (string, string, error) {
	args := m.Called(ctx, postID, fileName, contentType, file, size)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockStorage) Remove(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) PingContext(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// fakeTx hands the same repositories to fn and records the outcome.
type fakeTx struct {
	repo       *repository.Repository
	commits    int
	rollbacks  int
	beginError error
}

func (t *fakeTx) Transaction(ctx context.Context, fn func(repo *repository.Repository) error) error {
	if t.beginError != nil {
		return t.beginError
	}
	if err := fn(t.repo); err != nil {
		t.rollbacks++
		return err
	}
	t.commits++
	return nil
}

type fixture struct {
	users   *MockUserRepository
	tags    *MockTagRepository
	posts   *MockPostRepository
	replies *MockReplyRepository
	images  *MockImageRepository
	schema  *MockSchemaRepository
	storage *MockStorage

	repo *repository.Repository
	tx   *fakeTx
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		users:   new(MockUserRepository),
		tags:    new(MockTagRepository),
		posts:   new(MockPostRepository),
		replies: new(MockReplyRepository),
		images:  new(MockImageRepository),
		schema:  new(MockSchemaRepository),
		storage: new(MockStorage),
	}

	f.repo = &repository.Repository{
		User:   f.users,
		Tag:    f.tags,
		Post:   f.posts,
		Reply:  f.replies,
		Image:  f.images,
		Schema: f.schema,
	}
	f.tx = &fakeTx{repo: f.repo}

	t.Cleanup(func() {
		mock.AssertExpectationsForObjects(t, f.users, f.tags, f.posts, f.replies, f.images, f.schema, f.storage)
	})

	return f
}

func (f *fixture) postService() PostService {
	return NewPostService(f.repo, f.tx, f.storage, logger.Discard())
}

func (f *fixture) replyService() ReplyService {
	return NewReplyService(f.repo, f.tx, logger.Discard())
}

func (f *fixture) imageService() ImageService {
	return NewImageService(f.repo, f.storage, logger.Discard())
}

func (f *fixture) withUser(user *models.User) {
	f.users.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)
}

func (f *fixture) withUnknownUser(email string) {
	f.users.On("FindByEmail", mock.Anything, email).Return(nil, repository.ErrNotFound)
}

func (f *fixture) withTag(id int64, name string) {
	f.tags.On("FindByName", mock.Anything, name).Return(&models.Tag{ID: id, Name: name}, nil)
}

func ptr[T any](v T) *T {
	return &v
}
