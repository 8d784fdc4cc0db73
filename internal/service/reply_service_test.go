package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"threadboard/internal/models"
	"threadboard/internal/repository"
	"threadboard/internal/result"
)

func existingReply(id, postID int64, parentID *int64, owner *models.User) *models.Reply {
	reply := &models.Reply{
		ID:            id,
		Body:          "An existing reply body",
		CreatedAt:     time.Date(2024, time.May, 1, 12, 30, 15, 250_000_000, time.UTC),
		PostID:        &postID,
		ParentReplyID: parentID,
	}
	if owner != nil {
		reply.User = owner
		reply.UserID = &owner.ID
	}
	return reply
}

func TestReplyService_NestedReplyFromAnotherUser(t *testing.T) {
	f := newFixture(t)
	f.withUser(userV)
	post := existingPost(3, userU)
	f.posts.On("GetByID", mock.Anything, int64(3)).Return(post, nil)

	nextID := int64(20)
	f.replies.On("Create", mock.Anything, mock.AnythingOfType("*models.Reply")).
		Run(func(args mock.Arguments) {
			reply := args.Get(1).(*models.Reply)
			nextID++
			reply.ID = nextID
			reply.CreatedAt = time.Now()
		}).Return(nil)

	svc := f.replyService()

	first := svc.Create(context.Background(), 3, models.ReplyInput{Body: "The first reply body"}, "v@x.com")
	require.True(t, first.IsSuccess())
	assert.Equal(t, result.StatusCreated, first.Status())
	assert.Nil(t, first.Value().ParentReplyID)
	assert.Equal(t, int64(3), *first.Value().PostID)
	assert.Equal(t, "V", *first.Value().Username)

	firstID := first.Value().ID
	f.replies.On("GetByID", mock.Anything, firstID).Return(existingReply(firstID, 3, nil, userV), nil)

	second := svc.Create(context.Background(), 3, models.ReplyInput{
		Body:          "The nested reply body",
		ParentReplyID: &firstID,
	}, "v@x.com")
	require.True(t, second.IsSuccess())
	require.NotNil(t, second.Value().ParentReplyID)
	assert.Equal(t, firstID, *second.Value().ParentReplyID)

	pageable := models.NewPageable(0, 20)
	nested := existingReply(second.Value().ID, 3, &firstID, userV)
	f.replies.On("ListChildren", mock.Anything, int64(3), firstID, pageable).
		Return(models.NewPage([]models.Reply{*nested}, pageable, 1), nil)

	children := svc.ListChildren(context.Background(), 3, firstID, pageable)
	require.True(t, children.IsSuccess())
	require.Len(t, children.Value().Content, 1)
	assert.Equal(t, second.Value().ID, children.Value().Content[0].ID)
	assert.Equal(t, 2, f.tx.commits)
}

func TestReplyService_CreateRejections(t *testing.T) {
	t.Run("unknown author", func(t *testing.T) {
		f := newFixture(t)
		f.withUnknownUser("ghost@x.com")

		res := f.replyService().Create(context.Background(), 3, models.ReplyInput{Body: "A reply body text"}, "ghost@x.com")

		assert.Equal(t, result.ErrorResponse{Message: "User not found", Code: "401"}, res.Err())
	})

	t.Run("short body", func(t *testing.T) {
		f := newFixture(t)
		f.withUser(userV)

		res := f.replyService().Create(context.Background(), 3, models.ReplyInput{Body: "short"}, "v@x.com")

		assert.Equal(t, result.StatusBadRequest, res.Status())
		assert.Contains(t, res.Err().Message, "body must have at least 10 characters")
	})

	t.Run("missing parent is checked before the post", func(t *testing.T) {
		f := newFixture(t)
		f.withUser(userV)
		f.replies.On("GetByID", mock.Anything, int64(99)).Return(nil, repository.ErrNotFound)

		res := f.replyService().Create(context.Background(), 404, models.ReplyInput{
			Body:          "A reply body text",
			ParentReplyID: ptr(int64(99)),
		}, "v@x.com")

		assert.Equal(t, result.ErrorResponse{Message: "Parent reply not found", Code: "400"}, res.Err())
		f.posts.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("missing post", func(t *testing.T) {
		f := newFixture(t)
		f.withUser(userV)
		f.posts.On("GetByID", mock.Anything, int64(404)).Return(nil, repository.ErrNotFound)

		res := f.replyService().Create(context.Background(), 404, models.ReplyInput{Body: "A reply body text"}, "v@x.com")

		assert.Equal(t, result.ErrorResponse{Message: "Post not found", Code: "404"}, res.Err())
	})

	t.Run("parent from another post", func(t *testing.T) {
		f := newFixture(t)
		f.withUser(userV)
		f.replies.On("GetByID", mock.Anything, int64(7)).Return(existingReply(7, 8, nil, userU), nil)
		f.posts.On("GetByID", mock.Anything, int64(3)).Return(existingPost(3, userU), nil)

		res := f.replyService().Create(context.Background(), 3, models.ReplyInput{
			Body:          "A reply body text",
			ParentReplyID: ptr(int64(7)),
		}, "v@x.com")

		assert.Equal(t, result.ErrorResponse{Message: "Parent reply belongs to a different post", Code: "400"}, res.Err())
		f.replies.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Equal(t, 1, f.tx.rollbacks)
	})

	t.Run("parent detached from its post", func(t *testing.T) {
		f := newFixture(t)
		f.withUser(userV)
		orphan := existingReply(7, 0, nil, userU)
		orphan.PostID = nil
		f.replies.On("GetByID", mock.Anything, int64(7)).Return(orphan, nil)
		f.posts.On("GetByID", mock.Anything, int64(3)).Return(existingPost(3, userU), nil)

		res := f.replyService().Create(context.Background(), 3, models.ReplyInput{
			Body:          "A reply body text",
			ParentReplyID: ptr(int64(7)),
		}, "v@x.com")

		assert.Equal(t, result.StatusBadRequest, res.Status())
	})
}

func TestReplyService_Get(t *testing.T) {
	f := newFixture(t)
	f.replies.On("GetByIDAndPostID", mock.Anything, int64(4), int64(3)).Return(existingReply(4, 3, nil, nil), nil)
	f.replies.On("GetByIDAndPostID", mock.Anything, int64(4), int64(9)).Return(nil, repository.ErrNotFound)

	svc := f.replyService()

	res := svc.Get(context.Background(), 3, 4)
	require.True(t, res.IsSuccess())
	view := res.Value()
	assert.Equal(t, "2024-05-01T12:30:15.250", view.CreatedAt)
	assert.Nil(t, view.UserID)
	assert.Nil(t, view.Username)

	assert.Equal(t, result.ErrorResponse{Message: "Reply not found", Code: "404"}, svc.Get(context.Background(), 9, 4).Err())
}

func TestReplyService_ListTopLevel(t *testing.T) {
	f := newFixture(t)
	pageable := models.NewPageable(1, 1)
	replies := []models.Reply{*existingReply(2, 3, nil, userU)}
	f.replies.On("ListTopLevel", mock.Anything, int64(3), pageable).Return(models.NewPage(replies, pageable, 2), nil)
	f.replies.On("ListTopLevel", mock.Anything, int64(4), pageable).Return(models.Page[models.Reply]{}, errors.New("boom"))

	svc := f.replyService()

	res := svc.ListTopLevel(context.Background(), 3, pageable)
	require.True(t, res.IsSuccess())
	assert.Equal(t, 1, res.Value().Number)
	assert.True(t, res.Value().Last)
	assert.Equal(t, int64(2), res.Value().Content[0].ID)

	assert.Equal(t, result.StatusInternal, svc.ListTopLevel(context.Background(), 4, pageable).Status())
}

func TestReplyService_Update(t *testing.T) {
	t.Run("owner", func(t *testing.T) {
		f := newFixture(t)
		f.replies.On("GetByID", mock.Anything, int64(4)).Return(existingReply(4, 3, nil, userV), nil)
		f.replies.On("UpdateBody", mock.Anything, int64(4), "An edited reply body").Return(nil)

		res := f.replyService().Update(context.Background(), 4, models.UpdateReplyInput{Body: "An edited reply body"}, "v@x.com")

		require.True(t, res.IsSuccess())
		assert.Equal(t, "An edited reply body", res.Value().Body)
	})

	t.Run("not owner with invalid body", func(t *testing.T) {
		f := newFixture(t)
		f.replies.On("GetByID", mock.Anything, int64(4)).Return(existingReply(4, 3, nil, userV), nil)

		res := f.replyService().Update(context.Background(), 4, models.UpdateReplyInput{Body: ""}, "u@x.com")

		assert.Equal(t, result.ErrorResponse{Message: "You do not have permission to update this reply", Code: "403"}, res.Err())
	})

	t.Run("missing", func(t *testing.T) {
		f := newFixture(t)
		f.replies.On("GetByID", mock.Anything, int64(4)).Return(nil, repository.ErrNotFound)

		res := f.replyService().Update(context.Background(), 4, models.UpdateReplyInput{}, "u@x.com")

		assert.Equal(t, result.StatusNotFound, res.Status())
	})
}

func TestReplyService_DeleteDetachesChildren(t *testing.T) {
	f := newFixture(t)
	var calls []string

	f.replies.On("GetByID", mock.Anything, int64(4)).Return(existingReply(4, 3, nil, userV), nil)
	f.replies.On("DetachChildren", mock.Anything, int64(4)).
		Run(func(mock.Arguments) { calls = append(calls, "detach") }).
		Return(int64(2), nil)
	f.replies.On("Delete", mock.Anything, int64(4)).
		Run(func(mock.Arguments) { calls = append(calls, "delete") }).
		Return(nil)

	res := f.replyService().Delete(context.Background(), 4, "v@x.com")

	require.True(t, res.IsSuccess())
	assert.Equal(t, []string{"detach", "delete"}, calls)
	assert.Equal(t, 1, f.tx.commits)
}

func TestReplyService_DeleteForbidden(t *testing.T) {
	f := newFixture(t)
	f.replies.On("GetByID", mock.Anything, int64(4)).Return(existingReply(4, 3, nil, nil), nil)

	res := f.replyService().Delete(context.Background(), 4, "v@x.com")

	assert.Equal(t, result.ErrorResponse{Message: "You do not have permission to delete this reply", Code: "403"}, res.Err())
	f.replies.AssertNotCalled(t, "DetachChildren", mock.Anything, mock.Anything)
}
