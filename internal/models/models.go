package models

import (
	"io"
	"sort"
	"time"
)

// ReplyTimestampLayout is the fixed format of ReplyView.CreatedAt.
const ReplyTimestampLayout = "2006-01-02T15:04:05.000"

type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

type Tag struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Post struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
	UserID    *int64    `db:"user_id"`
	User      *User     `db:"-"`
	Tags      []Tag     `db:"-"`
}

// TagNames returns the names of the post's tags, sorted.
func (p *Post) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		names = append(names, tag.Name)
	}
	sort.Strings(names)
	return names
}

type Reply struct {
	ID            int64     `db:"id"`
	Body          string    `db:"body"`
	CreatedAt     time.Time `db:"created_at"`
	PostID        *int64    `db:"post_id"`
	ParentReplyID *int64    `db:"parent_reply_id"`
	UserID        *int64    `db:"user_id"`
	User          *User     `db:"-"`
}

type Image struct {
	ImageID     string    `json:"imageId" db:"image_id"`
	PostID      int64     `json:"postId" db:"post_id"`
	ObjectName  string    `json:"-" db:"object_name"`
	ImageURL    string    `json:"imageUrl" db:"image_url"`
	FileName    string    `json:"fileName" db:"file_name"`
	ContentType string    `json:"contentType" db:"content_type"`
	Size        int64     `json:"size" db:"size"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// PostInput is the client-supplied part of a created or updated post.
type PostInput struct {
	Title string   `json:"title" validate:"required,min=3,max=100"`
	Body  string   `json:"body" validate:"required,min=10"`
	Tags  []string `json:"tags" validate:"required,min=1,max=5,dive,required"`
}

// ReplyInput is the client-supplied part of a created reply.
type ReplyInput struct {
	Body          string `json:"body" validate:"required,min=10"`
	ParentReplyID *int64 `json:"parentReplyId"`
}

type UpdateReplyInput struct {
	Body string `json:"body" validate:"required,min=10"`
}

type RegisterInput struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,min=6"`
	Username        string `json:"username" validate:"required,min=3,max=20"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ImageUpload carries an image file on its way to object storage.
type ImageUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type PostView struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	Body           string   `json:"body"`
	AuthorUsername string   `json:"authorUsername"`
	Tags           []string `json:"tags"`
}

func NewPostView(post *Post) PostView {
	view := PostView{
		ID:    post.ID,
		Title: post.Title,
		Body:  post.Body,
		Tags:  post.TagNames(),
	}
	if post.User != nil {
		view.AuthorUsername = post.User.Username
	}
	return view
}

type ReplyView struct {
	ID            int64   `json:"id"`
	Body          string  `json:"body"`
	PostID        *int64  `json:"postId"`
	ParentReplyID *int64  `json:"parentReplyId"`
	UserID        *int64  `json:"userId"`
	Username      *string `json:"username"`
	CreatedAt     string  `json:"createdAt"`
}

func NewReplyView(reply *Reply) ReplyView {
	view := ReplyView{
		ID:            reply.ID,
		Body:          reply.Body,
		PostID:        reply.PostID,
		ParentReplyID: reply.ParentReplyID,
		UserID:        reply.UserID,
		CreatedAt:     reply.CreatedAt.Format(ReplyTimestampLayout),
	}
	if reply.User != nil {
		username := reply.User.Username
		view.Username = &username
	}
	return view
}

type UserView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func NewUserView(user *User) UserView {
	return UserView{ID: user.ID, Username: user.Username, Email: user.Email}
}

type TokenView struct {
	Token string `json:"jwt-token"`
}

type HealthView struct {
	Status string `json:"status"`
	Tables int    `json:"tables"`
}
