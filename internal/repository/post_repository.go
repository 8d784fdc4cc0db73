package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"threadboard/internal/models"
)

type postRepository struct {
	db Querier
}

type postRow struct {
	ID             int64          `db:"id"`
	Title          string         `db:"title"`
	Body           string         `db:"body"`
	CreatedAt      time.Time      `db:"created_at"`
	UserID         *int64         `db:"user_id"`
	AuthorUsername sql.NullString `db:"author_username"`
	AuthorEmail    sql.NullString `db:"author_email"`
}

type postTagRow struct {
	PostID int64  `db:"post_id"`
	ID     int64  `db:"id"`
	Name   string `db:"name"`
}

func (row postRow) toModel() models.Post {
	post := models.Post{
		ID:        row.ID,
		Title:     row.Title,
		Body:      row.Body,
		CreatedAt: row.CreatedAt,
		UserID:    row.UserID,
		Tags:      []models.Tag{},
	}
	if row.UserID != nil && row.AuthorEmail.Valid {
		post.User = &models.User{
			ID:       *row.UserID,
			Username: row.AuthorUsername.String,
			Email:    row.AuthorEmail.String,
		}
	}
	return post
}

const postColumns = `
	p.id, p.title, p.body, p.created_at, p.user_id,
	u.username AS author_username, u.email AS author_email
`

// The tag filter is an OR across names; the text filter matches any term of
// the plain query against the simple-config tsvector of title and body.
const searchFilter = `
	FROM posts p
	LEFT JOIN users u ON u.id = p.user_id
	LEFT JOIN post_tags pt ON pt.post_id = p.id
	LEFT JOIN tags t ON t.id = pt.tag_id
	WHERE ($1::text[] IS NULL OR t.name = ANY($1::text[]))
	AND (
		$2::text IS NULL OR
		to_tsvector('simple', p.title || ' ' || p.body)
			@@ replace(plainto_tsquery('simple', $2::text)::text, ' & ', ' | ')::tsquery
	)
`

func NewPostRepository(db Querier) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Search(ctx context.Context, params PostSearch) (models.Page[models.Post], error) {
	var tags interface{}
	if len(params.Tags) > 0 {
		tags = pq.Array(params.Tags)
	}

	var total int64
	countQuery := `SELECT COUNT(DISTINCT p.id)` + searchFilter
	if err := r.db.GetContext(ctx, &total, countQuery, tags, params.Query); err != nil {
		return models.Page[models.Post]{}, fmt.Errorf("count posts: %w", err)
	}

	if total == 0 {
		return models.NewPage[models.Post](nil, params.Pageable, 0), nil
	}

	query := `SELECT DISTINCT` + postColumns + searchFilter + `
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $3 OFFSET $4
	`

	var rows []postRow
	err := r.db.SelectContext(ctx, &rows, query, tags, params.Query, params.Pageable.Size, params.Pageable.Offset())
	if err != nil {
		return models.Page[models.Post]{}, fmt.Errorf("search posts: %w", err)
	}

	posts := make([]models.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, row.toModel())
	}

	if err := r.attachTags(ctx, posts); err != nil {
		return models.Page[models.Post]{}, err
	}

	return models.NewPage(posts, params.Pageable, total), nil
}

// Create inserts the post and its tag links. Tags must already exist.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (title, body, created_at, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	if post.User != nil {
		post.UserID = &post.User.ID
	}

	err := r.db.GetContext(ctx, &post.ID, query, post.Title, post.Body, post.CreatedAt, post.UserID)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}

	return r.insertTags(ctx, post.ID, post.Tags)
}

func (r *postRepository) GetByID(ctx context.Context, postID int64) (*models.Post, error) {
	query := `SELECT` + postColumns + `
		FROM posts p
		LEFT JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`

	var row postRow
	err := r.db.GetContext(ctx, &row, query, postID)
	if err != nil {
		if nf := notFound(err, "post %d", postID); nf != nil {
			return nil, nf
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	posts := []models.Post{row.toModel()}
	if err := r.attachTags(ctx, posts); err != nil {
		return nil, err
	}

	return &posts[0], nil
}

// Update replaces title, body and the whole tag set. created_at and the
// owner never change.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	query := `UPDATE posts SET title = $1, body = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, post.Title, post.Body, post.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if err := checkAffected(result, fmt.Sprintf("post %d", post.ID)); err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = $1`, post.ID); err != nil {
		return fmt.Errorf("clear post tags: %w", err)
	}

	return r.insertTags(ctx, post.ID, post.Tags)
}

func (r *postRepository) Delete(ctx context.Context, postID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	return checkAffected(result, fmt.Sprintf("post %d", postID))
}

func (r *postRepository) insertTags(ctx context.Context, postID int64, tags []models.Tag) error {
	query := `
		INSERT INTO post_tags (post_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	for _, tag := range tags {
		if _, err := r.db.ExecContext(ctx, query, postID, tag.ID); err != nil {
			return fmt.Errorf("link tag %s to post: %w", tag.Name, err)
		}
	}

	return nil
}

func (r *postRepository) attachTags(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(posts))
	index := make(map[int64]int, len(posts))
	for i, post := range posts {
		ids = append(ids, post.ID)
		index[post.ID] = i
	}

	query := `
		SELECT pt.post_id, t.id, t.name
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = ANY($1)
		ORDER BY t.name
	`

	var rows []postTagRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("load post tags: %w", err)
	}

	for _, row := range rows {
		i, ok := index[row.PostID]
		if !ok {
			continue
		}
		posts[i].Tags = append(posts[i].Tags, models.Tag{ID: row.ID, Name: row.Name})
	}

	return nil
}
