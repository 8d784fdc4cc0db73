package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"threadboard/internal/models"
)

type replyRepository struct {
	db Querier
}

type replyRow struct {
	ID             int64          `db:"id"`
	Body           string         `db:"body"`
	CreatedAt      time.Time      `db:"created_at"`
	PostID         *int64         `db:"post_id"`
	ParentReplyID  *int64         `db:"parent_reply_id"`
	UserID         *int64         `db:"user_id"`
	AuthorUsername sql.NullString `db:"author_username"`
	AuthorEmail    sql.NullString `db:"author_email"`
}

func (row replyRow) toModel() models.Reply {
	reply := models.Reply{
		ID:            row.ID,
		Body:          row.Body,
		CreatedAt:     row.CreatedAt,
		PostID:        row.PostID,
		ParentReplyID: row.ParentReplyID,
		UserID:        row.UserID,
	}
	if row.UserID != nil && row.AuthorEmail.Valid {
		reply.User = &models.User{
			ID:       *row.UserID,
			Username: row.AuthorUsername.String,
			Email:    row.AuthorEmail.String,
		}
	}
	return reply
}

const replySelect = `
	SELECT r.id, r.body, r.created_at, r.post_id, r.parent_reply_id, r.user_id,
		u.username AS author_username, u.email AS author_email
	FROM replies r
	LEFT JOIN users u ON u.id = r.user_id
`

func NewReplyRepository(db Querier) ReplyRepository {
	return &replyRepository{db: db}
}

func (r *replyRepository) ListTopLevel(ctx context.Context, postID int64, pageable models.Pageable) (models.Page[models.Reply], error) {
	return r.page(ctx, pageable,
		`r.post_id = $1 AND r.parent_reply_id IS NULL`,
		postID,
	)
}

// ListChildren returns the direct children of parentReplyID within postID.
func (r *replyRepository) ListChildren(ctx context.Context, postID, parentReplyID int64, pageable models.Pageable) (models.Page[models.Reply], error) {
	return r.page(ctx, pageable,
		`r.post_id = $1 AND r.parent_reply_id = $2`,
		postID, parentReplyID,
	)
}

func (r *replyRepository) page(ctx context.Context, pageable models.Pageable, where string, args ...any) (models.Page[models.Reply], error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM replies r WHERE ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return models.Page[models.Reply]{}, fmt.Errorf("count replies: %w", err)
	}

	if total == 0 {
		return models.NewPage[models.Reply](nil, pageable, 0), nil
	}

	n := len(args)
	query := fmt.Sprintf(`%s WHERE %s ORDER BY r.created_at, r.id LIMIT $%d OFFSET $%d`,
		replySelect, where, n+1, n+2)

	var rows []replyRow
	if err := r.db.SelectContext(ctx, &rows, query, append(args, pageable.Size, pageable.Offset())...); err != nil {
		return models.Page[models.Reply]{}, fmt.Errorf("list replies: %w", err)
	}

	replies := make([]models.Reply, 0, len(rows))
	for _, row := range rows {
		replies = append(replies, row.toModel())
	}

	return models.NewPage(replies, pageable, total), nil
}

func (r *replyRepository) GetByID(ctx context.Context, replyID int64) (*models.Reply, error) {
	return r.get(ctx, replySelect+` WHERE r.id = $1`, replyID)
}

// GetByIDAndPostID misses when the reply exists but belongs to another post.
func (r *replyRepository) GetByIDAndPostID(ctx context.Context, replyID, postID int64) (*models.Reply, error) {
	return r.get(ctx, replySelect+` WHERE r.id = $1 AND r.post_id = $2`, replyID, postID)
}

func (r *replyRepository) get(ctx context.Context, query string, args ...any) (*models.Reply, error) {
	var row replyRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if nf := notFound(err, "reply %v", args[0]); nf != nil {
			return nil, nf
		}
		return nil, fmt.Errorf("get reply: %w", err)
	}

	reply := row.toModel()
	return &reply, nil
}

func (r *replyRepository) Create(ctx context.Context, reply *models.Reply) error {
	query := `
		INSERT INTO replies (body, created_at, post_id, parent_reply_id, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	if reply.CreatedAt.IsZero() {
		reply.CreatedAt = time.Now().UTC()
	}
	if reply.User != nil {
		reply.UserID = &reply.User.ID
	}

	err := r.db.GetContext(ctx, &reply.ID, query,
		reply.Body, reply.CreatedAt, reply.PostID, reply.ParentReplyID, reply.UserID)
	if err != nil {
		return fmt.Errorf("create reply: %w", err)
	}

	return nil
}

func (r *replyRepository) UpdateBody(ctx context.Context, replyID int64, body string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE replies SET body = $1 WHERE id = $2`, body, replyID)
	if err != nil {
		return fmt.Errorf("update reply: %w", err)
	}

	return checkAffected(result, fmt.Sprintf("reply %d", replyID))
}

func (r *replyRepository) Delete(ctx context.Context, replyID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM replies WHERE id = $1`, replyID)
	if err != nil {
		return fmt.Errorf("delete reply: %w", err)
	}

	return checkAffected(result, fmt.Sprintf("reply %d", replyID))
}

// DetachFromPost clears the post reference of every reply of postID and
// returns how many replies were detached.
func (r *replyRepository) DetachFromPost(ctx context.Context, postID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE replies SET post_id = NULL WHERE post_id = $1`, postID)
	if err != nil {
		return 0, fmt.Errorf("detach replies from post: %w", err)
	}

	detached, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check affected rows: %w", err)
	}

	return detached, nil
}

// DetachChildren moves the direct children of parentReplyID to the top level.
func (r *replyRepository) DetachChildren(ctx context.Context, parentReplyID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE replies SET parent_reply_id = NULL WHERE parent_reply_id = $1`, parentReplyID)
	if err != nil {
		return 0, fmt.Errorf("detach child replies: %w", err)
	}

	detached, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check affected rows: %w", err)
	}

	return detached, nil
}
