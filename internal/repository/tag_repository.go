package repository

import (
	"context"
	"fmt"

	"threadboard/internal/models"
)

type tagRepository struct {
	db Querier
}

func NewTagRepository(db Querier) TagRepository {
	return &tagRepository{db: db}
}

// FindByName matches the tag name exactly.
func (r *tagRepository) FindByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag

	query := `SELECT id, name FROM tags WHERE name = $1`

	err := r.db.GetContext(ctx, &tag, query, name)
	if err != nil {
		if nf := notFound(err, "tag %s", name); nf != nil {
			return nil, nf
		}
		return nil, fmt.Errorf("get tag by name: %w", err)
	}

	return &tag, nil
}
