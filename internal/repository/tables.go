package repository

import (
	"context"
	"fmt"
)

type schemaRepository struct {
	db Querier
}

func NewSchemaRepository(db Querier) SchemaRepository {
	return &schemaRepository{db: db}
}

// CountTables counts the tables of the public schema. The health endpoint
// reports it to show the migrations ran.
func (r *schemaRepository) CountTables(ctx context.Context) (int, error) {
	var count int

	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = 'public'
	`)
	if err != nil {
		return 0, fmt.Errorf("count tables: %w", err)
	}

	return count, nil
}
