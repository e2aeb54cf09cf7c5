package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saborconflow/studio-backend/internal/model"
)

const resourceColumns = `id, title, slug, resource_type, class_type, level, url, description, display_order,
	is_public, created_at, updated_at`

type ResourceRepository struct {
	pool *pgxpool.Pool
}

func NewResourceRepository(pool *pgxpool.Pool) *ResourceRepository {
	return &ResourceRepository{pool: pool}
}

func scanResource(row pgx.Row) (*model.Resource, error) {
	res := &model.Resource{}
	err := row.Scan(&res.ID, &res.Title, &res.Slug, &res.ResourceType, &res.ClassType, &res.Level, &res.URL,
		&res.Description, &res.DisplayOrder, &res.IsPublic, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return res, nil
}

// List returns resources in display order. Empty filters match everything.
func (r *ResourceRepository) List(ctx context.Context, classType string, resourceType model.ResourceType, publicOnly bool) ([]model.Resource, error) {
	var w where
	if classType != "" {
		w.add("class_type = ?", classType)
	}
	if resourceType != "" {
		w.add("resource_type = ?", resourceType)
	}
	if publicOnly {
		w.addRaw("is_public")
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+resourceColumns+` FROM resources`+w.String()+` ORDER BY display_order, title`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Resource{}
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *res)
	}
	return list, rows.Err()
}

func (r *ResourceRepository) GetByID(ctx context.Context, id int) (*model.Resource, error) {
	return scanResource(r.pool.QueryRow(ctx, `SELECT `+resourceColumns+` FROM resources WHERE id = $1`, id))
}

func (r *ResourceRepository) Create(ctx context.Context, res *model.Resource) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO resources (title, slug, resource_type, class_type, level, url, description, display_order, is_public)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		res.Title, res.Slug, res.ResourceType, res.ClassType, res.Level, res.URL, res.Description,
		res.DisplayOrder, res.IsPublic,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	return translate(err)
}

func (r *ResourceRepository) Update(ctx context.Context, res *model.Resource) error {
	return execOne(r.pool.Exec(ctx,
		`UPDATE resources SET title = $1, slug = $2, resource_type = $3, class_type = $4, level = $5, url = $6,
		        description = $7, display_order = $8, is_public = $9, updated_at = NOW()
		 WHERE id = $10`,
		res.Title, res.Slug, res.ResourceType, res.ClassType, res.Level, res.URL, res.Description,
		res.DisplayOrder, res.IsPublic, res.ID))
}

func (r *ResourceRepository) Delete(ctx context.Context, id int) error {
	return execOne(r.pool.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id))
}
