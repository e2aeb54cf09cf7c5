package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saborconflow/studio-backend/internal/model"
)

const instructorColumns = `id, name, slug, bio, photo_url, instagram_handle, specialties, is_featured,
	display_order, created_at, updated_at`

// InstructorRepository handles instructor data access.
type InstructorRepository struct {
	pool *pgxpool.Pool
}

func NewInstructorRepository(pool *pgxpool.Pool) *InstructorRepository {
	return &InstructorRepository{pool: pool}
}

func scanInstructor(row pgx.Row) (*model.Instructor, error) {
	i := &model.Instructor{}
	err := row.Scan(&i.ID, &i.Name, &i.Slug, &i.Bio, &i.PhotoURL, &i.InstagramHandle, &i.Specialties,
		&i.IsFeatured, &i.DisplayOrder, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return i, nil
}

// List returns instructors in display order; featuredOnly narrows to the home page set.
func (r *InstructorRepository) List(ctx context.Context, featuredOnly bool) ([]model.Instructor, error) {
	query := `SELECT ` + instructorColumns + ` FROM instructors`
	if featuredOnly {
		query += ` WHERE is_featured`
	}
	rows, err := r.pool.Query(ctx, query+` ORDER BY display_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Instructor{}
	for rows.Next() {
		i, err := scanInstructor(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *i)
	}
	return list, rows.Err()
}

func (r *InstructorRepository) GetByID(ctx context.Context, id int) (*model.Instructor, error) {
	return scanInstructor(r.pool.QueryRow(ctx, `SELECT `+instructorColumns+` FROM instructors WHERE id = $1`, id))
}

func (r *InstructorRepository) GetBySlug(ctx context.Context, slug string) (*model.Instructor, error) {
	return scanInstructor(r.pool.QueryRow(ctx, `SELECT `+instructorColumns+` FROM instructors WHERE slug = $1`, slug))
}

func (r *InstructorRepository) Create(ctx context.Context, i *model.Instructor) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO instructors (name, slug, bio, photo_url, instagram_handle, specialties, is_featured, display_order)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		i.Name, i.Slug, i.Bio, i.PhotoURL, i.InstagramHandle, i.Specialties, i.IsFeatured, i.DisplayOrder,
	).Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt)
	return translate(err)
}

func (r *InstructorRepository) Update(ctx context.Context, i *model.Instructor) error {
	return execOne(r.pool.Exec(ctx,
		`UPDATE instructors SET name = $1, slug = $2, bio = $3, photo_url = $4, instagram_handle = $5,
		        specialties = $6, is_featured = $7, display_order = $8, updated_at = NOW()
		 WHERE id = $9`,
		i.Name, i.Slug, i.Bio, i.PhotoURL, i.InstagramHandle, i.Specialties, i.IsFeatured, i.DisplayOrder, i.ID))
}

// SetPhoto replaces the profile photo URL.
func (r *InstructorRepository) SetPhoto(ctx context.Context, id int, url string) error {
	return execOne(r.pool.Exec(ctx,
		`UPDATE instructors SET photo_url = $1, updated_at = NOW() WHERE id = $2`, url, id))
}

func (r *InstructorRepository) Delete(ctx context.Context, id int) error {
	return execOne(r.pool.Exec(ctx, `DELETE FROM instructors WHERE id = $1`, id))
}
