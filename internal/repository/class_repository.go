package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saborconflow/studio-backend/internal/model"
)

const classColumns = `c.id, c.name, c.slug, c.class_type, c.level, c.description, c.instructor_id,
	COALESCE(i.name, ''), c.day_of_week, to_char(c.start_time, 'HH24:MI'), to_char(c.end_time, 'HH24:MI'),
	c.location, c.capacity, c.price_cents, c.is_active, c.created_at, c.updated_at`

const classFrom = ` FROM classes c LEFT JOIN instructors i ON i.id = c.instructor_id`

// ClassRepository handles schedule data access.
type ClassRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

func scanClass(row pgx.Row) (*model.Class, error) {
	c := &model.Class{}
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.ClassType, &c.Level, &c.Description, &c.InstructorID,
		&c.InstructorName, &c.DayOfWeek, &c.StartTime, &c.EndTime,
		&c.Location, &c.Capacity, &c.PriceCents, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (r *ClassRepository) query(ctx context.Context, sql string, args ...interface{}) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classes := []model.Class{}
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, *c)
	}
	return classes, rows.Err()
}

// ListActive returns the active classes in weekly order.
func (r *ClassRepository) ListActive(ctx context.Context) ([]model.Class, error) {
	return r.query(ctx, `SELECT `+classColumns+classFrom+` WHERE c.is_active ORDER BY c.day_of_week, c.start_time, c.id`)
}

// List returns every class in weekly order.
func (r *ClassRepository) List(ctx context.Context) ([]model.Class, error) {
	return r.query(ctx, `SELECT `+classColumns+classFrom+` ORDER BY c.day_of_week, c.start_time, c.id`)
}

// ListByInstructor returns the active classes taught by one instructor.
func (r *ClassRepository) ListByInstructor(ctx context.Context, instructorID int) ([]model.Class, error) {
	return r.query(ctx, `SELECT `+classColumns+classFrom+
		` WHERE c.is_active AND c.instructor_id = $1 ORDER BY c.day_of_week, c.start_time`, instructorID)
}

// GetByID retrieves a class by ID.
func (r *ClassRepository) GetByID(ctx context.Context, id int) (*model.Class, error) {
	return scanClass(r.pool.QueryRow(ctx, `SELECT `+classColumns+classFrom+` WHERE c.id = $1`, id))
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, c *model.Class) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO classes (name, slug, class_type, level, description, instructor_id, day_of_week,
		                      start_time, end_time, location, capacity, price_cents, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8::time, $9::time, $10, $11, $12, $13)
		 RETURNING id, created_at, updated_at`,
		c.Name, c.Slug, c.ClassType, c.Level, c.Description, c.InstructorID, c.DayOfWeek,
		c.StartTime, c.EndTime, c.Location, c.Capacity, c.PriceCents, c.IsActive,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return translate(err)
}

// Update saves every editable field of a class.
func (r *ClassRepository) Update(ctx context.Context, c *model.Class) error {
	return execOne(r.pool.Exec(ctx,
		`UPDATE classes SET name = $1, slug = $2, class_type = $3, level = $4, description = $5,
		        instructor_id = $6, day_of_week = $7, start_time = $8::time, end_time = $9::time,
		        location = $10, capacity = $11, price_cents = $12, is_active = $13, updated_at = NOW()
		 WHERE id = $14`,
		c.Name, c.Slug, c.ClassType, c.Level, c.Description, c.InstructorID, c.DayOfWeek,
		c.StartTime, c.EndTime, c.Location, c.Capacity, c.PriceCents, c.IsActive, c.ID))
}

// Delete removes a class.
func (r *ClassRepository) Delete(ctx context.Context, id int) error {
	return execOne(r.pool.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id))
}
