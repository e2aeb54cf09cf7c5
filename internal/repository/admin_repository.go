package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saborconflow/studio-backend/internal/model"
)

const adminColumns = `a.id, a.email, a.name, a.password_hash, a.role_id, r.name, a.last_login_at, a.created_at, a.updated_at`

// AdminRepository handles staff account data access.
type AdminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository creates a new AdminRepository.
func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

func scanAdmin(row pgx.Row) (*model.Admin, error) {
	a := &model.Admin{}
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.RoleID, &a.RoleName, &a.LastLoginAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return a, nil
}

// GetByID retrieves an admin by ID.
func (r *AdminRepository) GetByID(ctx context.Context, id int) (*model.Admin, error) {
	return scanAdmin(r.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admins a JOIN roles r ON a.role_id = r.id WHERE a.id = $1`, id))
}

// GetByEmail retrieves an admin by their unique email, case-insensitively.
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	return scanAdmin(r.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admins a JOIN roles r ON a.role_id = r.id WHERE LOWER(a.email) = LOWER($1)`, email))
}

// List retrieves staff accounts, newest first, optionally filtered by role.
func (r *AdminRepository) List(ctx context.Context, roleID, limit, offset int) ([]model.Admin, int, error) {
	var w where
	if roleID > 0 {
		w.add("a.role_id = ?", roleID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admins a`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + adminColumns + ` FROM admins a JOIN roles r ON a.role_id = r.id` + w.String() +
		` ORDER BY a.created_at DESC` + w.page(limit, offset)
	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	admins := []model.Admin{}
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, 0, err
		}
		admins = append(admins, *a)
	}
	return admins, total, rows.Err()
}

// Create inserts a new admin.
func (r *AdminRepository) Create(ctx context.Context, a *model.Admin) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO admins (email, name, password_hash, role_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		a.Email, a.Name, a.PasswordHash, a.RoleID,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return translate(err)
}

// Update saves email, name and role. An empty PasswordHash keeps the current password.
func (r *AdminRepository) Update(ctx context.Context, a *model.Admin) error {
	return execOne(r.pool.Exec(ctx,
		`UPDATE admins SET email = $1, name = $2, role_id = $3,
		        password_hash = COALESCE(NULLIF($4, ''), password_hash), updated_at = NOW()
		 WHERE id = $5`,
		a.Email, a.Name, a.RoleID, a.PasswordHash, a.ID))
}

// TouchLastLogin records a successful login.
func (r *AdminRepository) TouchLastLogin(ctx context.Context, id int) error {
	return execOne(r.pool.Exec(ctx, `UPDATE admins SET last_login_at = NOW() WHERE id = $1`, id))
}

// Delete removes an admin.
func (r *AdminRepository) Delete(ctx context.Context, id int) error {
	return execOne(r.pool.Exec(ctx, `DELETE FROM admins WHERE id = $1`, id))
}
