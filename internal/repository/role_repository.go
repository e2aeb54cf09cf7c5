package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saborconflow/studio-backend/internal/model"
)

// RoleRepository handles role and permission data access.
type RoleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository creates a new RoleRepository.
func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

// GetPermissionsByRoleID retrieves all permission codes for a given role.
func (r *RoleRepository) GetPermissionsByRoleID(ctx context.Context, roleID int) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.code
		 FROM permissions p
		 JOIN role_permissions rp ON p.id = rp.permission_id
		 WHERE rp.role_id = $1
		 ORDER BY p.code`, roleID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	permissions := []string{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		permissions = append(permissions, code)
	}
	return permissions, rows.Err()
}

// GetRoleByID retrieves a role and its permissions by ID.
func (r *RoleRepository) GetRoleByID(ctx context.Context, id int) (*model.RoleWithPermissions, error) {
	role := &model.Role{ID: id}
	err := r.pool.QueryRow(ctx, "SELECT name, created_at FROM roles WHERE id = $1", id).Scan(&role.Name, &role.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}

	permissions, err := r.GetPermissionsByRoleID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &model.RoleWithPermissions{Role: role, Permissions: permissions}, nil
}

// GetRoleByName retrieves a role by its unique name.
func (r *RoleRepository) GetRoleByName(ctx context.Context, name string) (*model.Role, error) {
	role := &model.Role{}
	err := r.pool.QueryRow(ctx, "SELECT id, name, created_at FROM roles WHERE name = $1", name).
		Scan(&role.ID, &role.Name, &role.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return role, nil
}

// ListRolesWithPermissions retrieves all roles with their permissions in one query.
func (r *RoleRepository) ListRolesWithPermissions(ctx context.Context) ([]model.RoleWithPermissions, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.name, r.created_at,
		        COALESCE(array_agg(p.code ORDER BY p.code) FILTER (WHERE p.code IS NOT NULL), '{}')
		 FROM roles r
		 LEFT JOIN role_permissions rp ON rp.role_id = r.id
		 LEFT JOIN permissions p ON p.id = rp.permission_id
		 GROUP BY r.id
		 ORDER BY r.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := []model.RoleWithPermissions{}
	for rows.Next() {
		role := &model.Role{}
		var permissions []string
		if err := rows.Scan(&role.ID, &role.Name, &role.CreatedAt, &permissions); err != nil {
			return nil, err
		}
		roles = append(roles, model.RoleWithPermissions{Role: role, Permissions: permissions})
	}
	return roles, rows.Err()
}

// SaveRole creates (id == 0) or renames a role and replaces its permission set
// in a single transaction. Unknown permission codes are ignored.
func (r *RoleRepository) SaveRole(ctx context.Context, id int, name string, permissionCodes []string) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if id == 0 {
		if err := tx.QueryRow(ctx, "INSERT INTO roles (name) VALUES ($1) RETURNING id", name).Scan(&id); err != nil {
			return 0, translate(err)
		}
	} else {
		if err := execOne(tx.Exec(ctx, "UPDATE roles SET name = $1 WHERE id = $2", name, id)); err != nil {
			return 0, err
		}
		if _, err := tx.Exec(ctx, "DELETE FROM role_permissions WHERE role_id = $1", id); err != nil {
			return 0, err
		}
	}

	if len(permissionCodes) > 0 {
		_, err = tx.Exec(ctx,
			`INSERT INTO role_permissions (role_id, permission_id)
			 SELECT $1, id FROM permissions WHERE code = ANY($2)`,
			id, permissionCodes)
		if err != nil {
			return 0, translate(err)
		}
	}

	return id, tx.Commit(ctx)
}

// CountAdmins returns how many staff accounts hold the role.
func (r *RoleRepository) CountAdmins(ctx context.Context, roleID int) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM admins WHERE role_id = $1", roleID).Scan(&n)
	return n, err
}

// DeleteRole removes a role. Fails with ErrReferenced while admins still hold it.
func (r *RoleRepository) DeleteRole(ctx context.Context, id int) error {
	return execOne(r.pool.Exec(ctx, "DELETE FROM roles WHERE id = $1", id))
}

// ListPermissions returns every permission code known to the database.
func (r *RoleRepository) ListPermissions(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, "SELECT code FROM permissions ORDER BY code")
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
