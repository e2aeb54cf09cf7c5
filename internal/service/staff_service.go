package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/repository"
)

// OwnerRole is the seeded role holding every permission. It cannot be edited or deleted.
const OwnerRole = "Owner"

type staffStore interface {
	GetByID(ctx context.Context, id int) (*model.Admin, error)
	List(ctx context.Context, roleID, limit, offset int) ([]model.Admin, int, error)
	Create(ctx context.Context, a *model.Admin) error
	Update(ctx context.Context, a *model.Admin) error
	Delete(ctx context.Context, id int) error
}

type roleStore interface {
	GetRoleByID(ctx context.Context, id int) (*model.RoleWithPermissions, error)
	ListRolesWithPermissions(ctx context.Context) ([]model.RoleWithPermissions, error)
	SaveRole(ctx context.Context, id int, name string, permissions []string) (int, error)
	CountAdmins(ctx context.Context, roleID int) (int, error)
	DeleteRole(ctx context.Context, id int) error
}

// StaffService manages staff accounts and the roles that grant them permissions.
type StaffService struct {
	admins staffStore
	roles  roleStore
	auth   *AuthService
	log    zerolog.Logger
}

func NewStaffService(admins staffStore, roles roleStore, auth *AuthService, log zerolog.Logger) *StaffService {
	return &StaffService{
		admins: admins,
		roles:  roles,
		auth:   auth,
		log:    log.With().Str("component", "staff_service").Logger(),
	}
}

// ListAdmins retrieves a paginated list of staff accounts.
func (s *StaffService) ListAdmins(ctx context.Context, roleID, page, perPage int) ([]model.Admin, int, error) {
	_, perPage, offset := normalizePage(page, perPage)
	return s.admins.List(ctx, roleID, perPage, offset)
}

// CreateAdmin creates a staff account. Duplicate emails fail with repository.ErrDuplicate.
func (s *StaffService) CreateAdmin(ctx context.Context, req model.StaffRequest) (*model.Admin, error) {
	if req.Password == "" {
		return nil, ErrPasswordRequired
	}
	if _, err := s.roles.GetRoleByID(ctx, req.RoleID); err != nil {
		return nil, err
	}
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	admin := &model.Admin{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		RoleID:       req.RoleID,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}
	s.log.Info().Int("admin_id", admin.ID).Str("email", admin.Email).Msg("Staff account created")
	return s.admins.GetByID(ctx, admin.ID)
}

// UpdateAdmin updates a staff account. An empty password keeps the current one.
func (s *StaffService) UpdateAdmin(ctx context.Context, id int, req model.StaffRequest) (*model.Admin, error) {
	if _, err := s.roles.GetRoleByID(ctx, req.RoleID); err != nil {
		return nil, err
	}
	admin := &model.Admin{
		ID:     id,
		Email:  strings.ToLower(strings.TrimSpace(req.Email)),
		Name:   strings.TrimSpace(req.Name),
		RoleID: req.RoleID,
	}
	if req.Password != "" {
		hash, err := s.auth.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		admin.PasswordHash = hash
	}
	if err := s.admins.Update(ctx, admin); err != nil {
		return nil, err
	}
	return s.admins.GetByID(ctx, id)
}

// DeleteAdmin removes a staff account. Staff cannot delete themselves.
func (s *StaffService) DeleteAdmin(ctx context.Context, currentID, id int) error {
	if currentID == id {
		return ErrSelfDelete
	}
	return s.admins.Delete(ctx, id)
}

// ListRoles retrieves all roles with their permissions.
func (s *StaffService) ListRoles(ctx context.Context) ([]model.RoleWithPermissions, error) {
	return s.roles.ListRolesWithPermissions(ctx)
}

// GetRole retrieves a specific role and its permissions.
func (s *StaffService) GetRole(ctx context.Context, id int) (*model.RoleWithPermissions, error) {
	return s.roles.GetRoleByID(ctx, id)
}

// CreateRole creates a role with the given permissions.
func (s *StaffService) CreateRole(ctx context.Context, req model.RoleRequest) (*model.RoleWithPermissions, error) {
	if strings.EqualFold(strings.TrimSpace(req.Name), OwnerRole) {
		return nil, repository.ErrDuplicate
	}
	id, err := s.roles.SaveRole(ctx, 0, strings.TrimSpace(req.Name), knownPermissions(req.Permissions))
	if err != nil {
		return nil, err
	}
	return s.roles.GetRoleByID(ctx, id)
}

// UpdateRole renames a role and replaces its permissions.
func (s *StaffService) UpdateRole(ctx context.Context, id int, req model.RoleRequest) (*model.RoleWithPermissions, error) {
	if err := s.guardOwner(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.roles.SaveRole(ctx, id, strings.TrimSpace(req.Name), knownPermissions(req.Permissions)); err != nil {
		return nil, err
	}
	return s.roles.GetRoleByID(ctx, id)
}

// DeleteRole deletes a role no staff account holds.
func (s *StaffService) DeleteRole(ctx context.Context, id int) error {
	if err := s.guardOwner(ctx, id); err != nil {
		return err
	}
	n, err := s.roles.CountAdmins(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrRoleInUse
	}
	err = s.roles.DeleteRole(ctx, id)
	if errors.Is(err, repository.ErrReferenced) {
		return ErrRoleInUse
	}
	return err
}

// AllPermissions lists every permission code a role can be granted.
func (s *StaffService) AllPermissions() []string {
	perms := make([]string, len(model.AllPermissions))
	for i, p := range model.AllPermissions {
		perms[i] = string(p)
	}
	return perms
}

func (s *StaffService) guardOwner(ctx context.Context, id int) error {
	role, err := s.roles.GetRoleByID(ctx, id)
	if err != nil {
		return err
	}
	if role.Name == OwnerRole {
		return ErrProtectedRole
	}
	return nil
}

// knownPermissions drops codes that are not defined permissions and duplicates.
func knownPermissions(codes []string) []string {
	valid := make(map[string]bool, len(model.AllPermissions))
	for _, p := range model.AllPermissions {
		valid[string(p)] = true
	}
	out := make([]string, 0, len(codes))
	seen := make(map[string]bool, len(codes))
	for _, c := range codes {
		if valid[c] && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
