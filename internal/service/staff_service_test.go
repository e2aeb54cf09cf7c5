package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/repository"
)

type fakeAdmins struct {
	rows   map[int]*model.Admin
	nextID int
}

func (f *fakeAdmins) GetByID(_ context.Context, id int) (*model.Admin, error) {
	a, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAdmins) GetByEmail(_ context.Context, email string) (*model.Admin, error) {
	for _, a := range f.rows {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAdmins) TouchLastLogin(context.Context, int) error { return nil }

func (f *fakeAdmins) List(context.Context, int, int, int) ([]model.Admin, int, error) {
	out := make([]model.Admin, 0, len(f.rows))
	for _, a := range f.rows {
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (f *fakeAdmins) Create(_ context.Context, a *model.Admin) error {
	for _, existing := range f.rows {
		if existing.Email == a.Email {
			return repository.ErrDuplicate
		}
	}
	f.nextID++
	a.ID = f.nextID
	cp := *a
	f.rows[a.ID] = &cp
	return nil
}

func (f *fakeAdmins) Update(_ context.Context, a *model.Admin) error {
	cur, ok := f.rows[a.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Email, cur.Name, cur.RoleID = a.Email, a.Name, a.RoleID
	if a.PasswordHash != "" {
		cur.PasswordHash = a.PasswordHash
	}
	return nil
}

func (f *fakeAdmins) Delete(_ context.Context, id int) error {
	if _, ok := f.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeRoles struct {
	roles  map[int]*model.RoleWithPermissions
	admins map[int]int
	nextID int
}

func newFakeRoles() *fakeRoles {
	return &fakeRoles{
		roles: map[int]*model.RoleWithPermissions{
			1: {Role: &model.Role{ID: 1, Name: OwnerRole}, Permissions: []string{string(model.PermissionStaffManage)}},
			2: {Role: &model.Role{ID: 2, Name: "Front Desk"}, Permissions: []string{string(model.PermissionBookingsWrite)}},
		},
		admins: map[int]int{1: 1},
		nextID: 2,
	}
}

func (f *fakeRoles) GetPermissionsByRoleID(_ context.Context, id int) ([]string, error) {
	r, ok := f.roles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.Permissions, nil
}

func (f *fakeRoles) GetRoleByID(_ context.Context, id int) (*model.RoleWithPermissions, error) {
	r, ok := f.roles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r, nil
}

func (f *fakeRoles) ListRolesWithPermissions(context.Context) ([]model.RoleWithPermissions, error) {
	out := make([]model.RoleWithPermissions, 0, len(f.roles))
	for _, r := range f.roles {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRoles) SaveRole(_ context.Context, id int, name string, perms []string) (int, error) {
	if id == 0 {
		f.nextID++
		id = f.nextID
	}
	f.roles[id] = &model.RoleWithPermissions{Role: &model.Role{ID: id, Name: name}, Permissions: perms}
	return id, nil
}

func (f *fakeRoles) CountAdmins(_ context.Context, id int) (int, error) { return f.admins[id], nil }

func (f *fakeRoles) DeleteRole(_ context.Context, id int) error {
	delete(f.roles, id)
	return nil
}

func newStaffFixture(t *testing.T) (*StaffService, *AuthService, *fakeAdmins, *fakeRoles) {
	t.Helper()
	admins := &fakeAdmins{rows: map[int]*model.Admin{}}
	roles := newFakeRoles()
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour, BcryptCost: bcrypt.MinCost}
	auth := NewAuthService(cfg, admins, roles, zerolog.Nop())
	return NewStaffService(admins, roles, auth, zerolog.Nop()), auth, admins, roles
}

func TestCreateAdminHashesPassword(t *testing.T) {
	svc, auth, admins, _ := newStaffFixture(t)

	a, err := svc.CreateAdmin(context.Background(), model.StaffRequest{
		Email: " Desk@SaborConFlow.test ", Name: "Front Desk", Password: "s3cret-pass", RoleID: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "desk@saborconflow.test", a.Email)
	require.NoError(t, auth.CheckPassword(admins.rows[a.ID].PasswordHash, "s3cret-pass"))
}

func TestCreateAdminValidation(t *testing.T) {
	svc, _, _, _ := newStaffFixture(t)
	ctx := context.Background()

	_, err := svc.CreateAdmin(ctx, model.StaffRequest{Email: "a@b.test", Name: "A", RoleID: 2})
	assert.ErrorIs(t, err, ErrPasswordRequired)

	_, err = svc.CreateAdmin(ctx, model.StaffRequest{Email: "a@b.test", Name: "A", Password: "password1", RoleID: 42})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateAdminKeepsPasswordWhenEmpty(t *testing.T) {
	svc, auth, admins, _ := newStaffFixture(t)
	ctx := context.Background()

	a, err := svc.CreateAdmin(ctx, model.StaffRequest{Email: "a@b.test", Name: "A", Password: "password1", RoleID: 2})
	require.NoError(t, err)

	_, err = svc.UpdateAdmin(ctx, a.ID, model.StaffRequest{Email: "a@b.test", Name: "Renamed", RoleID: 2})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", admins.rows[a.ID].Name)
	assert.NoError(t, auth.CheckPassword(admins.rows[a.ID].PasswordHash, "password1"))
}

func TestDeleteAdminNotSelf(t *testing.T) {
	svc, _, _, _ := newStaffFixture(t)
	assert.ErrorIs(t, svc.DeleteAdmin(context.Background(), 5, 5), ErrSelfDelete)
}

func TestOwnerRoleIsProtected(t *testing.T) {
	svc, _, _, _ := newStaffFixture(t)
	ctx := context.Background()

	_, err := svc.UpdateRole(ctx, 1, model.RoleRequest{Name: "Boss"})
	assert.ErrorIs(t, err, ErrProtectedRole)
	assert.ErrorIs(t, svc.DeleteRole(ctx, 1), ErrProtectedRole)

	_, err = svc.CreateRole(ctx, model.RoleRequest{Name: "owner"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestDeleteRoleInUse(t *testing.T) {
	svc, _, _, roles := newStaffFixture(t)
	roles.admins[2] = 3

	assert.ErrorIs(t, svc.DeleteRole(context.Background(), 2), ErrRoleInUse)

	roles.admins[2] = 0
	require.NoError(t, svc.DeleteRole(context.Background(), 2))
	assert.NotContains(t, roles.roles, 2)
}

func TestCreateRoleDropsUnknownPermissions(t *testing.T) {
	svc, _, _, _ := newStaffFixture(t)

	r, err := svc.CreateRole(context.Background(), model.RoleRequest{
		Name: "Moderator",
		Permissions: []string{
			string(model.PermissionTestimonialsModerate), "exams:write", string(model.PermissionTestimonialsModerate),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{string(model.PermissionTestimonialsModerate)}, r.Permissions)
}
