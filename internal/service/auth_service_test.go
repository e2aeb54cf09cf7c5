package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saborconflow/studio-backend/internal/model"
)

func TestLoginIssuesTokenWithPermissions(t *testing.T) {
	_, auth, admins, _ := newStaffFixture(t)
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	admins.rows[7] = &model.Admin{ID: 7, Email: "owner@saborconflow.test", PasswordHash: hash, RoleID: 1}

	res, err := auth.Login(context.Background(), "owner@saborconflow.test", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, 7, res.Admin.ID)
	assert.Equal(t, []string{string(model.PermissionStaffManage)}, res.Permissions)

	claims, err := auth.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, 1, claims.RoleID)
	assert.Equal(t, TokenTypeAdmin, claims.TokenType)
	assert.Equal(t, res.Permissions, claims.Permissions)
}

func TestLoginFailuresLookAlike(t *testing.T) {
	_, auth, admins, _ := newStaffFixture(t)
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	admins.rows[7] = &model.Admin{ID: 7, Email: "owner@saborconflow.test", PasswordHash: hash, RoleID: 1}
	ctx := context.Background()

	_, err = auth.Login(ctx, "owner@saborconflow.test", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, "nobody@saborconflow.test", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRejectsForeignTokens(t *testing.T) {
	_, auth, _, _ := newStaffFixture(t)

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{TokenType: TokenTypeAdmin, UserID: 1})
	signed, err := other.SignedString([]byte("another-secret"))
	require.NoError(t, err)
	_, err = auth.ValidateToken(signed)
	assert.Error(t, err)

	wrongType := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		TokenType:        "student",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	signed, err = wrongType.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = auth.ValidateToken(signed)
	assert.Error(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		TokenType:        TokenTypeAdmin,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	})
	signed, err = expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = auth.ValidateToken(signed)
	assert.Error(t, err)
}
