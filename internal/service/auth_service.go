package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/repository"
)

// TokenTypeAdmin marks tokens issued to staff accounts.
const TokenTypeAdmin = "admin"

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	TokenType   string   `json:"token_type"`
	UserID      int      `json:"user_id"`
	RoleID      int      `json:"role_id"`
	Permissions []string `json:"permissions"`
}

type adminStore interface {
	GetByID(ctx context.Context, id int) (*model.Admin, error)
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	TouchLastLogin(ctx context.Context, id int) error
}

type permissionStore interface {
	GetPermissionsByRoleID(ctx context.Context, roleID int) ([]string, error)
}

// AuthService handles admin authentication and JWT issuing.
type AuthService struct {
	cfg    *config.Config
	admins adminStore
	roles  permissionStore
	log    zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, admins adminStore, roles permissionStore, log zerolog.Logger) *AuthService {
	return &AuthService{
		cfg:    cfg,
		admins: admins,
		roles:  roles,
		log:    log.With().Str("component", "auth_service").Logger(),
	}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Login verifies credentials and issues a token carrying the role's permissions.
// Unknown emails and wrong passwords both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.AdminLoginResponse, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.CheckPassword(admin.PasswordHash, password); err != nil {
		s.log.Warn().Str("email", email).Msg("Failed admin login")
		return nil, err
	}

	permissions, err := s.roles.GetPermissionsByRoleID(ctx, admin.RoleID)
	if err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}

	token, err := s.GenerateAdminToken(admin.ID, admin.RoleID, permissions)
	if err != nil {
		return nil, err
	}

	if err := s.admins.TouchLastLogin(ctx, admin.ID); err != nil {
		s.log.Warn().Err(err).Int("admin_id", admin.ID).Msg("Failed to record last login")
	}

	return &model.AdminLoginResponse{Token: token, Admin: *admin, Permissions: permissions}, nil
}

// Me returns the current admin and the permissions their role holds now.
func (s *AuthService) Me(ctx context.Context, adminID int) (*model.Admin, []string, error) {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return nil, nil, err
	}
	permissions, err := s.roles.GetPermissionsByRoleID(ctx, admin.RoleID)
	if err != nil {
		return nil, nil, err
	}
	return admin, permissions, nil
}

// GenerateAdminToken creates a JWT for an admin with permissions embedded.
func (s *AuthService) GenerateAdminToken(adminID, roleID int, permissions []string) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   strconv.Itoa(adminID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		TokenType:   TokenTypeAdmin,
		UserID:      adminID,
		RoleID:      roleID,
		Permissions: permissions,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.TokenType != TokenTypeAdmin {
		return nil, errors.New("unexpected token type")
	}

	return claims, nil
}
