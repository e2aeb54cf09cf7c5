package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saborconflow/studio-backend/internal/middleware"
	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/response"
	"github.com/saborconflow/studio-backend/internal/service"
	"github.com/saborconflow/studio-backend/internal/validator"
)

// AuthHandler handles staff authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// AdminLogin godoc
// POST /api/v1/admin/auth/login
// Validates email + password, returns JWT with permissions.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res)
}

// GetAdminProfile godoc
// GET /api/v1/admin/auth/me
// Returns the profile of the currently authenticated staff member.
func (h *AuthHandler) GetAdminProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	admin, permissions, err := h.authService.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"admin":       admin,
		"permissions": permissions,
	})
}
