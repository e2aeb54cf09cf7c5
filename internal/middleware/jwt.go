package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/saborconflow/studio-backend/internal/response"
	"github.com/saborconflow/studio-backend/internal/service"
)

const (
	// ContextKeyClaims is the Gin context key for JWT claims.
	ContextKeyClaims = "claims"
)

var errNoToken = errors.New("authorization header or token query required")

// TokenValidator parses and verifies a signed token.
type TokenValidator interface {
	ValidateToken(tokenStr string) (*service.Claims, error)
}

// RequireAdminJWT validates a staff JWT from the Authorization header.
func RequireAdminJWT(auth TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorize(c, auth, bearerToken(c))
	}
}

// RequireAdminWSAuth validates a staff JWT from the query param ?token=...
// Used for WebSocket upgrade requests, which cannot carry headers from browsers.
func RequireAdminWSAuth(auth TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorize(c, auth, c.Query("token"))
	}
}

func authorize(c *gin.Context, auth TokenValidator, tokenStr string) {
	claims, err := validate(auth, tokenStr)
	if err != nil {
		code := response.ErrTokenInvalid
		switch {
		case errors.Is(err, errNoToken):
			code = response.ErrTokenRequired
		case errors.Is(err, jwt.ErrTokenExpired):
			code = response.ErrTokenExpired
		}
		response.AbortFail(c, http.StatusUnauthorized, code)
		return
	}

	if claims.TokenType != service.TokenTypeAdmin {
		response.AbortFail(c, http.StatusForbidden, response.ErrAdminAccessOnly)
		return
	}

	c.Set(ContextKeyClaims, claims)
	c.Next()
}

// GetClaims retrieves the JWT claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func validate(auth TokenValidator, tokenStr string) (*service.Claims, error) {
	if tokenStr == "" {
		return nil, errNoToken
	}
	return auth.ValidateToken(tokenStr)
}
