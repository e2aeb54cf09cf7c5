package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/response"
	"github.com/saborconflow/studio-backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeValidator map[string]*service.Claims

func (f fakeValidator) ValidateToken(token string) (*service.Claims, error) {
	if token == "expired" {
		return nil, fmt.Errorf("parse: %w", jwt.ErrTokenExpired)
	}
	if c, ok := f[token]; ok {
		return c, nil
	}
	return nil, errors.New("bad signature")
}

var testTokens = fakeValidator{
	"owner": {TokenType: service.TokenTypeAdmin, UserID: 1, Permissions: []string{
		string(model.PermissionTestimonialsRead), string(model.PermissionBookingsWrite),
	}},
	"desk":    {TokenType: service.TokenTypeAdmin, UserID: 2, Permissions: []string{string(model.PermissionContactsRead)}},
	"student": {TokenType: "student", UserID: 3},
}

func do(r http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) response.ErrCode {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body.Error.Code
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": {"Bearer " + token}}
}

func TestRequireAdminJWT(t *testing.T) {
	r := gin.New()
	r.GET("/admin", RequireAdminJWT(testTokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetClaims(c).UserID})
	})

	tests := []struct {
		name   string
		header http.Header
		status int
		code   response.ErrCode
	}{
		{"missing header", nil, http.StatusUnauthorized, response.ErrTokenRequired},
		{"wrong scheme", http.Header{"Authorization": {"Basic abc"}}, http.StatusUnauthorized, response.ErrTokenRequired},
		{"expired", bearer("expired"), http.StatusUnauthorized, response.ErrTokenExpired},
		{"invalid", bearer("forged"), http.StatusUnauthorized, response.ErrTokenInvalid},
		{"non-admin token", bearer("student"), http.StatusForbidden, response.ErrAdminAccessOnly},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, "/admin", tt.header)
			require.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}

	t.Run("valid", func(t *testing.T) {
		w := do(r, http.MethodGet, "/admin", bearer("owner"))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":1}`, w.Body.String())
	})
}

func TestRequireAdminWSAuthReadsQueryToken(t *testing.T) {
	r := gin.New()
	r.GET("/ws", RequireAdminWSAuth(testTokens), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodGet, "/ws?token=owner", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/ws", bearer("owner")).Code)
}

func TestRequirePermission(t *testing.T) {
	r := gin.New()
	r.Use(RequireAdminJWT(testTokens))
	r.GET("/testimonials", RequirePermission(model.PermissionTestimonialsRead), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/inbox", RequireAnyPermission(model.PermissionContactsRead, model.PermissionBookingsRead), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/testimonials", bearer("owner")).Code)

	w := do(r, http.MethodGet, "/testimonials", bearer("desk"))
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, response.ErrPermissionDenied, errorCode(t, w))

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/inbox", bearer("desk")).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/inbox", bearer("owner")).Code)
}

func TestRequirePermissionWithoutClaims(t *testing.T) {
	r := gin.New()
	r.GET("/", RequirePermission(model.PermissionSettingsRead), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.ErrTokenRequired, errorCode(t, w))
}

func newTestLimiter(t *testing.T, limit int) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	rl := NewRateLimiter(rdb, "forms", limit, time.Minute, zerolog.Nop())
	fixed := time.Date(2026, 3, 2, 10, 0, 30, 0, time.UTC)
	rl.now = func() time.Time { return fixed }
	return rl, mr
}

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	rl, _ := newTestLimiter(t, 2)
	r := gin.New()
	r.POST("/contact", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	first := do(r, http.MethodPost, "/contact", nil)
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/contact", nil).Code)

	blocked := do(r, http.MethodPost, "/contact", nil)
	require.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, response.ErrRateLimitExceeded, errorCode(t, blocked))
	assert.Equal(t, "0", blocked.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "31", blocked.Header().Get("Retry-After"))
}

func TestRateLimiterWindowResets(t *testing.T) {
	rl, _ := newTestLimiter(t, 1)
	r := gin.New()
	r.POST("/rsvp", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/rsvp", nil).Code)
	require.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/rsvp", nil).Code)

	next := rl.now().Add(time.Minute)
	rl.now = func() time.Time { return next }
	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/rsvp", nil).Code)
}

func TestRateLimiterFailsOpen(t *testing.T) {
	rl, mr := newTestLimiter(t, 1)
	mr.Close()

	r := gin.New()
	r.POST("/bookings", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/bookings", nil).Code)
	}
}

func TestCacheControl(t *testing.T) {
	r := gin.New()
	r.Use(CacheControl(300))
	r.GET("/schedule", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"days": []string{}}) })
	r.GET("/instructors/:slug", func(c *gin.Context) { response.Fail(c, http.StatusNotFound, response.ErrNotFound) })
	r.POST("/contact", func(c *gin.Context) { c.Status(http.StatusCreated) })

	assert.Equal(t, "public, max-age=300", do(r, http.MethodGet, "/schedule", nil).Header().Get("Cache-Control"))
	assert.Equal(t, "no-store", do(r, http.MethodGet, "/instructors/nobody", nil).Header().Get("Cache-Control"))
	assert.Empty(t, do(r, http.MethodPost, "/contact", nil).Header().Get("Cache-Control"))
}

func TestNoStore(t *testing.T) {
	r := gin.New()
	r.GET("/", NoStore(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, "no-store", do(r, http.MethodGet, "/", nil).Header().Get("Cache-Control"))
}
