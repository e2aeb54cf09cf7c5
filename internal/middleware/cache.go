package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// cacheWriter picks the Cache-Control value once the status code is known,
// so error responses are never cached.
type cacheWriter struct {
	gin.ResponseWriter
	value string
}

func (w *cacheWriter) WriteHeader(code int) {
	if code < http.StatusBadRequest {
		w.Header().Set("Cache-Control", w.value)
	} else {
		w.Header().Set("Cache-Control", "no-store")
	}
	w.ResponseWriter.WriteHeader(code)
}

// CacheControl marks successful GET responses as cacheable by browsers and CDNs.
func CacheControl(maxAgeSeconds int) gin.HandlerFunc {
	value := fmt.Sprintf("public, max-age=%d", maxAgeSeconds)
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Next()
			return
		}
		c.Header("Cache-Control", value)
		c.Writer = &cacheWriter{ResponseWriter: c.Writer, value: value}
		c.Next()
	}
}

// NoStore disables caching, used for admin and token-bearing routes.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
