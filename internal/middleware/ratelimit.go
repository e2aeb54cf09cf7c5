package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/response"
)

// RateLimiter is a per-IP fixed-window limiter backed by Redis, so the limit
// holds across every server instance.
type RateLimiter struct {
	rdb      *redis.Client
	group    string
	limit    int
	interval time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

// NewRateLimiter creates a RateLimiter allowing limit requests per interval.
// group separates counters of independently limited route groups.
func NewRateLimiter(rdb *redis.Client, group string, limit int, interval time.Duration, log zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		rdb:      rdb,
		group:    group,
		limit:    limit,
		interval: interval,
		now:      time.Now,
		log:      log.With().Str("component", "rate_limiter").Str("group", group).Logger(),
	}
}

// Middleware returns a Gin middleware that rate-limits requests by IP.
// Requests are let through when Redis is unavailable.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}

		now := rl.now()
		window := now.UnixNano() / int64(rl.interval)
		key := config.CacheKey.RateLimitKey(rl.group, c.ClientIP(), window)

		ctx := c.Request.Context()
		pipe := rl.rdb.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, rl.interval)
		if _, err := pipe.Exec(ctx); err != nil {
			rl.log.Warn().Err(err).Msg("Rate limit check failed, allowing request")
			c.Next()
			return
		}

		count := int(incr.Val())
		remaining := rl.limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if count > rl.limit {
			reset := time.Unix(0, (window+1)*int64(rl.interval)).Sub(now)
			c.Header("Retry-After", strconv.Itoa(int(reset.Seconds())+1))
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}

		c.Next()
	}
}
