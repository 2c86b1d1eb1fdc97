package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bookit/bookit-backend/internal/config"
	"github.com/bookit/bookit-backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// tokenBucketScript refills one token per interval up to capacity and takes
// one token per call. Returns {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local interval_ms = tonumber(ARGV[3])
	local ttl_seconds = tonumber(ARGV[4])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + intervals)
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

// RateLimiter is a Redis token bucket keyed by client IP and route
type RateLimiter struct {
	client redis.Scripter
	cfg    config.RateLimitConfig
	logger *logrus.Logger
	now    func() time.Time
}

// NewRateLimiter creates a rate limiter; client may be nil, which disables it
func NewRateLimiter(client redis.Scripter, cfg config.RateLimitConfig, logger *logrus.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Middleware limits requests. Redis failures let the request through.
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	if r == nil || r.client == nil || !r.cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := r.key(c)

		ttl := int64(r.cfg.TTL / time.Second)
		if ttl < 1 {
			ttl = 1
		}

		vals, err := tokenBucketScript.Run(c.Request.Context(), r.client, []string{key},
			r.now().UnixMilli(),
			r.cfg.Capacity,
			r.cfg.RefillInterval.Milliseconds(),
			ttl,
		).Int64Slice()
		if err != nil || len(vals) != 3 {
			r.logger.WithError(err).WithField("key", key).Warn("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		allowed, remaining, retryMs := vals[0] == 1, vals[1], vals[2]

		c.Header("X-RateLimit-Limit", strconv.Itoa(r.cfg.Capacity))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !allowed {
			retryAfter := int64(math.Ceil(float64(retryMs) / 1000.0))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))

			r.logger.WithFields(logrus.Fields{
				"key":         key,
				"retry_after": retryAfter,
			}).Warn("Rate limit exceeded")

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Too many requests, please try again later",
				"error":   "rate_limited",
			})
			return
		}

		c.Next()
	}
}

func (r *RateLimiter) key(c *gin.Context) string {
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	return strings.Join([]string{
		r.cfg.Prefix,
		"ip", utils.ClientIP(c),
		"route", fmt.Sprintf("%s %s", c.Request.Method, route),
	}, ":")
}
