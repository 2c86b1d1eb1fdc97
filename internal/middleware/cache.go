package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bookit/bookit-backend/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// cachedResponse is what a cache entry holds
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// captureWriter copies the response body while forwarding it to the client
type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ResponseCache caches successful GET responses in Redis keyed by request URI
type ResponseCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
	logger *logrus.Logger
}

// NewResponseCache creates a response cache; client may be nil, which
// disables caching
func NewResponseCache(client redis.UniversalClient, cfg config.CacheConfig, logger *logrus.Logger) *ResponseCache {
	if !cfg.Enabled {
		client = nil
	}
	return &ResponseCache{
		client: client,
		ttl:    cfg.TTL,
		prefix: cfg.Prefix,
		logger: logger,
	}
}

func (rc *ResponseCache) enabled() bool {
	return rc != nil && rc.client != nil && rc.ttl > 0
}

func (rc *ResponseCache) key(requestURI string) string {
	return rc.prefix + ":" + requestURI
}

// Middleware serves hits from Redis and stores 200 responses on a miss.
// Lookup or store failures degrade to an uncached response.
func (rc *ResponseCache) Middleware() gin.HandlerFunc {
	if !rc.enabled() {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := rc.key(c.Request.URL.RequestURI())

		raw, err := rc.client.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var cached cachedResponse
			if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
				c.Header("X-Cache", "HIT")
				c.Data(cached.Status, cached.ContentType, cached.Body)
				c.Abort()
				return
			}
			rc.logger.WithField("key", key).Warn("Discarding unreadable cache entry")
		case !errors.Is(err, redis.Nil):
			rc.logger.WithError(err).WithField("key", key).Warn("Cache lookup failed")
		}

		writer := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Header("X-Cache", "MISS")

		c.Next()

		if writer.Status() != http.StatusOK {
			return
		}

		payload, err := json.Marshal(cachedResponse{
			Status:      writer.Status(),
			ContentType: writer.Header().Get("Content-Type"),
			Body:        writer.body.Bytes(),
		})
		if err != nil {
			return
		}
		if err := rc.client.Set(context.WithoutCancel(ctx), key, payload, rc.ttl).Err(); err != nil {
			rc.logger.WithError(err).WithField("key", key).Warn("Cache store failed")
		}
	}
}

// globEscaper makes a key match itself literally inside a SCAN MATCH pattern
var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// Invalidate drops cached responses for the given paths, including every
// query-string variant of them
func (rc *ResponseCache) Invalidate(ctx context.Context, paths ...string) error {
	if !rc.enabled() {
		return nil
	}

	for _, path := range paths {
		keys := []string{rc.key(path)}

		iter := rc.client.Scan(ctx, 0, globEscaper.Replace(rc.key(path))+`\?*`, 100).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("failed to scan cache keys for %s: %w", path, err)
		}

		if err := rc.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to invalidate cache for %s: %w", path, err)
		}
	}
	return nil
}
