package response

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"net/http"
	"sync"
	"time"

	"todoapi/internal/core/telemetry"
	. "todoapi/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ResponseCache serves repeated GET requests from memory. Any successful
// write request flushes every entry, so a read never observes a state older
// than the last acknowledged mutation.
type ResponseCache struct {
	cache   *cache.Cache
	ttl     time.Duration
	logger  *zap.Logger
	metrics *telemetry.AppMetrics

	// generation advances on every invalidation; a read only stores its
	// body when no invalidation happened while it was being served.
	mu         sync.Mutex
	generation uint64
}

type CachedResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
	Timestamp   time.Time
}

func NewResponseCache(ttl time.Duration, logger *zap.Logger, metrics *telemetry.AppMetrics) *ResponseCache {
	return &ResponseCache{
		cache:   cache.New(ttl, 2*ttl),
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
	}
}

func (rc *ResponseCache) CacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()

			if status := c.Writer.Status(); status >= 200 && status < 300 {
				rc.InvalidateAll()
			}
			return
		}

		path := c.FullPath()
		if path == "" {
			c.Next()
			return
		}

		cacheKey := rc.generateCacheKey(c)

		if cachedResp, found := rc.cache.Get(cacheKey); found {
			cached := cachedResp.(CachedResponse)

			_, span := CreateChildSpan(c.Request.Context(), "cache.response.hit", []attribute.KeyValue{
				attribute.String("cache.key", cacheKey),
				attribute.String("cache.path", path),
				attribute.Int("cache.body_size", len(cached.Body)),
			})
			defer span.End()

			if rc.metrics != nil {
				rc.metrics.RecordCacheHit(c.Request.Context(), path)
			}

			rc.logger.Debug("Cache hit",
				zap.String("path", path),
				zap.Duration("age", time.Since(cached.Timestamp)))

			c.Header("X-Cache", "HIT")
			c.Data(cached.StatusCode, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		if rc.metrics != nil {
			rc.metrics.RecordCacheMiss(c.Request.Context(), path)
		}

		generation := rc.currentGeneration()

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer
		c.Header("X-Cache", "MISS")

		c.Next()

		if status := writer.Status(); status >= 200 && status < 300 {
			rc.store(generation, cacheKey, CachedResponse{
				StatusCode:  status,
				ContentType: writer.Header().Get("Content-Type"),
				Body:        writer.body.Bytes(),
				Timestamp:   time.Now(),
			})
		}
	}
}

func (rc *ResponseCache) currentGeneration() uint64 {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	return rc.generation
}

func (rc *ResponseCache) store(generation uint64, key string, resp CachedResponse) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if generation != rc.generation {
		rc.logger.Debug("Skipping cache store after invalidation", zap.String("key", key))
		return
	}

	rc.cache.Set(key, resp, rc.ttl)
}

func (rc *ResponseCache) generateCacheKey(c *gin.Context) string {
	hash := md5.Sum([]byte(c.Request.URL.Path + "?" + c.Request.URL.RawQuery))
	return fmt.Sprintf("cache:%x", hash)
}

func (rc *ResponseCache) InvalidateAll() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.generation++

	if rc.cache.ItemCount() == 0 {
		return
	}

	rc.cache.Flush()
	rc.logger.Debug("Response cache invalidated")
}

func (rc *ResponseCache) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"active_entries": rc.cache.ItemCount(),
		"ttl":            rc.ttl.String(),
	}
}

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
