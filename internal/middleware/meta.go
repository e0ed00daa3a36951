package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const metaContextKey = "registrar.meta"

// WithResponseMeta attaches a metadata map to every request so handlers can report
// cache usage in the response envelope. Elapsed time is recorded once the chain returns.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		meta := map[string]interface{}{}
		c.Set(metaContextKey, meta)
		started := time.Now()
		c.Next()
		if _, ok := meta["processing_time_ms"]; !ok {
			meta["processing_time_ms"] = time.Since(started).Milliseconds()
		}
	}
}

// SetCacheHit marks whether the payload came from the structure cache.
func SetCacheHit(c *gin.Context, hit bool) {
	if meta := metaFor(c, true); meta != nil {
		meta["cache_hit"] = hit
	}
}

// ExtractMeta returns the request's metadata, or nil when none was attached.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	return metaFor(c, false)
}

func metaFor(c *gin.Context, create bool) map[string]interface{} {
	if c == nil {
		return nil
	}
	if raw, ok := c.Get(metaContextKey); ok {
		if meta, ok := raw.(map[string]interface{}); ok {
			return meta
		}
	}
	if !create {
		return nil
	}
	meta := map[string]interface{}{}
	c.Set(metaContextKey, meta)
	return meta
}
