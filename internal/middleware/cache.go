package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pentadosen-api/pkg/civildate"
)

const (
	responseMetaKey = "response_meta"
	cacheHitKey     = "cache_hit"
	todayKey        = "today"
)

// WithResponseMeta initialises response metadata storage on the request context.
// When clock is set, the civil date the request was evaluated against is
// recorded under "today" so relevance-dependent payloads can be reproduced.
func WithResponseMeta(clock *civildate.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		meta := map[string]interface{}{}
		if clock != nil {
			meta[todayKey] = clock.Today().String()
		}
		c.Set(responseMetaKey, meta)
		c.Next()
		if _, exists := meta["processing_time_ms"]; !exists {
			meta["processing_time_ms"] = time.Since(start).Milliseconds()
		}
	}
}

// SetCacheHit records cache hit information for the current response.
func SetCacheHit(c *gin.Context, hit bool) {
	SetMeta(c, cacheHitKey, hit)
}

// SetMeta stores a single metadata value for the current response.
func SetMeta(c *gin.Context, key string, value interface{}) {
	ensureMeta(c)[key] = value
}

// ExtractMeta returns the metadata map stored on the context.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	if meta, exists := c.Get(responseMetaKey); exists {
		if typed, ok := meta.(map[string]interface{}); ok {
			return typed
		}
	}
	return nil
}

func ensureMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return map[string]interface{}{}
	}
	if meta := ExtractMeta(c); meta != nil {
		return meta
	}
	meta := make(map[string]interface{})
	c.Set(responseMetaKey, meta)
	return meta
}
