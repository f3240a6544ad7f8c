package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const submitLimitKeyPrefix = "submit_limit:"

// SubmitRateLimiter limits report submissions per client IP using a fixed
// window counter in Redis. When Redis is unreachable the limiter fails open
// so submissions keep working.
func SubmitRateLimiter(client *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := submitLimitKeyPrefix + c.ClientIP()
		ctx := c.Request.Context()

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			log.Errorf("Rate limiter unavailable, allowing request: %v", err)
			c.Next()
			return
		}
		if count == 1 {
			if err := client.Expire(ctx, key, window).Err(); err != nil {
				log.Errorf("Failed to set rate limit window for %s: %v", key, err)
			}
		}

		if count > int64(limit) {
			retryAfter := window
			if ttl, err := client.TTL(ctx, key).Result(); err == nil && ttl > 0 {
				retryAfter = ttl
			}
			c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":      "error",
				"message":     "Too many reports, try again later.",
				"retry_after": retryAfter.Seconds(),
			})
			return
		}

		c.Next()
	}
}
