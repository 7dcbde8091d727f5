package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/brightpath-edu/tutor-portal/internal/cache"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// IdempotencyKeyHeader is supplied by clients on mutating requests that
	// may be retried.
	IdempotencyKeyHeader = "Idempotency-Key"

	idempotencyTTL = 24 * time.Hour
)

// IdempotencyMiddleware rejects replays of a mutating request carrying the
// same Idempotency-Key. The key must be a UUID; the first request claims it
// in Redis and any later request with the same key gets 409 until the claim
// expires. Requests without the header pass through untouched.
func IdempotencyMiddleware(cacheService cache.CacheService) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		if _, err := uuid.Parse(key); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Idempotency-Key must be a valid UUID",
			})
			return
		}

		session := GetSession(c)
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "User not authenticated",
			})
			return
		}

		claimed, err := cacheService.SetNX(c.Request.Context(),
			idempotencyCacheKey(session.UserID, key), time.Now().Unix(), idempotencyTTL)
		if err != nil {
			// Redis being down must not block writes.
			c.Next()
			return
		}

		if !claimed {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "Duplicate request - this idempotency key was already used",
			})
			return
		}

		c.Next()
	}
}

// Keys are scoped per user so two tutors may reuse the same UUID.
func idempotencyCacheKey(userID uint, key string) string {
	return fmt.Sprintf("idempotency:%d:%s", userID, key)
}
