package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	commonerrors "insurance-intake/internal/common/errors"
	"insurance-intake/internal/common/logger"
	"insurance-intake/internal/common/metrics"
	"insurance-intake/internal/protocol"
)

// RateLimiter applies a fixed window per client IP, counted in Redis so the
// limit holds across replicas. A Redis failure fails open: throttling is
// protective, not load-bearing.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger logger.Logger
}

func NewRateLimiter(client *redis.Client, limit int, window time.Duration, log logger.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
		logger: log.WithFields(map[string]interface{}{"component": "ratelimit"}),
	}
}

// Allow counts a request against the client's current window.
func (rl *RateLimiter) Allow(ctx context.Context, clientKey string) (bool, error) {
	bucket := time.Now().UnixMilli() / rl.window.Milliseconds()
	key := fmt.Sprintf("ratelimit:%s:%d", clientKey, bucket)

	count, err := rl.client.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if count == 1 {
		rl.client.Expire(ctx, key, rl.window)
	}
	return count <= int64(rl.limit), nil
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := rl.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			rl.logger.Warn("rate limit check failed, allowing request", map[string]interface{}{
				"client": c.ClientIP(),
				"error":  err.Error(),
			})
		}
		if !allowed {
			stdErr := commonerrors.NewRateLimitExceededError(c.ClientIP())
			metrics.InvocationErrors.WithLabelValues(string(stdErr.Code)).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, protocol.NewErrorBody(stdErr.Message))
			return
		}
		c.Next()
	}
}
