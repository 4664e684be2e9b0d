package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Buchara777/AI-Adventure/shared/models"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRateLimitStore returns a per-minute store. A nil client keeps counters in memory.
func NewRateLimitStore(redisClient *redis.Client, perMinute uint) ratelimit.Store {
	if redisClient == nil {
		return ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
			Rate:  time.Minute,
			Limit: perMinute,
		})
	}
	return ratelimit.RedisStore(&ratelimit.RedisOptions{
		RedisClient: redisClient,
		Rate:        time.Minute,
		Limit:       perMinute,
	})
}

// NewRateLimitMiddleware limits requests per client IP and answers 429 with an error body.
func NewRateLimitMiddleware(store ratelimit.Store, logger *zap.Logger) gin.HandlerFunc {
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: func(c *gin.Context, info ratelimit.Info) {
			retryAfter := time.Until(info.ResetTime).Round(time.Second)
			logger.Warn("Rate limit exceeded",
				zap.String("clientIP", c.ClientIP()),
				zap.Time("resetTime", info.ResetTime),
				zap.String("path", c.Request.URL.Path),
			)
			if retryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Code:    ErrCodeRateLimited,
				Message: "Too many requests. Try again in " + retryAfter.String(),
			})
		},
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	})
}
