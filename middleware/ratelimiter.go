package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"

	"pg-portal/config"
)

// LoginRateLimiter limits login attempts per client IP to perMinute.
func LoginRateLimiter(perMinute int64) gin.HandlerFunc {
	if perMinute <= 0 {
		perMinute = 20
	}
	store := memory.NewStore()
	rate := limiter.Rate{
		Period: time.Minute,
		Limit:  perMinute,
	}

	instance := limiter.New(store, rate)

	return ginlimiter.NewMiddleware(instance,
		ginlimiter.WithLimitReachedHandler(func(c *gin.Context) {
			config.Log.WithField("ip", c.ClientIP()).Warn("🚦 Login rate limit reached")
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many login attempts. Please wait a minute."})
		}),
	)
}
