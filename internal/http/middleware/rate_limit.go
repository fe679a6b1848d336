package middleware

import (
	"fmt"
	"net/http"
	"time"

	"football_stars/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

var rateLimiter *redis.Client

// InitRedisRateLimiter подключает redis для лимитов запросов.
// Пустой адрес отключает лимитер (локальная разработка без redis).
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		logger.Warn("rate limiter отключен: REDIS_ADDR не задан")
		return
	}
	rateLimiter = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// RateLimit ограничивает количество запросов на пользователя в окне.
// Счетчик в redis: INCR + EXPIRE на первом запросе окна.
func RateLimit(name string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rateLimiter == nil {
			c.Next()
			return
		}

		// до аутентификации лимитируем по IP
		subject := c.ClientIP()
		if userID := c.GetInt64(UserIDKey); userID > 0 {
			subject = fmt.Sprintf("u%d", userID)
		}
		key := fmt.Sprintf("rl:%s:%s", name, subject)

		ctx := c.Request.Context()
		count, err := rateLimiter.Incr(ctx, key).Result()
		if err != nil {
			// redis недоступен - пропускаем, лимитер не должен ронять запросы
			logger.Warn("rate limiter: ошибка redis", "error", err)
			c.Next()
			return
		}
		if count == 1 {
			rateLimiter.Expire(ctx, key, window)
		}

		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
