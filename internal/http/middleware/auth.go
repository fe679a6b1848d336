package middleware

import (
	"net/http"
	"strings"

	"football_stars/internal/service"

	"github.com/gin-gonic/gin"
)

const UserIDKey = "user_id"

// Auth проверяет Bearer токен и кладет id пользователя в контекст.
// Токен выдается в /api/auth после проверки подписи Telegram initData.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		userID, err := service.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}
