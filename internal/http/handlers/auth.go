package handlers

import (
	"encoding/json"
	"net/http"

	"football_stars/internal/logger"
	"football_stars/internal/service"

	"github.com/gin-gonic/gin"
)

type authRequest struct {
	InitData string `json:"init_data" binding:"required"`
}

type tgUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

// Auth проверяет подпись Telegram initData, лениво создает пользователя
// и выдает сессионный токен
func (h *Handler) Auth(c *gin.Context) {
	var req authRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	values, ok := service.ValidateTelegramInitData(req.InitData, h.BotToken)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid init data"})
		return
	}

	var tu tgUser
	if err := json.Unmarshal([]byte(values.Get("user")), &tu); err != nil || tu.ID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid init data"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.UserRepo.GetOrCreate(ctx, tu.ID, tu.Username, tu.FirstName)
	if err != nil {
		logger.Error("auth: ошибка создания пользователя", "error", err, "tg_id", tu.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	token, err := service.IssueToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
