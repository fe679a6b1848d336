package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Текущий профиль пользователя со всем экономическим состоянием
func (h *Handler) MyProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.UserRepo.GetByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	progress, err := h.Progression.GetProgress(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	vipUntil, _ := h.Progression.VIPUntil(ctx, userID)

	transactions, _ := h.Accounts.GetTransactionHistory(ctx, userID, 100)
	history := historyView(transactions)

	c.JSON(http.StatusOK, gin.H{
		"id":           user.ID,
		"tg_id":        user.TgID,
		"username":     user.Username,
		"first_name":   user.FirstName,
		"created_at":   user.CreatedAt,
		"coins":        user.Coins,
		"pack_credits": user.PackCredits,
		"club_id":      user.ClubID,
		"xp":           progress.XP,
		"level":        progress.Level,
		"vip_until":    vipUntil,
		"is_vip":       vipUntil > time.Now().Unix(),
		"history":      history,
	})
}

// Публичный профиль по id
func (h *Handler) Profile(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.UserRepo.GetByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	progress, err := h.Progression.GetProgress(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"first_name": user.FirstName,
		"club_id":    user.ClubID,
		"level":      progress.Level,
	})
}

// Топ пользователей по балансу
func (h *Handler) Leaderboard(c *gin.Context) {
	top, err := h.UserRepo.TopByCoins(c.Request.Context(), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"top": leaderboardView(top)})
}
