package handlers

import (
	"errors"
	"net/http"

	"football_stars/internal/service"

	"github.com/gin-gonic/gin"
)

// Ежедневная награда
func (h *Handler) Daily(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	result, err := h.Rewards.ClaimDaily(c.Request.Context(), userID)
	if err != nil {
		var cooldown *service.CooldownError
		if errors.As(err, &cooldown) {
			c.JSON(http.StatusTooEarly, gin.H{
				"error":             "already claimed",
				"seconds_remaining": cooldown.Remaining,
			})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Матч против случайного соперника
func (h *Handler) Match(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	outcome, err := h.Rewards.PlayMatch(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// Покупка пак-кредита за коины
func (h *Handler) BuyPack(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	credits, err := h.Packs.BuyPackCredit(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pack_credits": credits})
}

// Открытие пака
func (h *Handler) OpenPack(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	result, err := h.Packs.OpenPack(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Инвентарь текущего пользователя с данными карт
func (h *Handler) Inventory(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	entries, err := h.Packs.Inventory(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"inventory": inventoryView(entries, h.Catalog)})
}
