package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Все карты справочника
func (h *Handler) Cards(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cards": h.Catalog.Cards()})
}

// Все клубы справочника
func (h *Handler) Clubs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"clubs": h.Catalog.Clubs()})
}

// Выбор клуба
func (h *Handler) ChooseClub(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req struct {
		ClubID string `json:"club_id" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if h.Catalog.Club(req.ClubID) == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown club"})
		return
	}

	if err := h.UserRepo.SetClub(c.Request.Context(), userID, req.ClubID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"club_id": req.ClubID})
}
