package handlers

import (
	"net/http"

	"football_stars/internal/domain"

	"github.com/gin-gonic/gin"
)

// Каталог покупок за Stars
func (h *Handler) Products(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": domain.Products})
}

// Запросить инвойс на покупку: бот пришлет счет в чат
func (h *Handler) CreateInvoice(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req struct {
		Payload string `json:"payload" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if _, ok := domain.Products[req.Payload]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown product"})
		return
	}

	if h.SendInvoice == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payments disabled"})
		return
	}

	user, err := h.UserRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if err := h.SendInvoice(user.TgID, req.Payload); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "invoice failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// История покупок
func (h *Handler) MyPurchases(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	purchases, err := h.Purchases.History(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}
