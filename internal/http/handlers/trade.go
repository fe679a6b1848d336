package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Предложить p2p обмен: карта уходит в эскроу до решения покупателя
func (h *Handler) ProposeTrade(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req struct {
		BuyerID int64  `json:"buyer_id"`
		CardID  string `json:"card_id" binding:"required"`
		Price   int64  `json:"price"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	trade, err := h.Trades.Propose(c.Request.Context(), userID, req.BuyerID, req.CardID, req.Price)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trade": trade})
}

// Принять адресованный тебе обмен
func (h *Handler) AcceptTrade(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	tradeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	trade, err := h.Trades.Accept(c.Request.Context(), userID, tradeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trade": trade})
}

// Отменить свой обмен, карта возвращается из эскроу
func (h *Handler) CancelTrade(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	tradeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	trade, err := h.Trades.Cancel(c.Request.Context(), userID, tradeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trade": trade})
}

// Обмены пользователя с обеих сторон
func (h *Handler) MyTrades(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	trades, err := h.Trades.MyTrades(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	escrowed, _ := h.Trades.EscrowedCards(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"trades": trades, "escrowed": escrowed})
}
