package handlers

import (
	"football_stars/internal/ws"

	"github.com/gin-gonic/gin"
)

// Публичная лента рынка: события о новых и проданных лотах
func (h *Handler) MarketFeed(c *gin.Context) {
	ws.Serve(h.Feed, c.Writer, c.Request)
}
