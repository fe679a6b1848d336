package http

import (
	"net/http"
	"time"

	"football_stars/internal/http/handlers"
	"football_stars/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter собирает gin движок со всеми маршрутами API
func NewRouter(h *handlers.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(corsMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// публичные маршруты
	api.POST("/auth", middleware.RateLimit("auth", 10, time.Minute), h.Auth)
	api.GET("/cards", h.Cards)
	api.GET("/clubs", h.Clubs)
	api.GET("/market", h.MarketListings)
	api.GET("/market/feed", h.MarketFeed)
	api.GET("/leaderboard", h.Leaderboard)
	api.GET("/products", h.Products)

	// маршруты под JWT
	auth := api.Group("/")
	auth.Use(middleware.Auth())
	{
		auth.GET("/me", h.MyProfile)
		auth.GET("/users/:id", h.Profile)
		auth.POST("/club", h.ChooseClub)

		auth.POST("/daily", middleware.RateLimit("daily", 20, time.Minute), h.Daily)
		auth.POST("/match", middleware.RateLimit("match", 30, time.Minute), h.Match)

		auth.POST("/packs/buy", h.BuyPack)
		auth.POST("/packs/open", h.OpenPack)
		auth.GET("/inventory", h.Inventory)

		auth.POST("/market", h.SellCard)
		auth.POST("/market/:id/buy", h.BuyListing)
		auth.POST("/market/:id/cancel", h.CancelListing)
		auth.GET("/market/my", h.MyListings)

		auth.POST("/trades", h.ProposeTrade)
		auth.POST("/trades/:id/accept", h.AcceptTrade)
		auth.POST("/trades/:id/cancel", h.CancelTrade)
		auth.GET("/trades", h.MyTrades)

		auth.POST("/purchases/invoice", middleware.RateLimit("invoice", 10, time.Minute), h.CreateInvoice)
		auth.GET("/purchases", h.MyPurchases)
	}

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
