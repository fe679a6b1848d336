package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"football_stars/internal/bot"
	"football_stars/internal/catalog"
	"football_stars/internal/config"
	"football_stars/internal/db"
	"football_stars/internal/game"
	httpServer "football_stars/internal/http"
	"football_stars/internal/http/handlers"
	"football_stars/internal/http/middleware"
	"football_stars/internal/logger"
	"football_stars/internal/repository"
	"football_stars/internal/service"
	"football_stars/internal/ws"
)

// Version устанавливается при сборке
var Version = "dev"

func main() {
	// Инициализация структурированного логгера
	jsonLogs := os.Getenv("LOG_FORMAT") == "json"
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init(logLevel, jsonLogs)
	log := logger.Get()

	cfg := config.Load()

	service.InitJWT(cfg.JWTSecret)

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	cat, err := catalog.Load(cfg.PlayersPath, cfg.ClubsPath)
	if err != nil {
		logger.Fatal("ошибка загрузки справочника", "error", err)
	}
	log.Info("справочник загружен", "cards", len(cat.Cards()), "clubs", len(cat.Clubs()))

	// отдельные источники: паки и матчи защищены разными мьютексами
	packRng := rand.New(rand.NewSource(time.Now().UnixNano()))
	matchRng := rand.New(rand.NewSource(time.Now().UnixNano() + 1))

	drawer, err := game.NewPackDrawer(cat.Cards(), packRng)
	if err != nil {
		logger.Fatal("ошибка подготовки паков", "error", err)
	}

	userRepo := repository.NewUserRepository(dbPool)
	accounts := service.NewAccountService(dbPool)
	progression := service.NewProgressionService(dbPool, accounts)
	packs := service.NewPackService(dbPool, accounts, progression, drawer)
	market := service.NewMarketService(dbPool, accounts, cat)
	trades := service.NewTradeService(dbPool, accounts, cat)
	rewards := service.NewRewardService(dbPool, accounts, progression, cat, matchRng)
	purchases := service.NewPurchaseService(dbPool, accounts, progression)

	hub := ws.NewHub()
	market.SetFeed(hub)

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	h := &handlers.Handler{
		DB:          dbPool,
		Catalog:     cat,
		BotToken:    cfg.BotToken,
		UserRepo:    userRepo,
		Accounts:    accounts,
		Packs:       packs,
		Market:      market,
		Trades:      trades,
		Progression: progression,
		Rewards:     rewards,
		Purchases:   purchases,
		Feed:        hub,
	}

	// Запуск бота ПЕРЕД HTTP сервером чтобы callback инвойсов был установлен
	var paymentsBot *bot.PaymentsBot
	if cfg.BotEnabled {
		paymentsBot, err = bot.NewPaymentsBot(cfg.BotToken, userRepo, accounts, purchases, cfg.AdminTelegramIDs)
		if err != nil {
			log.Error("failed to start payments bot", "error", err)
		} else {
			go paymentsBot.Start()
			h.SendInvoice = paymentsBot.SendInvoice
			log.Info("payments bot started", "admin_ids", cfg.AdminTelegramIDs)
		}
	}

	r := httpServer.NewRouter(h)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Info("server started", "port", cfg.AppPort, "version", Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	if paymentsBot != nil {
		paymentsBot.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
