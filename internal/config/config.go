package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"football_stars/internal/logger"
)

// Config хранит всю конфигурацию приложения, загружается один раз при старте
type Config struct {
	AppPort     string `envconfig:"APP_PORT" default:"8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	BotToken string `envconfig:"BOT_TOKEN" required:"true"`
	// провайдер платежей, выдается BotFather (пусто = инвойсы отключены)
	PaymentProviderToken string `envconfig:"PAYMENT_PROVIDER_TOKEN"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// пути к справочникам карт и клубов
	PlayersPath string `envconfig:"PLAYERS_PATH" default:"web/players.json"`
	ClubsPath   string `envconfig:"CLUBS_PATH" default:"web/clubs.json"`

	// Telegram ID администраторов через запятую
	AdminTelegramIDs []int64 `envconfig:"ADMIN_TELEGRAM_IDS"`
	BotEnabled       bool    `envconfig:"BOT_ENABLED" default:"true"`
}

// Load читает .env (если есть) и переменные окружения
func Load() *Config {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		logger.Fatal("ошибка загрузки конфигурации", "error", err)
	}

	cfg.AppPort = strings.TrimPrefix(cfg.AppPort, ":")
	return &cfg
}
