package handlers

import (
	"errors"
	"net/http"

	"football_stars/internal/catalog"
	"football_stars/internal/http/middleware"
	"football_stars/internal/repository"
	"football_stars/internal/service"
	"football_stars/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler держит зависимости всех HTTP обработчиков
type Handler struct {
	DB          *pgxpool.Pool
	Catalog     *catalog.Catalog
	BotToken    string
	UserRepo    *repository.UserRepository
	Accounts    *service.AccountService
	Packs       *service.PackService
	Market      *service.MarketService
	Trades      *service.TradeService
	Progression *service.ProgressionService
	Rewards     *service.RewardService
	Purchases   *service.PurchaseService
	Feed        *ws.Hub

	// отправка инвойса через платежного бота, nil если бот выключен
	SendInvoice func(tgID int64, payload string) error
}

// id пользователя, положенный auth middleware
func getUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(middleware.UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}

// respondError переводит ошибки сервисов в HTTP статусы.
// Конфликты состояния и нехватка средств - это отклоненный результат,
// а не сбой, поэтому 400/409, не 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrListingNotFound),
		errors.Is(err, service.ErrTradeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, service.ErrNoPackCredits),
		errors.Is(err, repository.ErrNotEnoughCards),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrUnknownCard),
		errors.Is(err, service.ErrSelfTrade),
		errors.Is(err, service.ErrOwnListing),
		errors.Is(err, service.ErrNoSquad):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrListingNotActive),
		errors.Is(err, service.ErrTradeNotPending),
		errors.Is(err, service.ErrNotSeller),
		errors.Is(err, service.ErrNotTradeBuyer),
		errors.Is(err, service.ErrNotTradeSeller):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
	}
}
