package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"football_stars/internal/catalog"
	"football_stars/internal/domain"
	"football_stars/internal/metrics"
	"football_stars/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrTradeNotFound   = errors.New("обмен не найден")
	ErrTradeNotPending = errors.New("обмен уже завершен")
	ErrNotTradeBuyer   = errors.New("обмен адресован другому покупателю")
	ErrNotTradeSeller  = errors.New("обмен создан другим продавцом")
	ErrSelfTrade       = errors.New("нельзя обменяться с самим собой")
)

// TradeService - прямые p2p обмены с эскроу. Карта резервируется в момент
// предложения: списывается у продавца и удерживается обменом, пока
// покупатель не подтвердит или продавец не отменит. Так продавец не может
// предложить один и тот же экземпляр дважды.
type TradeService struct {
	db        *pgxpool.Pool
	accounts  *AccountService
	inventory *repository.InventoryRepository
	trades    *repository.TradeRepository
	catalog   *catalog.Catalog
}

func NewTradeService(db *pgxpool.Pool, accounts *AccountService, cat *catalog.Catalog) *TradeService {
	return &TradeService{
		db:        db,
		accounts:  accounts,
		inventory: repository.NewInventoryRepository(db),
		trades:    repository.NewTradeRepository(db),
		catalog:   cat,
	}
}

// Propose создает обмен: карта уходит в эскроу, считается комиссия
func (s *TradeService) Propose(ctx context.Context, sellerID, buyerID int64, cardID string, price int64) (*domain.Trade, error) {
	if sellerID == buyerID {
		return nil, ErrSelfTrade
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	if s.catalog.Card(cardID) == nil {
		return nil, ErrUnknownCard
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// покупатель должен существовать до создания обмена
	var buyerExists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, buyerID).Scan(&buyerExists); err != nil {
		return nil, err
	}
	if !buyerExists {
		return nil, ErrUserNotFound
	}

	if err := s.inventory.RemoveWithTx(ctx, tx, sellerID, cardID, 1); err != nil {
		return nil, err
	}

	trade := &domain.Trade{
		SellerID: sellerID,
		BuyerID:  buyerID,
		CardID:   cardID,
		Price:    price,
		Fee:      domain.TradeFee(price),
		Status:   domain.TradePending,
	}
	if err := s.trades.CreateWithTx(ctx, tx, trade); err != nil {
		return nil, err
	}

	return trade, tx.Commit(ctx)
}

// Accept подтверждает обмен. Покупатель платит price+fee, продавец
// получает price (комиссия сгорает), карта переходит покупателю.
// При нехватке средств обмен остается pending, карта - в эскроу.
func (s *TradeService) Accept(ctx context.Context, buyerID, tradeID int64) (*domain.Trade, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	trade, err := s.trades.GetForUpdate(ctx, tx, tradeID)
	if err != nil {
		return nil, err
	}
	if trade == nil {
		return nil, ErrTradeNotFound
	}
	if trade.Status != domain.TradePending {
		return nil, ErrTradeNotPending
	}
	if trade.BuyerID != buyerID {
		return nil, ErrNotTradeBuyer
	}

	if err := s.accounts.LockPairWithTx(ctx, tx, buyerID, trade.SellerID); err != nil {
		return nil, err
	}

	note := fmt.Sprintf("обмен #%d, карта %s", trade.ID, trade.CardID)
	// у покупателя списывается цена вместе с комиссией
	if _, err := s.accounts.DebitWithTx(ctx, tx, buyerID, trade.Price+trade.Fee, domain.TxTradePurchase, note); err != nil {
		return nil, err
	}
	// продавцу выплачивается только цена, комиссия никуда не зачисляется
	if _, err := s.accounts.CreditWithTx(ctx, tx, trade.SellerID, trade.Price, domain.TxTradeSale, note); err != nil {
		return nil, err
	}
	if err := s.inventory.AddWithTx(ctx, tx, buyerID, trade.CardID, 1); err != nil {
		return nil, err
	}

	acceptedAt := time.Now()
	if err := s.trades.MarkAcceptedWithTx(ctx, tx, trade.ID, acceptedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	trade.Status = domain.TradeAccepted
	trade.AcceptedAt = &acceptedAt
	metrics.TradesAccepted.Inc()
	return trade, nil
}

// Cancel отменяет обмен, карта возвращается продавцу
func (s *TradeService) Cancel(ctx context.Context, sellerID, tradeID int64) (*domain.Trade, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	trade, err := s.trades.GetForUpdate(ctx, tx, tradeID)
	if err != nil {
		return nil, err
	}
	if trade == nil {
		return nil, ErrTradeNotFound
	}
	if trade.Status != domain.TradePending {
		return nil, ErrTradeNotPending
	}
	if trade.SellerID != sellerID {
		return nil, ErrNotTradeSeller
	}

	if err := s.inventory.AddWithTx(ctx, tx, sellerID, trade.CardID, 1); err != nil {
		return nil, err
	}
	if err := s.trades.MarkCanceledWithTx(ctx, tx, trade.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	trade.Status = domain.TradeCanceled
	return trade, nil
}

// MyTrades возвращает обмены пользователя с обеих сторон
func (s *TradeService) MyTrades(ctx context.Context, userID int64) ([]*domain.Trade, error) {
	return s.trades.ListByUser(ctx, userID, 100)
}

// EscrowedCards возвращает карты пользователя, удерживаемые незавершёнными
// обменами
func (s *TradeService) EscrowedCards(ctx context.Context, userID int64) (map[string]int64, error) {
	return s.inventory.EscrowedByUser(ctx, userID)
}
