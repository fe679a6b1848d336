package service

import (
	"context"
	"errors"
	"sync"

	"football_stars/internal/catalog"
	"football_stars/internal/domain"
	"football_stars/internal/game"
	"football_stars/internal/metrics"
	"football_stars/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNoPackCredits = errors.New("нет пак-кредитов")

// PackService - покупка и открытие паков
type PackService struct {
	db          *pgxpool.Pool
	accounts    *AccountService
	progression *ProgressionService
	inventory   *repository.InventoryRepository

	mu     sync.Mutex
	drawer *game.PackDrawer
}

func NewPackService(db *pgxpool.Pool, accounts *AccountService, progression *ProgressionService, drawer *game.PackDrawer) *PackService {
	return &PackService{
		db:          db,
		accounts:    accounts,
		progression: progression,
		inventory:   repository.NewInventoryRepository(db),
		drawer:      drawer,
	}
}

// BuyPackCredit обменивает коины на один пак-кредит
func (s *PackService) BuyPackCredit(ctx context.Context, userID int64) (packCredits int64, err error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = s.accounts.DebitWithTx(ctx, tx, userID, domain.PackCostCoins, domain.TxPackBuy, "покупка пака"); err != nil {
		return 0, err
	}

	err = tx.QueryRow(ctx,
		`UPDATE users SET pack_credits = pack_credits + 1 WHERE id = $1 RETURNING pack_credits`,
		userID).Scan(&packCredits)
	if err != nil {
		return 0, err
	}

	return packCredits, tx.Commit(ctx)
}

// OpenResult - итог открытия пака
type OpenResult struct {
	Card        catalog.Card `json:"card"`
	PackCredits int64        `json:"pack_credits"`
	Progress    *XPResult    `json:"progress"`
}

// OpenPack списывает пак-кредит, выбирает карту и кладет ее в инвентарь.
// Всё в одной транзакции: если кредита нет, карта не разыгрывается.
func (s *PackService) OpenPack(ctx context.Context, userID int64) (*OpenResult, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var packCredits int64
	err = tx.QueryRow(ctx,
		`UPDATE users SET pack_credits = pack_credits - 1 WHERE id = $1 AND pack_credits > 0 RETURNING pack_credits`,
		userID).Scan(&packCredits)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			_ = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
			if !exists {
				return nil, ErrUserNotFound
			}
			return nil, ErrNoPackCredits
		}
		return nil, err
	}

	s.mu.Lock()
	card := s.drawer.Draw()
	s.mu.Unlock()

	if err := s.inventory.AddWithTx(ctx, tx, userID, card.ID, 1); err != nil {
		return nil, err
	}

	// след открытия в журнале: кредит списан, коины не менялись
	_, err = tx.Exec(ctx,
		`INSERT INTO tx_log (user_id, kind, amount, note) VALUES ($1, $2, 0, $3)`,
		userID, domain.TxPackOpen, "выпала карта "+card.ID)
	if err != nil {
		return nil, err
	}

	progress, err := s.progression.AddXPWithTx(ctx, tx, userID, domain.XPPerPack, "открытие пака")
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.PacksOpened.Inc()
	return &OpenResult{Card: *card, PackCredits: packCredits, Progress: progress}, nil
}

// возвращает инвентарь пользователя
func (s *PackService) Inventory(ctx context.Context, userID int64) ([]*domain.InventoryEntry, error) {
	return s.inventory.ListByUser(ctx, userID)
}
