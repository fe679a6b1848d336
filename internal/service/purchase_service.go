package service

import (
	"context"
	"errors"
	"fmt"

	"football_stars/internal/domain"
	"football_stars/internal/logger"
	"football_stars/internal/metrics"
	"football_stars/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUnknownProduct = errors.New("неизвестный продукт")

// PurchaseService применяет гранты по подтверждениям внешних платежей.
// Charge id фиксируется до выдачи гранта: при сбое между записью и
// начислением платеж не начислится дважды при повторной доставке -
// политика at-most-once.
type PurchaseService struct {
	db          *pgxpool.Pool
	accounts    *AccountService
	progression *ProgressionService
	purchases   *repository.PurchaseRepository
}

func NewPurchaseService(db *pgxpool.Pool, accounts *AccountService, progression *ProgressionService) *PurchaseService {
	return &PurchaseService{
		db:          db,
		accounts:    accounts,
		progression: progression,
		purchases:   repository.NewPurchaseRepository(db),
	}
}

// ApplyGrant обрабатывает подтверждение платежа. Повторная доставка того
// же charge id - no-op, считается успехом.
func (s *PurchaseService) ApplyGrant(ctx context.Context, chargeID string, userID int64, payload string) error {
	if chargeID == "" {
		return fmt.Errorf("пустой charge id")
	}

	recorded, err := s.purchases.TryRecord(ctx, &domain.Purchase{
		ChargeID: chargeID,
		UserID:   userID,
		Payload:  payload,
	})
	if err != nil {
		return fmt.Errorf("запись платежа: %w", err)
	}
	if !recorded {
		// уже применяли
		metrics.DuplicateCharges.Inc()
		logger.Warn("повторное подтверждение платежа", "charge_id", chargeID, "user_id", userID)
		return nil
	}

	product, ok := domain.Products[payload]
	if !ok {
		// платеж записан, но начислять нечего - сигнализируем наверх
		logger.Error("платеж с неизвестным продуктом", "charge_id", chargeID, "payload", payload)
		return ErrUnknownProduct
	}

	note := "покупка " + payload
	if product.Coins > 0 {
		if _, err := s.accounts.Credit(ctx, userID, product.Coins, domain.TxPurchaseGrant, note); err != nil {
			return fmt.Errorf("начисление коинов: %w", err)
		}
	}
	if product.Packs > 0 {
		_, err := s.db.Exec(ctx,
			`UPDATE users SET pack_credits = pack_credits + $1 WHERE id = $2`,
			product.Packs, userID)
		if err != nil {
			return fmt.Errorf("начисление паков: %w", err)
		}
	}
	if product.VIPDays > 0 {
		if _, err := s.progression.ExtendVIP(ctx, userID, product.VIPDays); err != nil {
			return fmt.Errorf("продление vip: %w", err)
		}
	}

	metrics.PurchaseGrants.Inc()
	logger.Info("грант покупки применен",
		"charge_id", chargeID,
		"user_id", userID,
		"payload", payload)
	return nil
}

// History возвращает покупки пользователя
func (s *PurchaseService) History(ctx context.Context, userID int64) ([]*domain.Purchase, error) {
	return s.purchases.ListByUser(ctx, userID, 100)
}
