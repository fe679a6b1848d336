package service

import (
	"context"
	"errors"

	"football_stars/internal/domain"
	"football_stars/internal/metrics"
	"football_stars/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInsufficientFunds = errors.New("недостаточно средств")
	ErrUserNotFound      = errors.New("пользователь не найден")
	ErrInvalidAmount     = errors.New("неверная сумма")
)

// AccountService - единственная точка изменения баланса. Каждое изменение
// сопровождается записью в журнал в той же транзакции: баланс без следа
// в tx_log появиться не может.
type AccountService struct {
	db              *pgxpool.Pool
	transactionRepo *repository.TransactionRepository
}

func NewAccountService(db *pgxpool.Pool) *AccountService {
	return &AccountService{
		db:              db,
		transactionRepo: repository.NewTransactionRepository(db),
	}
}

// возвращает текущий баланс пользователя
func (s *AccountService) GetBalance(ctx context.Context, userID int64) (int64, error) {
	var balance int64
	err := s.db.QueryRow(ctx, `SELECT coins FROM users WHERE id = $1`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return balance, nil
}

// Credit начисляет коины и пишет журнал
func (s *AccountService) Credit(ctx context.Context, userID, amount int64, kind, note string) (newBalance int64, err error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	newBalance, err = s.CreditWithTx(ctx, tx, userID, amount, kind, note)
	if err != nil {
		return 0, err
	}

	return newBalance, tx.Commit(ctx)
}

// Debit списывает коины и пишет журнал. При нехватке средств операция
// отклоняется целиком, баланс не трогается.
func (s *AccountService) Debit(ctx context.Context, userID, amount int64, kind, note string) (newBalance int64, err error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	newBalance, err = s.DebitWithTx(ctx, tx, userID, amount, kind, note)
	if err != nil {
		return 0, err
	}

	return newBalance, tx.Commit(ctx)
}

// CreditWithTx начисляет в рамках внешней транзакции
func (s *AccountService) CreditWithTx(ctx context.Context, tx pgx.Tx, userID, amount int64, kind, note string) (newBalance int64, err error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	err = tx.QueryRow(ctx,
		`UPDATE users SET coins = coins + $1 WHERE id = $2 RETURNING coins`,
		amount, userID,
	).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	record := &domain.Transaction{
		UserID: userID,
		Kind:   kind,
		Amount: amount,
		Note:   note,
	}
	if err = s.transactionRepo.CreateWithTx(ctx, tx, record); err != nil {
		return 0, err
	}

	metrics.CoinsCredited.WithLabelValues(kind).Add(float64(amount))
	return newBalance, nil
}

// DebitWithTx списывает в рамках внешней транзакции. Условие coins >= $1
// в UPDATE не даёт балансу уйти в минус при конкурентных списаниях.
func (s *AccountService) DebitWithTx(ctx context.Context, tx pgx.Tx, userID, amount int64, kind, note string) (newBalance int64, err error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	err = tx.QueryRow(ctx,
		`UPDATE users SET coins = coins - $1 WHERE id = $2 AND coins >= $1 RETURNING coins`,
		amount, userID,
	).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// либо пользователя нет, либо не хватает средств
			var exists bool
			_ = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
			if !exists {
				return 0, ErrUserNotFound
			}
			return 0, ErrInsufficientFunds
		}
		return 0, err
	}

	record := &domain.Transaction{
		UserID: userID,
		Kind:   kind,
		Amount: -amount,
		Note:   note,
	}
	if err = s.transactionRepo.CreateWithTx(ctx, tx, record); err != nil {
		return 0, err
	}

	metrics.CoinsDebited.WithLabelValues(kind).Add(float64(amount))
	return newBalance, nil
}

// LockPairWithTx блокирует строки двух пользователей.
// Упорядочиваем по id для предотвращения deadlock'ов: двусторонние операции
// берут оба замка здесь до любых изменений балансов.
func (s *AccountService) LockPairWithTx(ctx context.Context, tx pgx.Tx, a, b int64) error {
	first, second := a, b
	if first > second {
		first, second = second, first
	}

	for _, id := range []int64{first, second} {
		var coins int64
		if err := tx.QueryRow(ctx, `SELECT coins FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&coins); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrUserNotFound
			}
			return err
		}
	}
	return nil
}

// возвращает историю транзакций пользователя
func (s *AccountService) GetTransactionHistory(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error) {
	return s.transactionRepo.GetByUserID(ctx, userID, limit)
}
