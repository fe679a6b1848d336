package repository

import (
	"context"
	"errors"
	"time"

	"football_stars/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TradeRepository struct {
	db *pgxpool.Pool
}

func NewTradeRepository(db *pgxpool.Pool) *TradeRepository {
	return &TradeRepository{db: db}
}

const tradeColumns = `id, seller_id, buyer_id, card_id, price, fee, status, created_at, accepted_at`

func scanTrade(row pgx.Row) (*domain.Trade, error) {
	var t domain.Trade
	err := row.Scan(&t.ID, &t.SellerID, &t.BuyerID, &t.CardID, &t.Price, &t.Fee,
		&t.Status, &t.CreatedAt, &t.AcceptedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateWithTx создает обмен в статусе pending
func (r *TradeRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, t *domain.Trade) error {
	return tx.QueryRow(ctx, `
		INSERT INTO p2p_player_trades (seller_id, buyer_id, card_id, price, fee, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING id, created_at
	`, t.SellerID, t.BuyerID, t.CardID, t.Price, t.Fee).Scan(&t.ID, &t.CreatedAt)
}

// GetForUpdate блокирует строку обмена на время транзакции
func (r *TradeRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Trade, error) {
	row := tx.QueryRow(ctx, `SELECT `+tradeColumns+` FROM p2p_player_trades WHERE id = $1 FOR UPDATE`, id)
	t, err := scanTrade(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

// MarkAcceptedWithTx переводит обмен в терминальный статус accepted
func (r *TradeRepository) MarkAcceptedWithTx(ctx context.Context, tx pgx.Tx, id int64, acceptedAt time.Time) error {
	_, err := tx.Exec(ctx,
		`UPDATE p2p_player_trades SET status = 'accepted', accepted_at = $2 WHERE id = $1`, id, acceptedAt)
	return err
}

// MarkCanceledWithTx переводит обмен в терминальный статус canceled
func (r *TradeRepository) MarkCanceledWithTx(ctx context.Context, tx pgx.Tx, id int64) error {
	_, err := tx.Exec(ctx,
		`UPDATE p2p_player_trades SET status = 'canceled' WHERE id = $1`, id)
	return err
}

// возвращает обмены, где пользователь продавец или покупатель
func (r *TradeRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.Trade, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+tradeColumns+` FROM p2p_player_trades
		WHERE seller_id = $1 OR buyer_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
