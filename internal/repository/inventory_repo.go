package repository

import (
	"context"
	"errors"

	"football_stars/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotEnoughCards = errors.New("недостаточно карт в инвентаре")

type InventoryRepository struct {
	db *pgxpool.Pool
}

func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// AddWithTx увеличивает количество карты, создавая строку при первом получении
func (r *InventoryRepository) AddWithTx(ctx context.Context, tx pgx.Tx, userID int64, cardID string, qty int64) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO inventory (user_id, card_id, qty)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, card_id) DO UPDATE SET qty = inventory.qty + EXCLUDED.qty
	`, userID, cardID, qty)
	return err
}

// RemoveWithTx списывает qty экземпляров. Условие qty >= $3 в самом UPDATE
// не даёт двум одновременным списаниям забрать последний экземпляр дважды.
func (r *InventoryRepository) RemoveWithTx(ctx context.Context, tx pgx.Tx, userID int64, cardID string, qty int64) error {
	var remaining int64
	err := tx.QueryRow(ctx, `
		UPDATE inventory SET qty = qty - $3
		WHERE user_id = $1 AND card_id = $2 AND qty >= $3
		RETURNING qty
	`, userID, cardID, qty).Scan(&remaining)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotEnoughCards
	}
	return err
}

// количество экземпляров карты у пользователя (0 если строки нет)
func (r *InventoryRepository) Qty(ctx context.Context, userID int64, cardID string) (int64, error) {
	var qty int64
	err := r.db.QueryRow(ctx,
		`SELECT qty FROM inventory WHERE user_id = $1 AND card_id = $2`,
		userID, cardID).Scan(&qty)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return qty, err
}

// возвращает инвентарь пользователя, нулевые строки скрыты
func (r *InventoryRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.InventoryEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, card_id, qty FROM inventory
		WHERE user_id = $1 AND qty > 0
		ORDER BY card_id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.InventoryEntry
	for rows.Next() {
		var e domain.InventoryEntry
		if err := rows.Scan(&e.UserID, &e.CardID, &e.Qty); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// EscrowedByUser возвращает количество карт пользователя, удерживаемых
// незавершёнными обменами: их нет в инвентаре, но они ещё не переданы
func (r *InventoryRepository) EscrowedByUser(ctx context.Context, userID int64) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT card_id, COUNT(*) FROM p2p_player_trades
		WHERE seller_id = $1 AND status = 'pending'
		GROUP BY card_id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var cardID string
		var n int64
		if err := rows.Scan(&cardID, &n); err != nil {
			return nil, err
		}
		out[cardID] = n
	}
	return out, rows.Err()
}
