package repository

import (
	"context"

	"football_stars/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PurchaseRepository struct {
	db *pgxpool.Pool
}

func NewPurchaseRepository(db *pgxpool.Pool) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// TryRecord фиксирует charge_id. Возвращает false, если этот платеж уже
// был записан раньше - значит грант уже применялся и повторять его нельзя.
func (r *PurchaseRepository) TryRecord(ctx context.Context, p *domain.Purchase) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO purchases (charge_id, user_id, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT (charge_id) DO NOTHING
	`, p.ChargeID, p.UserID, p.Payload)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// возвращает историю покупок пользователя
func (r *PurchaseRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.Purchase, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, charge_id, user_id, payload, created_at
		FROM purchases
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Purchase
	for rows.Next() {
		var p domain.Purchase
		if err := rows.Scan(&p.ID, &p.ChargeID, &p.UserID, &p.Payload, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
