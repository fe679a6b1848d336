package repository

import (
	"context"

	"football_stars/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProgressionRepository обслуживает side-таблицы user_level и vip.
// Обе строки создаются лениво при первом обращении.
type ProgressionRepository struct {
	db *pgxpool.Pool
}

func NewProgressionRepository(db *pgxpool.Pool) *ProgressionRepository {
	return &ProgressionRepository{db: db}
}

// GetOrCreateLevelForUpdate возвращает прогресс, блокируя строку до коммита
func (r *ProgressionRepository) GetOrCreateLevelForUpdate(ctx context.Context, tx pgx.Tx, userID int64) (*domain.Progression, error) {
	_, err := tx.Exec(ctx, `
		INSERT INTO user_level (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return nil, err
	}

	var p domain.Progression
	err = tx.QueryRow(ctx,
		`SELECT user_id, xp, level FROM user_level WHERE user_id = $1 FOR UPDATE`,
		userID).Scan(&p.UserID, &p.XP, &p.Level)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// сохраняет новые xp и уровень
func (r *ProgressionRepository) UpdateLevelWithTx(ctx context.Context, tx pgx.Tx, p *domain.Progression) error {
	_, err := tx.Exec(ctx,
		`UPDATE user_level SET xp = $2, level = $3 WHERE user_id = $1`,
		p.UserID, p.XP, p.Level)
	return err
}

// возвращает прогресс пользователя (без блокировки, для чтения)
func (r *ProgressionRepository) GetLevel(ctx context.Context, userID int64) (*domain.Progression, error) {
	var p domain.Progression
	err := r.db.QueryRow(ctx,
		`SELECT user_id, xp, level FROM user_level WHERE user_id = $1`,
		userID).Scan(&p.UserID, &p.XP, &p.Level)
	if err == pgx.ErrNoRows {
		return &domain.Progression{UserID: userID, XP: 0, Level: 1}, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetOrCreateVIPForUpdate возвращает запись vip, блокируя строку до коммита
func (r *ProgressionRepository) GetOrCreateVIPForUpdate(ctx context.Context, tx pgx.Tx, userID int64) (*domain.VIP, error) {
	_, err := tx.Exec(ctx, `
		INSERT INTO vip (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return nil, err
	}

	var v domain.VIP
	err = tx.QueryRow(ctx,
		`SELECT user_id, vip_until FROM vip WHERE user_id = $1 FOR UPDATE`,
		userID).Scan(&v.UserID, &v.VIPUntil)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// сохраняет новый срок действия vip
func (r *ProgressionRepository) UpdateVIPWithTx(ctx context.Context, tx pgx.Tx, v *domain.VIP) error {
	_, err := tx.Exec(ctx,
		`UPDATE vip SET vip_until = $2 WHERE user_id = $1`, v.UserID, v.VIPUntil)
	return err
}

// возвращает срок действия vip, 0 если записи нет
func (r *ProgressionRepository) VIPUntil(ctx context.Context, userID int64) (int64, error) {
	var until int64
	err := r.db.QueryRow(ctx,
		`SELECT vip_until FROM vip WHERE user_id = $1`, userID).Scan(&until)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	return until, err
}

// VIPUntilWithTx читает срок vip внутри транзакции без блокировки
func (r *ProgressionRepository) VIPUntilWithTx(ctx context.Context, tx pgx.Tx, userID int64) (int64, error) {
	var until int64
	err := tx.QueryRow(ctx,
		`SELECT vip_until FROM vip WHERE user_id = $1`, userID).Scan(&until)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	return until, err
}
