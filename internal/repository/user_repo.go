package repository

import (
	"context"

	"football_stars/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, tg_id, username, first_name, created_at, coins, pack_credits, last_daily, club_id`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.TgID, &u.Username, &u.FirstName, &u.CreatedAt,
		&u.Coins, &u.PackCredits, &u.LastDaily, &u.ClubID)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// получает пользователя по внутреннему id
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// получает пользователя по Telegram id
func (r *UserRepository) GetByTgID(ctx context.Context, tgID int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE tg_id = $1`, tgID)
	u, err := scanUser(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return u, err
}

// GetOrCreate возвращает пользователя, создавая запись при первом обращении.
// Любая операция, касающаяся пользователя, начинается отсюда и дальше
// работает с полностью инициализированной записью.
func (r *UserRepository) GetOrCreate(ctx context.Context, tgID int64, username, firstName string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (tg_id, username, first_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (tg_id) DO UPDATE SET username = EXCLUDED.username, first_name = EXCLUDED.first_name
		RETURNING `+userColumns,
		tgID, username, firstName)
	return scanUser(row)
}

// устанавливает выбранный клуб
func (r *UserRepository) SetClub(ctx context.Context, userID int64, clubID string) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET club_id = $2 WHERE id = $1`, userID, clubID)
	return err
}

// возвращает топ пользователей по балансу
func (r *UserRepository) TopByCoins(ctx context.Context, limit int) ([]*domain.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY coins DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
