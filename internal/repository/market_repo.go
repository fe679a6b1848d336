package repository

import (
	"context"
	"errors"
	"time"

	"football_stars/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MarketRepository struct {
	db *pgxpool.Pool
}

func NewMarketRepository(db *pgxpool.Pool) *MarketRepository {
	return &MarketRepository{db: db}
}

const listingColumns = `id, seller_id, card_id, price, status, created_at, sold_at`

func scanListing(row pgx.Row) (*domain.Listing, error) {
	var l domain.Listing
	err := row.Scan(&l.ID, &l.SellerID, &l.CardID, &l.Price, &l.Status, &l.CreatedAt, &l.SoldAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateWithTx создает активный лот
func (r *MarketRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, l *domain.Listing) error {
	return tx.QueryRow(ctx, `
		INSERT INTO market_listings (seller_id, card_id, price, status)
		VALUES ($1, $2, $3, 'active')
		RETURNING id, created_at
	`, l.SellerID, l.CardID, l.Price).Scan(&l.ID, &l.CreatedAt)
}

// GetForUpdate блокирует строку лота на время транзакции.
// Гонка двух покупателей решается здесь: второй дождётся коммита первого
// и увидит уже терминальный статус.
func (r *MarketRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Listing, error) {
	row := tx.QueryRow(ctx, `SELECT `+listingColumns+` FROM market_listings WHERE id = $1 FOR UPDATE`, id)
	l, err := scanListing(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return l, err
}

// MarkSoldWithTx переводит лот в терминальный статус sold
func (r *MarketRepository) MarkSoldWithTx(ctx context.Context, tx pgx.Tx, id int64, soldAt time.Time) error {
	_, err := tx.Exec(ctx,
		`UPDATE market_listings SET status = 'sold', sold_at = $2 WHERE id = $1`, id, soldAt)
	return err
}

// MarkCanceledWithTx переводит лот в терминальный статус canceled
func (r *MarketRepository) MarkCanceledWithTx(ctx context.Context, tx pgx.Tx, id int64) error {
	_, err := tx.Exec(ctx,
		`UPDATE market_listings SET status = 'canceled' WHERE id = $1`, id)
	return err
}

// возвращает активные лоты, новые первыми
func (r *MarketRepository) ListActive(ctx context.Context, limit int) ([]*domain.Listing, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+listingColumns+` FROM market_listings
		WHERE status = 'active'
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// возвращает лоты продавца в любом статусе
func (r *MarketRepository) ListBySeller(ctx context.Context, sellerID int64, limit int) ([]*domain.Listing, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+listingColumns+` FROM market_listings
		WHERE seller_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, sellerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
