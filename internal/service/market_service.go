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
	ErrListingNotFound  = errors.New("лот не найден")
	ErrListingNotActive = errors.New("лот уже не активен")
	ErrOwnListing       = errors.New("нельзя купить свой лот")
	ErrNotSeller        = errors.New("лот принадлежит другому продавцу")
	ErrInvalidPrice     = errors.New("неверная цена")
	ErrUnknownCard      = errors.New("карта не найдена в справочнике")
)

// MarketFeed получает события рынка для рассылки подключенным клиентам
type MarketFeed interface {
	Broadcast(event string, listing *domain.Listing)
}

// MarketService - публичный рынок карт
type MarketService struct {
	db        *pgxpool.Pool
	accounts  *AccountService
	inventory *repository.InventoryRepository
	listings  *repository.MarketRepository
	catalog   *catalog.Catalog
	feed      MarketFeed // может быть nil
}

func NewMarketService(db *pgxpool.Pool, accounts *AccountService, cat *catalog.Catalog) *MarketService {
	return &MarketService{
		db:        db,
		accounts:  accounts,
		inventory: repository.NewInventoryRepository(db),
		listings:  repository.NewMarketRepository(db),
		catalog:   cat,
	}
}

// SetFeed подключает рассылку событий рынка
func (s *MarketService) SetFeed(feed MarketFeed) {
	s.feed = feed
}

// List выставляет карту на продажу. Единица карты списывается из
// инвентаря продавца и с этого момента удерживается лотом.
func (s *MarketService) List(ctx context.Context, sellerID int64, cardID string, price int64) (*domain.Listing, error) {
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

	if err := s.inventory.RemoveWithTx(ctx, tx, sellerID, cardID, 1); err != nil {
		return nil, err
	}

	listing := &domain.Listing{
		SellerID: sellerID,
		CardID:   cardID,
		Price:    price,
		Status:   domain.ListingActive,
	}
	if err := s.listings.CreateWithTx(ctx, tx, listing); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if s.feed != nil {
		s.feed.Broadcast("listed", listing)
	}
	return listing, nil
}

// Buy покупает лот. Списание с покупателя, начисление продавцу, передача
// карты и смена статуса происходят одной транзакцией: частичное
// применение невозможно. При гонке двух покупателей выигрывает тот, кто
// первым закоммитит смену статуса, второй получает ErrListingNotActive.
func (s *MarketService) Buy(ctx context.Context, buyerID, listingID int64) (*domain.Listing, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	listing, err := s.listings.GetForUpdate(ctx, tx, listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	if listing.Status != domain.ListingActive {
		return nil, ErrListingNotActive
	}
	if listing.SellerID == buyerID {
		return nil, ErrOwnListing
	}

	if err := s.accounts.LockPairWithTx(ctx, tx, buyerID, listing.SellerID); err != nil {
		return nil, err
	}

	note := fmt.Sprintf("лот #%d, карта %s", listing.ID, listing.CardID)
	if _, err := s.accounts.DebitWithTx(ctx, tx, buyerID, listing.Price, domain.TxMarketPurchase, note); err != nil {
		return nil, err
	}
	if _, err := s.accounts.CreditWithTx(ctx, tx, listing.SellerID, listing.Price, domain.TxMarketSale, note); err != nil {
		return nil, err
	}
	if err := s.inventory.AddWithTx(ctx, tx, buyerID, listing.CardID, 1); err != nil {
		return nil, err
	}

	soldAt := time.Now()
	if err := s.listings.MarkSoldWithTx(ctx, tx, listing.ID, soldAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	listing.Status = domain.ListingSold
	listing.SoldAt = &soldAt
	metrics.MarketSales.Inc()

	if s.feed != nil {
		s.feed.Broadcast("sold", listing)
	}
	return listing, nil
}

// Cancel снимает свой активный лот с продажи и возвращает карту
func (s *MarketService) Cancel(ctx context.Context, sellerID, listingID int64) (*domain.Listing, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	listing, err := s.listings.GetForUpdate(ctx, tx, listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	if listing.Status != domain.ListingActive {
		return nil, ErrListingNotActive
	}
	if listing.SellerID != sellerID {
		return nil, ErrNotSeller
	}

	if err := s.inventory.AddWithTx(ctx, tx, sellerID, listing.CardID, 1); err != nil {
		return nil, err
	}
	if err := s.listings.MarkCanceledWithTx(ctx, tx, listing.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	listing.Status = domain.ListingCanceled
	if s.feed != nil {
		s.feed.Broadcast("canceled", listing)
	}
	return listing, nil
}

// ActiveListings возвращает витрину рынка с данными карт
func (s *MarketService) ActiveListings(ctx context.Context, limit int) ([]*domain.ListingView, error) {
	listings, err := s.listings.ListActive(ctx, limit)
	if err != nil {
		return nil, err
	}

	views := make([]*domain.ListingView, 0, len(listings))
	for _, l := range listings {
		view := &domain.ListingView{Listing: *l}
		if card := s.catalog.Card(l.CardID); card != nil {
			view.CardName = card.Name
			view.Position = card.Position
			view.Rating = card.Rating
			view.Rarity = card.Rarity
			view.Image = card.Image
		}
		views = append(views, view)
	}
	return views, nil
}

// MyListings возвращает лоты продавца
func (s *MarketService) MyListings(ctx context.Context, sellerID int64) ([]*domain.Listing, error) {
	return s.listings.ListBySeller(ctx, sellerID, 100)
}
