package domain

import "time"

type ListingStatus string

const (
	ListingActive   ListingStatus = "active"
	ListingSold     ListingStatus = "sold"
	ListingCanceled ListingStatus = "canceled"
)

// Listing - публичный лот на рынке. Единица карты удерживается лотом:
// при выставлении она списывается из инвентаря продавца, при продаже
// попадает покупателю, при отмене возвращается продавцу.
// sold и canceled - терминальные статусы.
type Listing struct {
	ID        int64         `db:"id" json:"id"`
	SellerID  int64         `db:"seller_id" json:"seller_id"`
	CardID    string        `db:"card_id" json:"card_id"`
	Price     int64         `db:"price" json:"price"`
	Status    ListingStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	SoldAt    *time.Time    `db:"sold_at" json:"sold_at,omitempty"`
}

// Лот вместе с данными карты из справочника, для витрины рынка
type ListingView struct {
	Listing
	CardName   string `json:"card_name"`
	Position   string `json:"position"`
	Rating     int    `json:"rating"`
	Rarity     string `json:"rarity"`
	Image      string `json:"image"`
	SellerName string `json:"seller_name"`
}
