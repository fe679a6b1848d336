package domain

import "time"

type TradeStatus string

const (
	TradePending  TradeStatus = "pending"
	TradeAccepted TradeStatus = "accepted"
	TradeCanceled TradeStatus = "canceled"
)

// Trade - p2p обмен с эскроу. Пока статус pending, единица карты не
// принадлежит ни одной из сторон: она списана у продавца и удерживается
// самим обменом. Переходы только pending -> accepted и pending -> canceled.
type Trade struct {
	ID         int64       `db:"id" json:"id"`
	SellerID   int64       `db:"seller_id" json:"seller_id"`
	BuyerID    int64       `db:"buyer_id" json:"buyer_id"`
	CardID     string      `db:"card_id" json:"card_id"`
	Price      int64       `db:"price" json:"price"`
	Fee        int64       `db:"fee" json:"fee"` // сгорает, продавцу не выплачивается
	Status     TradeStatus `db:"status" json:"status"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
	AcceptedAt *time.Time  `db:"accepted_at" json:"accepted_at,omitempty"`
}

// TradeFee вычисляет комиссию обмена: max(1, price*TradeFeePct/100)
func TradeFee(price int64) int64 {
	fee := price * TradeFeePct / 100
	if fee < 1 {
		fee = 1
	}
	return fee
}
