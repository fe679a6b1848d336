package domain

import "time"

// Типы записей в журнале транзакций
const (
	TxDaily          = "daily"
	TxPackBuy        = "pack_buy"
	TxPackOpen       = "pack_open"
	TxMatchWin       = "match_win"
	TxMarketSale     = "market_sale"
	TxMarketPurchase = "market_purchase"
	TxTradeSale      = "trade_sale"
	TxTradePurchase  = "trade_purchase"
	TxLevelBonus     = "level_bonus"
	TxPurchaseGrant  = "purchase_grant"
)

// Transaction - запись журнала. Журнал только дописывается, никогда не
// изменяется; источником истины для текущего состояния остаются балансы.
type Transaction struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Kind      string    `db:"kind" json:"kind"`
	Amount    int64     `db:"amount" json:"amount"` // со знаком: дебет < 0, кредит > 0
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
