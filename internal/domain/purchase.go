package domain

import "time"

// Purchase - факт применения внешнего платежа. Существование записи с
// данным charge_id означает, что грант уже выдан: это защита от
// повторной доставки подтверждения платежа.
type Purchase struct {
	ID        int64     `db:"id" json:"id"`
	ChargeID  string    `db:"charge_id" json:"charge_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Payload   string    `db:"payload" json:"payload"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Product - позиция каталога покупок: что именно начисляется за платеж
type Product struct {
	Payload  string `json:"payload"`  // идентификатор в invoice payload
	Title    string `json:"title"`    // название для инвойса
	PriceXTR int64  `json:"price"`    // цена в Telegram Stars
	Coins    int64  `json:"coins"`    // начисляемые коины
	Packs    int64  `json:"packs"`    // начисляемые пак-кредиты
	VIPDays  int64  `json:"vip_days"` // продление VIP в днях
}

// Каталог покупок. Ключ - payload инвойса.
var Products = map[string]Product{
	"coins_1000": {Payload: "coins_1000", Title: "1000 монет", PriceXTR: 100, Coins: 1000},
	"coins_5000": {Payload: "coins_5000", Title: "5000 монет", PriceXTR: 450, Coins: 5000},
	"packs_5":    {Payload: "packs_5", Title: "5 паков", PriceXTR: 150, Packs: 5},
	"vip_30":     {Payload: "vip_30", Title: "VIP на 30 дней", PriceXTR: 300, VIPDays: 30},
}
