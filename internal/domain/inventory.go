package domain

// InventoryEntry - количество экземпляров карты у пользователя.
// Количество никогда не уходит в минус; строки с нулём считаются отсутствующими.
type InventoryEntry struct {
	UserID int64  `db:"user_id" json:"user_id"`
	CardID string `db:"card_id" json:"card_id"`
	Qty    int64  `db:"qty" json:"qty"`
}

// Запись инвентаря вместе с данными карты из справочника
type InventoryView struct {
	CardID   string `json:"card_id"`
	Qty      int64  `json:"qty"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Rating   int    `json:"rating"`
	Rarity   string `json:"rarity"`
	Image    string `json:"image"`
}
