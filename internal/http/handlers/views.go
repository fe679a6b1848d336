package handlers

import (
	"football_stars/internal/catalog"
	"football_stars/internal/domain"
)

// Сборка JSON представлений. Слайсы всегда инициализированы: пустой
// инвентарь или топ отдается как [], а не null.

func inventoryView(entries []*domain.InventoryEntry, cat *catalog.Catalog) []domain.InventoryView {
	out := make([]domain.InventoryView, 0, len(entries))
	for _, e := range entries {
		v := domain.InventoryView{CardID: e.CardID, Qty: e.Qty}
		if card := cat.Card(e.CardID); card != nil {
			v.Name = card.Name
			v.Position = card.Position
			v.Rating = card.Rating
			v.Rarity = card.Rarity
			v.Image = card.Image
		}
		out = append(out, v)
	}
	return out
}

func historyView(transactions []*domain.Transaction) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(transactions))
	for _, tx := range transactions {
		out = append(out, map[string]interface{}{
			"kind":   tx.Kind,
			"amount": tx.Amount,
			"note":   tx.Note,
			"date":   tx.CreatedAt,
		})
	}
	return out
}

func leaderboardView(top []*domain.User) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(top))
	for i, u := range top {
		out = append(out, map[string]interface{}{
			"place":      i + 1,
			"id":         u.ID,
			"username":   u.Username,
			"first_name": u.FirstName,
			"coins":      u.Coins,
		})
	}
	return out
}
