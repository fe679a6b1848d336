package handlers

import (
	"encoding/json"
	"testing"

	"football_stars/internal/catalog"
	"football_stars/internal/domain"
)

func testViewCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.Card{
		{ID: "a", Name: "A", Position: "ST", Rating: 80, Rarity: "rare", Image: "/cards/a.png"},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return cat
}

// пустые коллекции должны отдаваться как [], а не null
func TestViews_EmptyRenderAsArray(t *testing.T) {
	cat := testViewCatalog(t)

	for name, view := range map[string]interface{}{
		"inventory":   inventoryView(nil, cat),
		"history":     historyView(nil),
		"leaderboard": leaderboardView(nil),
	} {
		data, err := json.Marshal(view)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "[]" {
			t.Errorf("%s: пустое представление отдалось как %s, ожидалось []", name, data)
		}
	}
}

func TestInventoryView_CardDetails(t *testing.T) {
	cat := testViewCatalog(t)

	out := inventoryView([]*domain.InventoryEntry{
		{CardID: "a", Qty: 2},
		{CardID: "ghost", Qty: 1},
	}, cat)

	if len(out) != 2 {
		t.Fatalf("ожидалось 2 позиции, получено %d", len(out))
	}
	if out[0].Name != "A" || out[0].Qty != 2 || out[0].Rating != 80 {
		t.Fatalf("данные карты не подтянулись: %+v", out[0])
	}
	// неизвестная карта остается в инвентаре без данных справочника
	if out[1].CardID != "ghost" || out[1].Name != "" {
		t.Fatalf("у неизвестной карты не должно быть данных справочника: %+v", out[1])
	}
}

func TestLeaderboardView_Places(t *testing.T) {
	out := leaderboardView([]*domain.User{
		{ID: 1, Username: "first", Coins: 500},
		{ID: 2, Username: "second", Coins: 300},
	})

	if len(out) != 2 {
		t.Fatalf("ожидалось 2 места, получено %d", len(out))
	}
	if out[0]["place"] != 1 || out[1]["place"] != 2 {
		t.Fatalf("места не по порядку: %v", out)
	}
}
