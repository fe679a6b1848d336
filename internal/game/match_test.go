package game

import (
	"math/rand"
	"testing"

	"football_stars/internal/catalog"
	"football_stars/internal/domain"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.Card{
		{ID: "a", Rating: 80},
		{ID: "b", Rating: 90},
		{ID: "c", Rating: 70},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return cat
}

func TestSquadPower(t *testing.T) {
	cat := testCatalog(t)

	entries := []*domain.InventoryEntry{
		{CardID: "a", Qty: 1}, // 80
		{CardID: "b", Qty: 2}, // 90+90
	}
	// средний рейтинг (80+90+90)/3 = 86, сила 86*3 = 258
	if got := SquadPower(entries, cat); got != 258 {
		t.Fatalf("SquadPower = %d, ожидалось 258", got)
	}
}

func TestSquadPower_EmptySquad(t *testing.T) {
	cat := testCatalog(t)
	if got := SquadPower(nil, cat); got != 0 {
		t.Fatalf("пустой состав должен давать силу 0, получено %d", got)
	}
}

func TestSquadPower_UnknownCardSkipped(t *testing.T) {
	cat := testCatalog(t)
	entries := []*domain.InventoryEntry{
		{CardID: "ghost", Qty: 5},
		{CardID: "c", Qty: 1},
	}
	// неизвестная карта не участвует: 70*3 = 210
	if got := SquadPower(entries, cat); got != 210 {
		t.Fatalf("SquadPower = %d, ожидалось 210", got)
	}
}

func TestSimulateMatch_Ranges(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 1000; i++ {
		res := SimulateMatch(250, rng)

		if res.EnemyPower < domain.MatchEnemyMin || res.EnemyPower > domain.MatchEnemyMax {
			t.Fatalf("сила соперника %d вне диапазона", res.EnemyPower)
		}
		if res.Win != (res.YourPower > res.EnemyPower) {
			t.Fatalf("флаг победы не соответствует силам: %+v", res)
		}
		if res.Win {
			if res.Reward < domain.MatchRewardMin || res.Reward > domain.MatchRewardMax {
				t.Fatalf("награда %d вне диапазона", res.Reward)
			}
		} else if res.Reward != 0 {
			t.Fatalf("награда при поражении должна быть 0, получено %d", res.Reward)
		}
	}
}

func TestSimulateMatch_AlwaysWinsAboveMax(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 100; i++ {
		if res := SimulateMatch(domain.MatchEnemyMax+1, rng); !res.Win {
			t.Fatalf("сила выше максимума соперника должна гарантировать победу")
		}
	}
}

func TestRollDailyReward_Range(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 1000; i++ {
		r := RollDailyReward(rng)
		if r < domain.DailyRewardMin || r > domain.DailyRewardMax {
			t.Fatalf("ежедневная награда %d вне диапазона", r)
		}
	}
}
