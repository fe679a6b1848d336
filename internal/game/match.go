package game

import (
	"math/rand"

	"football_stars/internal/catalog"
	"football_stars/internal/domain"
)

// MatchResult - итог симуляции матча
type MatchResult struct {
	Win        bool  `json:"win"`
	YourPower  int64 `json:"your_power"`
	EnemyPower int64 `json:"enemy_power"`
	Reward     int64 `json:"reward"` // базовая награда до VIP множителя, 0 при поражении
}

// SquadPower считает силу состава: средний рейтинг собранных карт,
// приведенный к шкале атака+защита+скорость (x3)
func SquadPower(entries []*domain.InventoryEntry, cat *catalog.Catalog) int64 {
	var sum, count int64
	for _, e := range entries {
		card := cat.Card(e.CardID)
		if card == nil {
			continue
		}
		sum += int64(card.Rating) * e.Qty
		count += e.Qty
	}
	if count == 0 {
		return 0
	}
	return sum / count * 3
}

// SimulateMatch разыгрывает матч против случайного соперника
func SimulateMatch(power int64, rng *rand.Rand) MatchResult {
	enemy := domain.MatchEnemyMin + rng.Int63n(domain.MatchEnemyMax-domain.MatchEnemyMin+1)

	res := MatchResult{
		YourPower:  power,
		EnemyPower: enemy,
		Win:        power > enemy,
	}
	if res.Win {
		res.Reward = domain.MatchRewardMin + rng.Int63n(domain.MatchRewardMax-domain.MatchRewardMin+1)
	}
	return res
}

// RollDailyReward возвращает размер ежедневной награды
func RollDailyReward(rng *rand.Rand) int64 {
	return domain.DailyRewardMin + rng.Int63n(domain.DailyRewardMax-domain.DailyRewardMin+1)
}
