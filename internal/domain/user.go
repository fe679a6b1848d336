package domain

import "time"

type User struct {
	ID          int64     `db:"id" json:"id"`
	TgID        int64     `db:"tg_id" json:"tg_id"`
	Username    string    `db:"username" json:"username"`
	FirstName   string    `db:"first_name" json:"first_name"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	Coins       int64     `db:"coins" json:"coins"`               // игровая валюта
	PackCredits int64     `db:"pack_credits" json:"pack_credits"` // купленные открытия паков
	LastDaily   int64     `db:"last_daily" json:"last_daily"`     // unix время последней ежедневной награды
	ClubID      string    `db:"club_id" json:"club_id"`           // выбранный клуб из справочника
}

// Экономические константы игры
const (
	StartingCoins   = 1000 // стартовый баланс нового пользователя
	PackCostCoins   = 300  // цена одного пак-кредита в коинах
	DailyCooldown   = 86400
	DailyRewardMin  = 200
	DailyRewardMax  = 500
	MatchRewardMin  = 200
	MatchRewardMax  = 400
	MatchEnemyMin   = 150
	MatchEnemyMax   = 300
	TradeFeePct     = 5   // комиссия p2p обмена, сгорает
	LevelUpBonus    = 100 // коины за каждый новый уровень
	XPPerPack       = 20
	XPPerMatchWin   = 30
)

// Множитель наград для VIP. Применяется один раз в момент начисления,
// дробная часть отбрасывается.
const VIPRewardMultiplier = 1.5
