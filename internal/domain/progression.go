package domain

// Progression - уровень и накопленный опыт пользователя.
// Опыт сверх порога переносится на следующий уровень.
type Progression struct {
	UserID int64 `db:"user_id" json:"user_id"`
	XP     int64 `db:"xp" json:"xp"`
	Level  int   `db:"level" json:"level"`
}

// VIP - срок действия VIP статуса. Нулевое или прошедшее время = неактивен.
type VIP struct {
	UserID   int64 `db:"user_id" json:"user_id"`
	VIPUntil int64 `db:"vip_until" json:"vip_until"` // unix время
}

// LevelThreshold возвращает сколько опыта нужно для перехода с уровня L
func LevelThreshold(level int) int64 {
	return 100 + int64(level-1)*60
}
