package service

import (
	"context"
	"time"

	"football_stars/internal/domain"
	"football_stars/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProgressionService обслуживает опыт, уровни и VIP статус
type ProgressionService struct {
	db       *pgxpool.Pool
	repo     *repository.ProgressionRepository
	accounts *AccountService
}

func NewProgressionService(db *pgxpool.Pool, accounts *AccountService) *ProgressionService {
	return &ProgressionService{
		db:       db,
		repo:     repository.NewProgressionRepository(db),
		accounts: accounts,
	}
}

// ApplyLevelUps переносит опыт через пороги уровней. Опыта может хватить
// сразу на несколько уровней, тогда пороги вычитаются каскадом.
func ApplyLevelUps(xp int64, level int) (int64, int, int) {
	gained := 0
	for xp >= domain.LevelThreshold(level) {
		xp -= domain.LevelThreshold(level)
		level++
		gained++
	}
	return xp, level, gained
}

// NextVIPUntil продлевает срок VIP: отсчёт от большего из "сейчас" и
// текущего срока. Продление никогда не укорачивает и не стыкуется с
// истёкшим сроком.
func NextVIPUntil(current, now, days int64) int64 {
	base := current
	if now > base {
		base = now
	}
	return base + days*86400
}

// XPResult - итог начисления опыта
type XPResult struct {
	XP        int64 `json:"xp"`
	Level     int   `json:"level"`
	LeveledUp bool  `json:"leveled_up"`
}

// AddXPWithTx начисляет опыт в рамках внешней транзакции.
// За каждый новый уровень начисляется фиксированный бонус коинов.
func (s *ProgressionService) AddXPWithTx(ctx context.Context, tx pgx.Tx, userID, amount int64, note string) (*XPResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	p, err := s.repo.GetOrCreateLevelForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	xp, level, gained := ApplyLevelUps(p.XP+amount, p.Level)
	p.XP, p.Level = xp, level

	if err := s.repo.UpdateLevelWithTx(ctx, tx, p); err != nil {
		return nil, err
	}

	if gained > 0 {
		bonus := int64(gained) * domain.LevelUpBonus
		if _, err := s.accounts.CreditWithTx(ctx, tx, userID, bonus, domain.TxLevelBonus, note); err != nil {
			return nil, err
		}
	}

	return &XPResult{XP: p.XP, Level: p.Level, LeveledUp: gained > 0}, nil
}

// AddXP начисляет опыт отдельной транзакцией
func (s *ProgressionService) AddXP(ctx context.Context, userID, amount int64, note string) (*XPResult, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	res, err := s.AddXPWithTx(ctx, tx, userID, amount, note)
	if err != nil {
		return nil, err
	}
	return res, tx.Commit(ctx)
}

// возвращает прогресс пользователя
func (s *ProgressionService) GetProgress(ctx context.Context, userID int64) (*domain.Progression, error) {
	return s.repo.GetLevel(ctx, userID)
}

// IsVIP сообщает активен ли VIP в данный момент
func (s *ProgressionService) IsVIP(ctx context.Context, userID int64) (bool, error) {
	until, err := s.repo.VIPUntil(ctx, userID)
	if err != nil {
		return false, err
	}
	return until > time.Now().Unix(), nil
}

// IsVIPWithTx - то же самое внутри транзакции
func (s *ProgressionService) IsVIPWithTx(ctx context.Context, tx pgx.Tx, userID int64) (bool, error) {
	until, err := s.repo.VIPUntilWithTx(ctx, tx, userID)
	if err != nil {
		return false, err
	}
	return until > time.Now().Unix(), nil
}

// VIPUntil возвращает срок действия VIP
func (s *ProgressionService) VIPUntil(ctx context.Context, userID int64) (int64, error) {
	return s.repo.VIPUntil(ctx, userID)
}

// ExtendVIP продлевает VIP на days дней
func (s *ProgressionService) ExtendVIP(ctx context.Context, userID, days int64) (newUntil int64, err error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	newUntil, err = s.ExtendVIPWithTx(ctx, tx, userID, days)
	if err != nil {
		return 0, err
	}
	return newUntil, tx.Commit(ctx)
}

// ExtendVIPWithTx продлевает VIP в рамках внешней транзакции
func (s *ProgressionService) ExtendVIPWithTx(ctx context.Context, tx pgx.Tx, userID, days int64) (int64, error) {
	if days <= 0 {
		return 0, ErrInvalidAmount
	}

	v, err := s.repo.GetOrCreateVIPForUpdate(ctx, tx, userID)
	if err != nil {
		return 0, err
	}

	v.VIPUntil = NextVIPUntil(v.VIPUntil, time.Now().Unix(), days)
	if err := s.repo.UpdateVIPWithTx(ctx, tx, v); err != nil {
		return 0, err
	}
	return v.VIPUntil, nil
}

// RewardWithTx начисляет коины-награду, применяя VIP множитель один раз
// в момент начисления (дробная часть отбрасывается)
func (s *ProgressionService) RewardWithTx(ctx context.Context, tx pgx.Tx, userID, base int64, kind, note string) (credited, newBalance int64, err error) {
	vip, err := s.IsVIPWithTx(ctx, tx, userID)
	if err != nil {
		return 0, 0, err
	}

	credited = base
	if vip {
		credited = int64(float64(base) * domain.VIPRewardMultiplier)
	}

	newBalance, err = s.accounts.CreditWithTx(ctx, tx, userID, credited, kind, note)
	if err != nil {
		return 0, 0, err
	}
	return credited, newBalance, nil
}
