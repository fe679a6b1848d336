package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"football_stars/internal/catalog"
	"football_stars/internal/domain"
	"football_stars/internal/game"
	"football_stars/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrDailyCooldown = errors.New("ежедневная награда уже получена")
	ErrNoSquad       = errors.New("нет игроков для матча")
)

// CooldownError сообщает сколько осталось ждать до следующей награды
type CooldownError struct {
	Remaining int64 // секунды
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("ежедневная награда будет доступна через %d сек", e.Remaining)
}

func (e *CooldownError) Is(target error) bool {
	return target == ErrDailyCooldown
}

// RewardService - ежедневная награда и матчи
type RewardService struct {
	db          *pgxpool.Pool
	accounts    *AccountService
	progression *ProgressionService
	inventory   *repository.InventoryRepository
	catalog     *catalog.Catalog

	mu  sync.Mutex
	rng *rand.Rand
}

func NewRewardService(db *pgxpool.Pool, accounts *AccountService, progression *ProgressionService, cat *catalog.Catalog, rng *rand.Rand) *RewardService {
	return &RewardService{
		db:          db,
		accounts:    accounts,
		progression: progression,
		inventory:   repository.NewInventoryRepository(db),
		catalog:     cat,
		rng:         rng,
	}
}

// DailyResult - итог ежедневной награды
type DailyResult struct {
	Reward     int64 `json:"reward"`
	NewBalance int64 `json:"coins"`
}

// ClaimDaily выдает ежедневную награду не чаще раза в сутки.
// Строка пользователя блокируется, чтобы два одновременных запроса не
// получили награду дважды.
func (s *RewardService) ClaimDaily(ctx context.Context, userID int64) (*DailyResult, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var lastDaily int64
	err = tx.QueryRow(ctx,
		`SELECT last_daily FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&lastDaily)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	now := time.Now().Unix()
	if now-lastDaily < domain.DailyCooldown {
		return nil, &CooldownError{Remaining: domain.DailyCooldown - (now - lastDaily)}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET last_daily = $2 WHERE id = $1`, userID, now); err != nil {
		return nil, err
	}

	s.mu.Lock()
	base := game.RollDailyReward(s.rng)
	s.mu.Unlock()

	credited, newBalance, err := s.progression.RewardWithTx(ctx, tx, userID, base, domain.TxDaily, "ежедневная награда")
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &DailyResult{Reward: credited, NewBalance: newBalance}, nil
}

// MatchOutcome - итог матча вместе с начислениями
type MatchOutcome struct {
	game.MatchResult
	Credited   int64     `json:"credited"`
	NewBalance int64     `json:"coins"`
	Progress   *XPResult `json:"progress,omitempty"`
}

// PlayMatch симулирует матч против случайного соперника. Победа приносит
// коины (с VIP множителем) и опыт.
func (s *RewardService) PlayMatch(ctx context.Context, userID int64) (*MatchOutcome, error) {
	entries, err := s.inventory.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	power := game.SquadPower(entries, s.catalog)
	if power == 0 {
		return nil, ErrNoSquad
	}

	s.mu.Lock()
	result := game.SimulateMatch(power, s.rng)
	s.mu.Unlock()

	outcome := &MatchOutcome{MatchResult: result}
	if !result.Win {
		return outcome, nil
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	credited, newBalance, err := s.progression.RewardWithTx(ctx, tx, userID, result.Reward, domain.TxMatchWin, "победа в матче")
	if err != nil {
		return nil, err
	}
	progress, err := s.progression.AddXPWithTx(ctx, tx, userID, domain.XPPerMatchWin, "победа в матче")
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	outcome.Credited = credited
	outcome.NewBalance = newBalance
	outcome.Progress = progress
	return outcome, nil
}
