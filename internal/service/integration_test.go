package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"football_stars/internal/catalog"
	"football_stars/internal/db"
	"football_stars/internal/domain"
	"football_stars/internal/game"
	"football_stars/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Интеграционные тесты требуют живой Postgres:
//
//	TEST_DATABASE_URL=postgres://... go test ./internal/service/
//
// Без переменной окружения пропускаются.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL не задан, пропуск интеграционного теста")
	}

	pool := db.Connect(url)
	t.Cleanup(pool.Close)
	return pool
}

var tgIDSeq atomic.Int64

func newTestUser(t *testing.T, ctx context.Context, users *repository.UserRepository) *domain.User {
	t.Helper()
	tgID := time.Now().UnixNano() + tgIDSeq.Add(1)
	u, err := users.GetOrCreate(ctx, tgID, fmt.Sprintf("test_%d", tgID), "Test")
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func giveCard(t *testing.T, ctx context.Context, pool *pgxpool.Pool, userID int64, cardID string, qty int64) {
	t.Helper()
	inv := repository.NewInventoryRepository(pool)
	tx, err := pool.Begin(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := inv.AddWithTx(ctx, tx, userID, cardID, qty); err != nil {
		t.Fatal(err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatal(err)
	}
}

func testServiceCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.Card{
		{ID: "a", Name: "A", Rating: 80, Rarity: "rare"},
		{ID: "b", Name: "B", Rating: 70, Rarity: "common"},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return cat
}

func TestIntegration_CreditDebit(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	users := repository.NewUserRepository(pool)
	accounts := NewAccountService(pool)
	u := newTestUser(t, ctx, users)

	balance, err := accounts.Credit(ctx, u.ID, 500, domain.TxDaily, "тест")
	if err != nil {
		t.Fatal(err)
	}
	if balance != domain.StartingCoins+500 {
		t.Fatalf("баланс после начисления = %d, ожидалось %d", balance, domain.StartingCoins+500)
	}

	balance, err = accounts.Debit(ctx, u.ID, 300, domain.TxPackBuy, "тест")
	if err != nil {
		t.Fatal(err)
	}
	if balance != domain.StartingCoins+200 {
		t.Fatalf("баланс после списания = %d, ожидалось %d", balance, domain.StartingCoins+200)
	}

	// списание больше баланса отклоняется, баланс не меняется
	if _, err := accounts.Debit(ctx, u.ID, balance+1, domain.TxPackBuy, "тест"); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("ожидалась ErrInsufficientFunds, получено %v", err)
	}

	got, err := accounts.GetBalance(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got != balance {
		t.Fatalf("баланс изменился после отклоненного списания: %d != %d", got, balance)
	}

	history, err := accounts.GetTransactionHistory(ctx, u.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("ожидалось 2 записи в истории, получено %d", len(history))
	}
}

func TestIntegration_MarketBuyRace(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	users := repository.NewUserRepository(pool)
	accounts := NewAccountService(pool)
	cat := testServiceCatalog(t)
	market := NewMarketService(pool, accounts, cat)

	seller := newTestUser(t, ctx, users)
	buyer1 := newTestUser(t, ctx, users)
	buyer2 := newTestUser(t, ctx, users)

	giveCard(t, ctx, pool, seller.ID, "a", 1)

	listing, err := market.List(ctx, seller.ID, "a", 100)
	if err != nil {
		t.Fatal(err)
	}

	// два покупателя бьются за один лот, выигрывает ровно один
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, b := range []int64{buyer1.ID, buyer2.ID} {
		wg.Add(1)
		go func(i int, buyerID int64) {
			defer wg.Done()
			_, errs[i] = market.Buy(ctx, buyerID, listing.ID)
		}(i, b)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, ErrListingNotActive) {
			t.Fatalf("неожиданная ошибка гонки: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("ожидалась ровно одна успешная покупка, получено %d", succeeded)
	}

	// карта существует в единственном экземпляре
	inv := repository.NewInventoryRepository(pool)
	q1, _ := inv.Qty(ctx, buyer1.ID, "a")
	q2, _ := inv.Qty(ctx, buyer2.ID, "a")
	if q1+q2 != 1 {
		t.Fatalf("карта размножилась или пропала: %d + %d", q1, q2)
	}

	// продавец получил деньги один раз
	sellerBalance, err := accounts.GetBalance(ctx, seller.ID)
	if err != nil {
		t.Fatal(err)
	}
	if sellerBalance != domain.StartingCoins+100 {
		t.Fatalf("баланс продавца = %d, ожидалось %d", sellerBalance, domain.StartingCoins+100)
	}
}

func TestIntegration_TradeLifecycle(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	users := repository.NewUserRepository(pool)
	accounts := NewAccountService(pool)
	cat := testServiceCatalog(t)
	trades := NewTradeService(pool, accounts, cat)
	inv := repository.NewInventoryRepository(pool)

	seller := newTestUser(t, ctx, users)
	buyer := newTestUser(t, ctx, users)
	giveCard(t, ctx, pool, seller.ID, "b", 1)

	price := int64(200)
	trade, err := trades.Propose(ctx, seller.ID, buyer.ID, "b", price)
	if err != nil {
		t.Fatal(err)
	}

	// карта в эскроу: из инвентаря ушла, но числится за продавцом
	if q, _ := inv.Qty(ctx, seller.ID, "b"); q != 0 {
		t.Fatalf("карта осталась в инвентаре продавца: qty=%d", q)
	}
	escrowed, err := trades.EscrowedCards(ctx, seller.ID)
	if err != nil {
		t.Fatal(err)
	}
	if escrowed["b"] != 1 {
		t.Fatalf("эскроу не показывает карту: %v", escrowed)
	}

	if _, err := trades.Accept(ctx, seller.ID, trade.ID); !errors.Is(err, ErrNotTradeBuyer) {
		t.Fatalf("чужой пользователь принял обмен: %v", err)
	}

	accepted, err := trades.Accept(ctx, buyer.ID, trade.ID)
	if err != nil {
		t.Fatal(err)
	}
	if accepted.Status != domain.TradeAccepted {
		t.Fatalf("статус = %s, ожидалось accepted", accepted.Status)
	}

	// покупатель заплатил цену и комиссию, продавец получил только цену
	fee := domain.TradeFee(price)
	buyerBalance, _ := accounts.GetBalance(ctx, buyer.ID)
	sellerBalance, _ := accounts.GetBalance(ctx, seller.ID)
	if buyerBalance != domain.StartingCoins-price-fee {
		t.Fatalf("баланс покупателя = %d, ожидалось %d", buyerBalance, domain.StartingCoins-price-fee)
	}
	if sellerBalance != domain.StartingCoins+price {
		t.Fatalf("баланс продавца = %d, ожидалось %d", sellerBalance, domain.StartingCoins+price)
	}

	if q, _ := inv.Qty(ctx, buyer.ID, "b"); q != 1 {
		t.Fatalf("карта не дошла до покупателя: qty=%d", q)
	}

	// принятый обмен нельзя принять или отменить второй раз
	if _, err := trades.Accept(ctx, buyer.ID, trade.ID); !errors.Is(err, ErrTradeNotPending) {
		t.Fatalf("повторное принятие: %v", err)
	}
	if _, err := trades.Cancel(ctx, seller.ID, trade.ID); !errors.Is(err, ErrTradeNotPending) {
		t.Fatalf("отмена завершенного обмена: %v", err)
	}
}

func TestIntegration_TradeCancelReturnsCard(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	users := repository.NewUserRepository(pool)
	accounts := NewAccountService(pool)
	cat := testServiceCatalog(t)
	trades := NewTradeService(pool, accounts, cat)
	inv := repository.NewInventoryRepository(pool)

	seller := newTestUser(t, ctx, users)
	buyer := newTestUser(t, ctx, users)
	giveCard(t, ctx, pool, seller.ID, "a", 1)

	trade, err := trades.Propose(ctx, seller.ID, buyer.ID, "a", 50)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := trades.Cancel(ctx, seller.ID, trade.ID); err != nil {
		t.Fatal(err)
	}

	if q, _ := inv.Qty(ctx, seller.ID, "a"); q != 1 {
		t.Fatalf("карта не вернулась из эскроу: qty=%d", q)
	}
}

func TestIntegration_PurchaseIdempotent(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	users := repository.NewUserRepository(pool)
	accounts := NewAccountService(pool)
	progression := NewProgressionService(pool, accounts)
	purchases := NewPurchaseService(pool, accounts, progression)

	u := newTestUser(t, ctx, users)
	chargeID := fmt.Sprintf("charge_%d", time.Now().UnixNano())

	if err := purchases.ApplyGrant(ctx, chargeID, u.ID, "coins_1000"); err != nil {
		t.Fatal(err)
	}
	// повтор того же charge_id (ретрай Telegram) не начисляет второй раз
	if err := purchases.ApplyGrant(ctx, chargeID, u.ID, "coins_1000"); err != nil {
		t.Fatal(err)
	}

	balance, err := accounts.GetBalance(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := domain.StartingCoins + domain.Products["coins_1000"].Coins
	if balance != want {
		t.Fatalf("баланс = %d, ожидалось %d", balance, want)
	}
}

func TestIntegration_PurchaseUnknownProduct(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	users := repository.NewUserRepository(pool)
	accounts := NewAccountService(pool)
	progression := NewProgressionService(pool, accounts)
	purchases := NewPurchaseService(pool, accounts, progression)

	u := newTestUser(t, ctx, users)
	chargeID := fmt.Sprintf("charge_%d", time.Now().UnixNano())

	// платеж за товар, которого нет в каталоге: charge фиксируется,
	// начисления нет, ошибка уходит наверх
	err := purchases.ApplyGrant(ctx, chargeID, u.ID, "bogus")
	if !errors.Is(err, ErrUnknownProduct) {
		t.Fatalf("ожидалась ErrUnknownProduct, получено %v", err)
	}

	balance, err := accounts.GetBalance(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if balance != domain.StartingCoins {
		t.Fatalf("баланс изменился без начисления: %d", balance)
	}

	history, err := purchases.History(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, p := range history {
		if p.ChargeID == chargeID {
			found = true
		}
	}
	if !found {
		t.Fatalf("charge не записан: %v", history)
	}

	// повторная доставка того же charge id - no-op без начислений
	if err := purchases.ApplyGrant(ctx, chargeID, u.ID, "bogus"); err != nil {
		t.Fatalf("повтор должен быть no-op, получено %v", err)
	}
	balance, _ = accounts.GetBalance(ctx, u.ID)
	if balance != domain.StartingCoins {
		t.Fatalf("повтор изменил баланс: %d", balance)
	}
}

func TestIntegration_TradeOppositeAccepts(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	users := repository.NewUserRepository(pool)
	accounts := NewAccountService(pool)
	cat := testServiceCatalog(t)
	trades := NewTradeService(pool, accounts, cat)

	userA := newTestUser(t, ctx, users)
	userB := newTestUser(t, ctx, users)
	giveCard(t, ctx, pool, userA.ID, "a", 1)
	giveCard(t, ctx, pool, userB.ID, "b", 1)

	tradeAB, err := trades.Propose(ctx, userA.ID, userB.ID, "a", 100)
	if err != nil {
		t.Fatal(err)
	}
	tradeBA, err := trades.Propose(ctx, userB.ID, userA.ID, "b", 100)
	if err != nil {
		t.Fatal(err)
	}

	// встречные обмены между одной парой принимаются одновременно:
	// оба должны завершиться без ошибок
	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = trades.Accept(ctx, userB.ID, tradeAB.ID)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = trades.Accept(ctx, userA.ID, tradeBA.ID)
	}()
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("встречный обмен %d не прошел: %v", i, err)
		}
	}

	inv := repository.NewInventoryRepository(pool)
	if q, _ := inv.Qty(ctx, userB.ID, "a"); q != 1 {
		t.Fatalf("карта a не дошла до второго пользователя")
	}
	if q, _ := inv.Qty(ctx, userA.ID, "b"); q != 1 {
		t.Fatalf("карта b не дошла до первого пользователя")
	}
}

func TestIntegration_MarketOppositeBuys(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	users := repository.NewUserRepository(pool)
	accounts := NewAccountService(pool)
	cat := testServiceCatalog(t)
	market := NewMarketService(pool, accounts, cat)

	userA := newTestUser(t, ctx, users)
	userB := newTestUser(t, ctx, users)
	giveCard(t, ctx, pool, userA.ID, "a", 1)
	giveCard(t, ctx, pool, userB.ID, "b", 1)

	listingA, err := market.List(ctx, userA.ID, "a", 100)
	if err != nil {
		t.Fatal(err)
	}
	listingB, err := market.List(ctx, userB.ID, "b", 100)
	if err != nil {
		t.Fatal(err)
	}

	// каждый покупает лот другого одновременно
	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = market.Buy(ctx, userB.ID, listingA.ID)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = market.Buy(ctx, userA.ID, listingB.ID)
	}()
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("встречная покупка %d не прошла: %v", i, err)
		}
	}
}

func TestIntegration_DailyCooldown(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	users := repository.NewUserRepository(pool)
	accounts := NewAccountService(pool)
	progression := NewProgressionService(pool, accounts)
	cat := testServiceCatalog(t)
	rewards := NewRewardService(pool, accounts, progression, cat, rand.New(rand.NewSource(1)))

	u := newTestUser(t, ctx, users)

	res, err := rewards.ClaimDaily(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if res.Reward < domain.DailyRewardMin || res.Reward > domain.DailyRewardMax {
		t.Fatalf("награда %d вне диапазона", res.Reward)
	}

	_, err = rewards.ClaimDaily(ctx, u.ID)
	if !errors.Is(err, ErrDailyCooldown) {
		t.Fatalf("ожидался кулдаун, получено %v", err)
	}
	var cd *CooldownError
	if !errors.As(err, &cd) || cd.Remaining <= 0 || cd.Remaining > domain.DailyCooldown {
		t.Fatalf("некорректный остаток кулдауна: %v", err)
	}
}

func TestIntegration_PackFlow(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	users := repository.NewUserRepository(pool)
	accounts := NewAccountService(pool)
	progression := NewProgressionService(pool, accounts)
	cat := testServiceCatalog(t)
	drawer, err := game.NewPackDrawer(cat.Cards(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	packs := NewPackService(pool, accounts, progression, drawer)

	u := newTestUser(t, ctx, users)

	// без кредитов пак не открыть
	if _, err := packs.OpenPack(ctx, u.ID); !errors.Is(err, ErrNoPackCredits) {
		t.Fatalf("ожидалась ErrNoPackCredits, получено %v", err)
	}

	credits, err := packs.BuyPackCredit(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if credits != 1 {
		t.Fatalf("кредиты паков = %d, ожидалось 1", credits)
	}

	balance, _ := accounts.GetBalance(ctx, u.ID)
	if balance != domain.StartingCoins-domain.PackCostCoins {
		t.Fatalf("баланс = %d, ожидалось %d", balance, domain.StartingCoins-domain.PackCostCoins)
	}

	res, err := packs.OpenPack(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if res.Card.ID == "" {
		t.Fatal("пак не выдал карту")
	}

	inv := repository.NewInventoryRepository(pool)
	if q, _ := inv.Qty(ctx, u.ID, res.Card.ID); q < 1 {
		t.Fatalf("выданная карта не попала в инвентарь")
	}

	// опыт за пак начислен
	p, err := progression.GetProgress(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if p.XP != domain.XPPerPack {
		t.Fatalf("опыт за пак не начислен: %+v", p)
	}
}
