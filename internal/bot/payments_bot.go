package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"football_stars/internal/domain"
	"football_stars/internal/logger"
	"football_stars/internal/repository"
	"football_stars/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// PaymentsBot принимает платежи Telegram Stars и команды администраторов
type PaymentsBot struct {
	bot       *tgbotapi.BotAPI
	users     *repository.UserRepository
	accounts  *service.AccountService
	purchases *service.PurchaseService
	adminIDs  []int64
	stopCh    chan struct{}
	wg        sync.WaitGroup
	log       *slog.Logger
}

// NewPaymentsBot создаёт бота платежей
func NewPaymentsBot(token string, users *repository.UserRepository, accounts *service.AccountService, purchases *service.PurchaseService, adminIDs []int64) (*PaymentsBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log := logger.With("component", "payments_bot")
	log.Info("payments bot authorized", "username", api.Self.UserName)

	return &PaymentsBot{
		bot:       api,
		users:     users,
		accounts:  accounts,
		purchases: purchases,
		adminIDs:  adminIDs,
		stopCh:    make(chan struct{}),
		log:       log,
	}, nil
}

// SendInvoice отправляет счёт в Stars пользователю в личный чат.
// Для валюты XTR provider token не нужен.
func (b *PaymentsBot) SendInvoice(tgID int64, payload string) error {
	product, ok := domain.Products[payload]
	if !ok {
		return fmt.Errorf("неизвестный товар: %s", payload)
	}

	invoice := tgbotapi.NewInvoice(
		tgID,
		product.Title,
		product.Title,
		product.Payload,
		"",
		"",
		"XTR",
		[]tgbotapi.LabeledPrice{{Label: product.Title, Amount: int(product.PriceXTR)}},
	)
	invoice.SuggestedTipAmounts = []int{}

	_, err := b.bot.Request(invoice)
	return err
}

// Start запускает цикл обновлений
func (b *PaymentsBot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.bot.GetUpdatesChan(u)
	b.log.Info("starting bot update loop")

	for {
		select {
		case <-b.stopCh:
			b.log.Info("stopping bot update loop")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			// pre-checkout нужно подтвердить в течение 10 секунд,
			// обрабатываем вне очереди
			if update.PreCheckoutQuery != nil {
				b.handlePreCheckout(update.PreCheckoutQuery)
				continue
			}

			if update.Message == nil {
				continue
			}

			if update.Message.SuccessfulPayment != nil {
				b.wg.Add(1)
				go func(msg *tgbotapi.Message) {
					defer b.wg.Done()
					b.handleSuccessfulPayment(msg)
				}(update.Message)
				continue
			}

			if !update.Message.IsCommand() {
				continue
			}

			b.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer b.wg.Done()
				b.handleCommand(msg)
			}(update.Message)
		}
	}
}

// Stop плавно останавливает бота
func (b *PaymentsBot) Stop() {
	b.log.Info("stopping payments bot...")
	close(b.stopCh)
	b.bot.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.log.Info("payments bot stopped gracefully")
	case <-time.After(10 * time.Second):
		b.log.Warn("payments bot shutdown timeout, some handlers may not have completed")
	}
}

func (b *PaymentsBot) handlePreCheckout(q *tgbotapi.PreCheckoutQuery) {
	answer := tgbotapi.PreCheckoutConfig{
		PreCheckoutQueryID: q.ID,
		OK:                 true,
	}

	if _, ok := domain.Products[q.InvoicePayload]; !ok {
		answer.OK = false
		answer.ErrorMessage = "Товар больше не доступен"
	}

	if _, err := b.bot.Request(answer); err != nil {
		b.log.Error("pre-checkout answer failed", "error", err)
	}
}

func (b *PaymentsBot) handleSuccessfulPayment(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	payment := msg.SuccessfulPayment
	b.log.Info("successful payment",
		"tg_id", msg.From.ID,
		"payload", payment.InvoicePayload,
		"charge_id", payment.TelegramPaymentChargeID,
		"total", payment.TotalAmount,
	)

	user, err := b.users.GetOrCreate(ctx, msg.From.ID, msg.From.UserName, msg.From.FirstName)
	if err != nil {
		b.log.Error("не удалось найти пользователя по платежу", "tg_id", msg.From.ID, "error", err)
		return
	}

	if err := b.purchases.ApplyGrant(ctx, payment.TelegramPaymentChargeID, user.ID, payment.InvoicePayload); err != nil {
		// charge_id уже записан, начисление можно повторить руками по логу
		b.log.Error("не удалось начислить покупку",
			"charge_id", payment.TelegramPaymentChargeID,
			"user_id", user.ID,
			"error", err,
		)
		return
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, "✅ Покупка зачислена! Откройте приложение, чтобы увидеть баланс.")
	if _, err := b.bot.Send(reply); err != nil {
		b.log.Error("error sending message", "error", err)
	}
}

// handleCommand processes commands
func (b *PaymentsBot) handleCommand(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var response string

	switch msg.Command() {
	case "start", "help":
		if b.isAdmin(msg.From.ID) {
			response = b.adminHelpMessage()
		} else {
			response = "⚽ Добро пожаловать в Football Stars! Откройте мини-приложение, чтобы собирать карточки и играть матчи."
		}

	case "user":
		if !b.isAdmin(msg.From.ID) {
			return
		}
		response = b.handleUser(ctx, msg.CommandArguments())

	case "addcoins":
		if !b.isAdmin(msg.From.ID) {
			return
		}
		response = b.handleAddCoins(ctx, msg.CommandArguments())

	case "top":
		if !b.isAdmin(msg.From.ID) {
			return
		}
		response = b.handleTop(ctx, msg.CommandArguments())

	default:
		if !b.isAdmin(msg.From.ID) {
			return
		}
		response = "❌ Неизвестная команда. Используйте /help для списка команд."
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, response)
	reply.ParseMode = "HTML"
	reply.ReplyToMessageID = msg.MessageID

	if _, err := b.bot.Send(reply); err != nil {
		b.log.Error("error sending message", "error", err)
	}
}

// isAdmin checks if user is an admin
func (b *PaymentsBot) isAdmin(userID int64) bool {
	for _, id := range b.adminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (b *PaymentsBot) adminHelpMessage() string {
	return `<b>🤖 Команды администратора</b>

/user &lt;tg_id&gt; - Информация о пользователе
/addcoins &lt;tg_id&gt; &lt;сумма&gt; - Добавить монеты
/top [лимит] - Топ пользователей по монетам`
}

func (b *PaymentsBot) handleUser(ctx context.Context, args string) string {
	if args == "" {
		return "Использование: /user <tg_id>"
	}

	tgID, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		return "Неверный Telegram ID"
	}

	user, err := b.users.GetByTgID(ctx, tgID)
	if err != nil || user == nil {
		return "Пользователь не найден"
	}

	return fmt.Sprintf(`<b>Информация о пользователе</b>

- ID: %d
- Telegram ID: %d
- Username: @%s
- Имя: %s
- Монеты: %d
- Паки: %d
- Регистрация: %s`,
		user.ID,
		user.TgID,
		user.Username,
		user.FirstName,
		user.Coins,
		user.PackCredits,
		user.CreatedAt.Format("02.01.2006 15:04"),
	)
}

func (b *PaymentsBot) handleAddCoins(ctx context.Context, args string) string {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		return "Использование: /addcoins <tg_id> <сумма>"
	}

	tgID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return "Неверный Telegram ID"
	}

	amount, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || amount <= 0 {
		return "Неверная сумма"
	}

	user, err := b.users.GetByTgID(ctx, tgID)
	if err != nil || user == nil {
		return "Пользователь не найден"
	}

	newBalance, err := b.accounts.Credit(ctx, user.ID, amount, domain.TxPurchaseGrant, "начисление администратором")
	if err != nil {
		return fmt.Sprintf("Ошибка: %v", err)
	}

	return fmt.Sprintf("Добавлено %d монет пользователю. Новый баланс: %d", amount, newBalance)
}

func (b *PaymentsBot) handleTop(ctx context.Context, args string) string {
	limit := 10
	if args != "" {
		if n, err := strconv.Atoi(args); err == nil && n > 0 && n <= 50 {
			limit = n
		}
	}

	users, err := b.users.TopByCoins(ctx, limit)
	if err != nil {
		return fmt.Sprintf("Ошибка: %v", err)
	}

	if len(users) == 0 {
		return "Пользователи не найдены"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>Топ %d по монетам</b>\n\n", limit))

	for i, u := range users {
		username := u.Username
		if username == "" {
			username = u.FirstName
		}
		sb.WriteString(fmt.Sprintf("%d. @%s — %d монет\n", i+1, username, u.Coins))
	}

	return sb.String()
}
