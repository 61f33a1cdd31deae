package telegram

import (
	"context"
	"fmt"
	"html"
	"time"

	log "github.com/sirupsen/logrus"
	tele "gopkg.in/telebot.v3"

	"github.com/forexpro/backend/internal/config"
	"github.com/forexpro/backend/internal/currency"
	"github.com/forexpro/backend/internal/model"
)

const statsTimeout = 5 * time.Second

// StatsSource supplies the figures for the /stats command.
type StatsSource interface {
	GetStats(ctx context.Context) (*model.AdminStats, error)
}

// Bot posts wallet events to the operators' chat and answers /stats there.
type Bot struct {
	bot    *tele.Bot
	chatID int64
	stats  StatsSource
}

func NewBot(cfg config.TelegramConfig, stats StatsSource) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 60 * time.Second},
	}

	bot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		bot:    bot,
		chatID: cfg.AdminChatID,
		stats:  stats,
	}

	b.registerHandlers()

	return b, nil
}

func (b *Bot) registerHandlers() {
	b.bot.Handle("/stats", b.handleStats)
}

func (b *Bot) StartPolling(ctx context.Context) {
	go func() {
		<-ctx.Done()
		b.bot.Stop()
	}()
	b.bot.Start()
}

func (b *Bot) GetBotUsername() string {
	return b.bot.Me.Username
}

func (b *Bot) handleStats(c tele.Context) error {
	if c.Chat() == nil || c.Chat().ID != b.chatID || b.stats == nil {
		return nil
	}

	stats, err := b.loadStats()
	if err != nil {
		log.Errorf("Telegram /stats failed: %v", err)
		return c.Send("Failed to load stats")
	}
	return c.Send(statsMessage(stats), tele.ModeHTML)
}

// loadStats bounds the query so a stalled database cannot block the poller.
func (b *Bot) loadStats() (*model.AdminStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), statsTimeout)
	defer cancel()
	return b.stats.GetStats(ctx)
}

// DepositRequested implements service.Notifier.
func (b *Bot) DepositRequested(_ context.Context, user *model.User, t *model.Transaction) {
	b.sendAsync(depositMessage(user, t))
}

// WithdrawalRequested implements service.Notifier.
func (b *Bot) WithdrawalRequested(_ context.Context, user *model.User, t *model.Transaction) {
	b.sendAsync(withdrawalMessage(user, t))
}

func (b *Bot) sendAsync(text string) {
	go func() {
		if err := b.SendMessage(text); err != nil {
			log.Warnf("Telegram notification failed: %v", err)
		}
	}()
}

func (b *Bot) SendMessage(text string) error {
	_, err := b.bot.Send(tele.ChatID(b.chatID), text, tele.ModeHTML)
	return err
}

func depositMessage(user *model.User, t *model.Transaction) string {
	text := fmt.Sprintf(`💰 <b>New deposit #%d</b>

User: %s (#%d, %s)
Amount: %s
Method: %s`,
		t.ID,
		html.EscapeString(user.Name), user.ID, html.EscapeString(user.Email),
		currency.Format(t.Amount, t.Currency),
		t.Method,
	)
	if t.TxHash != nil {
		text += "\nTx: <code>" + html.EscapeString(*t.TxHash) + "</code>"
	}
	return text
}

func withdrawalMessage(user *model.User, t *model.Transaction) string {
	text := fmt.Sprintf(`🏧 <b>Withdrawal request #%d</b>

User: %s (#%d, %s)
Amount: %s
Method: %s
Balance left: %s`,
		t.ID,
		html.EscapeString(user.Name), user.ID, html.EscapeString(user.Email),
		currency.Format(t.Amount, t.Currency),
		t.Method,
		currency.Format(user.Balance-t.Amount, user.Currency),
	)
	if t.Address != nil {
		text += "\nAddress: <code>" + html.EscapeString(*t.Address) + "</code>"
	}
	if t.Network != nil {
		text += " (" + html.EscapeString(*t.Network) + ")"
	}
	return text
}

func statsMessage(s *model.AdminStats) string {
	return fmt.Sprintf(`📊 <b>ForexPro</b>

Users: %d (%d verified)
Active bots: %d
Pending deposits: %d
Pending withdrawals: %d
Balances: %s / %s`,
		s.TotalUsers, s.VerifiedUsers,
		s.ActiveBots,
		s.PendingDeposits,
		s.PendingWithdrawals,
		currency.Format(s.TotalBalanceKSH, currency.KSH),
		currency.Format(s.TotalBalanceUSD, currency.USD),
	)
}
