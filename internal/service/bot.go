package service

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/forexpro/backend/internal/currency"
	"github.com/forexpro/backend/internal/model"
)

// PurchaseInput describes a bot purchase. Either TemplateID or
// Investment (in the buyer's currency) is set.
type PurchaseInput struct {
	TemplateID int64
	Name       string
	Investment float64
	ImageURL   string

	// priceKSH is the template's listed price, used as the canonical
	// investment instead of converting Investment back to KSH.
	priceKSH float64
}

type BotService struct {
	users UserRepository
	bots  BotRepository
	rates *RatesService
	now   func() time.Time
}

func NewBotService(users UserRepository, bots BotRepository, rates *RatesService) *BotService {
	return &BotService{users: users, bots: bots, rates: rates, now: time.Now}
}

func (s *BotService) Templates(ctx context.Context) ([]model.BotTemplate, error) {
	return s.bots.ListBotTemplates(ctx)
}

func (s *BotService) ListUserBots(ctx context.Context, userID int64) ([]model.TradingBot, error) {
	return s.bots.ListUserBots(ctx, userID)
}

// newBot builds a bot for owner with its payout schedule computed from
// the KSH investment: the template price when known, otherwise the
// investment converted to KSH.
func (s *BotService) newBot(ctx context.Context, owner *model.User, in PurchaseInput) (*model.TradingBot, error) {
	if in.Investment <= 0 {
		return nil, ErrInvalidAmount
	}

	investmentKSH := in.priceKSH
	if investmentKSH <= 0 {
		var err error
		investmentKSH, err = s.rates.Converter(ctx).ToKSH(in.Investment, owner.Currency)
		if err != nil {
			return nil, err
		}
	}
	profit := CalculateProfit(investmentKSH)

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = "Trading Bot"
	}
	image := in.ImageURL
	if image == "" {
		image = model.DefaultBotImageURL
	}

	return &model.TradingBot{
		UserID:         owner.ID,
		Name:           name,
		Investment:     in.Investment,
		InvestmentKSH:  investmentKSH,
		Multiplier:     profit.Multiplier,
		DailyProfit:    profit.DailyProfit,
		TotalProfit:    profit.TotalProfit,
		ImageURL:       image,
		NextMiningTime: s.now().Add(24 * time.Hour),
	}, nil
}

// Purchase buys a bot with the caller's balance. When the balance does
// not cover the investment nothing is written and ErrInsufficientBalance
// is returned.
func (s *BotService) Purchase(ctx context.Context, userID int64, in PurchaseInput) (*model.TradingBot, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.TemplateID != 0 {
		tmpl, err := s.bots.GetBotTemplate(ctx, in.TemplateID)
		if err != nil {
			return nil, err
		}
		// Template prices are listed in KSH.
		in.priceKSH = tmpl.Price
		in.Investment, err = s.rates.Converter(ctx).Convert(tmpl.Price, currency.KSH, user.Currency)
		if err != nil {
			return nil, err
		}
		if in.Name == "" {
			in.Name = tmpl.Name
		}
		if tmpl.ImageURL != nil {
			in.ImageURL = *tmpl.ImageURL
		}
	}

	bot, err := s.newBot(ctx, user, in)
	if err != nil {
		return nil, err
	}
	if bot.Investment > user.Balance {
		return nil, ErrInsufficientBalance
	}

	purchase := &model.Transaction{
		UserID:   user.ID,
		Type:     model.TransactionTypePurchase,
		Method:   model.MethodBot,
		Amount:   bot.Investment,
		Currency: user.Currency,
		Status:   model.TransactionStatusCompleted,
	}
	if err := s.bots.PurchaseBot(ctx, bot, purchase); err != nil {
		return nil, err
	}

	log.Infof("User %d purchased bot %d: %.2f %s, x%.2f", user.ID, bot.ID, bot.Investment, user.Currency, bot.Multiplier)
	return bot, nil
}

// Grant creates a bot for a user without charging them.
func (s *BotService) Grant(ctx context.Context, userID int64, name string, investment float64) (*model.TradingBot, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	bot, err := s.newBot(ctx, user, PurchaseInput{Name: name, Investment: investment})
	if err != nil {
		return nil, err
	}
	if err := s.bots.CreateBot(ctx, bot); err != nil {
		return nil, err
	}
	return bot, nil
}

// SetProgress moves the caller's bot to progress.
func (s *BotService) SetProgress(ctx context.Context, userID, botID int64, progress int) (*model.BotProgressResult, error) {
	if progress < 0 || progress > 100 {
		return nil, ErrInvalidAmount
	}
	return s.progress(ctx, userID, botID, model.BotStep{Set: &progress})
}

// Simulate advances the caller's bot by one fixed step.
func (s *BotService) Simulate(ctx context.Context, userID, botID int64) (*model.BotProgressResult, error) {
	return s.progress(ctx, userID, botID, model.BotStep{Delta: model.BotProgressStep})
}

func (s *BotService) progress(ctx context.Context, userID, botID int64, step model.BotStep) (*model.BotProgressResult, error) {
	result, err := s.bots.ProgressBot(ctx, botID, userID, step, s.rates.Converter(ctx))
	if err != nil {
		return nil, err
	}
	if result.Credited > 0 {
		log.Infof("Bot %d completed, credited %.2f to user %d", botID, result.Credited, userID)
	}
	return result, nil
}

func (s *BotService) ListAll(ctx context.Context, limit, offset int) ([]model.BotWithOwner, error) {
	return s.bots.ListBots(ctx, limit, offset)
}

func (s *BotService) Delete(ctx context.Context, botID int64) (*model.TradingBot, error) {
	return s.bots.DeleteBot(ctx, botID)
}
