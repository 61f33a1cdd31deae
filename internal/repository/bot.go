package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/forexpro/backend/internal/currency"
	"github.com/forexpro/backend/internal/model"
)

var (
	ErrBotNotFound         = errors.New("bot not found")
	ErrBotTemplateNotFound = errors.New("bot template not found")
)

func (r *Repository) ListBotTemplates(ctx context.Context) ([]model.BotTemplate, error) {
	templates := []model.BotTemplate{}
	err := r.db.SelectContext(ctx, &templates,
		"SELECT * FROM bot_templates WHERE is_active ORDER BY price ASC")
	return templates, err
}

func (r *Repository) GetBotTemplate(ctx context.Context, id int64) (*model.BotTemplate, error) {
	var t model.BotTemplate
	err := r.db.GetContext(ctx, &t, "SELECT * FROM bot_templates WHERE id = $1 AND is_active", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBotTemplateNotFound
		}
		return nil, err
	}
	return &t, nil
}

func insertBot(ctx context.Context, tx *sqlx.Tx, bot *model.TradingBot) error {
	err := tx.QueryRowContext(ctx, `
		INSERT INTO trading_bots (user_id, name, investment, investment_ksh, multiplier, daily_profit, total_profit, progress, status, image_url, next_mining_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, 'active', $8, $9)
		RETURNING id, progress, status, created_at`,
		bot.UserID, bot.Name, bot.Investment, bot.InvestmentKSH, bot.Multiplier,
		bot.DailyProfit, bot.TotalProfit, bot.ImageURL, bot.NextMiningTime,
	).Scan(&bot.ID, &bot.Progress, &bot.Status, &bot.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE users SET active_bots = active_bots + 1, updated_at = NOW() WHERE id = $1", bot.UserID)
	if err != nil {
		return fmt.Errorf("failed to update active bots: %w", err)
	}
	return nil
}

// PurchaseBot debits the investment, creates the bot and records the
// purchase. Nothing is written when the balance does not cover it.
func (r *Repository) PurchaseBot(ctx context.Context, bot *model.TradingBot, purchase *model.Transaction) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := debit(ctx, tx, bot.UserID, bot.Investment); err != nil {
			return err
		}
		if err := insertBot(ctx, tx, bot); err != nil {
			return err
		}
		purchase.ReferenceID = &bot.ID
		return insertTransaction(ctx, tx, purchase)
	})
}

// CreateBot creates a bot without touching the owner's balance.
func (r *Repository) CreateBot(ctx context.Context, bot *model.TradingBot) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := r.lockUser(ctx, tx, bot.UserID); err != nil {
			return err
		}
		return insertBot(ctx, tx, bot)
	})
}

func (r *Repository) ListUserBots(ctx context.Context, userID int64) ([]model.TradingBot, error) {
	bots := []model.TradingBot{}
	err := r.db.SelectContext(ctx, &bots,
		"SELECT * FROM trading_bots WHERE user_id = $1 ORDER BY created_at DESC, id DESC", userID)
	return bots, err
}

func (r *Repository) ListBots(ctx context.Context, limit, offset int) ([]model.BotWithOwner, error) {
	bots := []model.BotWithOwner{}
	err := r.db.SelectContext(ctx, &bots, `
		SELECT b.*, u.name AS user_name, u.email AS user_email
		FROM trading_bots b
		JOIN users u ON u.id = b.user_id
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	return bots, err
}

// ProgressBot applies step to the caller's bot. The first update that
// reaches 100 completes the bot: total profit is converted into the
// owner's currency and credited to balance and profit, active_bots is
// decremented and a profit transaction is written. Updates to a
// completed bot change nothing.
func (r *Repository) ProgressBot(ctx context.Context, botID, userID int64, step model.BotStep, conv currency.Converter) (*model.BotProgressResult, error) {
	var result model.BotProgressResult

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var bot model.TradingBot
		err := tx.GetContext(ctx, &bot,
			"SELECT * FROM trading_bots WHERE id = $1 AND user_id = $2 FOR UPDATE", botID, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBotNotFound
		}
		if err != nil {
			return err
		}

		result.Bot = &bot
		if bot.Status == model.BotStatusCompleted {
			result.Progress = bot.Progress
			result.Completed = true
			return nil
		}

		next := step.Apply(bot.Progress)
		result.Progress = next

		if next < 100 {
			return tx.GetContext(ctx, &bot, `
				UPDATE trading_bots SET progress = $2, next_mining_time = NOW() + INTERVAL '24 hours'
				WHERE id = $1
				RETURNING *`, botID, next)
		}

		err = tx.GetContext(ctx, &bot, `
			UPDATE trading_bots SET progress = 100, status = 'completed', completed_at = NOW()
			WHERE id = $1 AND status = 'active'
			RETURNING *`, botID)
		if err != nil {
			return fmt.Errorf("failed to complete bot: %w", err)
		}

		owner, err := r.lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		payout, err := conv.Convert(bot.TotalProfit, currency.KSH, owner.Currency)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE users SET balance = balance + $2, profit = profit + $2,
				active_bots = GREATEST(active_bots - 1, 0), updated_at = NOW()
			WHERE id = $1`, userID, payout)
		if err != nil {
			return fmt.Errorf("failed to credit profit: %w", err)
		}

		result.Completed = true
		result.Credited = payout
		return insertTransaction(ctx, tx, &model.Transaction{
			UserID:      userID,
			Type:        model.TransactionTypeProfit,
			Method:      model.MethodBot,
			Amount:      payout,
			Currency:    owner.Currency,
			Status:      model.TransactionStatusCompleted,
			ReferenceID: &bot.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteBot removes a bot, decrementing active_bots when it was still running.
func (r *Repository) DeleteBot(ctx context.Context, id int64) (*model.TradingBot, error) {
	var bot model.TradingBot

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &bot, "DELETE FROM trading_bots WHERE id = $1 RETURNING *", id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBotNotFound
		}
		if err != nil {
			return err
		}

		if bot.Status != model.BotStatusActive {
			return nil
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE users SET active_bots = GREATEST(active_bots - 1, 0), updated_at = NOW()
			WHERE id = $1`, bot.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &bot, nil
}
