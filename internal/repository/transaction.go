package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/forexpro/backend/internal/currency"
	"github.com/forexpro/backend/internal/model"
)

var ErrTransactionNotFound = errors.New("transaction not found")

func insertTransaction(ctx context.Context, tx *sqlx.Tx, t *model.Transaction) error {
	err := tx.QueryRowContext(ctx, `
		INSERT INTO transactions (user_id, type, method, amount, currency, status, address, network, tx_hash, note, reference_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		t.UserID, t.Type, t.Method, t.Amount, t.Currency, t.Status,
		t.Address, t.Network, t.TxHash, t.Note, t.ReferenceID,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction record: %w", err)
	}
	return nil
}

func (r *Repository) GetTransaction(ctx context.Context, id int64) (*model.Transaction, error) {
	var t model.Transaction
	if err := r.db.GetContext(ctx, &t, "SELECT * FROM transactions WHERE id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &t, nil
}

func transactionWhere(f model.TransactionFilter, alias string) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if f.UserID != nil {
		args = append(args, *f.UserID)
		conds = append(conds, fmt.Sprintf("%suser_id = $%d", alias, len(args)))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		conds = append(conds, fmt.Sprintf("%stype = $%d", alias, len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("%sstatus = $%d", alias, len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// ListTransactions returns transactions newest first.
func (r *Repository) ListTransactions(ctx context.Context, f model.TransactionFilter) ([]model.Transaction, error) {
	where, args := transactionWhere(f, "")
	n := len(args)
	query := fmt.Sprintf(`
		SELECT * FROM transactions %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, where, n+1, n+2)

	transactions := []model.Transaction{}
	err := r.db.SelectContext(ctx, &transactions, query, append(args, f.Limit, f.Offset)...)
	return transactions, err
}

// ListTransactionsWithUser returns transactions joined with their owners.
func (r *Repository) ListTransactionsWithUser(ctx context.Context, f model.TransactionFilter) ([]model.TransactionWithUser, error) {
	where, args := transactionWhere(f, "t.")
	n := len(args)
	query := fmt.Sprintf(`
		SELECT t.*, u.name AS user_name, u.email AS user_email, u.currency AS user_currency
		FROM transactions t
		JOIN users u ON u.id = t.user_id
		%s
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $%d OFFSET $%d`, where, n+1, n+2)

	transactions := []model.TransactionWithUser{}
	err := r.db.SelectContext(ctx, &transactions, query, append(args, f.Limit, f.Offset)...)
	return transactions, err
}

func (r *Repository) CountCompletedDeposits(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM transactions
		WHERE user_id = $1 AND type = 'deposit' AND status = 'completed'`, userID)
	return count, err
}

// CreateDeposit records a pending deposit. When qualifies is true and the
// depositor still has a pending referral bonus, the bonus is completed and
// the referrer credited in the same transaction; the credited bonus is
// returned, nil otherwise.
func (r *Repository) CreateDeposit(ctx context.Context, t *model.Transaction, qualifies bool, conv currency.Converter) (*model.ReferralBonus, error) {
	var bonus *model.ReferralBonus

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := insertTransaction(ctx, tx, t); err != nil {
			return err
		}
		if !qualifies {
			return nil
		}

		var err error
		bonus, err = completeReferralBonus(ctx, tx, t.UserID, conv)
		return err
	})
	if err != nil {
		return nil, err
	}

	return bonus, nil
}

func completeReferralBonus(ctx context.Context, tx *sqlx.Tx, referredID int64, conv currency.Converter) (*model.ReferralBonus, error) {
	var bonus model.ReferralBonus
	err := tx.GetContext(ctx, &bonus, `
		UPDATE referral_bonuses SET status = 'completed', completed_at = NOW()
		WHERE referred_id = $1 AND status = 'pending'
		RETURNING *`, referredID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to complete referral bonus: %w", err)
	}

	var referrerCurrency currency.Currency
	if err := tx.GetContext(ctx, &referrerCurrency,
		"SELECT currency FROM users WHERE id = $1 FOR UPDATE", bonus.ReferrerID); err != nil {
		return nil, fmt.Errorf("failed to lock referrer: %w", err)
	}

	amount, err := conv.Convert(bonus.Amount, bonus.Currency, referrerCurrency)
	if err != nil {
		return nil, err
	}

	if err := credit(ctx, tx, bonus.ReferrerID, amount); err != nil {
		return nil, err
	}

	ref := bonus.ID
	return &bonus, insertTransaction(ctx, tx, &model.Transaction{
		UserID:      bonus.ReferrerID,
		Type:        model.TransactionTypeBonus,
		Method:      model.MethodReferral,
		Amount:      amount,
		Currency:    referrerCurrency,
		Status:      model.TransactionStatusCompleted,
		ReferenceID: &ref,
	})
}

// CreateWithdrawal debits the balance and records the pending withdrawal.
func (r *Repository) CreateWithdrawal(ctx context.Context, t *model.Transaction) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := debit(ctx, tx, t.UserID, t.Amount); err != nil {
			return err
		}
		return insertTransaction(ctx, tx, t)
	})
}

// AdminDeposit records a completed deposit and credits it immediately.
func (r *Repository) AdminDeposit(ctx context.Context, t *model.Transaction) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := credit(ctx, tx, t.UserID, t.Amount); err != nil {
			return err
		}
		return insertTransaction(ctx, tx, t)
	})
}

// SetTransactionStatus moves a pending transaction to status. Completed
// and failed are terminal, so a repeated call changes nothing and
// reports changed=false. A deposit reaching completed credits the owner;
// a withdrawal reaching failed refunds the amount debited at request time.
func (r *Repository) SetTransactionStatus(ctx context.Context, id int64, status model.TransactionStatus, conv currency.Converter) (*model.Transaction, bool, error) {
	var t model.Transaction
	changed := false

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &t, `
			UPDATE transactions SET status = $2, updated_at = NOW()
			WHERE id = $1 AND status = 'pending' AND $2 <> 'pending'
			RETURNING *`, id, status)
		if errors.Is(err, sql.ErrNoRows) {
			err = tx.GetContext(ctx, &t, "SELECT * FROM transactions WHERE id = $1", id)
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTransactionNotFound
			}
			return err
		}
		if err != nil {
			return err
		}
		changed = true

		refund := t.Type == model.TransactionTypeWithdraw && status == model.TransactionStatusFailed
		deposit := t.Type == model.TransactionTypeDeposit && status == model.TransactionStatusCompleted
		if !refund && !deposit {
			return nil
		}

		user, err := r.lockUser(ctx, tx, t.UserID)
		if err != nil {
			return err
		}
		amount, err := conv.Convert(t.Amount, t.Currency, user.Currency)
		if err != nil {
			return err
		}
		return credit(ctx, tx, t.UserID, amount)
	})
	if err != nil {
		return nil, false, err
	}

	return &t, changed, nil
}
