package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/forexpro/backend/internal/currency"
	"github.com/forexpro/backend/internal/model"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrReferralCodeTaken   = errors.New("referral code already taken")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

const pgUniqueViolation = "23505"

func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func (r *Repository) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return r.getUser(ctx, r.db, "SELECT * FROM users WHERE id = $1", id)
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getUser(ctx, r.db, "SELECT * FROM users WHERE LOWER(email) = LOWER($1)", email)
}

func (r *Repository) GetUserByReferralCode(ctx context.Context, code string) (*model.User, error) {
	return r.getUser(ctx, r.db, "SELECT * FROM users WHERE referral_code = $1", code)
}

func (r *Repository) getUser(ctx context.Context, q sqlx.QueryerContext, query string, args ...interface{}) (*model.User, error) {
	var user model.User
	if err := sqlx.GetContext(ctx, q, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// lockUser reads a user row with FOR UPDATE inside tx.
func (r *Repository) lockUser(ctx context.Context, tx *sqlx.Tx, id int64) (*model.User, error) {
	return r.getUser(ctx, tx, "SELECT * FROM users WHERE id = $1 FOR UPDATE", id)
}

func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))", email)
	return exists, err
}

// RegisterUser creates the user with the signup bonus already on the
// balance, the matching bonus transaction and, for referred users, the
// pending referral bonus, all in one transaction.
func (r *Repository) RegisterUser(ctx context.Context, reg *model.Registration) (*model.User, error) {
	var user model.User

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var referredBy *string
		if reg.Referrer != nil {
			referredBy = &reg.Referrer.ReferralCode
		}

		err := tx.GetContext(ctx, &user, `
			INSERT INTO users (name, email, password, phone, country, currency, balance, referral_code, referred_by, role)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'user')
			RETURNING *`,
			reg.Name, reg.Email, reg.PasswordHash, reg.Phone, reg.Country,
			reg.Currency, reg.SignupBonus, reg.ReferralCode, referredBy)
		if err != nil {
			if constraint, ok := uniqueViolation(err); ok {
				if constraint == "users_referral_code_key" {
					return ErrReferralCodeTaken
				}
				return ErrEmailTaken
			}
			return fmt.Errorf("failed to insert user: %w", err)
		}

		if reg.SignupBonus > 0 {
			bonus := &model.Transaction{
				UserID:   user.ID,
				Type:     model.TransactionTypeBonus,
				Method:   model.MethodSignupBonus,
				Amount:   reg.SignupBonus,
				Currency: reg.Currency,
				Status:   model.TransactionStatusCompleted,
			}
			if err := insertTransaction(ctx, tx, bonus); err != nil {
				return err
			}
		}

		if reg.Referrer != nil {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO referral_bonuses (referrer_id, referred_id, amount, currency, status)
				VALUES ($1, $2, $3, $4, 'pending')`,
				reg.Referrer.ID, user.ID, reg.ReferralBonus, reg.Referrer.Currency)
			if err != nil {
				return fmt.Errorf("failed to create referral bonus: %w", err)
			}

			_, err = tx.ExecContext(ctx,
				"UPDATE users SET referrals = referrals + 1, updated_at = NOW() WHERE id = $1",
				reg.Referrer.ID)
			if err != nil {
				return fmt.Errorf("failed to update referrer: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *Repository) UpdateProfile(ctx context.Context, id int64, name string, phone, country *string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET name = $2, phone = $3, country = $4, updated_at = NOW()
		WHERE id = $1`,
		id, name, phone, country)
	if err != nil {
		return err
	}
	return expectRow(res, ErrUserNotFound)
}

// ChangeCurrency switches the user's display currency, converting the
// balance and lifetime profit under a row lock.
func (r *Repository) ChangeCurrency(ctx context.Context, id int64, to currency.Currency, conv currency.Converter) (*model.User, error) {
	var user *model.User

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		u, err := r.lockUser(ctx, tx, id)
		if err != nil {
			return err
		}
		if u.Currency == to {
			user = u
			return nil
		}

		balance, err := conv.Convert(u.Balance, u.Currency, to)
		if err != nil {
			return err
		}
		profit, err := conv.Convert(u.Profit, u.Currency, to)
		if err != nil {
			return err
		}

		user = &model.User{}
		return tx.GetContext(ctx, user, `
			UPDATE users SET currency = $2, balance = $3, profit = $4, updated_at = NOW()
			WHERE id = $1
			RETURNING *`,
			id, to, balance, profit)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Repository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET password = $2, updated_at = NOW() WHERE id = $1", id, hash)
	if err != nil {
		return err
	}
	return expectRow(res, ErrUserNotFound)
}

// SetProfileImage stores the new image path and returns the previous one.
func (r *Repository) SetProfileImage(ctx context.Context, id int64, path string) (*string, error) {
	var previous *string

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		u, err := r.lockUser(ctx, tx, id)
		if err != nil {
			return err
		}
		previous = u.ProfileImage

		_, err = tx.ExecContext(ctx,
			"UPDATE users SET profile_image = $2, updated_at = NOW() WHERE id = $1", id, path)
		return err
	})

	return previous, err
}

// SetUserBalance sets user balance to a specific value
func (r *Repository) SetUserBalance(ctx context.Context, id int64, balance float64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET balance = $2, updated_at = NOW() WHERE id = $1", id, balance)
	if err != nil {
		return err
	}
	return expectRow(res, ErrUserNotFound)
}

func (r *Repository) SetUserVerified(ctx context.Context, id int64, verified bool) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET verified = $2, updated_at = NOW() WHERE id = $1", id, verified)
	if err != nil {
		return err
	}
	return expectRow(res, ErrUserNotFound)
}

// ListUsers lists users with pagination and an optional name/email search.
func (r *Repository) ListUsers(ctx context.Context, f model.UserListFilter) ([]model.User, int, error) {
	users := []model.User{}
	var total int

	where := ""
	args := []interface{}{}
	if f.Search != "" {
		where = "WHERE name ILIKE $1 OR email ILIKE $1 OR referral_code ILIKE $1 OR CAST(id AS TEXT) = $2"
		args = append(args, "%"+f.Search+"%", f.Search)
	}

	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM users "+where, args...); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := fmt.Sprintf("SELECT * FROM users %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d", where, n+1, n+2)
	err := r.db.SelectContext(ctx, &users, query, append(args, f.Limit, f.Offset)...)
	return users, total, err
}

// credit adds amount to the user's balance inside tx.
func credit(ctx context.Context, tx *sqlx.Tx, userID int64, amount float64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE users SET balance = balance + $2, updated_at = NOW() WHERE id = $1", userID, amount)
	if err != nil {
		return fmt.Errorf("failed to credit balance: %w", err)
	}
	return expectRow(res, ErrUserNotFound)
}

// debit subtracts amount only when the balance covers it, so a concurrent
// debit can never drive the balance negative.
func debit(ctx context.Context, tx *sqlx.Tx, userID int64, amount float64) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE users SET balance = balance - $2, updated_at = NOW()
		WHERE id = $1 AND balance >= $2`, userID, amount)
	if err != nil {
		return fmt.Errorf("failed to debit balance: %w", err)
	}
	return expectRow(res, ErrInsufficientBalance)
}

func expectRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
