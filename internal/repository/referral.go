package repository

import (
	"context"

	"github.com/forexpro/backend/internal/model"
)

func (r *Repository) GetReferralStats(ctx context.Context, referrerID int64) (*model.ReferralStats, error) {
	var stats model.ReferralStats
	err := r.db.GetContext(ctx, &stats, `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COALESCE(SUM(amount) FILTER (WHERE status = 'completed'), 0) AS total_bonus
		FROM referral_bonuses
		WHERE referrer_id = $1`, referrerID)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// ListReferralBonuses returns the bonuses earned by a referrer.
func (r *Repository) ListReferralBonuses(ctx context.Context, referrerID int64) ([]model.ReferralBonusView, error) {
	bonuses := []model.ReferralBonusView{}
	err := r.db.SelectContext(ctx, &bonuses, `
		SELECT rb.*, u.name AS referred_name, u.email AS referred_email
		FROM referral_bonuses rb
		JOIN users u ON u.id = rb.referred_id
		WHERE rb.referrer_id = $1
		ORDER BY rb.created_at DESC, rb.id DESC`, referrerID)
	return bonuses, err
}

// ListReferredUsers returns users who signed up with code, with the
// status of the bonus each one carries for the referrer.
func (r *Repository) ListReferredUsers(ctx context.Context, code string) ([]model.ReferredUser, error) {
	users := []model.ReferredUser{}
	err := r.db.SelectContext(ctx, &users, `
		SELECT u.id, u.name, u.email, u.created_at,
			rb.status AS bonus_status, rb.amount AS bonus_amount
		FROM users u
		LEFT JOIN referral_bonuses rb ON rb.referred_id = u.id
		WHERE u.referred_by = $1
		ORDER BY u.created_at DESC`, code)
	return users, err
}
