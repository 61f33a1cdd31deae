package repository

import (
	"context"
	"encoding/json"

	"github.com/forexpro/backend/internal/model"
)

// CreateAdminLog creates an admin action log
func (r *Repository) CreateAdminLog(ctx context.Context, entry *model.AdminLog) error {
	var details interface{}
	if len(entry.Details) > 0 {
		details = string(entry.Details)
	}
	return r.db.QueryRowContext(ctx, `
		INSERT INTO admin_logs (admin_id, action, target_user_id, details)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		entry.AdminID, entry.Action, entry.TargetUserID, details,
	).Scan(&entry.ID, &entry.CreatedAt)
}

// LogAdminAction is a helper to create admin log with JSON details
func (r *Repository) LogAdminAction(ctx context.Context, adminID int64, action string, targetUserID *int64, details interface{}) error {
	var detailsJSON []byte
	if details != nil {
		var err error
		detailsJSON, err = json.Marshal(details)
		if err != nil {
			return err
		}
	}
	return r.CreateAdminLog(ctx, &model.AdminLog{
		AdminID:      adminID,
		Action:       action,
		TargetUserID: targetUserID,
		Details:      detailsJSON,
	})
}

// GetAdminLogs retrieves admin action logs
func (r *Repository) GetAdminLogs(ctx context.Context, limit, offset int) ([]model.AdminLog, error) {
	logs := []model.AdminLog{}
	err := r.db.SelectContext(ctx, &logs, `
		SELECT id, admin_id, action, target_user_id, COALESCE(details, '{}'::jsonb) AS details, created_at
		FROM admin_logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	return logs, err
}

func (r *Repository) GetAdminStats(ctx context.Context) (*model.AdminStats, error) {
	var stats model.AdminStats
	err := r.db.GetContext(ctx, &stats, `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM users WHERE verified) AS verified_users,
			(SELECT COALESCE(SUM(balance), 0) FROM users WHERE currency = 'KSH') AS total_balance_ksh,
			(SELECT COALESCE(SUM(balance), 0) FROM users WHERE currency = 'USD') AS total_balance_usd,
			(SELECT COUNT(*) FROM trading_bots WHERE status = 'active') AS active_bots,
			(SELECT COUNT(*) FROM transactions WHERE type = 'deposit' AND status = 'pending') AS pending_deposits,
			(SELECT COUNT(*) FROM transactions WHERE type = 'withdraw' AND status = 'pending') AS pending_withdrawals`)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
