package service

import (
	"context"

	"github.com/forexpro/backend/internal/currency"
	"github.com/forexpro/backend/internal/model"
)

type ReferralService struct {
	users     UserRepository
	referrals ReferralRepository
}

func NewReferralService(users UserRepository, referrals ReferralRepository) *ReferralService {
	return &ReferralService{users: users, referrals: referrals}
}

func (s *ReferralService) GetStats(ctx context.Context, userID int64) (*model.ReferralStats, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats, err := s.referrals.GetReferralStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats.ReferralCode = user.ReferralCode
	stats.Currency = user.Currency
	stats.BonusPerReferral = currency.BonusPerReferral.In(user.Currency)
	return stats, nil
}

// Bonuses returns the bonuses the user earned by referring others.
func (s *ReferralService) Bonuses(ctx context.Context, userID int64) ([]model.ReferralBonusView, error) {
	return s.referrals.ListReferralBonuses(ctx, userID)
}

// ReferredUsers returns the users who signed up with the user's code.
func (s *ReferralService) ReferredUsers(ctx context.Context, userID int64) ([]model.ReferredUser, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.referrals.ListReferredUsers(ctx, user.ReferralCode)
}
