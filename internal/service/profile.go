package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/forexpro/backend/internal/currency"
	"github.com/forexpro/backend/internal/model"
)

const profileImageURLPrefix = "/uploads/profiles/"

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

type ProfileUpdate struct {
	Name     *string
	Phone    *string
	Country  *string
	Currency *currency.Currency
}

type DashboardSummary struct {
	Profile            *model.UserProfile      `json:"profile"`
	Bots               []model.TradingBot      `json:"bots"`
	RecentTransactions []model.TransactionView `json:"recentTransactions"`
}

type ProfileService struct {
	users     UserRepository
	referrals ReferralRepository
	bots      BotRepository
	wallet    *WalletService
	rates     *RatesService
	uploadDir string
	cost      int
}

func NewProfileService(users UserRepository, referrals ReferralRepository, bots BotRepository, rates *RatesService, uploadDir string) *ProfileService {
	return &ProfileService{
		users:     users,
		referrals: referrals,
		bots:      bots,
		rates:     rates,
		uploadDir: uploadDir,
		cost:      BcryptCost,
	}
}

// SetWalletService sets the wallet service (to avoid circular deps)
func (s *ProfileService) SetWalletService(wallet *WalletService) {
	s.wallet = wallet
}

func (s *ProfileService) GetProfile(ctx context.Context, userID int64) (*model.UserProfile, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	other := user.Currency.Other()
	converted, err := s.rates.Converter(ctx).Convert(user.Balance, user.Currency, other)
	if err != nil {
		return nil, err
	}

	stats, err := s.referrals.GetReferralStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.UserProfile{
		User:               *user,
		FormattedBalance:   currency.Format(user.Balance, user.Currency),
		ConvertedBalance:   converted,
		OtherCurrency:      other,
		FormattedConverted: currency.Format(converted, other),
		BonusCount:         stats.Total,
		CompletedReferrals: stats.Completed,
	}, nil
}

// UpdateProfile applies the given fields. A currency change converts the
// balance and profit.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID int64, upd ProfileUpdate) (*model.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil || upd.Phone != nil || upd.Country != nil {
		name, phone, country := user.Name, user.Phone, user.Country
		if upd.Name != nil {
			name = strings.TrimSpace(*upd.Name)
		}
		if upd.Phone != nil {
			phone = optional(*upd.Phone)
		}
		if upd.Country != nil {
			country = optional(*upd.Country)
		}
		if err := s.users.UpdateProfile(ctx, userID, name, phone, country); err != nil {
			return nil, err
		}
	}

	if upd.Currency != nil && *upd.Currency != user.Currency {
		if !upd.Currency.Valid() {
			return nil, currency.ErrUnsupportedCurrency
		}
		if _, err := s.users.ChangeCurrency(ctx, userID, *upd.Currency, s.rates.Converter(ctx)); err != nil {
			return nil, err
		}
		log.Infof("User %d switched currency %s -> %s", userID, user.Currency, *upd.Currency)
	}

	return s.users.GetUser(ctx, userID)
}

func (s *ProfileService) ChangePassword(ctx context.Context, userID int64, current, next, confirm string) error {
	if next != confirm {
		return ErrPasswordMismatch
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)) != nil {
		return ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, userID, string(hash))
}

// SaveProfileImage writes the upload to the profile directory, points the
// user at it and removes the previous image file.
func (s *ProfileService) SaveProfileImage(ctx context.Context, userID int64, filename string, src io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !imageExtensions[ext] {
		return "", ErrInvalidImage
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	name := fmt.Sprintf("%d-%d-%s%s", userID, time.Now().Unix(), uuid.NewString()[:8], ext)
	dst, err := os.Create(filepath.Join(s.uploadDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", err
	}

	url := profileImageURLPrefix + name
	previous, err := s.users.SetProfileImage(ctx, userID, url)
	if err != nil {
		os.Remove(dst.Name())
		return "", err
	}

	if previous != nil && strings.HasPrefix(*previous, profileImageURLPrefix) {
		old := filepath.Join(s.uploadDir, filepath.Base(*previous))
		if err := os.Remove(old); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warnf("Failed to remove old profile image %s: %v", old, err)
		}
	}

	return url, nil
}

// Summary assembles the dashboard view.
func (s *ProfileService) Summary(ctx context.Context, userID int64) (*DashboardSummary, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	bots, err := s.bots.ListUserBots(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{Profile: profile, Bots: bots, RecentTransactions: []model.TransactionView{}}
	if s.wallet != nil {
		summary.RecentTransactions, err = s.wallet.History(ctx, userID, "", 5, 0)
		if err != nil {
			return nil, err
		}
	}
	return summary, nil
}
