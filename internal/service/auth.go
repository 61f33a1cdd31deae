package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/forexpro/backend/internal/config"
	"github.com/forexpro/backend/internal/currency"
	"github.com/forexpro/backend/internal/model"
	"github.com/forexpro/backend/internal/repository"
	"github.com/forexpro/backend/internal/token"
)

const (
	BcryptCost         = 12
	referralCodeLength = 8
	referralCodeChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	maxCodeAttempts    = 5
)

type SignupInput struct {
	Name         string
	Email        string
	Password     string
	Currency     currency.Currency
	Phone        *string
	Country      *string
	ReferralCode string
}

// Session is a signed token with the user it was issued for.
type Session struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

type AuthService struct {
	users  UserRepository
	tokens *token.Manager
	cost   int
}

func NewAuthService(users UserRepository, tokens *token.Manager) *AuthService {
	return &AuthService{users: users, tokens: tokens, cost: BcryptCost}
}

// Signup registers a user with the signup bonus of their currency. A
// referral code, when given, must belong to an existing user, who gets a
// pending bonus in their own currency.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	if !in.Currency.Valid() {
		return nil, currency.ErrUnsupportedCurrency
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	reg := &model.Registration{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Phone:        in.Phone,
		Country:      in.Country,
		Currency:     in.Currency,
		SignupBonus:  currency.SignupBonus.In(in.Currency),
	}

	if code := strings.ToUpper(strings.TrimSpace(in.ReferralCode)); code != "" {
		referrer, err := s.users.GetUserByReferralCode(ctx, code)
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidReferralCode
		}
		if err != nil {
			return nil, err
		}
		reg.Referrer = referrer
		reg.ReferralBonus = currency.ReferralBonus.In(referrer.Currency)
	}

	var user *model.User
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		reg.ReferralCode, err = generateReferralCode()
		if err != nil {
			return nil, err
		}
		user, err = s.users.RegisterUser(ctx, reg)
		if !errors.Is(err, repository.ErrReferralCodeTaken) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	log.Infof("User %d registered (%s, referred=%t)", user.ID, user.Currency, reg.Referrer != nil)

	tok, err := s.tokens.Issue(user.ID, user.Role, config.UserTokenTTL)
	if err != nil {
		return nil, err
	}
	return &Session{Token: tok, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	tok, err := s.tokens.Issue(user.ID, user.Role, config.UserTokenTTL)
	if err != nil {
		return nil, err
	}
	return &Session{Token: tok, User: user}, nil
}

// AdminLogin issues a short-lived token to users holding the admin role.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		log.Warnf("Admin login rejected for non-admin user %d", user.ID)
		return nil, ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(user.ID, user.Role, config.AdminTokenTTL)
	if err != nil {
		return nil, err
	}
	return &Session{Token: tok, User: user}, nil
}

func (s *AuthService) authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Demo hands out an unpersisted demo account and its token.
func (s *AuthService) Demo() (*Session, error) {
	demoID := "demo_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]

	tok, err := s.tokens.IssueDemo(demoID, config.DemoTokenTTL)
	if err != nil {
		return nil, err
	}
	return &Session{Token: tok, User: model.NewDemoUser(demoID)}, nil
}

func generateReferralCode() (string, error) {
	code := make([]byte, referralCodeLength)
	max := big.NewInt(int64(len(referralCodeChars)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate referral code: %w", err)
		}
		code[i] = referralCodeChars[n.Int64()]
	}
	return string(code), nil
}
