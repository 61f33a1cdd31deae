package service

import (
	"errors"

	"github.com/forexpro/backend/internal/repository"
)

// Storage errors surfaced unchanged to callers.
var (
	ErrUserNotFound           = repository.ErrUserNotFound
	ErrEmailTaken             = repository.ErrEmailTaken
	ErrInsufficientBalance    = repository.ErrInsufficientBalance
	ErrTransactionNotFound    = repository.ErrTransactionNotFound
	ErrBotNotFound            = repository.ErrBotNotFound
	ErrBotTemplateNotFound    = repository.ErrBotTemplateNotFound
	ErrDepositAddressNotFound = repository.ErrDepositAddressNotFound
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidReferralCode = errors.New("invalid referral code")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrBelowMinimum        = errors.New("amount below minimum")
	ErrNoActiveBots        = errors.New("no active bots")
	ErrNoCompletedDeposit  = errors.New("no completed deposit")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidMethod       = errors.New("invalid method")
	ErrInvalidCoin         = errors.New("invalid coin or network")
	ErrInvalidImage        = errors.New("invalid image")
)
