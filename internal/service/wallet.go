package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/forexpro/backend/internal/cache"
	"github.com/forexpro/backend/internal/currency"
	"github.com/forexpro/backend/internal/model"
)

type DepositInput struct {
	Amount   float64
	Method   string
	Currency currency.Currency
	Network  string
	TxHash   string
}

type DepositResult struct {
	Transaction    *model.Transaction   `json:"transaction"`
	DepositAddress string               `json:"depositAddress,omitempty"`
	Network        string               `json:"network,omitempty"`
	ReferralBonus  *model.ReferralBonus `json:"referralBonus,omitempty"`
}

type WithdrawInput struct {
	Amount   float64
	Method   string
	Currency currency.Currency
	Address  string
	Network  string
	Password string
}

// WalletService handles deposits, withdrawals and ledger history.
type WalletService struct {
	users     UserRepository
	txs       TransactionRepository
	addresses DepositAddressRepository
	rates     *RatesService
	cache     cache.Store
	cacheTTL  time.Duration
	notifier  Notifier
}

func NewWalletService(users UserRepository, txs TransactionRepository, addresses DepositAddressRepository, rates *RatesService, store cache.Store, cacheTTL time.Duration) *WalletService {
	return &WalletService{
		users:     users,
		txs:       txs,
		addresses: addresses,
		rates:     rates,
		cache:     store,
		cacheTTL:  cacheTTL,
		notifier:  nopNotifier{},
	}
}

// SetNotifier sets the operator notifier
func (s *WalletService) SetNotifier(n Notifier) {
	if n != nil {
		s.notifier = n
	}
}

func depositAddressKey(coin, network string) string {
	return "deposit_address:" + coin + ":" + network
}

func normalizeCoin(coin, network string) (string, string, error) {
	coin = strings.ToUpper(strings.TrimSpace(coin))
	network = strings.ToUpper(strings.TrimSpace(network))
	if coin == "" {
		coin = model.DefaultDepositCoin
	}
	if network == "" {
		network = model.DefaultDepositNetwork
	}
	if !contains(model.DepositCoins, coin) || !contains(model.DepositNetworks, network) {
		return "", "", ErrInvalidCoin
	}
	return coin, network, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// DepositAddress returns the admin-configured address for coin/network,
// served from the cache while fresh.
func (s *WalletService) DepositAddress(ctx context.Context, coin, network string) (*model.DepositAddress, error) {
	coin, network, err := normalizeCoin(coin, network)
	if err != nil {
		return nil, err
	}

	key := depositAddressKey(coin, network)
	var cached model.DepositAddress
	if ok, err := cache.GetJSON(s.cache, key, &cached); err != nil {
		log.Warnf("Deposit address cache read failed: %v", err)
	} else if ok {
		return &cached, nil
	}

	addr, err := s.addresses.GetDepositAddress(ctx, coin, network)
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(s.cache, key, addr, s.cacheTTL); err != nil {
		log.Warnf("Deposit address cache write failed: %v", err)
	}
	return addr, nil
}

func (s *WalletService) SetDepositAddress(ctx context.Context, coin, network, address string) (*model.DepositAddress, error) {
	coin, network, err := normalizeCoin(coin, network)
	if err != nil {
		return nil, err
	}

	addr := &model.DepositAddress{Coin: coin, Network: network, Address: strings.TrimSpace(address)}
	if err := s.addresses.UpsertDepositAddress(ctx, addr); err != nil {
		return nil, err
	}

	if err := s.cache.Delete(depositAddressKey(coin, network)); err != nil {
		log.Warnf("Deposit address cache invalidation failed: %v", err)
	}
	return addr, nil
}

func (s *WalletService) ListDepositAddresses(ctx context.Context) ([]model.DepositAddress, error) {
	return s.addresses.ListDepositAddresses(ctx)
}

// Deposit records a pending deposit converted into the user's currency.
// A deposit at or above the referral threshold by a referred user
// completes their pending referral bonus in the same write.
func (s *WalletService) Deposit(ctx context.Context, userID int64, in DepositInput) (*DepositResult, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if in.Method != model.MethodCrypto && in.Method != model.MethodMpesa {
		return nil, ErrInvalidMethod
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Currency == "" {
		in.Currency = user.Currency
	}
	conv := s.rates.Converter(ctx)
	amount, err := conv.Convert(in.Amount, in.Currency, user.Currency)
	if err != nil {
		return nil, err
	}

	t := &model.Transaction{
		UserID:   user.ID,
		Type:     model.TransactionTypeDeposit,
		Method:   in.Method,
		Amount:   amount,
		Currency: user.Currency,
		Status:   model.TransactionStatusPending,
		TxHash:   optional(in.TxHash),
	}

	result := &DepositResult{Transaction: t}
	if in.Method == model.MethodCrypto {
		network := in.Network
		if network == "" {
			network = model.DefaultDepositNetwork
		}
		t.Network = &network
		result.Network = network

		if addr, err := s.DepositAddress(ctx, model.DefaultDepositCoin, network); err == nil {
			result.DepositAddress = addr.Address
			t.Address = &addr.Address
		} else if !errors.Is(err, ErrDepositAddressNotFound) && !errors.Is(err, ErrInvalidCoin) {
			return nil, err
		}
	}

	qualifies := user.ReferredBy != nil && amount >= currency.ReferralMinDeposit.In(user.Currency)

	bonus, err := s.txs.CreateDeposit(ctx, t, qualifies, conv)
	if err != nil {
		return nil, err
	}
	result.ReferralBonus = bonus

	if bonus != nil {
		log.Infof("Referral bonus %d completed for referrer %d", bonus.ID, bonus.ReferrerID)
	}
	log.Infof("Deposit %d requested by user %d: %.2f %s via %s", t.ID, user.ID, amount, user.Currency, in.Method)
	s.notifier.DepositRequested(ctx, user, t)

	return result, nil
}

// Withdraw verifies the account password before anything else, then
// debits the balance and records a pending withdrawal.
func (s *WalletService) Withdraw(ctx context.Context, userID int64, in WithdrawInput) (*model.Transaction, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return nil, ErrInvalidPassword
	}

	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if in.Currency == "" {
		in.Currency = user.Currency
	}
	amount, err := s.rates.Converter(ctx).Convert(in.Amount, in.Currency, user.Currency)
	if err != nil {
		return nil, err
	}
	if minimum := currency.MinWithdrawal.In(user.Currency); amount < minimum {
		return nil, fmt.Errorf("%w: minimum withdrawal is %s", ErrBelowMinimum, currency.Format(minimum, user.Currency))
	}
	if user.ActiveBots < 1 {
		return nil, ErrNoActiveBots
	}

	deposits, err := s.txs.CountCompletedDeposits(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if deposits == 0 {
		return nil, ErrNoCompletedDeposit
	}

	if amount > user.Balance {
		return nil, ErrInsufficientBalance
	}

	t := &model.Transaction{
		UserID:   user.ID,
		Type:     model.TransactionTypeWithdraw,
		Method:   in.Method,
		Amount:   amount,
		Currency: user.Currency,
		Status:   model.TransactionStatusPending,
		Address:  optional(in.Address),
		Network:  optional(in.Network),
	}
	if err := s.txs.CreateWithdrawal(ctx, t); err != nil {
		return nil, err
	}

	log.Infof("Withdrawal %d requested by user %d: %.2f %s", t.ID, user.ID, amount, user.Currency)
	s.notifier.WithdrawalRequested(ctx, user, t)

	return t, nil
}

// History returns the user's transactions of txType (all when empty),
// each with its display amount in the user's currency.
func (s *WalletService) History(ctx context.Context, userID int64, txType model.TransactionType, limit, offset int) ([]model.TransactionView, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	txs, err := s.txs.ListTransactions(ctx, model.TransactionFilter{
		UserID: &user.ID,
		Type:   txType,
		Limit:  clampLimit(limit, 20, 100),
		Offset: max(offset, 0),
	})
	if err != nil {
		return nil, err
	}

	conv := s.rates.Converter(ctx)
	views := make([]model.TransactionView, 0, len(txs))
	for _, t := range txs {
		converted, err := conv.Convert(t.Amount, t.Currency, user.Currency)
		if err != nil {
			converted = t.Amount
		}
		views = append(views, model.TransactionView{
			Transaction:     t,
			FormattedAmount: currency.Format(t.Amount, t.Currency),
			ConvertedAmount: converted,
		})
	}
	return views, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func clampLimit(limit, def, upper int) int {
	if limit <= 0 {
		return def
	}
	if limit > upper {
		return upper
	}
	return limit
}
