package service

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/forexpro/backend/internal/currency"
)

const SettingUSDToKSH = "usd_ksh_rate"

var ErrInvalidRate = errors.New("exchange rate must be positive")

type ExchangeRates struct {
	Base  currency.Currency             `json:"base"`
	Rates map[currency.Currency]float64 `json:"rates"`
}

// RatesService serves the USD->KSH rate from settings, cached for cacheTTL.
type RatesService struct {
	settings    SettingsRepository
	defaultRate float64

	cacheMu   sync.RWMutex
	cache     float64
	cacheTime time.Time
	cacheTTL  time.Duration
	now       func() time.Time
}

func NewRatesService(settings SettingsRepository, defaultRate float64, ttl time.Duration) *RatesService {
	return &RatesService{
		settings:    settings,
		defaultRate: defaultRate,
		cacheTTL:    ttl,
		now:         time.Now,
	}
}

// Rate returns the number of KSH per USD.
func (s *RatesService) Rate(ctx context.Context) float64 {
	s.cacheMu.RLock()
	if s.cache > 0 && s.now().Sub(s.cacheTime) < s.cacheTTL {
		rate := s.cache
		s.cacheMu.RUnlock()
		return rate
	}
	s.cacheMu.RUnlock()

	rate, err := s.settings.GetSettingFloat(ctx, SettingUSDToKSH)
	if err != nil || rate <= 0 {
		if err != nil {
			log.Warnf("Exchange rate setting unavailable, using default %.2f: %v", s.defaultRate, err)
		}
		rate = s.defaultRate
	}

	s.cacheMu.Lock()
	s.cache = rate
	s.cacheTime = s.now()
	s.cacheMu.Unlock()

	return rate
}

func (s *RatesService) Converter(ctx context.Context) currency.Converter {
	return currency.NewConverter(s.Rate(ctx))
}

func (s *RatesService) GetRates(ctx context.Context) *ExchangeRates {
	return &ExchangeRates{
		Base: currency.USD,
		Rates: map[currency.Currency]float64{
			currency.USD: 1,
			currency.KSH: s.Rate(ctx),
		},
	}
}

// SetRate persists a new rate and drops the cached one.
func (s *RatesService) SetRate(ctx context.Context, rate float64) error {
	if rate <= 0 {
		return ErrInvalidRate
	}
	if err := s.settings.SetSettingFloat(ctx, SettingUSDToKSH, rate); err != nil {
		return err
	}

	s.cacheMu.Lock()
	s.cache = 0
	s.cacheMu.Unlock()

	log.Infof("Exchange rate updated: 1 USD = %.4f KSH", rate)
	return nil
}
