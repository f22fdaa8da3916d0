package store

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/rgehrsitz/portasim/internal/money"
	"github.com/shopspring/decimal"
)

// Keys under which the three rates are stored
const (
	KeyRateNew         = "rateNew"
	KeyRateRefin       = "rateRefin"
	KeyRatePortability = "ratePortability"
)

// TierKey maps a tier to its storage key
func TierKey(tier domain.Tier) (string, error) {
	switch tier {
	case domain.TierNew:
		return KeyRateNew, nil
	case domain.TierRefin:
		return KeyRateRefin, nil
	case domain.TierPortability:
		return KeyRatePortability, nil
	default:
		return "", fmt.Errorf("unknown tier %q", tier)
	}
}

// RateStore loads and saves the operator's RateConfig
type RateStore struct {
	kv       KV
	defaults domain.RateConfig
}

// NewRateStore creates a store whose absent keys fall back to the defaults
func NewRateStore(kv KV) *RateStore {
	return NewRateStoreWithDefaults(kv, domain.DefaultRateConfig())
}

// NewRateStoreWithDefaults lets configuration supply the fallback rates
func NewRateStoreWithDefaults(kv KV, defaults domain.RateConfig) *RateStore {
	return &RateStore{kv: kv, defaults: defaults}
}

// Load reads all three rates. Absent or unreadable values use the defaults.
func (s *RateStore) Load(ctx context.Context) (domain.RateConfig, error) {
	rates := s.defaults
	for _, tier := range domain.Tiers {
		key, _ := TierKey(tier)
		raw, ok, err := s.kv.Get(ctx, key)
		if err != nil {
			return s.defaults, fmt.Errorf("failed to load %s: %w", key, err)
		}
		if !ok {
			continue
		}
		if rate, valid := money.ParseRate(raw); valid {
			rates = rates.WithRate(tier, rate)
		}
	}
	return rates, nil
}

// Save writes all three rates
func (s *RateStore) Save(ctx context.Context, rates domain.RateConfig) error {
	if err := rates.Validate(); err != nil {
		return fmt.Errorf("refusing to save rates: %w", err)
	}
	for _, tier := range domain.Tiers {
		if err := s.Set(ctx, tier, rates.Rate(tier)); err != nil {
			return err
		}
	}
	return nil
}

// Set writes a single tier's rate
func (s *RateStore) Set(ctx context.Context, tier domain.Tier, rate decimal.Decimal) error {
	key, err := TierKey(tier)
	if err != nil {
		return err
	}
	if rate.IsNegative() {
		return fmt.Errorf("rate for %s cannot be negative", tier)
	}
	if err := s.kv.Set(ctx, key, rate.String()); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
