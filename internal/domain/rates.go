package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Tier selects which of the three rates prices a contract
type Tier string

const (
	TierNew         Tier = "new"         // Fresh margin-based loan
	TierRefin       Tier = "refin"       // Refinance keeping the installment
	TierPortability Tier = "portability" // Transfer to a new bank
)

// Tiers lists every supported tier
var Tiers = []Tier{TierNew, TierRefin, TierPortability}

// Valid reports whether t is one of the supported tiers
func (t Tier) Valid() bool {
	for _, tier := range Tiers {
		if t == tier {
			return true
		}
	}
	return false
}

// ParseTier accepts the English names plus the Portuguese labels used by operators
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "new", "novo", "margem":
		return TierNew, nil
	case "refin", "refinanciamento":
		return TierRefin, nil
	case "portability", "portabilidade", "port":
		return TierPortability, nil
	default:
		return "", fmt.Errorf("unknown tier %q (expected new, refin or portability)", s)
	}
}

// Default rates, as monthly percentages
var (
	DefaultRateNew         = decimal.RequireFromString("1.80")
	DefaultRateRefin       = decimal.RequireFromString("1.50")
	DefaultRatePortability = decimal.RequireFromString("1.50")
)

// RateConfig holds the three monthly rates as percentages (1.50 means 1.5%/month)
type RateConfig struct {
	RateNew         decimal.Decimal `yaml:"rate_new" json:"rate_new"`
	RateRefin       decimal.Decimal `yaml:"rate_refin" json:"rate_refin"`
	RatePortability decimal.Decimal `yaml:"rate_portability" json:"rate_portability"`
}

// DefaultRateConfig returns the operator defaults
func DefaultRateConfig() RateConfig {
	return RateConfig{
		RateNew:         DefaultRateNew,
		RateRefin:       DefaultRateRefin,
		RatePortability: DefaultRatePortability,
	}
}

// Rate returns the percentage for a tier. Unknown tiers price at zero.
func (r RateConfig) Rate(tier Tier) decimal.Decimal {
	switch tier {
	case TierNew:
		return r.RateNew
	case TierRefin:
		return r.RateRefin
	case TierPortability:
		return r.RatePortability
	default:
		return decimal.Zero
	}
}

// WithRate returns a copy of r with the tier's percentage replaced. Unknown
// tiers leave r unchanged.
func (r RateConfig) WithRate(tier Tier, rate decimal.Decimal) RateConfig {
	switch tier {
	case TierNew:
		r.RateNew = rate
	case TierRefin:
		r.RateRefin = rate
	case TierPortability:
		r.RatePortability = rate
	}
	return r
}

// MonthlyFraction converts the tier's percentage into a fractional monthly rate
func (r RateConfig) MonthlyFraction(tier Tier) decimal.Decimal {
	return r.Rate(tier).Div(decimal.NewFromInt(100))
}

// Validate rejects negative rates
func (r RateConfig) Validate() error {
	for _, tier := range Tiers {
		if r.Rate(tier).IsNegative() {
			return fmt.Errorf("rate for %s cannot be negative", tier)
		}
	}
	return nil
}

// Policy holds the minimum-profitability thresholds. A contract whose
// installment and balance are both at or below these values does not liberate.
type Policy struct {
	MinInstallment decimal.Decimal `yaml:"min_installment" json:"min_installment"`
	MinBalance     decimal.Decimal `yaml:"min_balance" json:"min_balance"`
}

// DefaultPolicy returns the thresholds used by the current revision of the tool
func DefaultPolicy() Policy {
	return Policy{
		MinInstallment: decimal.NewFromInt(100),
		MinBalance:     decimal.NewFromInt(4000),
	}
}
