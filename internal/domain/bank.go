package domain

import (
	"github.com/shopspring/decimal"
)

// Bank is a destination bank offered by the catalog
type Bank struct {
	Code            string          `yaml:"code" json:"codigo"`
	Name            string          `yaml:"name" json:"nome"`
	RateNew         decimal.Decimal `yaml:"rate_new" json:"taxa_novo"`
	RateRefin       decimal.Decimal `yaml:"rate_refin" json:"taxa_refin"`
	RatePortability decimal.Decimal `yaml:"rate_portability" json:"taxa_portabilidade"`
}

// Rates returns the bank's rates as a RateConfig
func (b Bank) Rates() RateConfig {
	return RateConfig{
		RateNew:         b.RateNew,
		RateRefin:       b.RateRefin,
		RatePortability: b.RatePortability,
	}
}
