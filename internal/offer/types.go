package offer

import (
	"errors"

	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultBankName is shown when no destination bank is selected
const DefaultBankName = "Banco XP"

// ErrNothingToShare is returned by Text when no included contract liberates
var ErrNothingToShare = errors.New("no liberating contract to share")

// Options configures an aggregation
type Options struct {
	Bank       *domain.Bank // Destination bank; nil when none is selected
	TermMonths int
	ClientName string
}

// Summary is the offer assembled from one evaluation pass
type Summary struct {
	BankName   string `json:"bank_name"`
	BankCode   string `json:"bank_code,omitempty"`
	TermMonths int    `json:"term_months"`
	ClientName string `json:"client_name,omitempty"`

	Included      []domain.EvaluatedContract `json:"included"`
	Excluded      []domain.EvaluatedContract `json:"excluded"`
	Liberating    []domain.EvaluatedContract `json:"liberating"`
	NotLiberating []domain.EvaluatedContract `json:"not_liberating"`

	TotalAvailable decimal.Decimal `json:"total_available"`
}

// HasLiberating reports whether the summary has anything to share
func (s Summary) HasLiberating() bool {
	return len(s.Liberating) > 0
}
