package domain

import (
	"github.com/shopspring/decimal"
)

// Classification is the outcome of the eligibility rules for one contract
type Classification string

const (
	Liberates       Classification = "liberates"
	DoesNotLiberate Classification = "does_not_liberate"
)

// Reason explains a DoesNotLiberate classification
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonNonPositive    Reason = "non-positive available amount"
	ReasonBelowThreshold Reason = "below minimum installment/balance threshold"
	ReasonUnpriced       Reason = "no bank/rate selected"
)

// EvaluatedContract is a ContractRecord priced at a rate and term
type EvaluatedContract struct {
	Position int            `json:"position"` // Zero-based order of appearance in the pasted text
	Record   ContractRecord `json:"record"`

	OutstandingBalance    decimal.Decimal `json:"outstanding_balance"`
	RemainingInstallments *int            `json:"remaining_installments,omitempty"`
	PresentValueNew       decimal.Decimal `json:"present_value_new"`
	AvailableAmount       decimal.Decimal `json:"available_amount"`

	Classification Classification `json:"classification"`
	Reason         Reason         `json:"reason,omitempty"`

	// Pricing inputs used for this evaluation
	Tier       Tier            `json:"tier"`
	Rate       decimal.Decimal `json:"rate"`
	TermMonths int             `json:"term_months"`
}

// IsLiberating reports whether the contract releases credit
func (e EvaluatedContract) IsLiberating() bool {
	return e.Classification == Liberates
}
