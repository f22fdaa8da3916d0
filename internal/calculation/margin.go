package calculation

import (
	"errors"
	"fmt"

	"github.com/rgehrsitz/portasim/internal/annuity"
	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/shopspring/decimal"
)

// MarginInput describes a fresh margin-based loan. Exactly one of Installment
// or DesiredValue must be set.
type MarginInput struct {
	Installment  *decimal.Decimal
	DesiredValue *decimal.Decimal
	TermMonths   int
	Rates        domain.RateConfig
	Tier         domain.Tier // Defaults to TierNew
}

// MarginResult pairs an installment with the loan value it carries
type MarginResult struct {
	Installment decimal.Decimal `json:"installment"`
	Value       decimal.Decimal `json:"value"`
	Rate        decimal.Decimal `json:"rate"`
	Tier        domain.Tier     `json:"tier"`
	TermMonths  int             `json:"term_months"`
}

// ErrMarginInput is returned when the input sets neither or both amounts
var ErrMarginInput = errors.New("margin simulation needs exactly one of installment or desired value")

// SimulateMargin converts a desired installment into the loan value it
// carries, or a desired value into the installment it requires.
func (ce *CalculationEngine) SimulateMargin(in MarginInput) (MarginResult, error) {
	if (in.Installment == nil) == (in.DesiredValue == nil) {
		return MarginResult{}, ErrMarginInput
	}
	if err := ValidateTerm(in.TermMonths); err != nil {
		return MarginResult{}, fmt.Errorf("margin simulation: %w", err)
	}

	tier := in.Tier
	if tier == "" {
		tier = domain.TierNew
	}
	rate := in.Rates.MonthlyFraction(tier)

	result := MarginResult{
		Rate:       in.Rates.Rate(tier),
		Tier:       tier,
		TermMonths: in.TermMonths,
	}
	if in.Installment != nil {
		result.Installment = *in.Installment
		result.Value = annuity.PresentValueDecimal(rate, in.TermMonths, *in.Installment)
	} else {
		result.Value = *in.DesiredValue
		result.Installment = annuity.PaymentForValueDecimal(rate, in.TermMonths, *in.DesiredValue)
	}

	ce.Logger.Debugf("margin simulation (%s, %d months): installment=%s value=%s", tier, in.TermMonths, result.Installment, result.Value)
	return result, nil
}
