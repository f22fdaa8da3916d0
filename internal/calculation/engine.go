package calculation

import (
	"fmt"

	"github.com/rgehrsitz/portasim/internal/annuity"
	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculationEngine prices contracts and applies the eligibility policy.
// It holds no state between calls.
type CalculationEngine struct {
	Policy domain.Policy
	Logger Logger
}

// NewCalculationEngine creates an engine with the default policy
func NewCalculationEngine() *CalculationEngine {
	return NewCalculationEngineWithPolicy(domain.DefaultPolicy())
}

// NewCalculationEngineWithPolicy creates an engine with configurable thresholds
func NewCalculationEngineWithPolicy(policy domain.Policy) *CalculationEngine {
	return &CalculationEngine{
		Policy: policy,
		Logger: NopLogger{},
	}
}

// SetLogger sets the engine logger; nil restores the no-op logger
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// ValidateTerm rejects terms the annuity math cannot price
func ValidateTerm(termMonths int) error {
	if termMonths <= 0 {
		return fmt.Errorf("term must be a positive number of months, got %d", termMonths)
	}
	return nil
}

// Evaluate prices one contract at the tier's rate over termMonths, keeping its
// installment, and classifies the result. A tier outside domain.Tiers has no
// rate, so the contract is left unpriced.
func (ce *CalculationEngine) Evaluate(record domain.ContractRecord, rates domain.RateConfig, termMonths int, tier domain.Tier) domain.EvaluatedContract {
	if !tier.Valid() {
		ce.Logger.Warnf("contract %q (%s): unknown tier %q, left unpriced", record.ContractID, record.BankLabel, tier)
		return ce.EvaluateUnpriced(record)
	}

	balance := record.OutstandingBalance()
	rate := rates.Rate(tier)

	pv := annuity.PresentValueDecimal(rates.MonthlyFraction(tier), termMonths, record.InstallmentAmount)
	available := pv.Sub(balance)

	classification, reason := ce.classify(record.InstallmentAmount, balance, available)

	ce.Logger.Debugf("contract %q (%s): installment=%s balance=%s pv=%s available=%s -> %s %s",
		record.ContractID, record.BankLabel, record.InstallmentAmount, balance, pv, available, classification, reason)

	return domain.EvaluatedContract{
		Record:                record,
		OutstandingBalance:    balance,
		RemainingInstallments: record.RemainingInstallments(),
		PresentValueNew:       pv,
		AvailableAmount:       available,
		Classification:        classification,
		Reason:                reason,
		Tier:                  tier,
		Rate:                  rate,
		TermMonths:            termMonths,
	}
}

// EvaluateAll evaluates records in order; Position is the index in records
func (ce *CalculationEngine) EvaluateAll(records []domain.ContractRecord, rates domain.RateConfig, termMonths int, tier domain.Tier) []domain.EvaluatedContract {
	evaluated := make([]domain.EvaluatedContract, 0, len(records))
	for i, record := range records {
		e := ce.Evaluate(record, rates, termMonths, tier)
		e.Position = i
		evaluated = append(evaluated, e)
	}

	ce.Logger.Infof("evaluated %d contracts at %s%% (%s) over %d months", len(evaluated), rates.Rate(tier), tier, termMonths)
	return evaluated
}

// EvaluateUnpriced resolves balances without pricing, for when no bank or
// rate has been selected. Amounts are zero and the contract does not liberate.
func (ce *CalculationEngine) EvaluateUnpriced(record domain.ContractRecord) domain.EvaluatedContract {
	return domain.EvaluatedContract{
		Record:                record,
		OutstandingBalance:    record.OutstandingBalance(),
		RemainingInstallments: record.RemainingInstallments(),
		PresentValueNew:       decimal.Zero,
		AvailableAmount:       decimal.Zero,
		Classification:        domain.DoesNotLiberate,
		Reason:                domain.ReasonUnpriced,
	}
}

// EvaluateAllUnpriced is EvaluateUnpriced over a list, keeping positions
func (ce *CalculationEngine) EvaluateAllUnpriced(records []domain.ContractRecord) []domain.EvaluatedContract {
	evaluated := make([]domain.EvaluatedContract, 0, len(records))
	for i, record := range records {
		e := ce.EvaluateUnpriced(record)
		e.Position = i
		evaluated = append(evaluated, e)
	}

	ce.Logger.Warnf("no bank selected; %d contracts left unpriced", len(evaluated))
	return evaluated
}

// classify applies the policy rules in order; the first match wins
func (ce *CalculationEngine) classify(installment, balance, available decimal.Decimal) (domain.Classification, domain.Reason) {
	if available.LessThanOrEqual(decimal.Zero) {
		return domain.DoesNotLiberate, domain.ReasonNonPositive
	}
	if installment.LessThanOrEqual(ce.Policy.MinInstallment) && balance.LessThanOrEqual(ce.Policy.MinBalance) {
		return domain.DoesNotLiberate, domain.ReasonBelowThreshold
	}
	return domain.Liberates, domain.ReasonNone
}
