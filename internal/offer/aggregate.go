package offer

import (
	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/shopspring/decimal"
)

// Aggregate folds evaluated contracts into an offer. Contracts whose position
// is in excluded are left out; order is preserved. TotalAvailable is the exact
// sum of AvailableAmount over the included contracts that liberate.
func Aggregate(evaluated []domain.EvaluatedContract, excluded domain.ExclusionSet, opts Options) Summary {
	summary := Summary{
		BankName:       DefaultBankName,
		TermMonths:     opts.TermMonths,
		ClientName:     opts.ClientName,
		Included:       []domain.EvaluatedContract{},
		Excluded:       []domain.EvaluatedContract{},
		Liberating:     []domain.EvaluatedContract{},
		NotLiberating:  []domain.EvaluatedContract{},
		TotalAvailable: decimal.Zero,
	}
	if opts.Bank != nil {
		summary.BankName = opts.Bank.Name
		summary.BankCode = opts.Bank.Code
	}

	for _, e := range evaluated {
		if excluded.Contains(e.Position) {
			summary.Excluded = append(summary.Excluded, e)
			continue
		}
		summary.Included = append(summary.Included, e)

		if e.IsLiberating() {
			summary.Liberating = append(summary.Liberating, e)
			summary.TotalAvailable = summary.TotalAvailable.Add(e.AvailableAmount)
		} else {
			summary.NotLiberating = append(summary.NotLiberating, e)
		}
	}

	return summary
}
