package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/rgehrsitz/portasim/internal/money"
)

// SolveAll runs the solver over every contract of a statement, in order
func (s *Solver) SolveAll(
	ctx context.Context,
	records []domain.ContractRecord,
	rates domain.RateConfig,
	termMonths int,
	target SolveTarget,
	constraints Constraints,
) (*MultiResult, error) {

	if err := constraints.Validate(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &BreakEvenError{
			Operation: "solve_all",
			Message:   "no contracts to solve",
		}
	}

	multi := &MultiResult{
		Tier:        constraints.Tier,
		TermMonths:  termMonths,
		CurrentRate: rates.Rate(constraints.Tier),
		Results:     make([]Result, 0, len(records)),
	}

	for i, record := range records {
		req := Request{
			Record:        record,
			Position:      i,
			Rates:         rates,
			TermMonths:    termMonths,
			Target:        target,
			Constraints:   constraints,
			MaxIterations: s.Options.MaxIterations,
			Tolerance:     s.Options.Tolerance,
		}

		result, err := s.Solve(ctx, req)
		if err != nil {
			return nil, &BreakEvenError{
				Operation: "solve_all",
				Message:   fmt.Sprintf("contract %d failed", i+1),
				Cause:     err,
			}
		}
		multi.Results = append(multi.Results, *result)
	}

	multi.BestHeadroom = findBestHeadroom(multi.Results)
	multi.Recommendations = generateRecommendations(multi)

	s.CalcEngine.Logger.Infof("solved break-even points for %d contracts (%s, %d months)", len(records), target, termMonths)
	return multi, nil
}

func findBestHeadroom(results []Result) *Result {
	var best *Result
	for i := range results {
		r := &results[i]
		if r.RateHeadroom == nil {
			continue
		}
		if best == nil || r.RateHeadroom.GreaterThan(*best.RateHeadroom) {
			best = r
		}
	}
	return best
}

func generateRecommendations(multi *MultiResult) []string {
	var recommendations []string

	for _, r := range multi.Results {
		label := fmt.Sprintf("Contract %d (%s)", r.Position+1, r.BankLabel)

		if r.Base.Reason == domain.ReasonBelowThreshold {
			recommendations = append(recommendations,
				fmt.Sprintf("%s is below the policy threshold and cannot liberate at any rate or term", label))
			continue
		}

		if r.RateHeadroom != nil {
			if r.RateHeadroom.IsNegative() {
				recommendations = append(recommendations,
					fmt.Sprintf("%s only liberates at %s a month or less, %s p.p. below the current rate",
						label, money.FormatPercentage(*r.BreakEvenRate), money.FormatBRL(r.RateHeadroom.Abs())))
			} else {
				recommendations = append(recommendations,
					fmt.Sprintf("%s still liberates up to %s a month", label, money.FormatPercentage(*r.BreakEvenRate)))
			}
		}

		if r.MinimumTerm != nil && *r.MinimumTerm > multi.TermMonths {
			recommendations = append(recommendations,
				fmt.Sprintf("%s needs at least %d months to liberate at the current rate", label, *r.MinimumTerm))
		}
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, "No contract liberates within the searched range")
	}

	return recommendations
}
