package breakeven

import (
	"context"
	"fmt"
	"sort"

	"github.com/rgehrsitz/portasim/internal/calculation"
	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Solver finds the pricing at which a contract stops liberating credit
type Solver struct {
	CalcEngine *calculation.CalculationEngine
	Options    SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(calcEngine *calculation.CalculationEngine, options SolverOptions) *Solver {
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.CalculationEngine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

// Solve finds the break-even point requested for one contract
func (s *Solver) Solve(ctx context.Context, req Request) (*Result, error) {
	if err := req.Constraints.Validate(); err != nil {
		return nil, err
	}
	if err := calculation.ValidateTerm(req.TermMonths); err != nil {
		return nil, &BreakEvenError{Operation: "solve", Message: "invalid offer term", Cause: err}
	}

	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = s.Options.Tolerance
	}

	switch req.Target {
	case TargetRate:
		return s.solveRate(ctx, req)
	case TargetTerm:
		return s.solveTerm(ctx, req)
	case TargetAll:
		rateResult, err := s.solveRate(ctx, req)
		if err != nil {
			return nil, err
		}
		termResult, err := s.solveTerm(ctx, req)
		if err != nil {
			return nil, err
		}
		rateResult.MinimumTerm = termResult.MinimumTerm
		rateResult.Iterations += termResult.Iterations
		rateResult.Success = rateResult.Success || termResult.Success
		rateResult.ConvergenceInfo = rateResult.ConvergenceInfo + "; " + termResult.ConvergenceInfo
		return rateResult, nil
	default:
		return nil, &BreakEvenError{
			Operation: "solve",
			Message:   fmt.Sprintf("unsupported solve target: %s", req.Target),
		}
	}
}

// solveRate bisects the tier's rate at the offer term. The available amount
// falls as the rate rises, so the liberating rates form an interval starting
// at the lower bound.
func (s *Solver) solveRate(ctx context.Context, req Request) (*Result, error) {
	minRate := decimal.Zero
	maxRate := decimal.NewFromInt(10)
	if req.Constraints.MinRate != nil {
		minRate = *req.Constraints.MinRate
	}
	if req.Constraints.MaxRate != nil {
		maxRate = *req.Constraints.MaxRate
	}

	result := s.newResult(req)
	if result.Base.Reason == domain.ReasonBelowThreshold {
		result.ConvergenceInfo = "Below the policy threshold; no rate liberates"
		return result, nil
	}

	iterations := 2
	if !s.liberatesAt(req, minRate, req.TermMonths) {
		result.Iterations = iterations
		result.ConvergenceInfo = fmt.Sprintf("Does not liberate even at %s%% a month", minRate.String())
		return result, nil
	}
	if s.liberatesAt(req, maxRate, req.TermMonths) {
		result.Iterations = iterations
		result.Success = true
		result.ConvergenceInfo = fmt.Sprintf("Liberates across the whole range up to %s%%", maxRate.String())
		s.setRate(result, req, maxRate)
		return result, nil
	}

	lo, hi := minRate, maxRate
	for iterations < req.MaxIterations {
		iterations++

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		mid := lo.Add(hi).Div(two)
		if s.liberatesAt(req, mid, req.TermMonths) {
			lo = mid
		} else {
			hi = mid
		}

		if hi.Sub(lo).LessThan(req.Tolerance) {
			result.Iterations = iterations
			result.Success = true
			result.ConvergenceInfo = fmt.Sprintf("Bisection converged within %s p.p.", req.Tolerance.String())
			s.setRate(result, req, lo)
			return result, nil
		}
	}

	// lo still liberates, so it is a usable bound even without convergence
	result.Iterations = iterations
	result.Success = true
	result.ConvergenceInfo = fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)
	s.setRate(result, req, lo)
	return result, nil
}

// solveTerm walks the candidate terms in ascending order and stops at the
// first one that liberates at the tier's current rate
func (s *Solver) solveTerm(ctx context.Context, req Request) (*Result, error) {
	result := s.newResult(req)
	if result.Base.Reason == domain.ReasonBelowThreshold {
		result.ConvergenceInfo = "Below the policy threshold; no term liberates"
		return result, nil
	}

	rate := req.Rates.Rate(req.Constraints.Tier)
	terms := candidateTerms(req.Constraints)
	iterations := 0

	for _, term := range terms {
		iterations++

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if s.liberatesAt(req, rate, term) {
			found := term
			result.MinimumTerm = &found
			result.Iterations = iterations
			result.Success = true
			result.ConvergenceInfo = fmt.Sprintf("Evaluated %d terms", iterations)
			return result, nil
		}
	}

	result.Iterations = iterations
	result.ConvergenceInfo = fmt.Sprintf("No term among %d candidates liberates", len(terms))
	return result, nil
}

func (s *Solver) newResult(req Request) *Result {
	base := s.CalcEngine.Evaluate(req.Record, req.Rates, req.TermMonths, req.Constraints.Tier)
	base.Position = req.Position

	return &Result{
		Request:    req,
		Position:   req.Position,
		BankLabel:  req.Record.BankLabel,
		ContractID: req.Record.ContractID,
		Base:       base,
	}
}

func (s *Solver) setRate(result *Result, req Request, rate decimal.Decimal) {
	found := rate
	headroom := rate.Sub(req.Rates.Rate(req.Constraints.Tier))
	result.BreakEvenRate = &found
	result.RateHeadroom = &headroom
}

func (s *Solver) liberatesAt(req Request, rate decimal.Decimal, termMonths int) bool {
	rates := req.Rates.WithRate(req.Constraints.Tier, rate)
	return s.CalcEngine.Evaluate(req.Record, rates, termMonths, req.Constraints.Tier).IsLiberating()
}

// candidateTerms returns the explicit terms sorted and deduplicated, or
// every month in the min/max range
func candidateTerms(c Constraints) []int {
	if len(c.Terms) > 0 {
		seen := make(map[int]bool, len(c.Terms))
		terms := make([]int, 0, len(c.Terms))
		for _, term := range c.Terms {
			if !seen[term] {
				seen[term] = true
				terms = append(terms, term)
			}
		}
		sort.Ints(terms)
		return terms
	}

	minTerm, maxTerm := 6, 120
	if c.MinTerm != nil {
		minTerm = *c.MinTerm
	}
	if c.MaxTerm != nil {
		maxTerm = *c.MaxTerm
	}
	if maxTerm < minTerm {
		return nil
	}

	terms := make([]int, 0, maxTerm-minTerm+1)
	for term := minTerm; term <= maxTerm; term++ {
		terms = append(terms, term)
	}
	return terms
}
