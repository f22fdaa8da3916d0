package breakeven

import (
	"fmt"

	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/shopspring/decimal"
)

// SolveTarget defines which pricing parameter to solve for
type SolveTarget string

const (
	TargetRate SolveTarget = "rate" // Highest monthly rate that still liberates
	TargetTerm SolveTarget = "term" // Shortest term that liberates
	TargetAll  SolveTarget = "all"
)

// ParseTarget accepts the target names used on the command line
func ParseTarget(s string) (SolveTarget, error) {
	switch SolveTarget(s) {
	case TargetRate, TargetTerm, TargetAll:
		return SolveTarget(s), nil
	case "":
		return TargetAll, nil
	default:
		return "", fmt.Errorf("unknown target %q (expected rate, term or all)", s)
	}
}

// Constraints bound the search space
type Constraints struct {
	// Monthly rate bounds as percentages (1.50 means 1.5%/month)
	MinRate *decimal.Decimal `json:"min_rate,omitempty"`
	MaxRate *decimal.Decimal `json:"max_rate,omitempty"`

	// Candidate terms for the term search. Empty means every month
	// from MinTerm to MaxTerm.
	Terms   []int `json:"terms,omitempty"`
	MinTerm *int  `json:"min_term,omitempty"`
	MaxTerm *int  `json:"max_term,omitempty"`

	// Tier whose rate is solved for (required)
	Tier domain.Tier `json:"tier"`
}

// DefaultConstraints returns a rate range of 0% to 10% a month and terms
// from 6 to 120 months
func DefaultConstraints(tier domain.Tier) Constraints {
	minRate := decimal.Zero
	maxRate := decimal.NewFromInt(10)
	minTerm := 6
	maxTerm := 120

	return Constraints{
		MinRate: &minRate,
		MaxRate: &maxRate,
		MinTerm: &minTerm,
		MaxTerm: &maxTerm,
		Tier:    tier,
	}
}

// Request asks for the break-even point of one contract
type Request struct {
	Record      domain.ContractRecord
	Position    int
	Rates       domain.RateConfig // Rates of the selected bank
	TermMonths  int               // Offer term; the rate search prices at this term
	Target      SolveTarget
	Constraints Constraints

	MaxIterations int
	Tolerance     decimal.Decimal // Rate convergence, in percentage points
}

// Result is the break-even point found for one contract
type Result struct {
	Request         Request `json:"-"`
	Position        int     `json:"position"`
	BankLabel       string  `json:"bank_label"`
	ContractID      string  `json:"contract_id,omitempty"`
	Success         bool    `json:"success"`
	Iterations      int     `json:"iterations"`
	ConvergenceInfo string  `json:"convergence_info"`

	// Solved parameters
	BreakEvenRate *decimal.Decimal `json:"break_even_rate,omitempty"`
	MinimumTerm   *int             `json:"minimum_term,omitempty"`

	// Evaluation at the request's rates and term
	Base domain.EvaluatedContract `json:"base"`

	// Break-even rate minus the tier's current rate; positive means the
	// bank could raise the rate and the contract would still liberate
	RateHeadroom *decimal.Decimal `json:"rate_headroom,omitempty"`
}

// MultiResult holds the break-even points of every contract in a statement
type MultiResult struct {
	Tier            domain.Tier     `json:"tier"`
	TermMonths      int             `json:"term_months"`
	CurrentRate     decimal.Decimal `json:"current_rate"`
	Results         []Result        `json:"results"`
	BestHeadroom    *Result         `json:"best_headroom,omitempty"`
	Recommendations []string        `json:"recommendations"`
}

// SolverOptions configures the search algorithms
type SolverOptions struct {
	Tolerance     decimal.Decimal // Rate convergence, in percentage points
	MaxIterations int
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.RequireFromString("0.0001"),
		MaxIterations: 60,
	}
}

// Validate checks if constraints are internally consistent
func (c *Constraints) Validate() error {
	if _, err := domain.ParseTier(string(c.Tier)); err != nil {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "a valid tier is required",
			Cause:     err,
		}
	}

	if c.MinRate != nil && c.MinRate.IsNegative() {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_rate cannot be negative",
		}
	}
	if c.MinRate != nil && c.MaxRate != nil && c.MinRate.GreaterThan(*c.MaxRate) {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_rate cannot be greater than max_rate",
		}
	}

	if c.MinTerm != nil && *c.MinTerm <= 0 {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_term must be positive",
		}
	}
	if c.MinTerm != nil && c.MaxTerm != nil && *c.MinTerm > *c.MaxTerm {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_term cannot be greater than max_term",
		}
	}
	for _, term := range c.Terms {
		if term <= 0 {
			return &BreakEvenError{
				Operation: "validate_constraints",
				Message:   fmt.Sprintf("candidate term %d must be positive", term),
			}
		}
	}

	return nil
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
