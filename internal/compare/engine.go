package compare

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rgehrsitz/portasim/internal/catalog"
	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/rgehrsitz/portasim/internal/session"
)

// ErrNoContracts is returned when the text yields nothing to compare
var ErrNoContracts = errors.New("no contracts recognized in the text")

// CompareEngine prices one statement at several banks
type CompareEngine struct {
	Pipeline          *session.Pipeline
	MetricsCalculator *MetricsCalculator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(pipeline *session.Pipeline) *CompareEngine {
	if pipeline == nil {
		pipeline = session.NewPipeline(nil)
	}
	return &CompareEngine{
		Pipeline:          pipeline,
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseBankCode string   // Empty selects the catalog's default bank
	BankCodes    []string // Alternatives; empty compares every other bank
	TermMonths   int
	Tier         domain.Tier
	Excluded     domain.ExclusionSet
	ClientName   string
}

// Compare parses text once and prices it at the base bank and each alternative
func (ce *CompareEngine) Compare(
	ctx context.Context,
	text string,
	banks catalog.Catalog,
	options CompareOptions,
) (*ComparisonSet, error) {

	base, err := banks.Resolve(options.BaseBankCode)
	if err != nil {
		return nil, fmt.Errorf("base bank: %w", err)
	}
	if base == nil {
		return nil, fmt.Errorf("no banks configured to compare")
	}

	alternatives, err := ce.alternatives(banks, *base, options.BankCodes)
	if err != nil {
		return nil, err
	}

	state := session.State{
		Text:       text,
		TermMonths: options.TermMonths,
		Tier:       options.Tier,
		ClientName: options.ClientName,
		Excluded:   options.Excluded,
	}

	records, err := ce.Pipeline.Records(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("failed to load contracts: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoContracts
	}

	baseResult, err := ce.evaluate(records, state, *base)
	if err != nil {
		return nil, err
	}

	results := make([]ComparisonResult, 0, len(alternatives))
	for _, bank := range alternatives {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		altResult, err := ce.evaluate(records, state, bank)
		if err != nil {
			return nil, err
		}
		results = append(results, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalAvailable.GreaterThan(results[j].TotalAvailable)
	})

	compSet := &ComparisonSet{
		BaseBankCode:       base.Code,
		Tier:               options.Tier,
		TermMonths:         options.TermMonths,
		ContractCount:      len(records),
		BaseResult:         &baseResult,
		AlternativeResults: results,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	ce.Pipeline.Logger.Infof("compared %d contract(s) across %d bank(s)", len(records), len(results)+1)
	return compSet, nil
}

func (ce *CompareEngine) evaluate(records []domain.ContractRecord, state session.State, bank domain.Bank) (ComparisonResult, error) {
	state.Bank = &bank
	result, err := ce.Pipeline.Evaluate(records, state)
	if err != nil {
		return ComparisonResult{}, fmt.Errorf("failed to price offer for bank %s: %w", bank.Code, err)
	}
	return ce.MetricsCalculator.CalculateMetrics(result.Summary, bank, state.Tier), nil
}

// alternatives resolves the banks to compare against base, in catalog order
// unless codes are given
func (ce *CompareEngine) alternatives(banks catalog.Catalog, base domain.Bank, codes []string) ([]domain.Bank, error) {
	if len(codes) == 0 {
		var others []domain.Bank
		for _, bank := range banks.Banks() {
			if bank.Code != base.Code {
				others = append(others, bank)
			}
		}
		return others, nil
	}

	seen := map[string]bool{base.Code: true}
	var selected []domain.Bank
	for _, code := range codes {
		bank, err := banks.Find(code)
		if err != nil {
			return nil, err
		}
		if seen[bank.Code] {
			continue
		}
		seen[bank.Code] = true
		selected = append(selected, bank)
	}
	return selected, nil
}
