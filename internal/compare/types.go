package compare

import (
	"fmt"

	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/rgehrsitz/portasim/internal/money"
	"github.com/rgehrsitz/portasim/internal/offer"
	"github.com/shopspring/decimal"
)

// ComparisonResult is one bank's offer for the statement, with metrics
type ComparisonResult struct {
	BankCode string          `json:"bankCode"`
	BankName string          `json:"bankName"`
	Rate     decimal.Decimal `json:"rate"` // Monthly percentage for the compared tier
	Summary  *offer.Summary  `json:"-"`

	// Key Metrics
	TotalAvailable     decimal.Decimal `json:"totalAvailable"`
	LiberatingCount    int             `json:"liberatingCount"`
	NotLiberatingCount int             `json:"notLiberatingCount"`

	// Comparison to Base
	TotalDiffFromBase decimal.Decimal `json:"totalDiffFromBase"`
	TotalPctFromBase  decimal.Decimal `json:"totalPctFromBase"`
	LiberatingDiff    int             `json:"liberatingDiff"`
}

// ComparisonSet holds the base bank's offer and every alternative, best first
type ComparisonSet struct {
	BaseBankCode       string             `json:"baseBankCode"`
	Tier               domain.Tier        `json:"tier"`
	TermMonths         int                `json:"termMonths"`
	ContractCount      int                `json:"contractCount"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
}

// Best returns the result with the highest total; the base wins ties
func (cs *ComparisonSet) Best() *ComparisonResult {
	best := cs.BaseResult
	for i := range cs.AlternativeResults {
		alt := &cs.AlternativeResults[i]
		if best == nil || alt.TotalAvailable.GreaterThan(best.TotalAvailable) {
			best = alt
		}
	}
	return best
}

// MetricsCalculator extracts key metrics from offer summaries
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes the comparison metrics of one bank's offer
func (mc *MetricsCalculator) CalculateMetrics(summary offer.Summary, bank domain.Bank, tier domain.Tier) ComparisonResult {
	return ComparisonResult{
		BankCode:           bank.Code,
		BankName:           bank.Name,
		Rate:               bank.Rates().Rate(tier),
		Summary:            &summary,
		TotalAvailable:     summary.TotalAvailable,
		LiberatingCount:    len(summary.Liberating),
		NotLiberatingCount: len(summary.NotLiberating),
	}
}

// CalculateComparison computes the deltas between an offer and the base offer
func (mc *MetricsCalculator) CalculateComparison(alt, base ComparisonResult) ComparisonResult {
	alt.TotalDiffFromBase = alt.TotalAvailable.Sub(base.TotalAvailable)

	if !base.TotalAvailable.IsZero() {
		alt.TotalPctFromBase = alt.TotalDiffFromBase.
			Div(base.TotalAvailable.Abs()).
			Mul(decimal.NewFromInt(100))
	}

	alt.LiberatingDiff = alt.LiberatingCount - base.LiberatingCount
	return alt
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}
	base := compSet.BaseResult

	best := compSet.Best()
	if best != base {
		recommendations = append(recommendations,
			fmt.Sprintf("Best offer: %s releases %s more than %s",
				best.BankName, money.FormatCurrency(best.TotalDiffFromBase), base.BankName))
	} else {
		recommendations = append(recommendations,
			fmt.Sprintf("%s already has the highest total available", base.BankName))
	}

	mostLiberating := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.LiberatingCount > mostLiberating.LiberatingCount {
			mostLiberating = alt
		}
	}
	if mostLiberating != base {
		recommendations = append(recommendations,
			fmt.Sprintf("Most contracts: %s liberates %d more contract(s) than %s",
				mostLiberating.BankName, mostLiberating.LiberatingDiff, base.BankName))
	}

	if best.LiberatingCount == 0 {
		recommendations = append(recommendations, "No bank liberates any contract at this term")
	}

	return recommendations
}
