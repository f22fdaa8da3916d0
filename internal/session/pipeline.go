package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/rgehrsitz/portasim/internal/calculation"
	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/rgehrsitz/portasim/internal/offer"
)

// Pipeline runs text through the parser, the classifier and the aggregator.
// It holds no state between runs.
type Pipeline struct {
	Source RecordSource
	Engine *calculation.CalculationEngine
	Logger calculation.Logger
}

// NewPipeline creates a pipeline over source with a default engine
func NewPipeline(source RecordSource) *Pipeline {
	if source == nil {
		source = LocalSource{}
	}
	return &Pipeline{
		Source: source,
		Engine: calculation.NewCalculationEngine(),
		Logger: calculation.NopLogger{},
	}
}

// SetLogger sets the logger for the pipeline and its engine
func (p *Pipeline) SetLogger(l calculation.Logger) {
	if l == nil {
		p.Logger = calculation.NopLogger{}
	} else {
		p.Logger = l
	}
	p.Engine.SetLogger(l)
}

// Records fetches the records for the state's text. Blank text yields no
// records without consulting the source.
func (p *Pipeline) Records(ctx context.Context, state State) ([]domain.ContractRecord, error) {
	if strings.TrimSpace(state.Text) == "" {
		return []domain.ContractRecord{}, nil
	}
	rates, _ := state.Pricing()
	records, err := p.Source.Records(ctx, state.Text, rates)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.ContractRecord{}
	}
	p.Logger.Debugf("recognized %d contract(s)", len(records))
	return records, nil
}

// Evaluate prices records under state and aggregates the offer
func (p *Pipeline) Evaluate(records []domain.ContractRecord, state State) (Result, error) {
	if err := calculation.ValidateTerm(state.TermMonths); err != nil {
		return Result{}, err
	}

	result := Result{Records: records}
	rates, priced := state.Pricing()
	if priced {
		if err := rates.Validate(); err != nil {
			return Result{}, fmt.Errorf("invalid rates: %w", err)
		}
		if !state.Tier.Valid() {
			p.Logger.Warnf("no pricing tier selected (%q); contracts left unpriced", state.Tier)
			priced = false
		}
	}
	if priced {
		result.Evaluated = p.Engine.EvaluateAll(records, rates, state.TermMonths, state.Tier)
	} else {
		result.Evaluated = p.Engine.EvaluateAllUnpriced(records)
	}
	result.Priced = priced

	result.Summary = offer.Aggregate(result.Evaluated, state.Excluded, offer.Options{
		Bank:       state.Bank,
		TermMonths: state.TermMonths,
		ClientName: state.ClientName,
	})
	if len(records) == 0 {
		result.Notice = NoticeNoContracts
	}
	return result, nil
}

// Run fetches and evaluates in one pass
func (p *Pipeline) Run(ctx context.Context, state State) (Result, error) {
	records, err := p.Records(ctx, state)
	if err != nil {
		return Result{}, err
	}
	return p.Evaluate(records, state)
}
