package session

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/portasim/internal/calculation"
	"github.com/rgehrsitz/portasim/internal/domain"
)

// Session keeps the current state and result of an operator's simulation.
// Every change recomputes the whole result. A failed change leaves the
// previous state and result in place. Not safe for concurrent use.
type Session struct {
	pipeline *Pipeline
	state    State
	result   Result
}

// New creates a session over pipeline starting from initial. The initial
// state is not evaluated until Refresh or the first change.
func New(pipeline *Pipeline, initial State) *Session {
	if pipeline == nil {
		pipeline = NewPipeline(nil)
	}
	return &Session{pipeline: pipeline, state: initial.Clone()}
}

// State returns a copy of the current state
func (s *Session) State() State { return s.state.Clone() }

// Result returns the current result
func (s *Session) Result() Result { return s.result }

// Refresh re-runs the current state through the pipeline
func (s *Session) Refresh(ctx context.Context) (Result, error) {
	return s.Update(ctx, func(*State) {})
}

// Update applies change to a copy of the state and recomputes. Records are
// fetched again only when the text changed. Exclusions survive a text change;
// positions past the end of the new records are dropped.
func (s *Session) Update(ctx context.Context, change func(*State)) (Result, error) {
	next := s.state.Clone()
	change(&next)

	records := s.result.Records
	if next.Text != s.state.Text || records == nil {
		var err error
		records, err = s.pipeline.Records(ctx, next)
		if err != nil {
			s.pipeline.Logger.Warnf("keeping previous result: %v", err)
			return s.result, fmt.Errorf("failed to load contracts: %w", err)
		}
		for _, position := range next.Excluded.Positions() {
			if position >= len(records) {
				next.Excluded.Remove(position)
			}
		}
	}

	result, err := s.pipeline.Evaluate(records, next)
	if err != nil {
		return s.result, err
	}

	s.state = next
	s.result = result
	return result, nil
}

// SetText replaces the pasted text
func (s *Session) SetText(ctx context.Context, text string) (Result, error) {
	return s.Update(ctx, func(st *State) { st.Text = text })
}

// SetBank selects the destination bank; nil clears the selection
func (s *Session) SetBank(ctx context.Context, bank *domain.Bank) (Result, error) {
	return s.Update(ctx, func(st *State) { st.Bank = bank })
}

// SetRates overrides the bank's rates; nil restores them
func (s *Session) SetRates(ctx context.Context, rates *domain.RateConfig) (Result, error) {
	return s.Update(ctx, func(st *State) { st.Rates = rates })
}

// SetTerm selects the term in months
func (s *Session) SetTerm(ctx context.Context, termMonths int) (Result, error) {
	return s.Update(ctx, func(st *State) { st.TermMonths = termMonths })
}

// SetTier selects the pricing tier
func (s *Session) SetTier(ctx context.Context, tier domain.Tier) (Result, error) {
	return s.Update(ctx, func(st *State) { st.Tier = tier })
}

// SetClientName sets the name shown on the shareable text
func (s *Session) SetClientName(ctx context.Context, name string) (Result, error) {
	return s.Update(ctx, func(st *State) { st.ClientName = name })
}

// ToggleExclusion excludes or re-includes the contract at position
func (s *Session) ToggleExclusion(ctx context.Context, position int) (Result, error) {
	return s.Update(ctx, func(st *State) { st.Excluded.Toggle(position) })
}

// SetLogger sets the logger for the session's pipeline
func (s *Session) SetLogger(l calculation.Logger) {
	s.pipeline.SetLogger(l)
}
