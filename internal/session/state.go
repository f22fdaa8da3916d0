package session

import (
	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/rgehrsitz/portasim/internal/offer"
)

// State is every input of one evaluation pass
type State struct {
	Text       string
	Bank       *domain.Bank       // Destination bank; nil when none is selected
	Rates      *domain.RateConfig // Overrides the bank's rates when set
	TermMonths int
	Tier       domain.Tier
	ClientName string
	Excluded   domain.ExclusionSet
}

// Pricing returns the rates the state evaluates at. ok is false when neither
// a bank nor explicit rates are selected.
func (s State) Pricing() (rates domain.RateConfig, ok bool) {
	if s.Rates != nil {
		return *s.Rates, true
	}
	if s.Bank != nil {
		return s.Bank.Rates(), true
	}
	return domain.RateConfig{}, false
}

// Clone returns a deep copy of s
func (s State) Clone() State {
	clone := s
	if s.Bank != nil {
		bank := *s.Bank
		clone.Bank = &bank
	}
	if s.Rates != nil {
		rates := *s.Rates
		clone.Rates = &rates
	}
	clone.Excluded = s.Excluded.Clone()
	return clone
}

// Notice is an informational outcome of a pass
type Notice string

const (
	NoticeNone        Notice = ""
	NoticeNoContracts Notice = "no contracts recognized in the text"
)

// Result is the output of one evaluation pass
type Result struct {
	Records   []domain.ContractRecord    `json:"records"`
	Evaluated []domain.EvaluatedContract `json:"evaluated"`
	Summary   offer.Summary              `json:"summary"`
	Priced    bool                       `json:"priced"`
	Notice    Notice                     `json:"notice,omitempty"`
}
