// Package parser recognizes contract records in text pasted from a
// benefit-statement screen.
//
// Parsing runs in two passes. Tokenize classifies every fragment of every
// line by kind. Assemble groups tokens into blocks, each opened by a bank
// header, and assigns tokens to record fields by kind rather than position,
// so differently ordered pastes produce the same records.
package parser

import (
	"github.com/rgehrsitz/portasim/internal/domain"
)

// Parse returns the complete contract records found in text, in order of
// appearance. It never fails; unrecognized or incomplete blocks are skipped.
func Parse(text string) []domain.ContractRecord {
	return Assemble(Tokenize(text))
}

// Assemble groups tokens into contract records. Tokens before the first bank
// header are dropped; a block without a positive installment is skipped.
func Assemble(tokens []Token) []domain.ContractRecord {
	records := []domain.ContractRecord{}
	var current *blockBuilder

	flush := func() {
		if current == nil {
			return
		}
		if record, ok := current.build(); ok {
			records = append(records, record)
		}
		current = nil
	}

	for i, tok := range tokens {
		if tok.Kind == KindBankHeader {
			flush()
			current = newBlockBuilder(tok.Text)
			continue
		}
		if current == nil {
			continue
		}

		var next *Token
		if i+1 < len(tokens) {
			next = &tokens[i+1]
		}
		current.add(tok, next)
	}
	flush()

	return records
}

type blockBuilder struct {
	record domain.ContractRecord

	installmentSet  bool
	unlabelledAfter int // Bare amounts seen after the installment

	pending     Label
	pendingLine int
}

func newBlockBuilder(header string) *blockBuilder {
	return &blockBuilder{record: domain.ContractRecord{BankLabel: header}}
}

func (b *blockBuilder) add(tok Token, next *Token) {
	label := b.takeLabel(tok)

	switch tok.Kind {
	case KindLabel:
		b.pending = tok.Label
		b.pendingLine = tok.Line

	case KindIdentifier:
		if b.record.ContractID == "" {
			b.record.ContractID = tok.Text
		}

	case KindDate:
		b.record.Dates = append(b.record.Dates, tok.Text)

	case KindPercentage:
		if b.record.MonthlyRateLabel == "" {
			b.record.MonthlyRateLabel = tok.Text
		}

	case KindProgress:
		if b.record.InstallmentsTotal == nil {
			b.record.InstallmentsPaid = domain.IntPtr(tok.Paid)
			b.record.InstallmentsTotal = domain.IntPtr(tok.Total)
		}
		if tok.HasRemain {
			b.setRemaining(tok.Remaining)
		}

	case KindRemaining:
		b.setRemaining(tok.Remaining)

	case KindCurrency:
		if label != "" {
			b.assignLabelled(label, tok)
			return
		}
		// Only an amount immediately followed by the rate is the contracted
		// amount; a rate printed first leaves the next amount as the installment.
		if next != nil && next.Kind == KindPercentage {
			if b.record.ContractedAmount == nil {
				b.record.ContractedAmount = domain.DecimalPtr(tok.Amount)
			}
			return
		}
		if !b.installmentSet {
			b.setInstallment(tok)
			return
		}
		b.assignBareAmount(tok)

	case KindNumber:
		if label != "" {
			b.assignLabelled(label, tok)
			return
		}
		if tok.Integer && len(tok.Text) <= 3 {
			b.setRemaining(int(tok.Amount.IntPart()))
			return
		}
		if tok.Integer && len(tok.Text) >= 5 && b.record.ContractID == "" {
			// Short numeric contract numbers carry no separators
			b.record.ContractID = tok.Text
			return
		}
		if b.installmentSet {
			b.assignBareAmount(tok)
		}
	}
}

// takeLabel returns the label pending for an amount token on the same line
func (b *blockBuilder) takeLabel(tok Token) Label {
	if b.pending == "" {
		return ""
	}
	if tok.Line != b.pendingLine {
		b.pending = ""
		return ""
	}
	if tok.Kind != KindCurrency && tok.Kind != KindNumber {
		return ""
	}
	label := b.pending
	b.pending = ""
	return label
}

func (b *blockBuilder) assignLabelled(label Label, tok Token) {
	switch label {
	case LabelBalance:
		b.record.ExplicitOutstandingBalance = domain.DecimalPtr(tok.Amount)
	case LabelPayoff:
		b.record.PayoffAmount = domain.DecimalPtr(tok.Amount)
	case LabelInstallment:
		if tok.Kind == KindNumber && tok.Integer && len(tok.Text) <= 3 && !b.installmentSet {
			// "Parcelas 96" is a count, not an amount
			b.setRemaining(int(tok.Amount.IntPart()))
			return
		}
		b.setInstallment(tok)
	case LabelRemaining:
		b.setRemaining(int(tok.Amount.IntPart()))
	}
}

// assignBareAmount routes an unlabelled amount seen after the installment:
// the first is the payoff, the second the explicit balance.
func (b *blockBuilder) assignBareAmount(tok Token) {
	b.unlabelledAfter++
	switch {
	case b.unlabelledAfter == 1 && b.record.PayoffAmount == nil:
		b.record.PayoffAmount = domain.DecimalPtr(tok.Amount)
	case b.record.ExplicitOutstandingBalance == nil:
		b.record.ExplicitOutstandingBalance = domain.DecimalPtr(tok.Amount)
	}
}

func (b *blockBuilder) setInstallment(tok Token) {
	b.record.InstallmentAmount = tok.Amount
	b.installmentSet = true
}

func (b *blockBuilder) setRemaining(n int) {
	if b.record.ExplicitInstallmentsRemaining == nil {
		b.record.ExplicitInstallmentsRemaining = domain.IntPtr(n)
	}
}

func (b *blockBuilder) build() (domain.ContractRecord, bool) {
	if !b.record.HasInstallment() {
		return domain.ContractRecord{}, false
	}
	return b.record, true
}
