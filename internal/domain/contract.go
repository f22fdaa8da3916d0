package domain

import (
	"github.com/shopspring/decimal"
)

// ContractRecord is one loan contract recognized in the pasted benefit-statement text
type ContractRecord struct {
	BankLabel         string          `yaml:"bank_label" json:"bank_label"`
	ContractID        string          `yaml:"contract_id" json:"contract_id"`
	InstallmentAmount decimal.Decimal `yaml:"installment_amount" json:"installment_amount"`
	MonthlyRateLabel  string          `yaml:"monthly_rate_label,omitempty" json:"monthly_rate_label,omitempty"` // Verbatim, never parsed

	// Balance figures; PayoffAmount wins when both are present
	PayoffAmount               *decimal.Decimal `yaml:"payoff_amount,omitempty" json:"payoff_amount,omitempty"`
	ExplicitOutstandingBalance *decimal.Decimal `yaml:"explicit_outstanding_balance,omitempty" json:"explicit_outstanding_balance,omitempty"`

	// Installment counts; total/paid win over the explicit remaining count
	InstallmentsTotal             *int `yaml:"installments_total,omitempty" json:"installments_total,omitempty"`
	InstallmentsPaid              *int `yaml:"installments_paid,omitempty" json:"installments_paid,omitempty"`
	ExplicitInstallmentsRemaining *int `yaml:"explicit_installments_remaining,omitempty" json:"explicit_installments_remaining,omitempty"`

	// Informational fields (not used in calculations)
	ContractedAmount *decimal.Decimal `yaml:"contracted_amount,omitempty" json:"contracted_amount,omitempty"`
	Dates            []string         `yaml:"dates,omitempty" json:"dates,omitempty"`
}

// RemainingInstallments resolves the remaining installment count. Returns nil
// when no count can be determined.
func (c ContractRecord) RemainingInstallments() *int {
	if c.InstallmentsTotal != nil && c.InstallmentsPaid != nil {
		remaining := *c.InstallmentsTotal - *c.InstallmentsPaid
		return &remaining
	}
	if c.ExplicitInstallmentsRemaining != nil {
		remaining := *c.ExplicitInstallmentsRemaining
		return &remaining
	}
	return nil
}

// OutstandingBalance resolves the balance to be settled by the new bank
func (c ContractRecord) OutstandingBalance() decimal.Decimal {
	if c.PayoffAmount != nil {
		return *c.PayoffAmount
	}
	if c.ExplicitOutstandingBalance != nil {
		return *c.ExplicitOutstandingBalance
	}
	return decimal.Zero
}

// HasInstallment reports whether the record carries a usable installment amount
func (c ContractRecord) HasInstallment() bool {
	return c.InstallmentAmount.GreaterThan(decimal.Zero)
}

// DecimalPtr returns a pointer to a copy of d
func DecimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// IntPtr returns a pointer to a copy of i
func IntPtr(i int) *int {
	return &i
}
