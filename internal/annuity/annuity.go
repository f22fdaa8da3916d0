// Package annuity implements ordinary-annuity present value and payment math.
//
// Every function returns 0 instead of NaN or Inf so that financial totals
// built from its results stay finite.
package annuity

import (
	"math"

	"github.com/shopspring/decimal"
)

// PresentValue returns payment × (1 − (1+rate)^−periods) / rate.
// rate is a monthly fraction (0.015 for 1.5%). A zero rate yields
// payment × periods. Non-finite inputs and negative rates yield 0.
func PresentValue(rate float64, periods int, payment float64) float64 {
	if !finite(rate) || !finite(payment) || rate < 0 || periods < 0 {
		return 0
	}
	if rate == 0 {
		return payment * float64(periods)
	}

	pv := payment * (1 - math.Pow(1+rate, -float64(periods))) / rate
	if !finite(pv) {
		return 0
	}
	return pv
}

// ValueForPayment returns the loan value an installment can carry
func ValueForPayment(rate float64, periods int, payment float64) float64 {
	return PresentValue(rate, periods, payment)
}

// PaymentForValue returns the installment that amortizes value over periods:
// value × rate × (1+rate)^n / ((1+rate)^n − 1). A zero rate yields value / n.
func PaymentForValue(rate float64, periods int, value float64) float64 {
	if !finite(rate) || !finite(value) || rate < 0 || periods <= 0 {
		return 0
	}
	if rate == 0 {
		return value / float64(periods)
	}

	growth := math.Pow(1+rate, float64(periods))
	pmt := value * rate * growth / (growth - 1)
	if !finite(pmt) {
		return 0
	}
	return pmt
}

// PresentValueDecimal is PresentValue over decimal inputs. The rate is a
// monthly fraction. No rounding is applied.
func PresentValueDecimal(rate decimal.Decimal, periods int, payment decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(PresentValue(rate.InexactFloat64(), periods, payment.InexactFloat64()))
}

// PaymentForValueDecimal is PaymentForValue over decimal inputs
func PaymentForValueDecimal(rate decimal.Decimal, periods int, value decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(PaymentForValue(rate.InexactFloat64(), periods, value.InexactFloat64()))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
