package calculation

import (
	"testing"

	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateMargin_FromInstallment(t *testing.T) {
	engine := NewCalculationEngine()
	installment := dec("100")

	result, err := engine.SimulateMargin(MarginInput{
		Installment: &installment,
		TermMonths:  48,
		Rates:       domain.RateConfig{},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TierNew, result.Tier, "margin simulation defaults to the new-loan tier")
	assert.True(t, dec("4800").Equal(result.Value), "got %s", result.Value)
	assert.True(t, installment.Equal(result.Installment))
}

func TestSimulateMargin_FromDesiredValue(t *testing.T) {
	engine := NewCalculationEngine()
	value := dec("10000")

	result, err := engine.SimulateMargin(MarginInput{
		DesiredValue: &value,
		TermMonths:   96,
		Rates:        domain.DefaultRateConfig(),
	})
	require.NoError(t, err)

	assert.True(t, dec("1.8").Equal(result.Rate))
	assert.True(t, result.Installment.IsPositive())

	// Feeding the installment back recovers the desired value
	back, err := engine.SimulateMargin(MarginInput{
		Installment: &result.Installment,
		TermMonths:  96,
		Rates:       domain.DefaultRateConfig(),
	})
	require.NoError(t, err)
	assert.InDelta(t, 10000, back.Value.InexactFloat64(), 1e-6)
}

func TestSimulateMargin_ExplicitTier(t *testing.T) {
	engine := NewCalculationEngine()
	installment := dec("500")

	result, err := engine.SimulateMargin(MarginInput{
		Installment: &installment,
		TermMonths:  84,
		Rates:       domain.DefaultRateConfig(),
		Tier:        domain.TierPortability,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TierPortability, result.Tier)
	assert.True(t, dec("1.5").Equal(result.Rate))
}

func TestSimulateMargin_InvalidInput(t *testing.T) {
	engine := NewCalculationEngine()
	amount := dec("100")

	_, err := engine.SimulateMargin(MarginInput{TermMonths: 96})
	assert.ErrorIs(t, err, ErrMarginInput)

	_, err = engine.SimulateMargin(MarginInput{Installment: &amount, DesiredValue: &amount, TermMonths: 96})
	assert.ErrorIs(t, err, ErrMarginInput)

	_, err = engine.SimulateMargin(MarginInput{Installment: &amount, TermMonths: 0})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "term must be a positive number of months")
}
