package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullConfig = `
rates:
  rate_new: 1.85
  rate_refin: 1.49
  rate_portability: 1.45
policy:
  min_installment: 120
  min_balance: 5000
term_months: 84
allowed_terms: [48, 60, 72, 84, 96]
tier: portabilidade
banks:
  - code: "329"
    name: " QI SCD "
    rate_new: 1.80
    rate_refin: 1.50
    rate_portability: 1.45
  - code: "626"
    name: "C6 Consignado"
    rate_new: 1.75
    rate_refin: 1.55
    rate_portability: 1.40
store:
  kind: File
  path: /tmp/portasim-rates.yaml
server:
  addr: ":9090"
remote:
  base_url: "http://localhost:9090"
`

func TestLoadFromBytes_FullDocument(t *testing.T) {
	settings, err := NewInputParser().LoadFromBytes([]byte(fullConfig))
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("1.85").Equal(settings.Rates.RateNew))
	assert.True(t, decimal.RequireFromString("1.49").Equal(settings.Rates.RateRefin))
	assert.True(t, decimal.RequireFromString("120").Equal(settings.Policy.MinInstallment))
	assert.True(t, decimal.RequireFromString("5000").Equal(settings.Policy.MinBalance))
	assert.Equal(t, 84, settings.TermMonths)
	assert.Equal(t, domain.TierPortability, settings.Tier)
	require.Len(t, settings.Banks, 2)
	assert.Equal(t, "QI SCD", settings.Banks[0].Name, "bank names are trimmed")
	assert.True(t, decimal.RequireFromString("1.40").Equal(settings.Banks[1].RatePortability))
	assert.Equal(t, "file", settings.Store.Kind)
	assert.Equal(t, ":9090", settings.Server.Addr)
	assert.Equal(t, "http://localhost:9090", settings.Remote.BaseURL)
}

func TestLoadFromBytes_DefaultsFillAbsentValues(t *testing.T) {
	settings, err := NewInputParser().LoadFromBytes([]byte("rates:\n  rate_refin: 1.3\n"))
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("1.3").Equal(settings.Rates.RateRefin))
	assert.True(t, domain.DefaultRateNew.Equal(settings.Rates.RateNew))
	assert.True(t, domain.DefaultRatePortability.Equal(settings.Rates.RatePortability))
	assert.Equal(t, DefaultTermMonths, settings.TermMonths)
	assert.Equal(t, DefaultAllowedTerms, settings.AllowedTerms)
	assert.Equal(t, domain.TierRefin, settings.Tier)
	assert.Equal(t, DefaultServerAddr, settings.Server.Addr)
	assert.Equal(t, DefaultRedisPrefix, settings.Store.RedisPrefix)
}

func TestLoadFromBytes_ValidationFailures(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"negative rate", "rates: {rate_new: -1}", "rates"},
		{"negative policy", "policy: {min_balance: -5}", "policy.min_balance"},
		{"term not allowed", "term_months: 90", "term_months"},
		{"zero term", "term_months: 0", "term_months"},
		{"bad allowed term", "allowed_terms: [0, 96]", "allowed_terms"},
		{"unknown tier", "tier: consorcio", "tier"},
		{"duplicate bank", "banks: [{code: '1', name: A}, {code: '1', name: B}]", "banks[1].code"},
		{"bank without name", "banks: [{code: '1'}]", "banks[0].name"},
		{"negative bank rate", "banks: [{code: '1', name: A, rate_refin: -0.5}]", "banks[0]"},
		{"unknown store", "store: {kind: sqlite}", "store.kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInputParser().LoadFromBytes([]byte(tt.yaml))
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected a ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
			assert.Contains(t, err.Error(), "configuration validation failed")
		})
	}
}

func TestLoadFromBytes_MalformedYAML(t *testing.T) {
	_, err := NewInputParser().LoadFromBytes([]byte("rates: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portasim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullConfig), 0o644))

	settings, err := NewInputParser().LoadFromFile(path)
	require.NoError(t, err)
	assert.Len(t, settings.Banks, 2)

	_, err = NewInputParser().LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestApplyEnvironment(t *testing.T) {
	t.Setenv(EnvServerAddr, ":7000")
	t.Setenv(EnvRedisAddr, "redis:6380")
	t.Setenv(EnvRemoteURL, "http://parse.internal")

	settings, err := NewInputParser().LoadFromBytes([]byte(fullConfig))
	require.NoError(t, err)

	assert.Equal(t, ":7000", settings.Server.Addr)
	assert.Equal(t, "redis:6380", settings.Store.RedisAddr)
	assert.Equal(t, "http://parse.internal", settings.Remote.BaseURL)

	defaults := NewInputParser().LoadDefaults()
	assert.Equal(t, ":7000", defaults.Server.Addr)
}

func TestSettings_TermAllowed(t *testing.T) {
	settings := DefaultSettings()
	assert.True(t, settings.TermAllowed(96))
	assert.True(t, settings.TermAllowed(48))
	assert.False(t, settings.TermAllowed(50))
	assert.False(t, settings.TermAllowed(0))

	settings.AllowedTerms = nil
	assert.True(t, settings.TermAllowed(50))
	assert.False(t, settings.TermAllowed(-1))
}

func TestValidationError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &ValidationError{Field: "rates", Message: "bad", Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "invalid rates: bad: boom", err.Error())
	assert.Equal(t, "invalid tier: nope", invalid("tier", "nope").Error())
}
