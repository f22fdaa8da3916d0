package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rgehrsitz/portasim/internal/domain"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings
const (
	EnvServerAddr = "PORTASIM_SERVER_ADDR"
	EnvRedisAddr  = "PORTASIM_REDIS_ADDR"
	EnvRemoteURL  = "PORTASIM_REMOTE_URL"
)

// InputParser handles parsing of configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads settings from a YAML file, fills absent values with
// defaults, applies environment overrides and validates the result.
func (ip *InputParser) LoadFromFile(filename string) (*Settings, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.LoadFromBytes(data)
}

// LoadFromBytes is LoadFromFile over an in-memory document
func (ip *InputParser) LoadFromBytes(data []byte) (*Settings, error) {
	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.normalize(&settings); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	ApplyEnvironment(&settings)

	if err := ip.ValidateSettings(&settings); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &settings, nil
}

// LoadDefaults returns the default settings with environment overrides
func (ip *InputParser) LoadDefaults() *Settings {
	settings := DefaultSettings()
	ApplyEnvironment(&settings)
	return &settings
}

// ApplyEnvironment overrides addresses from the environment
func ApplyEnvironment(settings *Settings) {
	if v := strings.TrimSpace(os.Getenv(EnvServerAddr)); v != "" {
		settings.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRedisAddr)); v != "" {
		settings.Store.RedisAddr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRemoteURL)); v != "" {
		settings.Remote.BaseURL = v
	}
}

// normalize accepts the Portuguese tier names and trims bank fields
func (ip *InputParser) normalize(settings *Settings) error {
	if settings.Tier != "" {
		tier, err := domain.ParseTier(string(settings.Tier))
		if err != nil {
			return &ValidationError{Field: "tier", Message: "unrecognized tier", Cause: err}
		}
		settings.Tier = tier
	}
	for i := range settings.Banks {
		settings.Banks[i].Code = strings.TrimSpace(settings.Banks[i].Code)
		settings.Banks[i].Name = strings.TrimSpace(settings.Banks[i].Name)
	}
	settings.Store.Kind = strings.ToLower(strings.TrimSpace(settings.Store.Kind))
	return nil
}

// ValidateSettings validates loaded settings
func (ip *InputParser) ValidateSettings(settings *Settings) error {
	if err := settings.Rates.Validate(); err != nil {
		return &ValidationError{Field: "rates", Message: "rates must be non-negative", Cause: err}
	}
	if err := ip.validatePolicy(settings.Policy); err != nil {
		return err
	}
	if err := ip.validateTerms(settings); err != nil {
		return err
	}
	switch settings.Tier {
	case domain.TierNew, domain.TierRefin, domain.TierPortability:
	default:
		return invalid("tier", "unknown tier %q", settings.Tier)
	}
	if err := ip.validateBanks(settings.Banks); err != nil {
		return fmt.Errorf("bank catalog validation failed: %w", err)
	}
	switch settings.Store.Kind {
	case "", "memory", "file", "redis":
	default:
		return invalid("store.kind", "unknown store kind %q", settings.Store.Kind)
	}
	return nil
}

func (ip *InputParser) validatePolicy(policy domain.Policy) error {
	if policy.MinInstallment.IsNegative() {
		return invalid("policy.min_installment", "cannot be negative, got %s", policy.MinInstallment)
	}
	if policy.MinBalance.IsNegative() {
		return invalid("policy.min_balance", "cannot be negative, got %s", policy.MinBalance)
	}
	return nil
}

func (ip *InputParser) validateTerms(settings *Settings) error {
	for _, term := range settings.AllowedTerms {
		if term <= 0 {
			return invalid("allowed_terms", "terms must be positive, got %d", term)
		}
	}
	if settings.TermMonths <= 0 {
		return invalid("term_months", "must be positive, got %d", settings.TermMonths)
	}
	if !settings.TermAllowed(settings.TermMonths) {
		return invalid("term_months", "%d is not one of the allowed terms %v", settings.TermMonths, settings.AllowedTerms)
	}
	return nil
}

func (ip *InputParser) validateBanks(banks []domain.Bank) error {
	seen := make(map[string]bool, len(banks))
	for i, bank := range banks {
		if bank.Code == "" {
			return invalid(fmt.Sprintf("banks[%d].code", i), "is required")
		}
		if bank.Name == "" {
			return invalid(fmt.Sprintf("banks[%d].name", i), "is required")
		}
		if seen[bank.Code] {
			return invalid(fmt.Sprintf("banks[%d].code", i), "duplicate bank code %q", bank.Code)
		}
		seen[bank.Code] = true
		if err := bank.Rates().Validate(); err != nil {
			return &ValidationError{Field: fmt.Sprintf("banks[%d]", i), Message: "bank " + bank.Code, Cause: err}
		}
	}
	return nil
}
