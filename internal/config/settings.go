package config

import (
	"github.com/rgehrsitz/portasim/internal/domain"
)

// Settings is the top-level configuration document
type Settings struct {
	Rates        domain.RateConfig `yaml:"rates" json:"rates"`
	Policy       domain.Policy     `yaml:"policy" json:"policy"`
	TermMonths   int               `yaml:"term_months" json:"term_months"`
	AllowedTerms []int             `yaml:"allowed_terms" json:"allowed_terms"`
	Tier         domain.Tier       `yaml:"tier" json:"tier"`
	Banks        []domain.Bank     `yaml:"banks" json:"banks"`

	Store  StoreSettings  `yaml:"store" json:"store"`
	Server ServerSettings `yaml:"server" json:"server"`
	Remote RemoteSettings `yaml:"remote" json:"remote"`
}

// StoreSettings selects where operator rate overrides are persisted
type StoreSettings struct {
	Kind        string `yaml:"kind" json:"kind"` // memory, file or redis
	Path        string `yaml:"path" json:"path"`
	RedisAddr   string `yaml:"redis_addr" json:"redis_addr"`
	RedisPrefix string `yaml:"redis_prefix" json:"redis_prefix"`
}

// ServerSettings configures the parse/bank HTTP service
type ServerSettings struct {
	Addr string `yaml:"addr" json:"addr"`
}

// RemoteSettings points the CLI at a running parse/bank service
type RemoteSettings struct {
	BaseURL string `yaml:"base_url" json:"base_url"`
}

// Defaults
const (
	DefaultTermMonths  = 96
	DefaultServerAddr  = ":8000"
	DefaultRedisAddr   = "localhost:6379"
	DefaultRedisPrefix = "portasim:"
	DefaultStorePath   = "rates.yaml"
)

// DefaultAllowedTerms lists the terms operators can pick, in months
var DefaultAllowedTerms = []int{48, 60, 72, 84, 96}

// DefaultSettings returns a complete configuration usable without a file
func DefaultSettings() Settings {
	return Settings{
		Rates:        domain.DefaultRateConfig(),
		Policy:       domain.DefaultPolicy(),
		TermMonths:   DefaultTermMonths,
		AllowedTerms: append([]int(nil), DefaultAllowedTerms...),
		Tier:         domain.TierRefin,
		Store: StoreSettings{
			Kind:        "memory",
			Path:        DefaultStorePath,
			RedisAddr:   DefaultRedisAddr,
			RedisPrefix: DefaultRedisPrefix,
		},
		Server: ServerSettings{Addr: DefaultServerAddr},
	}
}

// TermAllowed reports whether term is one of the allowed terms. An empty
// list allows any positive term.
func (s Settings) TermAllowed(term int) bool {
	if term <= 0 {
		return false
	}
	if len(s.AllowedTerms) == 0 {
		return true
	}
	for _, t := range s.AllowedTerms {
		if t == term {
			return true
		}
	}
	return false
}
