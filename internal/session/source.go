package session

import (
	"context"

	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/rgehrsitz/portasim/internal/parser"
)

//go:generate mockgen -destination=mocks/mock_source.go -source=source.go RecordSource

// RecordSource turns pasted text into contract records
type RecordSource interface {
	Records(ctx context.Context, text string, rates domain.RateConfig) ([]domain.ContractRecord, error)
}

// LocalSource parses text in-process
type LocalSource struct{}

func (LocalSource) Records(_ context.Context, text string, _ domain.RateConfig) ([]domain.ContractRecord, error) {
	return parser.Parse(text), nil
}
