package api

import (
	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/shopspring/decimal"
)

// ParseRequest is the body of POST /api/parse-contratos
type ParseRequest struct {
	Texto             string           `json:"texto"`
	TaxaNovo          *decimal.Decimal `json:"taxa_novo,omitempty"`
	TaxaRefin         *decimal.Decimal `json:"taxa_refin,omitempty"`
	TaxaPortabilidade *decimal.Decimal `json:"taxa_portabilidade,omitempty"`
}

// SimulationRequest is the body of POST /api/simulacao
type SimulationRequest struct {
	Texto      string `json:"texto"`
	Banco      string `json:"banco,omitempty"`      // Bank code; empty selects the first bank
	Prazo      int    `json:"prazo,omitempty"`      // Term in months; zero selects the default
	Modalidade string `json:"modalidade,omitempty"` // new, refin or portability
	Excluidos  []int  `json:"excluidos,omitempty"`  // Excluded positions
	Cliente    string `json:"cliente,omitempty"`
}

// SimulationResponse is the evaluated offer
type SimulationResponse struct {
	Banco       string                     `json:"banco"`
	Codigo      string                     `json:"codigo,omitempty"`
	Prazo       int                        `json:"prazo"`
	Modalidade  domain.Tier                `json:"modalidade"`
	Precificado bool                       `json:"precificado"`
	Contratos   []domain.EvaluatedContract `json:"contratos"`
	Excluidos   []int                      `json:"excluidos"`
	Total       decimal.Decimal            `json:"total"`
	Texto       string                     `json:"texto,omitempty"` // Shareable text; empty when nothing liberates
	Aviso       string                     `json:"aviso,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}
