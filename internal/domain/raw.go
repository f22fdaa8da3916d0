package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/portasim/internal/money"
	"github.com/shopspring/decimal"
)

// RawContract is the dictionary shape exchanged with the parse service
type RawContract struct {
	Banco             string      `json:"banco"`
	Contrato          string      `json:"contrato"`
	Taxa              string      `json:"taxa,omitempty"`
	Quitacao          FlexDecimal `json:"quitacao"`
	SaldoDevedor      FlexDecimal `json:"saldo_devedor"`
	ValorParcela      FlexDecimal `json:"valor_parcela"`
	ParcelasTotal     FlexInt     `json:"parcelas_total"`
	ParcelasPagas     FlexInt     `json:"parcelas_pagas"`
	ParcelasRestantes FlexInt     `json:"parcelas_restantes"`
}

// FlexDecimal is an optional amount that decodes from a JSON number, a
// formatted string ("11.141,19") or null.
type FlexDecimal struct {
	Value decimal.Decimal
	Valid bool
}

// NewFlexDecimal wraps a present amount
func NewFlexDecimal(d decimal.Decimal) FlexDecimal {
	return FlexDecimal{Value: d, Valid: true}
}

// FlexDecimalFromPtr converts an optional record field
func FlexDecimalFromPtr(d *decimal.Decimal) FlexDecimal {
	if d == nil {
		return FlexDecimal{}
	}
	return NewFlexDecimal(*d)
}

// Ptr returns nil when the value is absent
func (f FlexDecimal) Ptr() *decimal.Decimal {
	if !f.Valid {
		return nil
	}
	return DecimalPtr(f.Value)
}

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexDecimal) UnmarshalJSON(data []byte) error {
	*f = FlexDecimal{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid amount %s: %w", data, err)
		}
		if d, ok := money.ParseAmount(s); ok {
			*f = NewFlexDecimal(d)
		}
		return nil
	}

	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	*f = NewFlexDecimal(d)
	return nil
}

// MarshalJSON implements json.Marshaler; absent values encode as null
func (f FlexDecimal) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(f.Value.String()), nil
}

// FlexInt is an optional count that decodes from a JSON number, a numeric
// string or null.
type FlexInt struct {
	Value int
	Valid bool
}

// NewFlexInt wraps a present count
func NewFlexInt(i int) FlexInt {
	return FlexInt{Value: i, Valid: true}
}

// FlexIntFromPtr converts an optional record field
func FlexIntFromPtr(i *int) FlexInt {
	if i == nil {
		return FlexInt{}
	}
	return NewFlexInt(*i)
}

// Ptr returns nil when the value is absent
func (f FlexInt) Ptr() *int {
	if !f.Valid {
		return nil
	}
	return IntPtr(f.Value)
}

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = FlexInt{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("invalid count %s: %w", data, err)
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid count %q: %w", raw, err)
	}
	*f = NewFlexInt(int(d.IntPart()))
	return nil
}

// MarshalJSON implements json.Marshaler; absent values encode as null
func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf("%d", f.Value)), nil
}
