// Package catalog holds the destination banks an offer can target.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rgehrsitz/portasim/internal/domain"
)

// ErrBankNotFound is returned when a bank code is not in the catalog
var ErrBankNotFound = errors.New("bank not found")

// Catalog is an ordered, read-only list of banks. Edits return a new catalog.
type Catalog struct {
	banks []domain.Bank
}

// New creates a catalog from banks, keeping their order
func New(banks []domain.Bank) Catalog {
	return Catalog{banks: append([]domain.Bank(nil), banks...)}
}

// Banks returns a copy of the banks in catalog order
func (c Catalog) Banks() []domain.Bank {
	return append([]domain.Bank{}, c.banks...)
}

// Len returns the number of banks
func (c Catalog) Len() int {
	return len(c.banks)
}

// Find looks a bank up by code
func (c Catalog) Find(code string) (domain.Bank, error) {
	code = strings.TrimSpace(code)
	for _, b := range c.banks {
		if b.Code == code {
			return b, nil
		}
	}
	return domain.Bank{}, fmt.Errorf("%w: %q", ErrBankNotFound, code)
}

// Default returns the first bank; false when the catalog is empty
func (c Catalog) Default() (domain.Bank, bool) {
	if len(c.banks) == 0 {
		return domain.Bank{}, false
	}
	return c.banks[0], true
}

// Resolve returns the bank for code, or the default bank when code is empty.
// A nil bank means nothing is selected.
func (c Catalog) Resolve(code string) (*domain.Bank, error) {
	if strings.TrimSpace(code) == "" {
		if bank, ok := c.Default(); ok {
			return &bank, nil
		}
		return nil, nil
	}
	bank, err := c.Find(code)
	if err != nil {
		return nil, err
	}
	return &bank, nil
}

// Upsert replaces the bank with the same code or appends a new one
func (c Catalog) Upsert(bank domain.Bank) (Catalog, error) {
	bank.Code = strings.TrimSpace(bank.Code)
	bank.Name = strings.TrimSpace(bank.Name)
	if bank.Code == "" {
		return c, fmt.Errorf("bank code is required")
	}
	if bank.Name == "" {
		return c, fmt.Errorf("bank name is required")
	}
	if err := bank.Rates().Validate(); err != nil {
		return c, fmt.Errorf("bank %s: %w", bank.Code, err)
	}

	banks := c.Banks()
	for i := range banks {
		if banks[i].Code == bank.Code {
			banks[i] = bank
			return Catalog{banks: banks}, nil
		}
	}
	return Catalog{banks: append(banks, bank)}, nil
}
