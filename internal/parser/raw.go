package parser

import (
	"strings"

	"github.com/rgehrsitz/portasim/internal/domain"
)

// FromRaw converts parse-service dictionaries into contract records with the
// same completeness rule as Parse: entries without a positive installment
// are skipped.
func FromRaw(raws []domain.RawContract) []domain.ContractRecord {
	records := []domain.ContractRecord{}
	for _, raw := range raws {
		record := domain.ContractRecord{
			BankLabel:                     strings.TrimSpace(raw.Banco),
			ContractID:                    strings.TrimSpace(raw.Contrato),
			MonthlyRateLabel:              strings.TrimSpace(raw.Taxa),
			PayoffAmount:                  raw.Quitacao.Ptr(),
			ExplicitOutstandingBalance:    raw.SaldoDevedor.Ptr(),
			InstallmentsTotal:             raw.ParcelasTotal.Ptr(),
			InstallmentsPaid:              raw.ParcelasPagas.Ptr(),
			ExplicitInstallmentsRemaining: raw.ParcelasRestantes.Ptr(),
		}
		if raw.ValorParcela.Valid {
			record.InstallmentAmount = raw.ValorParcela.Value
		}
		if !record.HasInstallment() {
			continue
		}
		records = append(records, record)
	}
	return records
}

// ToRaw converts records into parse-service dictionaries
func ToRaw(records []domain.ContractRecord) []domain.RawContract {
	raws := make([]domain.RawContract, 0, len(records))
	for _, record := range records {
		raws = append(raws, domain.RawContract{
			Banco:             record.BankLabel,
			Contrato:          record.ContractID,
			Taxa:              record.MonthlyRateLabel,
			Quitacao:          domain.FlexDecimalFromPtr(record.PayoffAmount),
			SaldoDevedor:      domain.FlexDecimalFromPtr(record.ExplicitOutstandingBalance),
			ValorParcela:      domain.NewFlexDecimal(record.InstallmentAmount),
			ParcelasTotal:     domain.FlexIntFromPtr(record.InstallmentsTotal),
			ParcelasPagas:     domain.FlexIntFromPtr(record.InstallmentsPaid),
			ParcelasRestantes: domain.FlexIntFromPtr(record.ExplicitInstallmentsRemaining),
		})
	}
	return raws
}
