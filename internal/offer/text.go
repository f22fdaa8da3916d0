package offer

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/portasim/internal/money"
)

// Text renders the shareable offer message. Its structure is consumed
// downstream (clipboard export) and must stay stable.
func Text(summary Summary) (string, error) {
	if !summary.HasLiberating() {
		return "", ErrNothingToShare
	}

	bankName := summary.BankName
	if strings.TrimSpace(bankName) == "" {
		bankName = DefaultBankName
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*Portabilidade para o %s – Renovação em %d meses!*\n\n", bankName, summary.TermMonths))

	if name := strings.TrimSpace(summary.ClientName); name != "" {
		sb.WriteString(fmt.Sprintf("👤 *Cliente: %s*\n\n", name))
	}
	sb.WriteString("📅 *Prazo para pagamento: Até 10 dias úteis*\n\n")

	for i, e := range summary.Liberating {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("🔹 %s\n", strings.ToUpper(e.Record.BankLabel)))
		sb.WriteString(fmt.Sprintf("▫️ Parcela: %s\n", money.FormatCurrency(e.Record.InstallmentAmount)))
		sb.WriteString(fmt.Sprintf("▫️ *Valor liberado aproximado: %s*\n", money.FormatCurrency(e.AvailableAmount)))
	}

	sb.WriteString(fmt.Sprintf("\n💵 *Total aproximado disponível: %s*", money.FormatCurrency(summary.TotalAvailable)))
	return sb.String(), nil
}
