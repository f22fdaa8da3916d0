package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/portasim/internal/money"
	"github.com/shopspring/decimal"
)

// TableFormatter formats break-even results as a console table
type TableFormatter struct{}

// Format generates a formatted report for one contract
func (tf *TableFormatter) Format(result *Result) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN RESULT\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	sb.WriteString(fmt.Sprintf("Contract:       %d (%s)\n", result.Position+1, result.BankLabel))
	if result.ContractID != "" {
		sb.WriteString(fmt.Sprintf("Contract ID:    %s\n", result.ContractID))
	}
	sb.WriteString(fmt.Sprintf("Target:         %s\n", result.Request.Target))
	sb.WriteString(fmt.Sprintf("Status:         %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:     %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:    %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("AT CURRENT PRICING\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Rate:           %s a month (%s)\n", money.FormatPercentage(result.Base.Rate), result.Base.Tier))
	sb.WriteString(fmt.Sprintf("Term:           %d months\n", result.Base.TermMonths))
	sb.WriteString(fmt.Sprintf("Balance:        %s\n", money.FormatCurrency(result.Base.OutstandingBalance)))
	sb.WriteString(fmt.Sprintf("Available:      %s\n", money.FormatCurrency(result.Base.AvailableAmount)))
	sb.WriteString(fmt.Sprintf("Classification: %s\n", result.Base.Classification))
	sb.WriteString("\n")

	sb.WriteString("BREAK-EVEN POINT\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Maximum rate:   %s\n", tf.formatRate(result.BreakEvenRate)))
	if result.RateHeadroom != nil {
		sb.WriteString(fmt.Sprintf("Headroom:       %s%s p.p.\n", tf.deltaSymbol(*result.RateHeadroom), money.FormatBRL(*result.RateHeadroom)))
	}
	sb.WriteString(fmt.Sprintf("Minimum term:   %s\n", tf.formatTerm(result.MinimumTerm)))

	return sb.String()
}

// FormatMulti formats the break-even points of every contract
func (tf *TableFormatter) FormatMulti(result *MultiResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Tier: %s at %s a month, %d months\n\n",
		result.Tier, money.FormatPercentage(result.CurrentRate), result.TermMonths))

	sb.WriteString(fmt.Sprintf("%-4s %-28s %14s %12s %10s %8s\n",
		"#", "Bank", "Available", "Max Rate", "Headroom", "Min Term"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, r := range result.Results {
		headroom := "-"
		if r.RateHeadroom != nil {
			headroom = tf.deltaSymbol(*r.RateHeadroom) + money.FormatBRL(*r.RateHeadroom)
		}
		sb.WriteString(fmt.Sprintf("%-4d %-28s %14s %12s %10s %8s\n",
			r.Position+1,
			tf.truncate(r.BankLabel, 28),
			money.FormatBRL(r.Base.AvailableAmount),
			tf.formatRate(r.BreakEvenRate),
			headroom,
			tf.formatTerm(r.MinimumTerm)))
	}
	sb.WriteString("\n")

	if result.BestHeadroom != nil {
		sb.WriteString(fmt.Sprintf("Most headroom: contract %d (%s)\n\n",
			result.BestHeadroom.Position+1, result.BestHeadroom.BankLabel))
	}

	if len(result.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output for one contract
func (jf *JSONFormatter) Format(result *Result) (string, error) {
	return jf.marshal(result)
}

// FormatMulti generates JSON output for every contract
func (jf *JSONFormatter) FormatMulti(result *MultiResult) (string, error) {
	return jf.marshal(result)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Helper methods

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Solved"
	}
	return "⚠ No break-even point in range"
}

func (tf *TableFormatter) formatRate(rate *decimal.Decimal) string {
	if rate == nil {
		return "-"
	}
	return money.FormatPercentage(*rate)
}

func (tf *TableFormatter) formatTerm(term *int) string {
	if term == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *term)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
