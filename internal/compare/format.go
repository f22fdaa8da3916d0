package compare

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/portasim/internal/money"
	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing bank offers
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("BANK OFFER COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Base Bank: %s\n", compSet.BaseBankCode))
	sb.WriteString(fmt.Sprintf("Tier:      %s\n", compSet.Tier))
	sb.WriteString(fmt.Sprintf("Term:      %d months\n", compSet.TermMonths))
	sb.WriteString(fmt.Sprintf("Contracts: %d\n", compSet.ContractCount))
	sb.WriteString("\n")

	nameWidth := 30
	numWidth := 15

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s\n",
		nameWidth, "Bank",
		numWidth, "Rate",
		numWidth, "Liberating",
		numWidth, "Total"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&alt, nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.BankName))
			sb.WriteString(fmt.Sprintf("  Total Available:  %sR$ %s (%s%%)\n",
				tf.deltaSymbol(alt.TotalDiffFromBase),
				money.FormatBRL(alt.TotalDiffFromBase),
				alt.TotalPctFromBase.StringFixed(1)))

			if alt.LiberatingDiff != 0 {
				symbol := "+"
				if alt.LiberatingDiff < 0 {
					symbol = ""
				}
				sb.WriteString(fmt.Sprintf("  Liberating:       %s%d contract(s)\n", symbol, alt.LiberatingDiff))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single bank row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.BankCode + " - " + result.BankName
	if isBase {
		name += " (base)"
	}

	return fmt.Sprintf("%-*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, money.FormatPercentage(result.Rate),
		numWidth, fmt.Sprintf("%d/%d", result.LiberatingCount, result.LiberatingCount+result.NotLiberatingCount),
		numWidth, money.FormatCurrency(result.TotalAvailable))
}

// deltaSymbol returns a + for positive deltas; negatives carry their own sign
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

// truncate truncates a string to maxLen runes
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// FormatCompact creates a compact single-line summary of the alternatives
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseBankCode))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if alt.TotalDiffFromBase.IsPositive() {
			change = "+R$ " + money.FormatBRL(alt.TotalDiffFromBase)
		} else if alt.TotalDiffFromBase.IsNegative() {
			change = "-R$ " + money.FormatBRL(alt.TotalDiffFromBase.Abs())
		}

		sb.WriteString(fmt.Sprintf("%s: %s", alt.BankCode, change))
	}

	return sb.String()
}

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Bank Code",
		"Bank",
		"Type",
		"Rate",
		"Liberating",
		"Not Liberating",
		"Total Available",
		"Total Diff from Base",
		"Total % Change",
		"Liberating Diff",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for _, alt := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&alt, "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, rowType string) []string {
	return []string{
		result.BankCode,
		result.BankName,
		rowType,
		result.Rate.String(),
		formatInt(result.LiberatingCount),
		formatInt(result.NotLiberatingCount),
		result.TotalAvailable.StringFixed(2),
		result.TotalDiffFromBase.StringFixed(2),
		result.TotalPctFromBase.StringFixed(2),
		formatInt(result.LiberatingDiff),
	}
}

func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// JSONFormatter formats comparison results as JSON
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

// Format generates JSON output for comparison results
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(compSet, "", "  ")
	} else {
		data, err = json.Marshal(compSet)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}
