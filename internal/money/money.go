package money

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var nonAmountChars = regexp.MustCompile(`[^\d.,]`)

// ParseAmount normalizes a currency figure into a decimal. Brazilian formatting
// ("11.141,19") and plain formatting ("11141.19") are both accepted.
//
// Separator rules: when both '.' and ',' occur, the last one is the decimal
// separator. A single ',' is decimal. A '.' is a thousands separator when it
// repeats or is followed by exactly three digits.
func ParseAmount(s string) (decimal.Decimal, bool) {
	cleaned := strings.Trim(nonAmountChars.ReplaceAllString(s, ""), ".,")
	if cleaned == "" {
		return decimal.Zero, false
	}

	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")

	normalized := cleaned
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			normalized = strings.ReplaceAll(cleaned, ".", "")
			normalized = strings.Replace(normalized, ",", ".", 1)
		} else {
			normalized = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(cleaned, ",") > 1 {
			normalized = strings.ReplaceAll(cleaned, ",", "")
		} else {
			normalized = strings.Replace(cleaned, ",", ".", 1)
		}
	case lastDot >= 0:
		if strings.Count(cleaned, ".") > 1 || len(cleaned)-lastDot-1 == 3 {
			normalized = strings.ReplaceAll(cleaned, ".", "")
		}
	}

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseRate reads a percentage such as "1.505" or "1,505". Plain decimals
// are taken as written, so a dot is never a thousands separator here.
func ParseRate(s string) (decimal.Decimal, bool) {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if rate, err := decimal.NewFromString(trimmed); err == nil {
		return rate, true
	}
	return ParseAmount(trimmed)
}

// MustParseAmount is ParseAmount for literals known to be valid; it returns
// zero for anything unparseable.
func MustParseAmount(s string) decimal.Decimal {
	d, _ := ParseAmount(s)
	return d
}

// FormatBRL renders an amount with pt-BR separators and two decimals
// ("11.141,19"). This is the only place amounts are rounded.
func FormatBRL(amount decimal.Decimal) string {
	p := message.NewPrinter(language.BrazilianPortuguese)
	return p.Sprint(number.Decimal(amount.Round(2).InexactFloat64(), number.Scale(2)))
}

// FormatCurrency prefixes FormatBRL with the real sign.
func FormatCurrency(amount decimal.Decimal) string {
	return "R$ " + FormatBRL(amount)
}

// FormatPercentage formats a decimal percentage as "1,50%".
func FormatPercentage(rate decimal.Decimal) string {
	return FormatBRL(rate) + "%"
}
