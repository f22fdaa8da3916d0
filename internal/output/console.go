package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/rgehrsitz/portasim/internal/money"
	"github.com/rgehrsitz/portasim/internal/offer"
)

// ConsoleFormatter renders a styled table of every evaluated contract
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string { return "console" }

const (
	labelWidth  = 30
	amountWidth = 14
)

func (ConsoleFormatter) Format(summary *offer.Summary) ([]byte, error) {
	var sections []string

	title := fmt.Sprintf("Portability offer: %s", summary.BankName)
	if summary.BankCode != "" {
		title += fmt.Sprintf(" (%s)", summary.BankCode)
	}
	header := []string{TitleStyle.Render(title), MutedStyle.Render(fmt.Sprintf("Term: %d months", summary.TermMonths))}
	if summary.ClientName != "" {
		header = append(header, MutedStyle.Render("Client: "+summary.ClientName))
	}
	sections = append(sections, lipgloss.JoinVertical(lipgloss.Left, header...))

	sections = append(sections, renderTable("Liberating", summary.Liberating))
	if len(summary.NotLiberating) > 0 {
		sections = append(sections, renderTable("Not liberating", summary.NotLiberating))
	}
	if len(summary.Excluded) > 0 {
		sections = append(sections, renderTable("Excluded", summary.Excluded))
	}

	total := fmt.Sprintf("Total available: %s", money.FormatCurrency(summary.TotalAvailable))
	sections = append(sections, TotalStyle.Render(total))

	return []byte(strings.Join(sections, "\n\n") + "\n"), nil
}

func renderTable(title string, contracts []domain.EvaluatedContract) string {
	var sb strings.Builder
	sb.WriteString(SectionStyle.Render(fmt.Sprintf("%s (%d)", title, len(contracts))))
	sb.WriteString("\n")

	if len(contracts) == 0 {
		sb.WriteString(MutedStyle.Render("  none"))
		return sb.String()
	}

	sb.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-3s %-*s %*s %*s %5s %*s %*s",
		"#", labelWidth, "Origin",
		amountWidth, "Installment",
		amountWidth, "Balance",
		"Left",
		amountWidth, "New value",
		amountWidth, "Available")))
	sb.WriteString("\n")

	for _, e := range contracts {
		row := fmt.Sprintf("%-3d %-*s %*s %*s %5s %*s %*s",
			e.Position+1, labelWidth, truncate(e.Record.BankLabel, labelWidth),
			amountWidth, money.FormatCurrency(e.Record.InstallmentAmount),
			amountWidth, money.FormatCurrency(e.OutstandingBalance),
			remainingString(e.RemainingInstallments, "-"),
			amountWidth, money.FormatCurrency(e.PresentValueNew),
			amountWidth, money.FormatCurrency(e.AvailableAmount))

		if e.IsLiberating() {
			sb.WriteString(LiberatesStyle.Render(row))
		} else {
			sb.WriteString(DoesNotLiberateStyle.Render(row))
			if e.Reason != domain.ReasonNone {
				sb.WriteString(MutedStyle.Render("  " + string(e.Reason)))
			}
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
