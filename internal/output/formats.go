package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strconv"

	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/rgehrsitz/portasim/internal/offer"
)

// TextFormatter renders the shareable offer message
type TextFormatter struct{}

func (TextFormatter) Name() string { return "text" }

func (TextFormatter) Format(summary *offer.Summary) ([]byte, error) {
	text, err := offer.Text(*summary)
	if err != nil {
		return nil, err
	}
	return []byte(text + "\n"), nil
}

// JSONFormatter renders the whole summary as JSON
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

func (JSONFormatter) Name() string { return "json" }

func (jf JSONFormatter) Format(summary *offer.Summary) ([]byte, error) {
	if jf.Pretty {
		return json.MarshalIndent(summary, "", "  ")
	}
	return json.Marshal(summary)
}

// CSVFormatter renders one row per evaluated contract, excluded ones included
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

func (CSVFormatter) Format(summary *offer.Summary) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := []string{
		"Position", "Bank", "Contract", "Installment", "OutstandingBalance",
		"RemainingInstallments", "PresentValueNew", "AvailableAmount",
		"Classification", "Reason", "Excluded",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, e := range orderedContracts(summary) {
		excluded := isExcluded(summary, e.Position)
		row := []string{
			strconv.Itoa(e.Position),
			e.Record.BankLabel,
			e.Record.ContractID,
			e.Record.InstallmentAmount.StringFixed(2),
			e.OutstandingBalance.StringFixed(2),
			remainingString(e.RemainingInstallments, ""),
			e.PresentValueNew.StringFixed(2),
			e.AvailableAmount.StringFixed(2),
			string(e.Classification),
			string(e.Reason),
			strconv.FormatBool(excluded),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// orderedContracts merges included and excluded contracts back into position order
func orderedContracts(summary *offer.Summary) []domain.EvaluatedContract {
	all := make([]domain.EvaluatedContract, 0, len(summary.Included)+len(summary.Excluded))
	i, j := 0, 0
	for i < len(summary.Included) || j < len(summary.Excluded) {
		switch {
		case j >= len(summary.Excluded):
			all = append(all, summary.Included[i])
			i++
		case i >= len(summary.Included) || summary.Excluded[j].Position < summary.Included[i].Position:
			all = append(all, summary.Excluded[j])
			j++
		default:
			all = append(all, summary.Included[i])
			i++
		}
	}
	return all
}

func isExcluded(summary *offer.Summary, position int) bool {
	for _, e := range summary.Excluded {
		if e.Position == position {
			return true
		}
	}
	return false
}

func remainingString(n *int, unknown string) string {
	if n == nil {
		return unknown
	}
	return strconv.Itoa(*n)
}
