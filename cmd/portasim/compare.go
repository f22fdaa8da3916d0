package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/rgehrsitz/portasim/internal/calculation"
	"github.com/rgehrsitz/portasim/internal/catalog"
	"github.com/rgehrsitz/portasim/internal/compare"
	"github.com/rgehrsitz/portasim/internal/session"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare [input-file]",
	Short: "Compare the offer for the same contracts across catalog banks",
	Long: "Parses the contract text once and prices it at the base bank and every other catalog bank " +
		"(or the banks given with --banks), best total first",
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runCompare(cmd, args); err != nil {
			log.Fatalf("Comparison failed: %v", err)
		}
	},
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	banks := catalog.New(settings.Banks)
	state, err := evaluationState(cmd, settings, banks)
	if err != nil {
		return err
	}
	baseCode := ""
	if state.Bank != nil {
		baseCode = state.Bank.Code
	}
	codes, _ := cmd.Flags().GetStringSlice("banks")

	pipeline := session.NewPipeline(nil)
	pipeline.Engine = calculation.NewCalculationEngineWithPolicy(settings.Policy)
	pipeline.SetLogger(newLogger(cmd))

	comparisonSet, err := compare.NewCompareEngine(pipeline).Compare(ctx, text, banks, compare.CompareOptions{
		BaseBankCode: baseCode,
		BankCodes:    codes,
		TermMonths:   state.TermMonths,
		Tier:         state.Tier,
		Excluded:     state.Excluded,
		ClientName:   state.ClientName,
	})
	if err != nil {
		return err
	}

	outputFormat, _ := cmd.Flags().GetString("format")
	out := cmd.OutOrStdout()
	switch strings.ToLower(outputFormat) {
	case "csv":
		formatter := &compare.CSVFormatter{}
		output, err := formatter.Format(comparisonSet)
		if err != nil {
			return fmt.Errorf("failed to format CSV: %w", err)
		}
		fmt.Fprint(out, output)

	case "json":
		formatter := &compare.JSONFormatter{Pretty: true}
		output, err := formatter.Format(comparisonSet)
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		fmt.Fprintln(out, output)

	case "compact":
		fmt.Fprintln(out, (&compare.TableFormatter{}).FormatCompact(comparisonSet))

	case "table", "console", "":
		fmt.Fprint(out, (&compare.TableFormatter{}).Format(comparisonSet))

	default:
		return fmt.Errorf("unknown output format: %s (valid: table, compact, csv, json)", outputFormat)
	}
	return nil
}
