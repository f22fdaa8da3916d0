package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/rgehrsitz/portasim/internal/breakeven"
	"github.com/rgehrsitz/portasim/internal/calculation"
	"github.com/rgehrsitz/portasim/internal/catalog"
	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/rgehrsitz/portasim/internal/money"
	"github.com/rgehrsitz/portasim/internal/session"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var breakEvenCmd = &cobra.Command{
	Use:   "break-even [input-file]",
	Short: "Find the highest rate and shortest term at which each contract still liberates",
	Long: "Parses the contract text and, for every contract, bisects the tier's monthly rate and " +
		"searches the candidate terms for the point where the contract stops liberating credit",
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runBreakEven(cmd, args); err != nil {
			log.Fatalf("Break-even analysis failed: %v", err)
		}
	},
}

func runBreakEven(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd)

	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	targetName, _ := cmd.Flags().GetString("target")
	target, err := breakeven.ParseTarget(strings.ToLower(strings.TrimSpace(targetName)))
	if err != nil {
		return err
	}

	state, err := evaluationState(cmd, settings, catalog.New(settings.Banks))
	if err != nil {
		return err
	}
	state.Text = text
	rates, priced := state.Pricing()
	if !priced {
		store, closeStore, err := openRateStore(settings)
		if err != nil {
			return err
		}
		defer closeStore()
		if rates, err = store.Load(ctx); err != nil {
			return err
		}
	}

	constraints, err := breakEvenConstraints(cmd, state.Tier, settings.AllowedTerms)
	if err != nil {
		return err
	}

	pipeline := session.NewPipeline(nil)
	pipeline.SetLogger(logger)
	records, err := pipeline.Records(ctx, state)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("%s", session.NoticeNoContracts)
	}

	engine := calculation.NewCalculationEngineWithPolicy(settings.Policy)
	engine.SetLogger(logger)
	solver := breakeven.NewDefaultSolver(engine)

	result, err := solver.SolveAll(ctx, records, rates, state.TermMonths, target, constraints)
	if err != nil {
		return err
	}

	outputFormat, _ := cmd.Flags().GetString("format")
	out := cmd.OutOrStdout()
	switch strings.ToLower(outputFormat) {
	case "json":
		output, err := (&breakeven.JSONFormatter{Pretty: true}).FormatMulti(result)
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		fmt.Fprintln(out, output)
	case "table", "console", "":
		fmt.Fprint(out, (&breakeven.TableFormatter{}).FormatMulti(result))
	default:
		return fmt.Errorf("unknown output format: %s (valid: table, json)", outputFormat)
	}
	return nil
}

// breakEvenConstraints reads the search bounds. Candidate terms default to the
// configured allowed terms.
func breakEvenConstraints(cmd *cobra.Command, tier domain.Tier, allowedTerms []int) (breakeven.Constraints, error) {
	constraints := breakeven.DefaultConstraints(tier)

	for _, bound := range []struct {
		flag string
		dst  **decimal.Decimal
	}{
		{"min-rate", &constraints.MinRate},
		{"max-rate", &constraints.MaxRate},
	} {
		raw, _ := cmd.Flags().GetString(bound.flag)
		if strings.TrimSpace(raw) == "" {
			continue
		}
		rate, ok := money.ParseRate(raw)
		if !ok {
			return breakeven.Constraints{}, fmt.Errorf("invalid --%s %q", bound.flag, raw)
		}
		*bound.dst = &rate
	}

	terms, _ := cmd.Flags().GetIntSlice("terms")
	if len(terms) == 0 {
		terms = allowedTerms
	}
	constraints.Terms = append([]int(nil), terms...)

	if err := constraints.Validate(); err != nil {
		return breakeven.Constraints{}, err
	}
	return constraints, nil
}
