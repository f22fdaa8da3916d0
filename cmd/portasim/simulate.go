package main

import (
	"fmt"
	"log"

	"github.com/rgehrsitz/portasim/internal/calculation"
	"github.com/rgehrsitz/portasim/internal/catalog"
	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/rgehrsitz/portasim/internal/money"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const defaultMarginTier = domain.TierNew

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Convert a desired installment into a loan value, or a value into an installment",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSimulate(cmd); err != nil {
			log.Fatal(err)
		}
	},
}

func runSimulate(cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	installmentText, _ := cmd.Flags().GetString("installment")
	valueText, _ := cmd.Flags().GetString("value")
	input := calculation.MarginInput{}
	if input.Installment, err = optionalAmount("installment", installmentText); err != nil {
		return err
	}
	if input.DesiredValue, err = optionalAmount("value", valueText); err != nil {
		return err
	}

	term, _ := cmd.Flags().GetInt("term")
	if input.TermMonths, err = resolveTerm(settings, term); err != nil {
		return err
	}
	tierName, _ := cmd.Flags().GetString("tier")
	if input.Tier, err = resolveTier(defaultMarginTier, tierName); err != nil {
		return err
	}

	bankName := ""
	if bankCode, _ := cmd.Flags().GetString("bank"); bankCode != "" {
		bank, err := catalog.New(settings.Banks).Find(bankCode)
		if err != nil {
			return err
		}
		input.Rates = bank.Rates()
		bankName = bank.Name
	} else {
		rates, closeStore, err := openRateStore(settings)
		if err != nil {
			return err
		}
		defer closeStore()
		if input.Rates, err = rates.Load(ctx); err != nil {
			return err
		}
	}

	engine := calculation.NewCalculationEngineWithPolicy(settings.Policy)
	engine.SetLogger(newLogger(cmd))
	result, err := engine.SimulateMargin(input)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "MARGIN SIMULATION")
	fmt.Fprintln(out, "=================")
	if bankName != "" {
		fmt.Fprintf(out, "Bank: %s\n", bankName)
	}
	fmt.Fprintf(out, "Tier: %s (%s a.m.)\n", result.Tier, money.FormatPercentage(result.Rate))
	fmt.Fprintf(out, "Term: %d months\n", result.TermMonths)
	fmt.Fprintf(out, "Installment: %s\n", money.FormatCurrency(result.Installment))
	fmt.Fprintf(out, "Loan value: %s\n", money.FormatCurrency(result.Value))
	return nil
}

func optionalAmount(name, text string) (*decimal.Decimal, error) {
	if text == "" {
		return nil, nil
	}
	amount, ok := money.ParseAmount(text)
	if !ok || !amount.IsPositive() {
		return nil, fmt.Errorf("invalid %s %q", name, text)
	}
	return &amount, nil
}
