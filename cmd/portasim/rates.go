package main

import (
	"fmt"
	"log"

	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/rgehrsitz/portasim/internal/money"
	"github.com/spf13/cobra"
)

func ratesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Show or change the stored rates used when no bank is selected",
	}

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Print the stored rates",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if err := runRatesGet(cmd); err != nil {
				log.Fatal(err)
			}
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <tier> <rate>",
		Short: "Store the monthly rate, in percent, for a tier",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runRatesSet(cmd, args[0], args[1]); err != nil {
				log.Fatal(err)
			}
		},
	}

	cmd.AddCommand(getCmd)
	cmd.AddCommand(setCmd)
	return cmd
}

func runRatesGet(cmd *cobra.Command) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	rates, closeStore, err := openRateStore(settings)
	if err != nil {
		return err
	}
	defer closeStore()

	loaded, err := rates.Load(commandContext(cmd))
	if err != nil {
		return err
	}
	for _, tier := range domain.Tiers {
		fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", tier, money.FormatPercentage(loaded.Rate(tier)))
	}
	return nil
}

func runRatesSet(cmd *cobra.Command, tierName, rateText string) error {
	tier, err := domain.ParseTier(tierName)
	if err != nil {
		return err
	}
	rate, ok := money.ParseRate(rateText)
	if !ok {
		return fmt.Errorf("invalid rate %q", rateText)
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	rates, closeStore, err := openRateStore(settings)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := rates.Set(commandContext(cmd), tier, rate); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Rate for %s set to %s\n", tier, money.FormatPercentage(rate))
	return nil
}
