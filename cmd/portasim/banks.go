package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/rgehrsitz/portasim/internal/api"
	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/rgehrsitz/portasim/internal/money"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var banksCmd = &cobra.Command{
	Use:   "banks",
	Short: "List the destination banks and their rates",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runBanks(cmd); err != nil {
			log.Fatal(err)
		}
	},
}

var bankUpdateCmd = &cobra.Command{
	Use:   "update <code>",
	Short: "Create or edit a bank in a running portasim service",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runBankUpdate(cmd, args[0]); err != nil {
			log.Fatal(err)
		}
	},
}

func runBanks(cmd *cobra.Command) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	banks := settings.Banks
	if url := remoteURL(cmd, settings); url != "" {
		if banks, err = api.NewClient(url, nil).Banks(commandContext(cmd)); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if len(banks) == 0 {
		fmt.Fprintln(out, "No banks configured")
		return nil
	}
	fmt.Fprintf(out, "%-6s %-30s %8s %8s %8s\n", "CODE", "NAME", "NEW", "REFIN", "PORT")
	for _, b := range banks {
		fmt.Fprintf(out, "%-6s %-30s %8s %8s %8s\n", b.Code, b.Name,
			money.FormatPercentage(b.RateNew),
			money.FormatPercentage(b.RateRefin),
			money.FormatPercentage(b.RatePortability))
	}
	return nil
}

func runBankUpdate(cmd *cobra.Command, code string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	url := remoteURL(cmd, settings)
	if url == "" {
		return errors.New("bank edits need a running service: pass --remote or set remote.base_url")
	}

	bank := domain.Bank{Code: code}
	bank.Name, _ = cmd.Flags().GetString("name")
	for flag, target := range map[string]*decimal.Decimal{
		"rate-new":         &bank.RateNew,
		"rate-refin":       &bank.RateRefin,
		"rate-portability": &bank.RatePortability,
	} {
		text, _ := cmd.Flags().GetString(flag)
		rate, ok := money.ParseRate(text)
		if !ok {
			return fmt.Errorf("invalid --%s %q", flag, text)
		}
		*target = rate
	}

	saved, err := api.NewClient(url, nil).UpdateBank(commandContext(cmd), bank)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Bank %s (%s) saved\n", saved.Code, saved.Name)
	return nil
}
