package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/rgehrsitz/portasim/internal/breakeven"
	"github.com/spf13/cobra"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "portasim %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "portasim",
	Short: "Consigned credit portability simulator",
	Long: "Recognizes loan contracts in pasted benefit-statement text, prices each one at a new rate " +
		"and term, and assembles the portability offer to share with the client",
}

var validateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate a configuration file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inputFile := args[0]

		if _, err := loadSettingsFrom(inputFile); err != nil {
			log.Fatal(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file %s is valid\n", inputFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the configuration file (default: portasim.yaml if it exists)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	// Evaluate command flags
	evaluateCmd.Flags().Bool("pdf", false, "Read the input file as a benefit-statement PDF")
	evaluateCmd.Flags().StringP("bank", "b", "", "Destination bank code (default: first bank in the catalog)")
	evaluateCmd.Flags().IntP("term", "t", 0, "Term in months (default: term_months from the configuration)")
	evaluateCmd.Flags().String("tier", "", "Pricing tier: new, refin or portability (default: tier from the configuration)")
	evaluateCmd.Flags().IntSlice("exclude", nil, "Contract numbers to leave out of the offer, as listed by the console format")
	evaluateCmd.Flags().String("client", "", "Client name shown on the offer")
	evaluateCmd.Flags().StringP("format", "f", "console", "Output format (console, text, json, csv)")
	evaluateCmd.Flags().Bool("save", false, "Also write the output to a timestamped file")
	evaluateCmd.Flags().Bool("copy", false, "Copy the shareable offer text to the clipboard")
	evaluateCmd.Flags().String("remote", "", "Parse and load banks through a running portasim service at this URL")

	// Simulate command flags
	simulateCmd.Flags().String("installment", "", "Desired monthly installment")
	simulateCmd.Flags().String("value", "", "Desired loan value")
	simulateCmd.Flags().IntP("term", "t", 0, "Term in months (default: term_months from the configuration)")
	simulateCmd.Flags().StringP("bank", "b", "", "Price at this bank's rates instead of the stored rates")
	simulateCmd.Flags().String("tier", string(defaultMarginTier), "Pricing tier: new, refin or portability")

	// Bank command flags
	bankUpdateCmd.Flags().String("name", "", "Bank name (required)")
	bankUpdateCmd.Flags().String("rate-new", "0", "Monthly rate for new loans, in percent")
	bankUpdateCmd.Flags().String("rate-refin", "0", "Monthly rate for refinancing, in percent")
	bankUpdateCmd.Flags().String("rate-portability", "0", "Monthly rate for portability, in percent")
	bankUpdateCmd.Flags().String("remote", "", "URL of the portasim service holding the catalog (default: remote.base_url)")
	banksCmd.Flags().String("remote", "", "List the banks of a running portasim service at this URL")
	banksCmd.AddCommand(bankUpdateCmd)

	// Compare command flags
	compareCmd.Flags().Bool("pdf", false, "Read the input file as a benefit-statement PDF")
	compareCmd.Flags().StringP("bank", "b", "", "Base bank code (default: first bank in the catalog)")
	compareCmd.Flags().StringSlice("banks", nil, "Bank codes to compare against (default: every other catalog bank)")
	compareCmd.Flags().IntP("term", "t", 0, "Term in months (default: term_months from the configuration)")
	compareCmd.Flags().String("tier", "", "Pricing tier: new, refin or portability (default: tier from the configuration)")
	compareCmd.Flags().IntSlice("exclude", nil, "Contract numbers to leave out of every offer")
	compareCmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")

	// Break-even command flags
	breakEvenCmd.Flags().Bool("pdf", false, "Read the input file as a benefit-statement PDF")
	breakEvenCmd.Flags().StringP("bank", "b", "", "Bank whose rates are solved against (default: first bank in the catalog)")
	breakEvenCmd.Flags().IntP("term", "t", 0, "Offer term in months (default: term_months from the configuration)")
	breakEvenCmd.Flags().String("tier", "", "Pricing tier: new, refin or portability (default: tier from the configuration)")
	breakEvenCmd.Flags().String("target", string(breakeven.TargetAll), "What to solve for: rate, term or all")
	breakEvenCmd.Flags().String("min-rate", "", "Lowest monthly rate searched, in percent (default: 0)")
	breakEvenCmd.Flags().String("max-rate", "", "Highest monthly rate searched, in percent (default: 10)")
	breakEvenCmd.Flags().IntSlice("terms", nil, "Candidate terms for the term search (default: allowed_terms from the configuration)")
	breakEvenCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")

	// Serve command flags
	serveCmd.Flags().String("addr", "", "Listen address (default: server.addr from the configuration)")

	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(breakEvenCmd)
	rootCmd.AddCommand(banksCmd)
	rootCmd.AddCommand(ratesCmd())
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
