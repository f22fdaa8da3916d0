package main

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/rgehrsitz/portasim/internal/api"
	"github.com/rgehrsitz/portasim/internal/calculation"
	"github.com/rgehrsitz/portasim/internal/catalog"
	"github.com/rgehrsitz/portasim/internal/config"
	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/rgehrsitz/portasim/internal/output"
	"github.com/rgehrsitz/portasim/internal/session"
	"github.com/rgehrsitz/portasim/internal/source"
	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [input-file]",
	Short: "Evaluate the contracts in pasted benefit-statement text",
	Long: "Reads contract text from a file, a PDF or stdin, prices every recognized contract at the " +
		"selected bank's rates and prints the offer",
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runEvaluate(cmd, args); err != nil {
			log.Fatal(err)
		}
	},
}

func runEvaluate(cmd *cobra.Command, args []string) error {
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

	formatName, _ := cmd.Flags().GetString("format")
	formatter := output.GetFormatterByName(formatName)
	if formatter == nil {
		return fmt.Errorf("unknown output format: %s (valid: %s)", formatName, strings.Join(output.AvailableFormats(), ", "))
	}

	var records session.RecordSource = session.LocalSource{}
	banks := catalog.New(settings.Banks)
	if url := remoteURL(cmd, settings); url != "" {
		client := api.NewClient(url, nil)
		records = client
		if banks, err = client.Catalog(ctx); err != nil {
			return err
		}
		logger.Infof("using remote service at %s (%d bank(s))", url, banks.Len())
	}

	state, err := evaluationState(cmd, settings, banks)
	if err != nil {
		return err
	}
	state.Text = text
	if state.Bank == nil {
		rates, closeStore, err := openRateStore(settings)
		if err != nil {
			return err
		}
		defer closeStore()
		loaded, err := rates.Load(ctx)
		if err != nil {
			return err
		}
		state.Rates = &loaded
	}

	pipeline := session.NewPipeline(records)
	pipeline.Engine = calculation.NewCalculationEngineWithPolicy(settings.Policy)
	pipeline.SetLogger(logger)

	result, err := session.New(pipeline, state).Refresh(ctx)
	if err != nil {
		return err
	}
	if result.Notice != session.NoticeNone {
		fmt.Fprintf(cmd.ErrOrStderr(), "Note: %s\n", result.Notice)
	}

	data, err := formatter.Format(&result.Summary)
	if err != nil {
		return fmt.Errorf("failed to format offer: %w", err)
	}
	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		filename, err := output.WriteFormatted(formatter, &result.Summary, fileExtension(formatter.Name()))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved to %s\n", filename)
	}

	if copyText, _ := cmd.Flags().GetBool("copy"); copyText {
		if _, err := output.CopyOffer(output.SystemClipboard{}, result.Summary); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Offer copied to the clipboard")
	}
	return nil
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	if asPDF, _ := cmd.Flags().GetBool("pdf"); asPDF {
		if path == "" || path == "-" {
			return "", errors.New("--pdf needs an input file")
		}
		return source.ReadPDF(path)
	}
	return source.ReadText(path, cmd.InOrStdin())
}

// evaluationState resolves the bank, term, tier, client and exclusion flags
func evaluationState(cmd *cobra.Command, settings *config.Settings, banks catalog.Catalog) (session.State, error) {
	bankCode, _ := cmd.Flags().GetString("bank")
	bank, err := banks.Resolve(bankCode)
	if err != nil {
		return session.State{}, err
	}

	term, _ := cmd.Flags().GetInt("term")
	term, err = resolveTerm(settings, term)
	if err != nil {
		return session.State{}, err
	}

	tierName, _ := cmd.Flags().GetString("tier")
	tier, err := resolveTier(settings.Tier, tierName)
	if err != nil {
		return session.State{}, err
	}

	numbers, _ := cmd.Flags().GetIntSlice("exclude")
	excluded, err := parseExclusions(numbers)
	if err != nil {
		return session.State{}, err
	}

	client, _ := cmd.Flags().GetString("client")
	return session.State{
		Bank:       bank,
		TermMonths: term,
		Tier:       tier,
		ClientName: strings.TrimSpace(client),
		Excluded:   excluded,
	}, nil
}

// resolveTerm applies the configured default and the allowed-terms list
func resolveTerm(settings *config.Settings, term int) (int, error) {
	if term == 0 {
		return settings.TermMonths, nil
	}
	if !settings.TermAllowed(term) {
		return 0, fmt.Errorf("term %d is not allowed (allowed: %v)", term, settings.AllowedTerms)
	}
	return term, nil
}

func resolveTier(fallback domain.Tier, name string) (domain.Tier, error) {
	if strings.TrimSpace(name) == "" {
		return fallback, nil
	}
	return domain.ParseTier(name)
}

// parseExclusions converts 1-based contract numbers into an exclusion set
func parseExclusions(numbers []int) (domain.ExclusionSet, error) {
	excluded := domain.ExclusionSet{}
	for _, n := range numbers {
		if n < 1 {
			return domain.ExclusionSet{}, fmt.Errorf("invalid contract number %d (numbers start at 1)", n)
		}
		excluded.Add(n - 1)
	}
	return excluded, nil
}

func fileExtension(format string) string {
	switch format {
	case "json":
		return "json"
	case "csv":
		return "csv"
	default:
		return "txt"
	}
}
