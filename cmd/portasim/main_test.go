package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rgehrsitz/portasim/internal/config"
	"github.com/rgehrsitz/portasim/internal/offer"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const statement = `329 - QI SOCIEDADE DE CREDITO DIRETO S A
QUA0001117593
R$ 215,49
0/96 - 96 Restantes
10.903,00
001 - BANCO DO BRASIL
Parcela: R$ 35,00
Saldo devedor: R$ 0,00`

// resetFlags restores every flag to its default so commands can run repeatedly
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "portasim.yaml")
	content := `banks:
  - code: "329"
    name: "QI SCD"
    rate_new: 1.80
    rate_refin: 1.50
    rate_portability: 1.50
` + extra
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommand(t *testing.T) {
	cmd := rootCmd

	if cmd.Use != "portasim" {
		t.Errorf("Expected root command use to be 'portasim', got %s", cmd.Use)
	}
	if cmd.Short == "" {
		t.Error("Expected root command to have a short description")
	}
	if cmd.Long == "" {
		t.Error("Expected root command to have a long description")
	}
}

func TestRootCommand_Help(t *testing.T) {
	out, err := execute(t, "", "--help")
	if err != nil {
		t.Errorf("Expected no error for help command, got %v", err)
	}
	if !strings.Contains(out, "evaluate") {
		t.Error("Expected help to list the evaluate command")
	}
}

func TestRootCommand_InvalidCommand(t *testing.T) {
	if _, err := execute(t, "", "invalid-command"); err == nil {
		t.Error("Expected error for invalid command")
	}
}

func TestCommandSubcommands(t *testing.T) {
	expectedCommands := []string{"evaluate", "simulate", "compare", "break-even", "banks", "rates", "serve", "validate", "version"}

	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range expectedCommands {
		if !registered[name] {
			t.Errorf("Expected command '%s' to be registered with root command", name)
		}
	}
}

func TestEvaluate_TextFormat(t *testing.T) {
	cfg := writeConfig(t, "")
	input := filepath.Join(t.TempDir(), "contracts.txt")
	if err := os.WriteFile(input, []byte(statement), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "", "evaluate", "--config", cfg, "--format", "text", "--client", "Maria", input)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	for _, want := range []string{
		"*Portabilidade para o QI SCD – Renovação em 96 meses!*",
		"👤 *Cliente: Maria*",
		"🔹 329 - QI SOCIEDADE DE CREDITO DIRETO S A",
		"▫️ *Valor liberado aproximado: R$ 22,70*",
		"💵 *Total aproximado disponível: R$ 22,70*",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestEvaluate_JSONFromStdin(t *testing.T) {
	cfg := writeConfig(t, "")

	out, err := execute(t, statement, "evaluate", "--config", cfg, "-f", "json", "--exclude", "1", "--term", "84")
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	var summary offer.Summary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("Expected JSON output: %v", err)
	}
	if len(summary.Included) != 1 || len(summary.Excluded) != 1 {
		t.Errorf("Expected one included and one excluded contract, got %d/%d", len(summary.Included), len(summary.Excluded))
	}
	if summary.Excluded[0].Position != 0 {
		t.Errorf("Expected contract number 1 to exclude position 0, got %d", summary.Excluded[0].Position)
	}
	if summary.TermMonths != 84 {
		t.Errorf("Expected term 84, got %d", summary.TermMonths)
	}
}

func TestEvaluate_WithoutBanksUsesStoredRates(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "portasim.yaml")
	if err := os.WriteFile(cfg, []byte("tier: refin\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, statement, "evaluate", "--config", cfg, "-f", "csv")
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if !strings.Contains(out, ",liberates,") {
		t.Errorf("Expected the first contract to liberate at the default rates, got:\n%s", out)
	}
}

func TestSimulate(t *testing.T) {
	cfg := writeConfig(t, "")

	out, err := execute(t, "", "simulate", "--config", cfg, "--installment", "215,49", "--tier", "refin")
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	for _, want := range []string{"Tier: refin (1,50% a.m.)", "Term: 96 months", "Installment: R$ 215,49", "Loan value: R$ 10.925,70"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}

	out, err = execute(t, "", "simulate", "--config", cfg, "--value", "10925.70", "--tier", "refin", "--bank", "329")
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	if !strings.Contains(out, "Bank: QI SCD") || !strings.Contains(out, "Installment: R$ 215,49") {
		t.Errorf("Expected the inverse conversion, got:\n%s", out)
	}
}

func TestBanks(t *testing.T) {
	out, err := execute(t, "", "banks", "--config", writeConfig(t, ""))
	if err != nil {
		t.Fatalf("banks failed: %v", err)
	}
	if !strings.Contains(out, "QI SCD") || !strings.Contains(out, "1,50%") {
		t.Errorf("Expected the configured bank, got:\n%s", out)
	}
}

func TestRates_SetAndGetWithFileStore(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "rates.yaml")
	cfg := writeConfig(t, "store:\n  kind: file\n  path: "+storePath+"\n")

	out, err := execute(t, "", "rates", "set", "portabilidade", "1,35", "--config", cfg)
	if err != nil {
		t.Fatalf("rates set failed: %v", err)
	}
	if !strings.Contains(out, "Rate for portability set to 1,35%") {
		t.Errorf("Unexpected output: %s", out)
	}

	out, err = execute(t, "", "rates", "get", "--config", cfg)
	if err != nil {
		t.Fatalf("rates get failed: %v", err)
	}
	if !strings.Contains(out, "1,35%") || !strings.Contains(out, "1,80%") {
		t.Errorf("Expected stored and default rates, got:\n%s", out)
	}
}

func TestCompare(t *testing.T) {
	cfg := writeConfig(t, `  - code: "626"
    name: "C6 Consignado"
    rate_new: 1.80
    rate_refin: 1.20
    rate_portability: 1.40
`)

	out, err := execute(t, statement, "compare", "--config", cfg, "--tier", "refin", "-f", "csv")
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header plus two banks, got:\n%s", out)
	}
	if !strings.HasPrefix(lines[1], "329,QI SCD,base,1.5,1,1,22.70,") {
		t.Errorf("Unexpected base row: %s", lines[1])
	}
	if !strings.HasPrefix(lines[2], "626,C6 Consignado,alternative,1.2,1,1,") {
		t.Errorf("Unexpected alternative row: %s", lines[2])
	}

	out, err = execute(t, statement, "compare", "--config", cfg, "--tier", "refin", "--bank", "626", "-f", "compact")
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	if !strings.HasPrefix(out, "Base: 626 | 329: -R$ ") {
		t.Errorf("Unexpected compact output: %s", out)
	}
}

func TestBreakEven(t *testing.T) {
	cfg := writeConfig(t, "")

	out, err := execute(t, statement, "break-even", "--config", cfg, "--tier", "refin", "--target", "term", "--terms", "84,96", "-f", "json")
	if err != nil {
		t.Fatalf("break-even failed: %v", err)
	}

	var result struct {
		Tier    string `json:"tier"`
		Results []struct {
			Success     bool `json:"success"`
			MinimumTerm *int `json:"minimum_term"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("Expected JSON output: %v", err)
	}
	if result.Tier != "refin" || len(result.Results) != 2 {
		t.Fatalf("Unexpected result: %s", out)
	}
	if result.Results[0].MinimumTerm == nil || *result.Results[0].MinimumTerm != 96 {
		t.Errorf("Expected the first contract to need 96 months, got %v", result.Results[0].MinimumTerm)
	}
	if result.Results[1].Success {
		t.Error("Expected the small contract to have no break-even point")
	}

	out, err = execute(t, statement, "break-even", "--config", cfg, "--tier", "refin")
	if err != nil {
		t.Fatalf("break-even failed: %v", err)
	}
	for _, want := range []string{"BREAK-EVEN ANALYSIS", "Tier: refin at 1,50% a month, 96 months", "RECOMMENDATIONS"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestBreakEvenConstraints(t *testing.T) {
	resetFlags(rootCmd)
	defer resetFlags(rootCmd)

	if err := breakEvenCmd.Flags().Set("max-rate", "2.125"); err != nil {
		t.Fatal(err)
	}
	constraints, err := breakEvenConstraints(breakEvenCmd, "refin", []int{48, 96})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if constraints.MaxRate == nil || constraints.MaxRate.String() != "2.125" {
		t.Errorf("Expected max rate 2.125, got %v", constraints.MaxRate)
	}
	if len(constraints.Terms) != 2 || constraints.Terms[1] != 96 {
		t.Errorf("Expected the allowed terms as candidates, got %v", constraints.Terms)
	}

	if err := breakEvenCmd.Flags().Set("min-rate", "3"); err != nil {
		t.Fatal(err)
	}
	if _, err := breakEvenConstraints(breakEvenCmd, "refin", nil); err == nil {
		t.Error("Expected error for an inverted rate range")
	}

	if err := breakEvenCmd.Flags().Set("min-rate", "abc"); err != nil {
		t.Fatal(err)
	}
	if _, err := breakEvenConstraints(breakEvenCmd, "refin", nil); err == nil {
		t.Error("Expected error for an unparseable rate")
	}
}

func TestValidate(t *testing.T) {
	cfg := writeConfig(t, "term_months: 84\n")

	out, err := execute(t, "", "validate", cfg)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(out, "is valid") {
		t.Errorf("Unexpected output: %s", out)
	}
}

func TestParseExclusions(t *testing.T) {
	excluded, err := parseExclusions([]int{1, 3})
	if err != nil {
		t.Fatal(err)
	}
	if !excluded.Contains(0) || !excluded.Contains(2) || excluded.Len() != 2 {
		t.Errorf("Expected positions 0 and 2, got %v", excluded.Positions())
	}

	if _, err := parseExclusions([]int{0}); err == nil {
		t.Error("Expected error for contract number 0")
	}
}

func TestResolveTerm(t *testing.T) {
	settings := config.DefaultSettings()

	if term, err := resolveTerm(&settings, 0); err != nil || term != 96 {
		t.Errorf("Expected the default term, got %d (%v)", term, err)
	}
	if term, err := resolveTerm(&settings, 48); err != nil || term != 48 {
		t.Errorf("Expected 48, got %d (%v)", term, err)
	}
	if _, err := resolveTerm(&settings, 50); err == nil {
		t.Error("Expected error for a term outside the allowed list")
	}
}

func TestFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "present.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if !fileExists(path) {
		t.Error("Expected file to exist")
	}
	if fileExists(filepath.Join(t.TempDir(), "non_existing_file.txt")) {
		t.Error("Expected non_existing_file.txt to not exist")
	}
}
