package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/portasim/internal/offer"
)

// Formatter renders an offer summary
type Formatter interface {
	Name() string
	Format(summary *offer.Summary) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(summary *offer.Summary) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(summary *offer.Summary) ([]byte, error) { return f.F(summary) }

var formatters = map[string]Formatter{
	"console": ConsoleFormatter{},
	"text":    TextFormatter{},
	"json":    JSONFormatter{Pretty: true},
	"csv":     CSVFormatter{},
}

var aliases = map[string]string{
	"table":    "console",
	"share":    "text",
	"whatsapp": "text",
	"espelho":  "text",
}

// GetFormatterByName returns the formatter registered under name or one of
// its aliases; nil when unknown.
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := aliases[name]; ok {
		name = target
	}
	return formatters[name]
}

// AvailableFormats lists the registered formatter names
func AvailableFormats() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists the accepted aliases
func AvailableFormatAliases() []string {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteFormatted renders summary into a timestamped file in the working
// directory and returns its name.
func WriteFormatted(f Formatter, summary *offer.Summary, ext string) (string, error) {
	data, err := f.Format(summary)
	if err != nil {
		return "", fmt.Errorf("failed to format offer: %w", err)
	}
	filename := fmt.Sprintf("portasim_offer_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}
