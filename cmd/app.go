// Package cmd implements the CLI application to backtest the engagement ratio strategy.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/engagement"
	"github.com/etnz/engagement/eodhd"
	"github.com/etnz/engagement/yahoo"
	"github.com/google/subcommands"
)

// Commands is the list of all the subcommands, in the order they are listed in the help.
var Commands = []subcommands.Command{
	&backtestCmd{},
	&signalCmd{},
	&validateCmd{},
	&topicCmd{},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		group := "backtest"
		if cmd.Name() == "topic" {
			group = "help"
		}
		c.Register(cmd, group)
	}
}

// Providers is the list of price providers accepted by -provider.
var Providers = []string{"eodhd", "yahoo"}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile   = flag.String("config", "", "Path to a YAML configuration file (defaults apply when empty)")
	inputFile    = flag.String("input", "engagement.csv", "Path to the engagement CSV file")
	providerName = flag.String("provider", "eodhd", "Price provider: eodhd or yahoo")
	eodhdAPIKey  = flag.String("eodhd-api-key", "", "EODHD API key (defaults to the EODHD_API_KEY environment variable)")
	cacheDir     = flag.String("cache-dir", "", "Folder of the daily cache of EODHD responses (defaults to the user cache folder)")
	eodhdRate    = flag.Int("eodhd-rate", eodhd.DefaultRateLimit, "Maximum EODHD requests per second")
)

// LoadConfig loads the app configuration file.
func LoadConfig() (engagement.Config, error) {
	return engagement.LoadConfig(*configFile)
}

// DecodeRecords reads the app engagement file.
func DecodeRecords() ([]engagement.Record, error) {
	f, err := os.Open(*inputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open engagement file: %w", err)
	}
	defer f.Close()
	records, err := engagement.ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", *inputFile, err)
	}
	return records, nil
}

// NewProvider returns the price provider selected with -provider.
func NewProvider() (engagement.PriceProvider, error) {
	switch *providerName {
	case "eodhd":
		key := *eodhdAPIKey
		if key == "" {
			key = os.Getenv("EODHD_API_KEY")
		}
		if key == "" {
			return nil, fmt.Errorf("eodhd needs an API key: use -eodhd-api-key or EODHD_API_KEY")
		}
		if *eodhdRate <= 0 {
			return nil, fmt.Errorf("-eodhd-rate must be positive, got %d", *eodhdRate)
		}
		dir := *cacheDir
		if dir == "" {
			if userCache, err := os.UserCacheDir(); err == nil {
				dir = filepath.Join(userCache, "ers")
			}
		}
		if dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("cannot create cache folder: %w", err)
			}
		}
		return eodhd.New(key, eodhd.WithCacheDir(dir), eodhd.WithRateLimit(*eodhdRate)), nil
	case "yahoo":
		return yahoo.New(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q, want one of %v", *providerName, Providers)
	}
}

// printMarkdown prints a markdown document on stdout.
// It is rendered with glamour on a terminal, printed as is otherwise.
func printMarkdown(doc string) {
	if fi, err := os.Stdout.Stat(); err != nil || fi.Mode()&os.ModeCharDevice == 0 {
		fmt.Print(doc)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Print(doc)
		return
	}
	out, err := r.Render(doc)
	if err != nil {
		fmt.Print(doc)
		return
	}
	fmt.Print(out)
}
