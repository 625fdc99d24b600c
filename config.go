package engagement

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// TiePolicy decides what happens when several symbols share the last selected rank.
type TiePolicy string

const (
	// KeepTies selects every symbol whose average rank is within the top N.
	// Ties can therefore select more than N symbols.
	KeepTies TiePolicy = "keep-ties"
	// Truncate selects exactly N symbols at most, breaking ties by symbol name.
	Truncate TiePolicy = "truncate"
)

// Thresholds are the minimal engagement a record needs to be part of the signal.
// Both bounds are exclusive.
type Thresholds struct {
	MinLikes    float64 `yaml:"min_likes" validate:"gte=0"`
	MinComments float64 `yaml:"min_comments" validate:"gte=0"`
}

// Accept reports whether r passes the thresholds.
// Missing values (NaN) never pass.
func (t Thresholds) Accept(r Record) bool {
	return r.Likes > t.MinLikes && r.Comments > t.MinComments
}

// Config holds every parameter of a backtest.
type Config struct {
	// From and To bound the price history used for validation and returns.
	// To is exclusive.
	From Date `yaml:"from"`
	To   Date `yaml:"to"`

	Thresholds Thresholds `yaml:"thresholds"`

	// TopN is the number of symbols held every month.
	TopN int       `yaml:"top_n" validate:"gte=1"`
	Ties TiePolicy `yaml:"ties" validate:"oneof=keep-ties truncate"`

	// Benchmark is the symbol the strategy is compared to.
	Benchmark string `yaml:"benchmark" validate:"required"`
}

// DefaultConfig returns the configuration of the reference study:
// Jan 2021 to Mar 2023, top 5 by engagement ratio, benchmarked against the Nasdaq 100.
func DefaultConfig() Config {
	return Config{
		From:       NewDate(2021, 1, 1),
		To:         NewDate(2023, 3, 1),
		Thresholds: Thresholds{MinLikes: 20, MinComments: 10},
		TopN:       5,
		Ties:       KeepTies,
		Benchmark:  "QQQ",
	}
}

// Range returns the backtest date range, both bounds inclusive: it stops the day before To.
func (c Config) Range() Range { return Range{From: c.From, To: c.To.Add(-1)} }

var validate = validator.New()

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on %q", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.From.IsZero() || c.To.IsZero() {
		return fmt.Errorf("invalid config: from and to are required")
	}
	if !c.From.Before(c.To) {
		return fmt.Errorf("invalid config: from %s must be before to %s", c.From, c.To)
	}
	return nil
}

// DecodeConfig reads a YAML configuration. Fields absent from the document keep their default value.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, cfg.Validate()
}

// LoadConfig loads the YAML configuration file at path.
//
// An empty path returns the default configuration.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		cfg := DefaultConfig()
		return cfg, cfg.Validate()
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return DecodeConfig(bytes.NewReader(content))
}
