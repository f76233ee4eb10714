package cli

import (
	"fmt"
	"strings"

	"github.com/njchilds90/symcalc/internal/logger"
	"github.com/spf13/pflag"
)

// Output formats accepted by --format.
const (
	FormatPretty = "pretty"
	FormatStr    = "str"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
)

var validFormats = []string{FormatPretty, FormatStr, FormatJSON, FormatYAML}

// Options holds the global flags shared by every subcommand.
type Options struct {
	ASCII    bool
	Unicode  bool
	LatexOut bool
	Format   string
	LogLevel string
}

// DefaultOptions returns Unicode pretty printing with warnings-only logging.
func DefaultOptions() Options {
	return Options{
		Format:   FormatPretty,
		LogLevel: logger.DefaultLevel,
	}
}

// AddFlags registers the global flags on fs.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.ASCII, "ascii", o.ASCII, "use ASCII characters in output")
	fs.BoolVar(&o.Unicode, "unicode", o.Unicode, "use Unicode characters in output (default)")
	fs.BoolVar(&o.LatexOut, "latex-out", o.LatexOut, "output result in LaTeX form")
	fs.StringVar(&o.Format, "format", o.Format, "output format: "+strings.Join(validFormats, ", "))
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "diagnostics on stderr: "+strings.Join(logger.ValidLevels, ", "))
}

// UseASCII is true only for --ascii without --unicode.
func (o Options) UseASCII() bool {
	return o.ASCII && !o.Unicode
}

// Validate checks the flag values once, before any subcommand runs.
func (o *Options) Validate() error {
	o.Format = strings.ToLower(strings.TrimSpace(o.Format))
	if o.Format == "" {
		o.Format = FormatPretty
	}
	known := false
	for _, f := range validFormats {
		if f == o.Format {
			known = true
			break
		}
	}
	if !known {
		return &UsageError{Msg: fmt.Sprintf("invalid --format %q (want one of %s)", o.Format, strings.Join(validFormats, ", "))}
	}
	if !logger.IsValidLevel(o.LogLevel) {
		return &UsageError{Msg: fmt.Sprintf("invalid --log-level %q (want one of %s)", o.LogLevel, strings.Join(logger.ValidLevels, ", "))}
	}
	return nil
}
