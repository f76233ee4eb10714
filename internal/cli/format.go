package cli

import (
	"fmt"
	"strings"

	"github.com/njchilds90/symcalc"
	"gopkg.in/yaml.v3"
)

// latexSource is LaTeX text that is already rendered; formatting in LaTeX
// mode passes it through unchanged.
type latexSource string

func (s latexSource) String() string { return string(s) }
func (s latexSource) LaTeX() string  { return string(s) }

// Format renders an operation result for standard output. It never
// modifies the result.
func Format(v symcalc.Printable, opts Options) (string, error) {
	if raw, ok := v.(latexSource); ok {
		return string(raw), nil
	}
	if opts.LatexOut {
		return v.LaTeX(), nil
	}
	switch opts.Format {
	case FormatStr:
		return v.String(), nil
	case FormatJSON:
		return symcalc.ToJSON(v)
	case FormatYAML:
		b, err := yaml.Marshal(symcalc.Tree(v))
		if err != nil {
			return "", fmt.Errorf("encoding yaml: %w", err)
		}
		return strings.TrimRight(string(b), "\n"), nil
	}
	return symcalc.Pretty(v, symcalc.PrettyOptions{Unicode: !opts.UseASCII()}), nil
}
