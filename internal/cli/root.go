// Package cli implements the symcalc command tree: input resolution, flag
// handling and result formatting around the kernel's text operations.
package cli

import (
	"fmt"

	"github.com/njchilds90/symcalc"
	"github.com/njchilds90/symcalc/internal/logger"
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// app is the state shared by the subcommands of one command tree.
type app struct {
	opts Options
	log  *logger.ConsoleLogger
}

// NewRootCommand creates and returns the root cobra command for symcalc
func NewRootCommand() *cobra.Command {
	a := &app{opts: DefaultOptions()}
	cmd := &cobra.Command{
		Use:   "symcalc",
		Short: "Command-line symbolic mathematics",
		Long: `symcalc parses a mathematical expression and simplifies, expands,
factors, differentiates, integrates, solves, evaluates or renders it.

The expression is taken from the argument, or from standard input when the
argument is omitted. The grammar accepts implicit multiplication (2x),
implicit function application (sin x), caret powers (x^2) and factorials.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.opts.Validate(); err != nil {
				return err
			}
			a.log = logger.NewConsoleLogger(cmd.ErrOrStderr(), a.opts.LogLevel)
			a.log.Debugf("options: ascii=%t latex=%t format=%s", a.opts.UseASCII(), a.opts.LatexOut, a.opts.Format)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return &UsageError{Msg: "a subcommand is required (see symcalc --help)"}
		},
	}

	a.opts.AddFlags(cmd.PersistentFlags())

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	cmd.AddCommand(a.newTransformCommand("simplify", "Simplify an expression", symcalc.SimplifyText))
	cmd.AddCommand(a.newTransformCommand("expand", "Expand products and powers in an expression", symcalc.ExpandText))
	cmd.AddCommand(a.newTransformCommand("factor", "Factor an expression", symcalc.FactorText))
	cmd.AddCommand(a.newDiffCommand())
	cmd.AddCommand(a.newIntegrateCommand())
	cmd.AddCommand(a.newSolveCommand())
	cmd.AddCommand(a.newEvalCommand())
	cmd.AddCommand(a.newLatexCommand())

	return cmd
}

// emit formats v and writes it as one block to the command's output.
func (a *app) emit(cmd *cobra.Command, op string, v symcalc.Printable) error {
	out, err := Format(v, a.opts)
	if err != nil {
		return err
	}
	a.log.Debugf("%s: %s", op, v.String())
	a.log.Tracef("%s: format=%s latex=%t ascii=%t", op, a.opts.Format, a.opts.LatexOut, a.opts.UseASCII())
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

func (a *app) input(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 {
		a.log.LogTrace("reading expression from standard input")
	}
	text, err := readExpression(args, cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	a.log.Debugf("%s: input %q", cmd.Name(), text)
	return text, nil
}
