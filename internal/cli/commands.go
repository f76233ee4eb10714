package cli

import (
	"github.com/njchilds90/symcalc"
	"github.com/spf13/cobra"
)

func (a *app) newTransformCommand(name, short string, op func(string) (symcalc.Expr, error)) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [expr]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.input(cmd, args)
			if err != nil {
				return err
			}
			result, err := op(text)
			if err != nil {
				return err
			}
			return a.emit(cmd, name, result)
		},
	}
}

func (a *app) newDiffCommand() *cobra.Command {
	var varName string
	var order int
	cmd := &cobra.Command{
		Use:   "diff [expr]",
		Short: "Differentiate an expression",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.input(cmd, args)
			if err != nil {
				return err
			}
			result, err := symcalc.DiffText(text, varName, order)
			if err != nil {
				return err
			}
			return a.emit(cmd, "diff", result)
		},
	}
	cmd.Flags().StringVarP(&varName, "var", "v", "", "variable to differentiate with respect to (defaults to first free symbol)")
	cmd.Flags().IntVarP(&order, "order", "o", 1, "order of the derivative")
	return cmd
}

func (a *app) newIntegrateCommand() *cobra.Command {
	var varName, lower, upper string
	cmd := &cobra.Command{
		Use:   "integrate [expr]",
		Short: "Integrate an expression",
		Long: `Integrate an expression. With both --a and --b the integral is definite;
the bounds are parsed as expressions, so symbolic limits work.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.input(cmd, args)
			if err != nil {
				return err
			}
			// A single bound means an indefinite integral.
			if lower == "" || upper == "" {
				if lower != "" || upper != "" {
					a.log.LogWarn("only one bound given; computing the indefinite integral")
				}
				lower, upper = "", ""
			}
			result, err := symcalc.IntegrateText(text, varName, lower, upper)
			if err != nil {
				return err
			}
			return a.emit(cmd, "integrate", result)
		},
	}
	cmd.Flags().StringVarP(&varName, "var", "v", "", "variable to integrate with respect to (defaults to first free symbol)")
	cmd.Flags().StringVar(&lower, "a", "", "lower limit of integration (for definite integrals)")
	cmd.Flags().StringVar(&upper, "b", "", "upper limit of integration (for definite integrals)")
	return cmd
}

func (a *app) newSolveCommand() *cobra.Command {
	var varName string
	cmd := &cobra.Command{
		Use:   "solve [expr]",
		Short: "Solve an equation or expression equal to zero",
		Long: `Solve an equation of the form 'expr = rhs', or an expression equal to
zero, over the complex numbers.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.input(cmd, args)
			if err != nil {
				return err
			}
			result, err := symcalc.SolveText(text, varName)
			if err != nil {
				return err
			}
			return a.emit(cmd, "solve", result)
		},
	}
	cmd.Flags().StringVarP(&varName, "var", "v", "", "variable to solve for (defaults to first free symbol)")
	return cmd
}

func (a *app) newEvalCommand() *cobra.Command {
	var subs []string
	var numeric bool
	cmd := &cobra.Command{
		Use:   "eval [expr]",
		Short: "Evaluate an expression with optional substitutions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.input(cmd, args)
			if err != nil {
				return err
			}
			m, err := symcalc.ParseSubstitutions(subs)
			if err != nil {
				return &UsageError{Err: err}
			}
			result, err := symcalc.EvalText(text, m, numeric)
			if err != nil {
				return err
			}
			return a.emit(cmd, "eval", result)
		},
	}
	cmd.Flags().StringArrayVar(&subs, "subs", nil, "substitution in the form var=value (can be specified multiple times)")
	cmd.Flags().BoolVar(&numeric, "numeric", false, "evaluate the result to a floating-point number")
	return cmd
}

func (a *app) newLatexCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "latex [expr]",
		Short: "Output the LaTeX representation of an expression",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.input(cmd, args)
			if err != nil {
				return err
			}
			source, err := symcalc.LatexText(text)
			if err != nil {
				return err
			}
			return a.emit(cmd, "latex", latexSource(source))
		},
	}
}
