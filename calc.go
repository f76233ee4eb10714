package symcalc

import (
	"errors"
	"fmt"
	"strings"
)

// ============================================================
// Text operations
// ============================================================

// EvalError reports a failure inside an operation after parsing succeeded.
type EvalError struct {
	Op   string
	Text string
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s failed for '%s': %v", e.Op, e.Text, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

var (
	ErrNegativeOrder        = errors.New("derivative order must be non-negative")
	ErrInvalidSubstitution  = errors.New("invalid substitution")
	ErrMissingIntegralBound = errors.New("definite integral needs both bounds")
)

// fallbackIntegrationVar is used when the integrand has no free symbols.
const fallbackIntegrationVar = "x"

// guard runs f, turning kernel panics into an *EvalError.
func guard(op, text string, f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &EvalError{Op: op, Text: text, Err: panicError(r)}
		}
	}()
	return f()
}

func transform(op, text string, f func(Expr) Expr) (out Expr, err error) {
	err = guard(op, text, func() error {
		e, err := Parse(text)
		if err != nil {
			return err
		}
		out = f(e)
		return nil
	})
	return out, err
}

// DefaultVariable is the first free symbol of e in traversal order.
func DefaultVariable(e Expr) (string, bool) {
	syms := FreeSymbols(e)
	if len(syms) == 0 {
		return "", false
	}
	return syms[0], true
}

func SimplifyText(text string) (Expr, error) { return transform("simplify", text, SimplifyExpr) }
func ExpandText(text string) (Expr, error)   { return transform("expand", text, Expand) }
func FactorText(text string) (Expr, error)   { return transform("factor", text, FactorExpr) }

// DiffText differentiates order times with respect to varName, or the
// first free symbol when varName is empty. Constants differentiate to 0.
func DiffText(text, varName string, order int) (Expr, error) {
	if order < 0 {
		return nil, &EvalError{Op: "diff", Text: text, Err: fmt.Errorf("%w: %d", ErrNegativeOrder, order)}
	}
	return transform("diff", text, func(e Expr) Expr {
		if order == 0 {
			return e
		}
		x := varName
		if x == "" {
			v, ok := DefaultVariable(e)
			if !ok {
				return N(0)
			}
			x = v
		}
		for i := 0; i < order; i++ {
			e = e.Diff(x)
		}
		return e
	})
}

// IntegrateText integrates with respect to varName (default: the first
// free symbol, else x). With both bounds the integral is definite; the
// bounds are parsed as expressions.
func IntegrateText(text, varName, lower, upper string) (out Expr, err error) {
	if (lower == "") != (upper == "") {
		return nil, &EvalError{Op: "integrate", Text: text, Err: ErrMissingIntegralBound}
	}
	err = guard("integrate", text, func() error {
		e, err := Parse(text)
		if err != nil {
			return err
		}
		x := varName
		if x == "" {
			x = fallbackIntegrationVar
			if v, ok := DefaultVariable(e); ok {
				x = v
			}
		}
		if lower == "" {
			out = Integrate(e, x)
			return nil
		}
		a, err := Parse(lower)
		if err != nil {
			return err
		}
		b, err := Parse(upper)
		if err != nil {
			return err
		}
		out = IntegrateDefinite(e, x, a, b)
		return nil
	})
	return out, err
}

// SolveText solves "left = right" (split on the first '=') or "expr" = 0
// over the complex numbers. Without a variable and without free symbols
// the solution set is empty.
func SolveText(text, varName string) (out Set, err error) {
	err = guard("solve", text, func() error {
		residual, err := parseResidual(strings.TrimSpace(text))
		if err != nil {
			return err
		}
		x := varName
		if x == "" {
			v, ok := DefaultVariable(residual)
			if !ok {
				out = EmptySet()
				return nil
			}
			x = v
		}
		out = Solve(residual, x)
		return nil
	})
	return out, err
}

func parseResidual(text string) (Expr, error) {
	left, right, isEq := strings.Cut(text, "=")
	if !isEq {
		return Parse(text)
	}
	l, err := Parse(left)
	if err != nil {
		return nil, err
	}
	r, err := Parse(right)
	if err != nil {
		return nil, err
	}
	return Eq(l, r).Residual(), nil
}

// EvalText substitutes the parsed values of subs simultaneously and, when
// numeric is set, evaluates the result to floating point.
func EvalText(text string, subs map[string]string, numeric bool) (out Expr, err error) {
	err = guard("eval", text, func() error {
		e, err := Parse(text)
		if err != nil {
			return err
		}
		m := make(map[string]Expr, len(subs))
		for name, value := range subs {
			v, err := Parse(value)
			if err != nil {
				return err
			}
			m[name] = v
		}
		out = Subs(e, m)
		if numeric {
			out = Evalf(out)
		}
		return nil
	})
	return out, err
}

// LatexText renders the parsed expression as LaTeX source.
func LatexText(text string) (out string, err error) {
	err = guard("latex", text, func() error {
		e, err := Parse(text)
		if err != nil {
			return err
		}
		out = Latex(e)
		return nil
	})
	return out, err
}

// ParseSubstitutions turns NAME=VALUE arguments into a substitution map.
// Later entries for the same name win.
func ParseSubstitutions(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w %q: use var=value", ErrInvalidSubstitution, arg)
		}
		out[name] = value
	}
	return out, nil
}
