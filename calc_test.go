package symcalc_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/njchilds90/symcalc"
)

// valueAt evaluates e at name = v and returns the float result.
func valueAt(t *testing.T, e symcalc.Expr, name string, v float64) float64 {
	t.Helper()
	r := symcalc.Evalf(symcalc.Subs(e, map[string]symcalc.Expr{name: symcalc.NFloat(v)}))
	f, ok := r.(*symcalc.Float)
	if !ok {
		t.Fatalf("%s at %s=%g did not evaluate to a float, got %s", e, name, v, r)
	}
	return f.Float64()
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= 1e-8*math.Max(1, math.Abs(b))
}

// ============================================================
// Operation results
// ============================================================

func TestSimplifyText_PythagoreanIdentity(t *testing.T) {
	r, err := symcalc.SimplifyText("sin(x)^2 + cos(x)^2")
	if err != nil {
		t.Fatal(err)
	}
	if r.String() != "1" {
		t.Errorf("want 1, got %s", r)
	}
}

func TestSimplifyText_Idempotent(t *testing.T) {
	for _, in := range []string{"(x^2 - 1)/(x - 1)", "sin(x)/cos(x)", "x + x + 2*x", "(x+1)^2 - x^2"} {
		once, err := symcalc.SimplifyText(in)
		if err != nil {
			t.Fatal(err)
		}
		twice, err := symcalc.SimplifyText(once.String())
		if err != nil {
			t.Fatal(err)
		}
		if once.String() != twice.String() {
			t.Errorf("%s: simplify not idempotent: %s then %s", in, once, twice)
		}
	}
}

func TestExpandText_Cube(t *testing.T) {
	r, err := symcalc.ExpandText("(x+1)^3")
	if err != nil {
		t.Fatal(err)
	}
	if r.String() != "x**3 + 3*x**2 + 3*x + 1" {
		t.Errorf("want x**3 + 3*x**2 + 3*x + 1, got %s", r)
	}
}

func TestFactorText(t *testing.T) {
	cases := map[string]string{
		"x^2 + 2*x + 1": "(x + 1)**2",
		"x^2 - 1":       "(x - 1)*(x + 1)",
		"x^3 - 1":       "(x - 1)*(x**2 + x + 1)",
	}
	for in, want := range cases {
		r, err := symcalc.FactorText(in)
		if err != nil {
			t.Fatal(err)
		}
		if r.String() != want {
			t.Errorf("factor(%s): want %s, got %s", in, want, r)
		}
	}
}

func TestFactorText_ExpandsBack(t *testing.T) {
	for _, in := range []string{"x^4 - 1", "6*x^2 + 5*x + 1", "x^3 - 6*x^2 + 11*x - 6"} {
		f, err := symcalc.FactorText(in)
		if err != nil {
			t.Fatal(err)
		}
		got := symcalc.Expand(f)
		want := symcalc.Expand(symcalc.MustParse(in))
		if !got.Equal(want) {
			t.Errorf("expand(factor(%s)) = %s, want %s", in, got, want)
		}
	}
}

func TestDiffText_SecondOrder(t *testing.T) {
	r, err := symcalc.DiffText("x^3", "x", 2)
	if err != nil {
		t.Fatal(err)
	}
	if r.String() != "6*x" {
		t.Errorf("want 6*x, got %s", r)
	}
}

func TestDiffText_OrderComposes(t *testing.T) {
	text := "x^5*sin(x) + exp(2*x)"
	for m := 0; m <= 2; m++ {
		for n := 0; n <= 2; n++ {
			inner, err := symcalc.DiffText(text, "x", m)
			if err != nil {
				t.Fatal(err)
			}
			outer, err := symcalc.DiffText(inner.String(), "x", n)
			if err != nil {
				t.Fatal(err)
			}
			direct, err := symcalc.DiffText(text, "x", m+n)
			if err != nil {
				t.Fatal(err)
			}
			if a, b := valueAt(t, outer, "x", 0.7), valueAt(t, direct, "x", 0.7); !near(a, b) {
				t.Errorf("diff order %d then %d = %g, direct %d = %g", m, n, a, m+n, b)
			}
		}
	}
}

func TestDiffText_DefaultVariable(t *testing.T) {
	r, err := symcalc.DiffText("y^2 + 1", "", 1)
	if err != nil {
		t.Fatal(err)
	}
	if r.String() != "2*y" {
		t.Errorf("want 2*y, got %s", r)
	}
	r, err = symcalc.DiffText("7", "", 1)
	if err != nil {
		t.Fatal(err)
	}
	if r.String() != "0" {
		t.Errorf("d/d?(7): want 0, got %s", r)
	}
}

func TestDiffText_OrderZeroIsIdentity(t *testing.T) {
	r, err := symcalc.DiffText("x^2 + y", "x", 0)
	if err != nil {
		t.Fatal(err)
	}
	if r.String() != "x**2 + y" {
		t.Errorf("want x**2 + y, got %s", r)
	}
}

func TestIntegrateText_Definite(t *testing.T) {
	r, err := symcalc.IntegrateText("x", "x", "0", "1")
	if err != nil {
		t.Fatal(err)
	}
	if r.String() != "1/2" {
		t.Errorf("want 1/2, got %s", r)
	}
}

func TestIntegrateText_BoundSwapNegates(t *testing.T) {
	for _, in := range []string{"x^2 + 3*x", "exp(x)", "f(x)"} {
		ab, err := symcalc.IntegrateText(in, "x", "1", "2")
		if err != nil {
			t.Fatal(err)
		}
		ba, err := symcalc.IntegrateText(in, "x", "2", "1")
		if err != nil {
			t.Fatal(err)
		}
		if sum := symcalc.Expand(symcalc.AddOf(ab, ba)); sum.String() != "0" {
			t.Errorf("%s: integral(a, b) + integral(b, a) = %s, want 0", in, sum)
		}
	}
}

func TestIntegrateText_IndefiniteDefaultVariable(t *testing.T) {
	r, err := symcalc.IntegrateText("3*t^2", "", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if r.String() != "t**3" {
		t.Errorf("want t**3, got %s", r)
	}
	r, err = symcalc.IntegrateText("2", "", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if r.String() != "2*x" {
		t.Errorf("want 2*x, got %s", r)
	}
}

func TestSolveText_Equation(t *testing.T) {
	s, err := symcalc.SolveText("x^2 = 9", "x")
	if err != nil {
		t.Fatal(err)
	}
	if s.String() != "{-3, 3}" {
		t.Errorf("want {-3, 3}, got %s", s)
	}
}

func TestEvalText_Numeric(t *testing.T) {
	r, err := symcalc.EvalText("x*y + 2", map[string]string{"x": "3", "y": "7"}, true)
	if err != nil {
		t.Fatal(err)
	}
	if r.String() != "23.0000000000000" {
		t.Errorf("want 23.0000000000000, got %s", r)
	}
}

func TestEvalText_ExactWithoutNumeric(t *testing.T) {
	r, err := symcalc.EvalText("x/2 + y", map[string]string{"x": "3"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if r.String() != "y + 3/2" {
		t.Errorf("want y + 3/2, got %s", r)
	}
}

func TestEvalText_SimultaneousSubstitution(t *testing.T) {
	r, err := symcalc.EvalText("x - 2*y", map[string]string{"x": "y", "y": "x"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if r.String() != "-2*x + y" {
		t.Errorf("want -2*x + y, got %s", r)
	}
}

func TestSubs_DoesNotMutate(t *testing.T) {
	e := symcalc.MustParse("x^2 + y")
	before := e.String()
	_ = symcalc.Subs(e, map[string]symcalc.Expr{"x": symcalc.N(3)})
	if e.String() != before {
		t.Errorf("Subs changed its input: %s -> %s", before, e)
	}
}

func TestLatexText(t *testing.T) {
	l, err := symcalc.LatexText("sin(x)^2 + cos(x)^2")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(l, `\sin`) || !strings.Contains(l, `\cos`) {
		t.Errorf("want \\sin and \\cos in LaTeX, got %s", l)
	}
}

// ============================================================
// Errors
// ============================================================

func TestOperations_ParseError(t *testing.T) {
	ops := map[string]func(string) error{
		"simplify": func(s string) error { _, err := symcalc.SimplifyText(s); return err },
		"diff":     func(s string) error { _, err := symcalc.DiffText(s, "", 1); return err },
		"solve":    func(s string) error { _, err := symcalc.SolveText(s, ""); return err },
		"latex":    func(s string) error { _, err := symcalc.LatexText(s); return err },
	}
	for name, op := range ops {
		err := op("2 +* 3")
		var pe *symcalc.ParseError
		if !errors.As(err, &pe) {
			t.Errorf("%s: want ParseError, got %v", name, err)
		}
	}
}

func TestDiffText_NegativeOrder(t *testing.T) {
	_, err := symcalc.DiffText("x", "x", -1)
	var ee *symcalc.EvalError
	if !errors.As(err, &ee) {
		t.Fatalf("want EvalError, got %v", err)
	}
	if !errors.Is(err, symcalc.ErrNegativeOrder) {
		t.Errorf("want ErrNegativeOrder, got %v", err)
	}
}

func TestIntegrateText_SingleBound(t *testing.T) {
	_, err := symcalc.IntegrateText("x", "x", "0", "")
	if !errors.Is(err, symcalc.ErrMissingIntegralBound) {
		t.Errorf("want ErrMissingIntegralBound, got %v", err)
	}
}

func TestParseSubstitutions(t *testing.T) {
	m, err := symcalc.ParseSubstitutions([]string{"x=3", " y =1/2", "x=4"})
	if err != nil {
		t.Fatal(err)
	}
	if m["x"] != "4" || m["y"] != "1/2" || len(m) != 2 {
		t.Errorf("unexpected substitutions: %v", m)
	}
	for _, bad := range []string{"x", "=3"} {
		if _, err := symcalc.ParseSubstitutions([]string{bad}); !errors.Is(err, symcalc.ErrInvalidSubstitution) {
			t.Errorf("%q: want ErrInvalidSubstitution, got %v", bad, err)
		}
	}
}

// ============================================================
// Infinity and branch cuts
// ============================================================

func TestSimplifyText_Infinity(t *testing.T) {
	cases := map[string]string{
		"oo - oo":      "nan",
		"0*oo":         "nan",
		"oo/oo":        "nan",
		"x - oo + oo":  "nan",
		"1^oo":         "nan",
		"sin(oo - oo)": "nan",
		"5 - oo":       "-oo",
		"2*oo + 3":     "oo",
		"x + oo":       "x + oo",
		"x/oo":         "0",
	}
	for in, want := range cases {
		got, err := symcalc.SimplifyText(in)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if got.String() != want {
			t.Errorf("simplify(%s): want %s, got %s", in, want, got)
		}
	}
}

func TestLogExp_PrincipalBranch(t *testing.T) {
	got, err := symcalc.EvalText("log(exp(x))", map[string]string{"x": "2*pi*I"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != "0" {
		t.Errorf("log(exp(2*pi*I)): want 0, got %s", got)
	}
	cases := map[string]string{
		"log(exp(2*pi*I))": "0",
		"exp(I*pi)":        "-1",
		"exp(I*pi/2)":      "I",
		"log(exp(2))":      "2",
		"log(exp(x))":      "log(exp(x))",
	}
	for in, want := range cases {
		got, err := symcalc.SimplifyText(in)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if got.String() != want {
			t.Errorf("simplify(%s): want %s, got %s", in, want, got)
		}
	}
}
