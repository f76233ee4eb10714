package symcalc_test

import (
	"strings"
	"testing"

	"github.com/njchilds90/symcalc"
)

// ============================================================
// Solve tests
// ============================================================

func solveString(t *testing.T, text, v string) string {
	t.Helper()
	s, err := symcalc.SolveText(text, v)
	if err != nil {
		t.Fatalf("solve(%s): %v", text, err)
	}
	return s.String()
}

func TestSolve_Polynomials(t *testing.T) {
	cases := []struct{ in, want string }{
		{"x^2 - 5*x + 6", "{2, 3}"},
		{"x^2 + 1", "{-I, I}"},
		{"x^2 = 2", "{-sqrt(2), sqrt(2)}"},
		{"2*x + 1 = 0", "{-1/2}"},
		{"x^3 - x", "{-1, 0, 1}"},
		{"(x - 1)^2", "{1}"},
		{"x^4 - 1", "{-1, 1, -I, I}"},
	}
	for _, c := range cases {
		if got := solveString(t, c.in, "x"); got != c.want {
			t.Errorf("solve(%s): want %s, got %s", c.in, c.want, got)
		}
	}
}

// Every finite root makes the residual vanish exactly.
func TestSolve_RootsSatisfyEquation(t *testing.T) {
	for _, in := range []string{"x^2 - 3*x - 1", "3*x^2 + 2*x + 5", "x^3 - 2*x^2 - x + 2", "x^4 - 5*x^2 + 6"} {
		e := symcalc.MustParse(in)
		s, ok := symcalc.Solve(e, "x").(*symcalc.FiniteSet)
		if !ok {
			t.Errorf("solve(%s): want a finite set, got %s", in, symcalc.Solve(e, "x"))
			continue
		}
		for _, r := range s.Elems() {
			v := symcalc.Expand(symcalc.Subs(e, map[string]symcalc.Expr{"x": r}))
			if v.String() != "0" {
				t.Errorf("solve(%s): root %s leaves residual %s", in, r, v)
			}
		}
	}
}

func TestSolve_SymbolicCoefficients(t *testing.T) {
	if got := solveString(t, "a*x + b", "x"); got != "{-b/a}" {
		t.Errorf("want {-b/a}, got %s", got)
	}
}

func TestSolve_ExcludesPoles(t *testing.T) {
	if got := solveString(t, "(x^2 - 1)/(x - 1)", "x"); got != "{-1}" {
		t.Errorf("want {-1}, got %s", got)
	}
}

func TestSolve_Degenerate(t *testing.T) {
	cases := []struct{ in, v, want string }{
		{"2", "", "EmptySet"},
		{"x - x", "", "EmptySet"},
		{"x - x", "x", "Complexes"},
		{"3 = 4", "x", "EmptySet"},
	}
	for _, c := range cases {
		if got := solveString(t, c.in, c.v); got != c.want {
			t.Errorf("solve(%s, %q): want %s, got %s", c.in, c.v, c.want, got)
		}
	}
}

func TestSolve_Periodic(t *testing.T) {
	for _, in := range []string{"sin(x)", "cos(x) = 1/2", "exp(x) = 1", "tan(2*x) = 1"} {
		got := solveString(t, in, "x")
		if !strings.Contains(got, "ImageSet(Lambda(n, ") {
			t.Errorf("solve(%s): want an ImageSet family, got %s", in, got)
		}
	}
}

func TestSolve_LogAndRadical(t *testing.T) {
	if got := solveString(t, "log(x) = 1", "x"); got != "{exp(1)}" {
		t.Errorf("want {exp(1)}, got %s", got)
	}
	if got := solveString(t, "sqrt(x) = 3", "x"); got != "{9}" {
		t.Errorf("want {9}, got %s", got)
	}
	if got := solveString(t, "sqrt(x) + 1", "x"); got != "EmptySet" {
		t.Errorf("want EmptySet, got %s", got)
	}
}

func TestSolve_Unsolvable(t *testing.T) {
	got := solveString(t, "x^5 - x + 1", "x")
	if !strings.HasPrefix(got, "ConditionSet(x, ") {
		t.Errorf("want ConditionSet, got %s", got)
	}
	got = solveString(t, "x - cos(x)", "x")
	if got != "ConditionSet(x, Eq(x - cos(x), 0), Complexes)" {
		t.Errorf("want ConditionSet(x, Eq(x - cos(x), 0), Complexes), got %s", got)
	}
}

func TestSolveEquation(t *testing.T) {
	x := symcalc.S("x")
	eq := symcalc.Eq(symcalc.PowOf(x, symcalc.N(2)), symcalc.N(4))
	if eq.String() != "Eq(x**2, 4)" {
		t.Errorf("want Eq(x**2, 4), got %s", eq)
	}
	if got := symcalc.SolveEquation(eq, "x").String(); got != "{-2, 2}" {
		t.Errorf("want {-2, 2}, got %s", got)
	}
}
