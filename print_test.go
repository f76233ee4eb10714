package symcalc_test

import (
	"strings"
	"testing"

	"github.com/njchilds90/symcalc"
)

// ============================================================
// Printer tests
// ============================================================

func TestLatex_Basics(t *testing.T) {
	x := symcalc.S("x")
	cases := []struct {
		e    symcalc.Expr
		want string
	}{
		{symcalc.F(2, 5), `\frac{2}{5}`},
		{symcalc.SqrtOf(x), `\sqrt{x}`},
		{symcalc.PowOf(x, symcalc.N(2)), `x^{2}`},
		{symcalc.Pi, `\pi`},
	}
	for _, c := range cases {
		if got := symcalc.Latex(c.e); got != c.want {
			t.Errorf("Latex(%s): want %s, got %s", c.e, c.want, got)
		}
	}
}

func TestLatex_Sets(t *testing.T) {
	if got := symcalc.EmptySet().LaTeX(); got != `\emptyset` {
		t.Errorf(`want \emptyset, got %s`, got)
	}
	s := symcalc.NewFiniteSet(symcalc.N(3), symcalc.N(-3))
	if got := s.LaTeX(); got != `\left\{-3, 3\right\}` {
		t.Errorf(`want \left\{-3, 3\right\}, got %s`, got)
	}
}

func TestPretty_Glyphs(t *testing.T) {
	e := symcalc.MulOf(symcalc.N(6), symcalc.S("x"))
	if got := symcalc.Pretty(e, symcalc.PrettyOptions{Unicode: true}); got != "6⋅x" {
		t.Errorf("want 6⋅x, got %s", got)
	}
	if got := symcalc.Pretty(e, symcalc.PrettyOptions{}); got != "6*x" {
		t.Errorf("want 6*x, got %s", got)
	}
	if got := symcalc.Pretty(symcalc.EmptySet(), symcalc.PrettyOptions{Unicode: true}); got != "∅" {
		t.Errorf("want ∅, got %s", got)
	}
	if got := symcalc.Pretty(symcalc.Complexes, symcalc.PrettyOptions{}); got != "Complexes" {
		t.Errorf("want Complexes, got %s", got)
	}
}

func TestPretty_RaisedExponent(t *testing.T) {
	out := symcalc.Pretty(symcalc.MustParse("x^2"), symcalc.PrettyOptions{Unicode: true})
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("want exponent on its own line, got %q", out)
	}
	if strings.TrimSpace(lines[0]) != "2" || strings.TrimSpace(lines[1]) != "x" {
		t.Errorf("unexpected layout %q", out)
	}
}

func TestNewFiniteSet_Canonical(t *testing.T) {
	s := symcalc.NewFiniteSet(symcalc.N(2), symcalc.N(-1), symcalc.N(2), symcalc.I)
	if s.String() != "{-1, 2, I}" {
		t.Errorf("want {-1, 2, I}, got %s", s)
	}
	if s.Len() != 3 || !s.Contains(symcalc.I) {
		t.Errorf("unexpected elements %s", s)
	}
}
