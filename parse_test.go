package symcalc_test

import (
	"errors"
	"testing"

	"github.com/njchilds90/symcalc"
)

// ============================================================
// Parse tests
// ============================================================

func TestParse_Grammar(t *testing.T) {
	cases := []struct{ in, want string }{
		{"2x", "2*x"},
		{"x^2", "x**2"},
		{"x**2", "x**2"},
		{"sin x", "sin(x)"},
		{"xy", "x*y"},
		{"x1 + x2", "x1 + x2"},
		{"ln(x)", "log(x)"},
		{"abs(x)", "Abs(x)"},
		{"3!", "6"},
		{"1/3 + 1/6", "1/2"},
		{"2 - x", "-x + 2"},
		{"pi", "pi"},
		{"2+2", "4"},
		{"sin^2 x", "sin(x)**2"},
		{"-x^2", "-x**2"},
	}
	for _, c := range cases {
		e, err := symcalc.Parse(c.in)
		if err != nil {
			t.Errorf("Parse(%q): %v", c.in, err)
			continue
		}
		if e.String() != c.want {
			t.Errorf("Parse(%q): want %s, got %s", c.in, c.want, e)
		}
	}
}

func TestParse_UndefinedFunctions(t *testing.T) {
	e, err := symcalc.Parse("f(x) + g(x, y)")
	if err != nil {
		t.Fatal(err)
	}
	if e.String() != "f(x) + g(x, y)" {
		t.Errorf("want f(x) + g(x, y), got %s", e)
	}
	e, err = symcalc.Parse("phi(t)", symcalc.WithFunctions("phi"))
	if err != nil {
		t.Fatal(err)
	}
	fn, ok := e.(*symcalc.Func)
	if !ok || fn.FuncName() != "phi" {
		t.Errorf("want phi(t) as function, got %s", e)
	}
}

func TestParse_Locals(t *testing.T) {
	e, err := symcalc.Parse("a*x + a", symcalc.WithLocals(map[string]symcalc.Expr{"a": symcalc.N(2)}))
	if err != nil {
		t.Fatal(err)
	}
	if e.String() != "2*x + 2" {
		t.Errorf("want 2*x + 2, got %s", e)
	}
}

func TestParse_StrictGrammar(t *testing.T) {
	_, err := symcalc.Parse("2x", symcalc.WithGrammar(symcalc.Grammar{}))
	var pe *symcalc.ParseError
	if !errors.As(err, &pe) {
		t.Errorf("2x without implicit multiplication: want ParseError, got %v", err)
	}
}

// Printing and re-parsing is the identity on canonical trees.
func TestParse_StringRoundTrip(t *testing.T) {
	for _, in := range []string{
		"x**3 + 3*x**2 + 3*x + 1",
		"sin(x)**2 + cos(x)**2",
		"exp(-x)/(x + 1)",
		"sqrt(x) + 1/sqrt(y)",
		"2*x*y/3 - 5",
		"log(x + E) + atan(x/2)",
	} {
		e := symcalc.MustParse(in)
		again, err := symcalc.Parse(e.String())
		if err != nil {
			t.Fatalf("reparse %s: %v", e, err)
		}
		if !again.Equal(e) {
			t.Errorf("round trip: %s became %s", e, again)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"", "   ", "(x + 1", "x +", "2 $ 3", ")"} {
		_, err := symcalc.Parse(in)
		var pe *symcalc.ParseError
		if !errors.As(err, &pe) {
			t.Errorf("Parse(%q): want ParseError, got %v", in, err)
		}
	}
	_, err := symcalc.Parse("")
	if !errors.Is(err, symcalc.ErrEmptyExpression) {
		t.Errorf("want ErrEmptyExpression, got %v", err)
	}
}

func TestFreeSymbols_FirstOccurrence(t *testing.T) {
	syms := symcalc.FreeSymbols(symcalc.MustParse("sin(y) + x*y"))
	if len(syms) != 2 {
		t.Fatalf("want 2 symbols, got %v", syms)
	}
	if _, ok := symcalc.DefaultVariable(symcalc.MustParse("pi + 2")); ok {
		t.Errorf("constants have no default variable")
	}
}
