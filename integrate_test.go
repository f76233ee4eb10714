package symcalc_test

import (
	"math"
	"strings"
	"testing"

	"github.com/njchilds90/symcalc"
)

// ============================================================
// Integrate tests
// ============================================================

// Each antiderivative is checked by differentiating it back and comparing
// values at sample points inside the real domain of the result.
func TestIntegrate_DerivativeRecoversIntegrand(t *testing.T) {
	cases := []struct {
		in     string
		points []float64
	}{
		{"x^3 - 2*x + 5", []float64{-1.5, 0.4, 2}},
		{"sqrt(x)", []float64{0.5, 3}},
		{"1/x", []float64{0.5, 3}},
		{"sin(x)", []float64{0.3, 2}},
		{"cos(2*x + 1)", []float64{0.3, 2}},
		{"exp(3*x)", []float64{-1, 0.5}},
		{"2^x", []float64{-1, 0.5}},
		{"tan(x)", []float64{0.2, 0.9}},
		{"sinh(x) + cosh(x)", []float64{-1, 1}},
		{"1/(x^2 + 1)", []float64{-2, 0.7}},
		{"1/(x^2 + 4)", []float64{-2, 0.7}},
		{"x/(x^2 + 1)", []float64{-2, 0.7}},
		{"1/(x^2 - 1)", []float64{1.5, 3}},
		{"(2*x + 3)/(x^2 + 3*x + 2)", []float64{0.5, 3}},
		{"1/(x^2 + x + 1)", []float64{-0.4, 1.2}},
		{"x*exp(x)", []float64{-1, 1.5}},
		{"x^2*sin(x)", []float64{0.4, 2.2}},
		{"x*cos(3*x)", []float64{0.4, 2.2}},
		{"log(x)", []float64{0.5, 4}},
		{"x*log(x)", []float64{0.5, 4}},
		{"atan(x)", []float64{-1, 2}},
		{"sin(x)^2", []float64{0.3, 2}},
		{"2*x*cos(x^2)", []float64{0.3, 1.4}},
		{"sin(x)*cos(x)", []float64{0.3, 1.4}},
		{"exp(x)/(exp(x) + 1)", []float64{-1, 1}},
		{"(x + 1)^2*(x - 2)", []float64{-1, 1}},
	}
	for _, c := range cases {
		f := symcalc.MustParse(c.in)
		anti := symcalc.Integrate(f, "x")
		if strings.Contains(anti.String(), "Integral(") {
			t.Errorf("integrate(%s) left unevaluated: %s", c.in, anti)
			continue
		}
		d := anti.Diff("x")
		for _, p := range c.points {
			if got, want := valueAt(t, d, "x", p), valueAt(t, f, "x", p); !near(got, want) {
				t.Errorf("d/dx integrate(%s) = %s; at x=%g got %g, want %g", c.in, anti, p, got, want)
			}
		}
	}
}

func TestIntegrate_PowerRule(t *testing.T) {
	cases := map[string]string{
		"x":       "x**2/2",
		"3*x^2":   "x**3",
		"5":       "5*x",
		"x^2 + y": "x**3/3 + x*y",
	}
	for in, want := range cases {
		got := symcalc.Integrate(symcalc.MustParse(in), "x")
		if got.String() != want {
			t.Errorf("integrate(%s): want %s, got %s", in, want, got)
		}
	}
}

func TestIntegrate_Unevaluated(t *testing.T) {
	got := symcalc.Integrate(symcalc.MustParse("f(x)"), "x")
	if got.String() != "Integral(f(x), x)" {
		t.Errorf("want Integral(f(x), x), got %s", got)
	}
	got = symcalc.Integrate(symcalc.MustParse("2*x + f(x)"), "x")
	if got.String() != "x**2 + Integral(f(x), x)" {
		t.Errorf("want x**2 + Integral(f(x), x), got %s", got)
	}
}

func TestIntegrateDefinite_Exact(t *testing.T) {
	x := symcalc.S("x")
	got := symcalc.IntegrateDefinite(symcalc.SinOf(x), "x", symcalc.N(0), symcalc.Pi)
	if got.String() != "2" {
		t.Errorf("integral of sin over [0, pi]: want 2, got %s", got)
	}
	got = symcalc.IntegrateDefinite(symcalc.PowOf(x, symcalc.N(2)), "x", symcalc.N(0), symcalc.N(3))
	if got.String() != "9" {
		t.Errorf("integral of x**2 over [0, 3]: want 9, got %s", got)
	}
}

func TestIntegrateDefinite_SymbolicBounds(t *testing.T) {
	got, err := symcalc.IntegrateText("2*x", "x", "a", "b")
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != "-a**2 + b**2" {
		t.Errorf("want -a**2 + b**2, got %s", got)
	}
}

func TestIntegrateDefinite_NumericFallback(t *testing.T) {
	got, err := symcalc.IntegrateText("exp(-x^2)", "x", "0", "1")
	if err != nil {
		t.Fatal(err)
	}
	f, ok := symcalc.Evalf(got).(*symcalc.Float)
	if !ok {
		t.Fatalf("want a float from Evalf, got %s", symcalc.Evalf(got))
	}
	if want := 0.7468241328124271; math.Abs(f.Float64()-want) > 1e-9 {
		t.Errorf("want %g, got %g", want, f.Float64())
	}
}

func TestIntegrate_RepeatedParts(t *testing.T) {
	cases := map[string]string{
		"x*sin(x)": "-x*cos(x) + sin(x)",
		"x*cos(x)": "x*sin(x) + cos(x)",
	}
	for in, want := range cases {
		got, err := symcalc.IntegrateText(in, "x", "", "")
		if err != nil {
			t.Fatal(err)
		}
		if got.String() != want {
			t.Errorf("integrate(%s): want %s, got %s", in, want, got)
		}
	}
	for _, in := range []string{"x*exp(2*x)", "x^2*sin(x)", "x^3*cos(2*x)", "x^2*exp(-x)", "x*sinh(3*x)"} {
		f := symcalc.MustParse(in)
		anti := symcalc.Integrate(f, "x")
		if strings.Contains(anti.String(), "Integral(") {
			t.Errorf("integrate(%s) left unevaluated: %s", in, anti)
			continue
		}
		if got, want := valueAt(t, anti.Diff("x"), "x", 0.8), valueAt(t, f, "x", 0.8); !near(got, want) {
			t.Errorf("d/dx integrate(%s) = %g at 0.8, want %g", in, got, want)
		}
	}
}

func TestIntegrate_SubstitutionKeepsInnerSum(t *testing.T) {
	got := symcalc.Integrate(symcalc.MustParse("exp(x)/(exp(x) + 1)"), "x")
	if got.String() != "log(exp(x) + 1)" {
		t.Errorf("want log(exp(x) + 1), got %s", got)
	}
}

func TestIntegrateText_InfiniteBounds(t *testing.T) {
	cases := []struct{ in, a, b, want string }{
		{"exp(-x)", "0", "oo", "1"},
		{"x", "-oo", "oo", "nan"},
	}
	for _, c := range cases {
		got, err := symcalc.IntegrateText(c.in, "x", c.a, c.b)
		if err != nil {
			t.Fatal(err)
		}
		if got.String() != c.want {
			t.Errorf("integral of %s over [%s, %s]: want %s, got %s", c.in, c.a, c.b, c.want, got)
		}
	}
}
