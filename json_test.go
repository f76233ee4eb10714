package symcalc_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/njchilds90/symcalc"
)

// ============================================================
// JSON tests
// ============================================================

func TestJSON_RoundTrip(t *testing.T) {
	for _, in := range []string{
		"x**3 + 3*x**2 + 3*x + 1",
		"sin(x)/cos(y) - 2/3",
		"exp(-x**2)*pi + I",
		"f(x, y) + 1.5*z",
	} {
		e := symcalc.MustParse(in)
		s, err := symcalc.ToJSON(e)
		if err != nil {
			t.Fatal(err)
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			t.Fatalf("%s: invalid JSON %s: %v", in, s, err)
		}
		back, err := symcalc.FromJSON(m)
		if err != nil {
			t.Fatalf("%s: FromJSON: %v", in, err)
		}
		if !back.Equal(e) {
			t.Errorf("round trip: %s became %s", e, back)
		}
	}
}

func TestJSON_UnevaluatedNodes(t *testing.T) {
	for _, e := range []symcalc.Expr{
		symcalc.Integrate(symcalc.MustParse("f(x)"), "x"),
		symcalc.MustParse("f(x)").Diff("x"),
	} {
		s, err := symcalc.ToJSON(e)
		if err != nil {
			t.Fatal(err)
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			t.Fatal(err)
		}
		back, err := symcalc.FromJSON(m)
		if err != nil {
			t.Fatalf("%s: FromJSON: %v", e, err)
		}
		if back.String() != e.String() {
			t.Errorf("round trip: %s became %s", e, back)
		}
	}
}

func TestJSON_Sets(t *testing.T) {
	s, err := symcalc.SolveText("x^2 = 9", "x")
	if err != nil {
		t.Fatal(err)
	}
	out, err := symcalc.ToJSON(s)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"type":"finiteset"`) {
		t.Errorf("want finiteset node, got %s", out)
	}
}

func TestFromJSON_Errors(t *testing.T) {
	cases := []map[string]interface{}{
		nil,
		{},
		{"type": "bogus"},
		{"type": "num", "value": "abc"},
		{"type": "pow", "base": map[string]interface{}{"type": "sym", "name": "x"}},
		{"type": "const", "name": "tau"},
		{"type": "add", "terms": "x"},
	}
	for _, c := range cases {
		if _, err := symcalc.FromJSON(c); err == nil {
			t.Errorf("FromJSON(%v): want error", c)
		}
	}
}
