package symcalc_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/njchilds90/symcalc"
)

// ============================================================
// Tool call tests
// ============================================================

func call(tool string, params map[string]interface{}) symcalc.ToolResponse {
	return symcalc.HandleToolCall(symcalc.ToolRequest{Tool: tool, Params: params})
}

func TestHandleToolCall_Operations(t *testing.T) {
	cases := []struct {
		tool   string
		params map[string]interface{}
		want   string
	}{
		{"simplify", map[string]interface{}{"expr": "sin(x)^2 + cos(x)^2"}, "1"},
		{"expand", map[string]interface{}{"expr": "(x+1)^3"}, "x**3 + 3*x**2 + 3*x + 1"},
		{"factor", map[string]interface{}{"expr": "x^2 + 2*x + 1"}, "(x + 1)**2"},
		{"diff", map[string]interface{}{"expr": "x^3", "var": "x", "order": float64(2)}, "6*x"},
		{"integrate", map[string]interface{}{"expr": "x", "a": "0", "b": "1"}, "1/2"},
		{"solve", map[string]interface{}{"expr": "x^2 = 9"}, "{-3, 3}"},
		{"eval", map[string]interface{}{"expr": "x*y + 2", "subs": map[string]interface{}{"x": float64(3), "y": "7"}, "numeric": true}, "23.0000000000000"},
		{"cancel", map[string]interface{}{"expr": "(x^2 - 1)/(x - 1)"}, "x + 1"},
		{"free_symbols", map[string]interface{}{"expr": "x + y"}, "x, y"},
		{"degree", map[string]interface{}{"expr": "x^4 + x", "var": "x"}, "4"},
	}
	for _, c := range cases {
		resp := call(c.tool, c.params)
		if resp.Error != "" {
			t.Errorf("%s: unexpected error %s", c.tool, resp.Error)
			continue
		}
		if resp.String != c.want {
			t.Errorf("%s: want %s, got %s", c.tool, c.want, resp.String)
		}
	}
}

func TestHandleToolCall_Latex(t *testing.T) {
	resp := call("latex", map[string]interface{}{"expr": "sin(x)^2 + cos(x)^2"})
	if resp.Error != "" {
		t.Fatal(resp.Error)
	}
	if !strings.Contains(resp.LaTeX, `\sin`) {
		t.Errorf("want \\sin in %s", resp.LaTeX)
	}
}

func TestHandleToolCall_PolyCoeffs(t *testing.T) {
	resp := call("poly_coeffs", map[string]interface{}{"expr": "3*x^2 - 1", "var": "x"})
	if resp.Error != "" {
		t.Fatal(resp.Error)
	}
	m, ok := resp.Result.(map[string]string)
	if !ok {
		t.Fatalf("want map result, got %T", resp.Result)
	}
	if m["2"] != "3" || m["0"] != "-1" || len(m) != 2 {
		t.Errorf("unexpected coefficients %v", m)
	}
}

func TestHandleToolCall_Errors(t *testing.T) {
	cases := []struct {
		tool   string
		params map[string]interface{}
	}{
		{"nope", nil},
		{"simplify", map[string]interface{}{}},
		{"simplify", map[string]interface{}{"expr": 3}},
		{"simplify", map[string]interface{}{"expr": "2 +"}},
		{"diff", map[string]interface{}{"expr": "x", "order": "two"}},
		{"diff", map[string]interface{}{"expr": "x", "order": float64(-1)}},
		{"integrate", map[string]interface{}{"expr": "x", "a": "0"}},
		{"degree", map[string]interface{}{"expr": "sin(x)", "var": "x"}},
		{"eval", map[string]interface{}{"expr": "x", "subs": []interface{}{"x=1"}}},
	}
	for _, c := range cases {
		if resp := call(c.tool, c.params); resp.Error == "" {
			t.Errorf("%s %v: want error, got %+v", c.tool, c.params, resp)
		}
	}
}

func TestMCPToolSpec(t *testing.T) {
	var spec struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	if err := json.Unmarshal([]byte(symcalc.MCPToolSpec()), &spec); err != nil {
		t.Fatal(err)
	}
	names := map[string]bool{}
	for _, tool := range spec.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"simplify", "expand", "factor", "diff", "integrate", "solve", "eval", "latex"} {
		if !names[want] {
			t.Errorf("tool spec missing %s", want)
		}
	}
}
