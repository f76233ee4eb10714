package symcalc

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ============================================================
// MCP Tool Interface
// ============================================================

// ToolRequest is one tool call. Expressions are passed as text in the
// parser's grammar.
type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func HandleToolCall(req ToolRequest) ToolResponse {
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	optString := func(key string) (string, error) {
		if _, ok := req.Params[key]; !ok {
			return "", nil
		}
		return getString(key)
	}
	getExpr := func(key string) (Expr, error) {
		s, err := getString(key)
		if err != nil {
			return nil, err
		}
		return Parse(s)
	}
	respond := func(v Printable, err error) ToolResponse {
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{Result: Tree(v), LaTeX: v.LaTeX(), String: v.String()}
	}

	switch req.Tool {
	case "simplify", "expand", "factor", "latex":
		text, err := getString("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		switch req.Tool {
		case "simplify":
			return respond(SimplifyText(text))
		case "expand":
			return respond(ExpandText(text))
		case "factor":
			return respond(FactorText(text))
		}
		l, err := LatexText(text)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{LaTeX: l, String: l}

	case "diff":
		text, err := getString("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		v, err := optString("var")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		order := 1
		if o, ok := req.Params["order"]; ok {
			f, ok := o.(float64)
			if !ok {
				return ToolResponse{Error: "param order must be a number"}
			}
			order = int(f)
		}
		return respond(DiffText(text, v, order))

	case "integrate":
		text, err := getString("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		v, err := optString("var")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		a, err := optString("a")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		b, err := optString("b")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(IntegrateText(text, v, a, b))

	case "solve":
		text, err := getString("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		v, err := optString("var")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		s, err := SolveText(text, v)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(s, nil)

	case "eval":
		text, err := getString("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		subs := map[string]string{}
		if raw, ok := req.Params["subs"]; ok {
			m, ok := raw.(map[string]interface{})
			if !ok {
				return ToolResponse{Error: "param subs must be an object"}
			}
			for k, v := range m {
				switch val := v.(type) {
				case string:
					subs[k] = val
				case float64:
					subs[k] = formatFloat(val, false)
				default:
					return ToolResponse{Error: fmt.Sprintf("param subs[%s] must be a string or number", k)}
				}
			}
		}
		numeric, _ := req.Params["numeric"].(bool)
		return respond(EvalText(text, subs, numeric))

	case "free_symbols":
		e, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		syms := FreeSymbols(e)
		return ToolResponse{Result: syms, String: strings.Join(syms, ", ")}

	case "degree":
		e, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		v, err := getString("var")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		d, ok := Degree(e, v)
		if !ok {
			return ToolResponse{Error: fmt.Sprintf("%s is not a polynomial in %s", e, v)}
		}
		return ToolResponse{Result: d, String: fmt.Sprint(d)}

	case "poly_coeffs":
		e, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		v, err := getString("var")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		cs, ok := Coeffs(e, v)
		if !ok {
			return ToolResponse{Error: fmt.Sprintf("%s is not a polynomial in %s", e, v)}
		}
		result := map[string]string{}
		for deg, c := range cs {
			if !isZero(c) {
				result[fmt.Sprintf("%d", deg)] = c.String()
			}
		}
		return ToolResponse{Result: result}

	case "cancel", "together", "trig_simplify":
		e, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		var out Expr
		err = guard(req.Tool, e.String(), func() error {
			switch req.Tool {
			case "cancel":
				out = Cancel(e)
			case "together":
				out = Together(e)
			default:
				out = TrigSimplify(e)
			}
			return nil
		})
		return respond(out, err)

	case "mcp_spec":
		return ToolResponse{Result: MCPToolSpec(), String: "MCP tool specification"}
	}

	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

func MCPToolSpec() string {
	expr := map[string]string{"expr": "string"}
	exprVar := map[string]string{"expr": "string", "var": "string"}
	tools := []map[string]interface{}{
		ts("simplify", "Simplify an expression", []string{"expr"}, expr),
		ts("expand", "Expand products and powers", []string{"expr"}, expr),
		ts("factor", "Factor over the rationals", []string{"expr"}, expr),
		ts("diff", "Derivative; optional var and order (default 1)", []string{"expr"}, map[string]string{"expr": "string", "var": "string", "order": "integer"}),
		ts("integrate", "Antiderivative, or definite integral when a and b are given", []string{"expr"}, map[string]string{"expr": "string", "var": "string", "a": "string", "b": "string"}),
		ts("solve", "Solve expr = 0 or left = right over the complex numbers", []string{"expr"}, exprVar),
		ts("eval", "Substitute subs (name -> value) and optionally evaluate numerically", []string{"expr"}, map[string]string{"expr": "string", "subs": "object", "numeric": "boolean"}),
		ts("latex", "Render as LaTeX", []string{"expr"}, expr),
		ts("free_symbols", "Free symbol names in first-occurrence order", []string{"expr"}, expr),
		ts("degree", "Polynomial degree in var", []string{"expr", "var"}, exprVar),
		ts("poly_coeffs", "Polynomial coefficients by degree", []string{"expr", "var"}, exprVar),
		ts("cancel", "Cancel common factors of a rational function", []string{"expr"}, expr),
		ts("together", "Combine over a common denominator", []string{"expr"}, expr),
		ts("trig_simplify", "Apply trig identities (sin²+cos²=1, sin/cos=tan)", []string{"expr"}, expr),
		ts("mcp_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
