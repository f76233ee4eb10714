package symcalc

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// ============================================================
// JSON Serialization
// ============================================================

// Tree returns the node map of an expression or solution set, the form
// shared by the JSON and YAML outputs.
func Tree(v Printable) map[string]interface{} {
	switch x := v.(type) {
	case Expr:
		return x.toJSON()
	case Set:
		return x.toJSON()
	}
	return map[string]interface{}{"type": "text", "value": v.String()}
}

func ToJSON(v Printable) (string, error) {
	b, err := json.Marshal(Tree(v))
	return string(b), err
}

// FromJSON rebuilds an expression from its node map. Constructors re-run,
// so the result is canonical even when the input is not.
func FromJSON(data map[string]interface{}) (Expr, error) {
	if data == nil {
		return nil, fmt.Errorf("expression must be an object")
	}
	typAny, ok := data["type"]
	if !ok {
		return nil, fmt.Errorf("missing 'type' field")
	}
	typ, ok := typAny.(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("field 'type' must be a non-empty string")
	}

	subObj := func(field string) (Expr, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%s: missing %q", typ, field)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %q must be an object", typ, field)
		}
		e, err := FromJSON(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", typ, field, err)
		}
		return e, nil
	}

	subObjArray := func(field string) ([]Expr, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%s: missing %q", typ, field)
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %q must be an array", typ, field)
		}
		out := make([]Expr, len(raw))
		for i, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%s: %q[%d] must be an object", typ, field, i)
			}
			e, err := FromJSON(m)
			if err != nil {
				return nil, fmt.Errorf("%s: %s[%d]: %w", typ, field, i, err)
			}
			out[i] = e
		}
		return out, nil
	}

	subString := func(field string) (string, error) {
		v, ok := data[field]
		if !ok {
			return "", fmt.Errorf("%s: missing %q", typ, field)
		}
		s, ok := v.(string)
		if !ok || s == "" {
			return "", fmt.Errorf("%s: %q must be a non-empty string", typ, field)
		}
		return s, nil
	}

	subNumber := func(field string) (float64, error) {
		v, ok := data[field]
		if !ok {
			return 0, fmt.Errorf("%s: missing %q", typ, field)
		}
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		}
		return 0, fmt.Errorf("%s: %q must be a number", typ, field)
	}

	switch typ {
	case "num":
		val, err := subString("value")
		if err != nil {
			return nil, err
		}
		r := new(big.Rat)
		if _, ok := r.SetString(val); !ok {
			return nil, fmt.Errorf("invalid num value: %s", val)
		}
		return newNum(r), nil

	case "float":
		f, err := subNumber("value")
		if err != nil {
			return nil, err
		}
		return NFloat(f), nil

	case "sym":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		return S(name), nil

	case "const":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		c, ok := constByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown constant: %s", name)
		}
		return c, nil

	case "add":
		terms, err := subObjArray("terms")
		if err != nil {
			return nil, err
		}
		return AddOf(terms...), nil

	case "mul":
		factors, err := subObjArray("factors")
		if err != nil {
			return nil, err
		}
		return MulOf(factors...), nil

	case "pow":
		base, err := subObj("base")
		if err != nil {
			return nil, err
		}
		exp, err := subObj("exp")
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil

	case "func":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		args, err := subObjArray("args")
		if err != nil {
			return nil, err
		}
		if len(args) == 0 {
			return nil, fmt.Errorf("func: %s needs at least one argument", name)
		}
		return FuncOf(name, args...), nil

	case "derivative":
		e, err := subObj("expr")
		if err != nil {
			return nil, err
		}
		v, err := subString("var")
		if err != nil {
			return nil, err
		}
		order, err := subNumber("order")
		if err != nil {
			return nil, err
		}
		return &Derivative{expr: e, varName: v, order: int(order)}, nil

	case "integral":
		e, err := subObj("expr")
		if err != nil {
			return nil, err
		}
		v, err := subString("var")
		if err != nil {
			return nil, err
		}
		in := &Integral{expr: e, varName: v}
		if _, definite := data["lower"]; definite {
			if in.lower, err = subObj("lower"); err != nil {
				return nil, err
			}
			if in.upper, err = subObj("upper"); err != nil {
				return nil, err
			}
		}
		return in, nil
	}
	return nil, fmt.Errorf("unknown expression type: %s", typ)
}
