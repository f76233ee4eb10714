package symcalc

import (
	"strconv"
	"strings"
	"unicode"
)

// ============================================================
// LaTeX printer
// ============================================================

// Latex renders e as LaTeX math-mode source, e.g. \frac{x^{2}}{2} or
// \sin{\left(x \right)}.
func Latex(e Expr) string { return latexExpr(e, true) }

var latexFuncNames = map[string]string{
	"sin": `\sin`, "cos": `\cos`, "tan": `\tan`, "cot": `\cot`, "sec": `\sec`, "csc": `\csc`,
	"sinh": `\sinh`, "cosh": `\cosh`, "tanh": `\tanh`, "log": `\log`,
	"asin": `\operatorname{asin}`, "acos": `\operatorname{acos}`, "atan": `\operatorname{atan}`,
	"sign": `\operatorname{sign}`,
}

func latexExpr(e Expr, top bool) string {
	switch v := e.(type) {
	case *Num:
		if v.IsInteger() {
			return v.val.RatString()
		}
		num := v.val.Num()
		sign := ""
		if num.Sign() < 0 {
			sign = "- "
		}
		return sign + `\frac{` + strings.TrimPrefix(num.String(), "-") + "}{" + v.val.Denom().String() + "}"
	case *Float:
		s := formatFloat(v.val, top)
		if mant, exp, ok := strings.Cut(s, "e"); ok {
			return mant + ` \cdot 10^{` + strings.TrimPrefix(exp, "+") + "}"
		}
		return s
	case *Sym:
		return latexSymbol(v.name)
	case *Const:
		switch v.name {
		case "pi":
			return `\pi`
		case "E":
			return "e"
		case "I":
			return "i"
		case "oo":
			return `\infty`
		case "nan":
			return `\text{NaN}`
		}
	case *Add:
		return latexAdd(v)
	case *Mul:
		return latexMul(v)
	case *Pow:
		return latexPow(v)
	case *Func:
		return latexFunc(v, "")
	case *Derivative:
		inner := latexExpr(v.expr, false)
		if _, ok := v.expr.(*Add); ok {
			inner = `\left(` + inner + `\right)`
		}
		x := latexSymbol(v.varName)
		if v.order == 1 {
			return `\frac{d}{d ` + x + "} " + inner
		}
		n := strconv.Itoa(v.order)
		return `\frac{d^{` + n + `}}{d ` + x + "^{" + n + "}} " + inner
	case *Integral:
		inner := latexExpr(v.expr, false)
		if _, ok := v.expr.(*Add); ok {
			inner = `\left(` + inner + `\right)`
		}
		head := `\int `
		if v.Definite() {
			head = `\int\limits_{` + latexExpr(v.lower, false) + "}^{" + latexExpr(v.upper, false) + "} "
		}
		return head + inner + `\, d` + latexSymbol(v.varName)
	}
	return ""
}

// latexSymbol spells Greek names as commands and turns trailing digits or
// an underscore into a subscript: alpha -> \alpha, x1 -> x_{1}, a_b -> a_{b}.
func latexSymbol(name string) string {
	base, sub := name, ""
	if i := strings.Index(name, "_"); i > 0 && i < len(name)-1 {
		base, sub = name[:i], name[i+1:]
	} else {
		j := len(name)
		for j > 0 && unicode.IsDigit(rune(name[j-1])) {
			j--
		}
		if j > 0 && j < len(name) {
			base, sub = name[:j], name[j:]
		}
	}
	if isGreekName(base) {
		base = `\` + base
	}
	if sub == "" {
		return base
	}
	if isGreekName(sub) {
		sub = `\` + sub
	}
	return base + "_{" + sub + "}"
}

func latexAdd(a *Add) string {
	var sb strings.Builder
	for i, t := range a.terms {
		if i > 0 {
			if c, rest := splitCoeff(t); numberSign(c) < 0 {
				sb.WriteString(" - ")
				t = scaleTerm(numberNeg(c), rest)
			} else if isNumber(t) && numberSign(t) < 0 {
				sb.WriteString(" - ")
				t = numberNeg(t)
			} else {
				sb.WriteString(" + ")
			}
		}
		sb.WriteString(latexExpr(t, false))
	}
	return sb.String()
}

func latexFactor(f Expr) string {
	s := latexExpr(f, false)
	switch v := f.(type) {
	case *Add:
		return `\left(` + s + `\right)`
	case *Mul:
		if isNumber(v.factors[0]) && numberSign(v.factors[0]) < 0 {
			return `\left(` + s + `\right)`
		}
	}
	return s
}

func latexJoin(fs []Expr) string {
	var sb strings.Builder
	for i, f := range fs {
		if i > 0 {
			if isNumber(f) && isNumber(fs[i-1]) {
				sb.WriteString(` \cdot `)
			} else {
				sb.WriteString(" ")
			}
		}
		sb.WriteString(latexFactor(f))
	}
	return sb.String()
}

func latexMul(m *Mul) string {
	neg, numer, denom := mulParts(m)
	sign := ""
	if neg {
		sign = "- "
	}
	num := latexJoin(numer)
	if len(numer) == 0 {
		num = "1"
	}
	if len(denom) == 0 {
		return sign + num
	}
	return sign + `\frac{` + num + "}{" + latexJoin(denom) + "}"
}

func latexPow(p *Pow) string {
	if n, ok := p.exp.(*Num); ok {
		if n.IsNegative() {
			var inv Expr = p.base
			if !n.IsNegOne() {
				inv = &Pow{base: p.base, exp: numNeg(n)}
			}
			return `\frac{1}{` + latexExpr(inv, false) + "}"
		}
		if num := n.val.Num(); num.IsInt64() && num.Int64() == 1 && !n.IsInteger() {
			q := n.val.Denom().String()
			if q == "2" {
				return `\sqrt{` + latexExpr(p.base, false) + "}"
			}
			return `\sqrt[` + q + `]{` + latexExpr(p.base, false) + "}"
		}
	}
	exp := latexExpr(p.exp, false)
	if f, ok := p.base.(*Func); ok && f.name != "exp" && IsBuiltinFunc(f.name) {
		if _, named := latexFuncNames[f.name]; named {
			return latexFunc(f, exp)
		}
	}
	base := latexExpr(p.base, false)
	switch b := p.base.(type) {
	case *Add, *Mul, *Pow:
		base = `\left(` + base + `\right)`
	case *Num:
		if b.IsNegative() || !b.IsInteger() {
			base = `\left(` + base + `\right)`
		}
	case *Float:
		if b.val < 0 {
			base = `\left(` + base + `\right)`
		}
	case *Func:
		if b.name == "exp" {
			base = `\left(` + base + `\right)`
		}
	}
	return base + "^{" + exp + "}"
}

// latexFunc prints a function application; a non-empty power is attached to
// the function name as in \sin^{2}{\left(x \right)}.
func latexFunc(f *Func, power string) string {
	args := make([]string, len(f.args))
	for i, a := range f.args {
		args[i] = latexExpr(a, false)
	}
	joined := strings.Join(args, ", ")
	switch f.name {
	case "exp":
		return "e^{" + joined + "}"
	case "Abs":
		return `\left|{` + joined + `}\right|`
	case "factorial":
		arg := f.args[0]
		switch arg.(type) {
		case *Sym, *Num:
			return joined + "!"
		}
		return `\left(` + joined + `\right)!`
	case "floor":
		return `\left\lfloor{` + joined + `}\right\rfloor`
	case "ceiling":
		return `\left\lceil{` + joined + `}\right\rceil`
	}
	name, ok := latexFuncNames[f.name]
	if !ok {
		if len([]rune(f.name)) == 1 {
			name = f.name
		} else {
			name = `\operatorname{` + f.name + "}"
		}
	}
	if power != "" {
		name += "^{" + power + "}"
	}
	return name + `{\left(` + joined + ` \right)}`
}
