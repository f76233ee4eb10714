package symcalc

import (
	"math"
	"strconv"
	"strings"
)

// ============================================================
// Linear text printer
// ============================================================

// Operator precedence used to decide parenthesisation.
const (
	precAdd  = 40
	precMul  = 50
	precPow  = 60
	precAtom = 1000
)

// floatDigits is the number of significant digits shown for a top-level float.
const floatDigits = 15

// Str renders e as linear text, e.g. x**3 + 3*x**2 + 3*x + 1. A float at the
// top level prints with full precision; nested floats drop trailing zeros.
func Str(e Expr) string { return strExpr(e, true) }

func precedence(e Expr) int {
	switch v := e.(type) {
	case *Add:
		return precAdd
	case *Mul:
		if isNumber(v.factors[0]) && numberSign(v.factors[0]) < 0 {
			return precAdd
		}
		return precMul
	case *Pow:
		if n, ok := v.exp.(*Num); ok && n.IsNegOne() {
			return precMul
		}
		return precPow
	case *Num:
		if v.IsNegative() {
			return precAdd
		}
		if !v.IsInteger() {
			return precMul
		}
	case *Float:
		if v.val < 0 {
			return precAdd
		}
	}
	return precAtom
}

func strParen(e Expr, level int) string {
	s := strExpr(e, false)
	if precedence(e) <= level {
		return "(" + s + ")"
	}
	return s
}

func strExpr(e Expr, top bool) string {
	switch v := e.(type) {
	case *Num:
		return v.val.RatString()
	case *Float:
		return formatFloat(v.val, top)
	case *Sym:
		return v.name
	case *Const:
		return v.name
	case *Add:
		return strAdd(v)
	case *Mul:
		return strMul(v)
	case *Pow:
		return strPow(v)
	case *Func:
		args := make([]string, len(v.args))
		for i, a := range v.args {
			args[i] = strExpr(a, false)
		}
		return v.name + "(" + strings.Join(args, ", ") + ")"
	case *Derivative:
		if v.order == 1 {
			return "Derivative(" + strExpr(v.expr, false) + ", " + v.varName + ")"
		}
		return "Derivative(" + strExpr(v.expr, false) + ", (" + v.varName + ", " + strconv.Itoa(v.order) + "))"
	case *Integral:
		if !v.Definite() {
			return "Integral(" + strExpr(v.expr, false) + ", " + v.varName + ")"
		}
		return "Integral(" + strExpr(v.expr, false) + ", (" + v.varName + ", " +
			strExpr(v.lower, false) + ", " + strExpr(v.upper, false) + "))"
	}
	return "?"
}

func strAdd(a *Add) string {
	var sb strings.Builder
	for i, t := range a.terms {
		s := strExpr(t, false)
		neg := strings.HasPrefix(s, "-")
		if neg {
			s = s[1:]
		}
		switch {
		case i == 0 && neg:
			sb.WriteString("-")
		case i > 0 && neg:
			sb.WriteString(" - ")
		case i > 0:
			sb.WriteString(" + ")
		}
		sb.WriteString(s)
	}
	return sb.String()
}

// mulParts splits a product into sign, numerator factors and denominator
// factors, the shared layout of every printer.
func mulParts(m *Mul) (neg bool, numer, denom []Expr) {
	factors := m.factors
	if c := factors[0]; isNumber(c) {
		factors = factors[1:]
		if numberSign(c) < 0 {
			neg = true
			c = numberNeg(c)
		}
		switch cv := c.(type) {
		case *Num:
			if p := cv.val.Num(); !(p.IsInt64() && p.Int64() == 1) {
				numer = append(numer, numFromInt(p))
			}
			if q := cv.val.Denom(); !(q.IsInt64() && q.Int64() == 1) {
				denom = append(denom, numFromInt(q))
			}
		default:
			numer = append(numer, c)
		}
	}
	for _, f := range factors {
		if p, ok := f.(*Pow); ok {
			if n, ok := p.exp.(*Num); ok && n.IsNegative() {
				if n.IsNegOne() {
					denom = append(denom, p.base)
				} else {
					denom = append(denom, &Pow{base: p.base, exp: numNeg(n)})
				}
				continue
			}
		}
		numer = append(numer, f)
	}
	return neg, numer, denom
}

func strMul(m *Mul) string {
	neg, numer, denom := mulParts(m)
	sign := ""
	if neg {
		sign = "-"
	}
	a := make([]string, len(numer))
	for i, f := range numer {
		a[i] = strParen(f, precMul)
	}
	if len(a) == 0 {
		a = []string{"1"}
	}
	num := strings.Join(a, "*")
	switch len(denom) {
	case 0:
		return sign + num
	case 1:
		return sign + num + "/" + strParen(denom[0], precMul)
	}
	b := make([]string, len(denom))
	for i, f := range denom {
		b[i] = strParen(f, precMul)
	}
	return sign + num + "/(" + strings.Join(b, "*") + ")"
}

func strPow(p *Pow) string {
	if n, ok := p.exp.(*Num); ok {
		switch {
		case n.Equal(F(1, 2)):
			return "sqrt(" + strExpr(p.base, false) + ")"
		case n.Equal(F(-1, 2)):
			return "1/sqrt(" + strExpr(p.base, false) + ")"
		case n.IsNegOne():
			return "1/" + strParen(p.base, precPow)
		}
	}
	return strParen(p.base, precPow) + "**" + strParen(p.exp, precPow)
}

// formatFloat prints v with floatDigits significant digits, in fixed
// notation when the decimal exponent lies in (-5, 15) and in scientific
// notation otherwise. Unless full is set, trailing zeros are stripped.
func formatFloat(v float64, full bool) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "oo"
	case math.IsInf(v, -1):
		return "-oo"
	case v == 0:
		return "0.0"
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := strconv.FormatFloat(v, 'e', floatDigits-1, 64)
	mant, expPart, _ := strings.Cut(s, "e")
	digits := strings.Replace(mant, ".", "", 1)
	exponent, _ := strconv.Atoi(expPart)

	split := 1
	fixed := exponent > -5 && exponent < floatDigits
	if fixed {
		if exponent < 0 {
			digits = strings.Repeat("0", -exponent) + digits
		} else {
			split = exponent + 1
			if split > len(digits) {
				digits += strings.Repeat("0", split-len(digits))
			}
		}
	}
	out := digits[:split] + "." + digits[split:]
	if !full {
		out = strings.TrimRight(out, "0")
		if strings.HasSuffix(out, ".") {
			out += "0"
		}
	}
	if fixed {
		return sign + out
	}
	if exponent >= 0 {
		return sign + out + "e+" + strconv.Itoa(exponent)
	}
	return sign + out + "e" + strconv.Itoa(exponent)
}
