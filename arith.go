package symcalc

import (
	"math"
	"math/big"
)

// ============================================================
// Add: sum of terms
// ============================================================

type Add struct{ terms []Expr }

// AddOf builds a canonical sum: nested sums are flattened, numbers folded,
// like terms collected and the result ordered by addLess. A signed infinity
// absorbs the numeric constant; oo - oo is nan.
func AddOf(terms ...Expr) Expr {
	flat := make([]Expr, 0, len(terms))
	for _, t := range terms {
		if inner, ok := t.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, t)
		}
	}

	type group struct {
		coeff Expr
		rest  Expr
	}
	var numAccum Expr = N(0)
	groups := map[string]*group{}
	order := []string{}
	posInf, negInf := false, false
	for _, t := range flat {
		if isNumber(t) {
			numAccum = numberAdd(numAccum, t)
			continue
		}
		if isConst(t, Nan) {
			return Nan
		}
		coeff, rest := splitCoeff(t)
		if isConst(rest, Inf) {
			if numberSign(coeff) > 0 {
				posInf = true
			} else {
				negInf = true
			}
			continue
		}
		key := rest.String()
		g, seen := groups[key]
		if !seen {
			g = &group{coeff: N(0), rest: rest}
			groups[key] = g
			order = append(order, key)
		}
		g.coeff = numberAdd(g.coeff, coeff)
	}
	if posInf && negInf {
		return Nan
	}

	result := make([]Expr, 0, len(order)+2)
	nested := false
	for _, key := range order {
		g := groups[key]
		if isZero(g.coeff) {
			continue
		}
		term := scaleTerm(g.coeff, g.rest)
		if _, ok := term.(*Add); ok {
			nested = true
		}
		result = append(result, term)
	}
	switch {
	case posInf:
		result = append(result, Inf)
		numAccum = N(0)
	case negInf:
		result = append(result, &Mul{factors: []Expr{N(-1), Inf}})
		numAccum = N(0)
	}
	if nested {
		return AddOf(append(result, numAccum)...)
	}
	if !isZero(numAccum) || len(result) == 0 {
		result = append(result, numAccum)
	}
	if len(result) == 1 {
		return result[0]
	}
	sortTerms(result)
	return &Add{terms: result}
}

// splitCoeff separates the numeric coefficient of a term: 3*x*y -> (3, x*y).
func splitCoeff(e Expr) (Expr, Expr) {
	m, ok := e.(*Mul)
	if !ok || !isNumber(m.factors[0]) {
		return N(1), e
	}
	rest := m.factors[1:]
	if len(rest) == 1 {
		return m.factors[0], rest[0]
	}
	return m.factors[0], &Mul{factors: rest}
}

// scaleTerm rebuilds coeff*rest without re-running the product rules; rest
// is already canonical and free of numbers.
func scaleTerm(coeff, rest Expr) Expr {
	if isOne(coeff) {
		return rest
	}
	if m, ok := rest.(*Mul); ok {
		return &Mul{factors: append([]Expr{coeff}, m.factors...)}
	}
	return &Mul{factors: []Expr{coeff, rest}}
}

func (a *Add) String() string { return Str(a) }
func (a *Add) LaTeX() string  { return Latex(a) }

func (a *Add) Subs(m map[string]Expr) Expr {
	newTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		newTerms[i] = t.Subs(m)
	}
	return AddOf(newTerms...)
}

func (a *Add) Diff(varName string) Expr {
	dTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		dTerms[i] = t.Diff(varName)
	}
	return AddOf(dTerms...)
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

func (a *Add) exprType() string { return "add" }
func (a *Add) toJSON() map[string]interface{} {
	ts := make([]map[string]interface{}, len(a.terms))
	for i, t := range a.terms {
		ts[i] = t.toJSON()
	}
	return map[string]interface{}{"type": "add", "terms": ts}
}
func (a *Add) Terms() []Expr { return a.terms }

// ============================================================
// Mul: product of factors
// ============================================================

type Mul struct{ factors []Expr }

// MulOf builds a canonical product. Numbers fold into a leading coefficient,
// factors with a common base merge their exponents, and a lone sum is
// distributed over by a numeric coefficient (2*(x + 1) -> 2*x + 2).
func MulOf(factors ...Expr) Expr {
	flat := make([]Expr, 0, len(factors))
	for _, f := range factors {
		if inner, ok := f.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, f)
		}
	}

	type group struct {
		base Expr
		exp  Expr
	}
	var coeff Expr = N(1)
	groups := map[string]*group{}
	order := []string{}
	hasInf := false
	for _, f := range flat {
		if isNumber(f) {
			coeff = numberMul(coeff, f)
			continue
		}
		switch {
		case isConst(f, Nan):
			return Nan
		case isConst(f, Inf):
			hasInf = true
		}
		base, exp := asPow(f)
		key := base.String()
		g, seen := groups[key]
		if !seen {
			g = &group{base: base, exp: N(0)}
			groups[key] = g
			order = append(order, key)
		}
		g.exp = AddOf(g.exp, exp)
	}
	if isZero(coeff) {
		// 0*oo
		if hasInf {
			return Nan
		}
		return coeff
	}

	others := make([]Expr, 0, len(order))
	reduced := false
	for _, key := range order {
		g := groups[key]
		p := PowOf(g.base, g.exp)
		switch pv := p.(type) {
		case *Num, *Float:
			coeff = numberMul(coeff, pv)
		case *Mul:
			reduced = true
			others = append(others, pv.factors...)
		default:
			others = append(others, p)
		}
	}
	if reduced {
		return MulOf(append([]Expr{coeff}, others...)...)
	}
	if isZero(coeff) {
		return coeff
	}
	if len(others) == 0 {
		return coeff
	}
	if len(others) == 1 && isConst(others[0], Inf) {
		if numberSign(coeff) > 0 {
			return Inf
		}
		return &Mul{factors: []Expr{N(-1), Inf}}
	}
	sortFactors(others)
	if len(others) == 1 {
		if sum, ok := others[0].(*Add); ok && !isOne(coeff) {
			terms := make([]Expr, len(sum.terms))
			for i, t := range sum.terms {
				terms[i] = MulOf(coeff, t)
			}
			return AddOf(terms...)
		}
		if isOne(coeff) {
			return others[0]
		}
	}
	if isOne(coeff) {
		return &Mul{factors: others}
	}
	return &Mul{factors: append([]Expr{coeff}, others...)}
}

// newMul assembles a product without distributing the coefficient, for
// results such as 2*(x + 1) that must stay factored.
func newMul(coeff Expr, factors []Expr) Expr {
	if isZero(coeff) {
		return coeff
	}
	fs := make([]Expr, 0, len(factors)+1)
	for _, f := range factors {
		if isOne(f) {
			continue
		}
		if isNumber(f) {
			coeff = numberMul(coeff, f)
			continue
		}
		fs = append(fs, f)
	}
	if len(fs) == 0 {
		return coeff
	}
	sortFactors(fs)
	if isOne(coeff) {
		if len(fs) == 1 {
			return fs[0]
		}
		return &Mul{factors: fs}
	}
	return &Mul{factors: append([]Expr{coeff}, fs...)}
}

func asPow(e Expr) (Expr, Expr) {
	if p, ok := e.(*Pow); ok {
		return p.base, p.exp
	}
	return e, N(1)
}

func (m *Mul) String() string { return Str(m) }
func (m *Mul) LaTeX() string  { return Latex(m) }

func (m *Mul) Subs(s map[string]Expr) Expr {
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Subs(s)
	}
	return MulOf(newFactors...)
}

func (m *Mul) Diff(varName string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		dfi := fi.Diff(varName)
		if isZero(dfi) {
			terms[i] = N(0)
			continue
		}
		others := make([]Expr, 0, len(m.factors))
		others = append(others, dfi)
		for j, fj := range m.factors {
			if j != i {
				others = append(others, fj)
			}
		}
		terms[i] = MulOf(others...)
	}
	return AddOf(terms...)
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) exprType() string { return "mul" }
func (m *Mul) toJSON() map[string]interface{} {
	fs := make([]map[string]interface{}, len(m.factors))
	for i, f := range m.factors {
		fs[i] = f.toJSON()
	}
	return map[string]interface{}{"type": "mul", "factors": fs}
}
func (m *Mul) Factors() []Expr { return m.factors }

// ============================================================
// Pow: base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

// maxExactExponent bounds exact integer powers of rationals.
const maxExactExponent = 4096

func PowOf(base, exp Expr) Expr {
	if isZero(exp) {
		if _, ok := exp.(*Float); ok {
			return NFloat(1)
		}
		return N(1)
	}
	if isConst(base, Nan) || isConst(exp, Nan) {
		return Nan
	}
	if isOne(exp) {
		return base
	}
	if isOne(base) {
		// 1**oo
		if isConst(exp, Inf) {
			return Nan
		}
		return base
	}
	if isZero(base) {
		if isNumber(exp) && numberSign(exp) < 0 {
			panic("symcalc: division by zero")
		}
		return base
	}

	switch b := base.(type) {
	case *Num:
		if en, ok := exp.(*Num); ok {
			return ratPow(b, en)
		}
		if ef, ok := exp.(*Float); ok {
			return floatPow(b.Float64(), ef.val, base, exp)
		}
	case *Float:
		if isNumber(exp) {
			return floatPow(b.val, numberFloat(exp), base, exp)
		}
	case *Const:
		switch b.name {
		case "E":
			return FuncOf("exp", exp)
		case "I":
			if en, ok := exp.(*Num); ok {
				if k, ok := en.smallInt(); ok {
					switch ((k % 4) + 4) % 4 {
					case 0:
						return N(1)
					case 1:
						return I
					case 2:
						return N(-1)
					default:
						return &Mul{factors: []Expr{N(-1), I}}
					}
				}
			}
		case "oo":
			if isNumber(exp) {
				if numberSign(exp) > 0 {
					return Inf
				}
				return N(0)
			}
		}
	case *Pow:
		if en, ok := exp.(*Num); ok && en.IsInteger() {
			return PowOf(b.base, MulOf(b.exp, exp))
		}
	case *Mul:
		if en, ok := exp.(*Num); ok && en.IsInteger() {
			parts := make([]Expr, len(b.factors))
			for i, f := range b.factors {
				parts[i] = PowOf(f, exp)
			}
			return MulOf(parts...)
		}
		if _, ok := exp.(*Num); !ok {
			break
		}
		if c, ok := b.factors[0].(*Num); ok && c.IsPositive() {
			rest := b.factors[1:]
			var restExpr Expr = &Mul{factors: rest}
			if len(rest) == 1 {
				restExpr = rest[0]
			}
			return MulOf(PowOf(c, exp), PowOf(restExpr, exp))
		}
	case *Func:
		if b.name == "exp" {
			if en, ok := exp.(*Num); ok && en.IsInteger() {
				return FuncOf("exp", MulOf(b.args[0], exp))
			}
		}
	}
	return &Pow{base: base, exp: exp}
}

// floatPow evaluates a numeric power; a negative base under a square root
// becomes an imaginary multiple, other complex results stay unevaluated.
func floatPow(b, e float64, base, exp Expr) Expr {
	if b < 0 && e != math.Trunc(e) {
		if e == 0.5 {
			return MulOf(NFloat(math.Sqrt(-b)), I)
		}
		return &Pow{base: base, exp: exp}
	}
	return floatOrInf(math.Pow(b, e))
}

// ratPow computes an exact power of a rational: integer exponents are
// evaluated, rational exponents pull out perfect powers and leave the
// irreducible radical, e.g. 8^(1/2) -> 2*sqrt(2), (1/2)^(1/2) -> sqrt(2)/2.
func ratPow(b, e *Num) Expr {
	if e.IsInteger() {
		k, ok := e.smallInt()
		if !ok || k > maxExactExponent || k < -maxExactExponent {
			return &Pow{base: b, exp: e}
		}
		return newNum(ratIntPow(b.val, k))
	}
	p := e.val.Num()
	q := e.val.Denom()
	if !q.IsInt64() || q.Int64() > 64 {
		return &Pow{base: b, exp: e}
	}
	qi := q.Int64()
	if b.IsNegative() {
		if qi != 2 {
			return &Pow{base: b, exp: e}
		}
		// (-a)^(p/2) = I^p * a^(p/2)
		return MulOf(PowOf(I, numFromInt(p)), PowOf(numAbs(b), e))
	}

	// b^(p/q) = b^k * b^(r/q) with 0 < r < q.
	k := new(big.Int)
	r := new(big.Int)
	k.DivMod(p, q, r)
	if !k.IsInt64() || k.Int64() > maxExactExponent || k.Int64() < -maxExactExponent {
		return &Pow{base: b, exp: e}
	}
	ri := r.Int64()
	coeff := ratIntPow(b.val, k.Int64())

	n := b.val.Num()
	d := b.val.Denom()
	outerN, innerN := extractPower(n, qi)
	factors := []Expr{}
	// n^(r/q) = outerN^r * innerN^(r/q)
	coeff.Mul(coeff, new(big.Rat).SetInt(new(big.Int).Exp(outerN, big.NewInt(ri), nil)))
	if innerN.Cmp(big.NewInt(1)) != 0 {
		factors = append(factors, &Pow{base: numFromInt(innerN), exp: F(ri, qi)})
	}
	if d.Cmp(big.NewInt(1)) != 0 {
		// d^(-r/q) = d^((q-r)/q) / d
		outerD, innerD := extractPower(d, qi)
		coeff.Mul(coeff, new(big.Rat).SetInt(new(big.Int).Exp(outerD, big.NewInt(qi-ri), nil)))
		coeff.Quo(coeff, new(big.Rat).SetInt(d))
		if innerD.Cmp(big.NewInt(1)) != 0 {
			factors = append(factors, &Pow{base: numFromInt(innerD), exp: F(qi-ri, qi)})
		}
	}
	if len(factors) == 1 && coeff.Cmp(big.NewRat(1, 1)) == 0 {
		if pw := factors[0].(*Pow); pw.base.Equal(b) && pw.exp.Equal(e) {
			return pw
		}
	}
	if len(factors) == 0 {
		return newNum(coeff)
	}
	return newMul(newNum(coeff), factors)
}

func ratIntPow(b *big.Rat, k int64) *big.Rat {
	neg := k < 0
	if neg {
		k = -k
	}
	num := new(big.Int).Exp(b.Num(), big.NewInt(k), nil)
	den := new(big.Int).Exp(b.Denom(), big.NewInt(k), nil)
	if neg {
		if num.Sign() == 0 {
			panic("symcalc: division by zero")
		}
		num, den = den, num
	}
	return new(big.Rat).SetFrac(num, den)
}

// extractPower splits n > 0 as outer^q * inner with inner q-th-power free
// over the small primes.
func extractPower(n *big.Int, q int64) (outer, inner *big.Int) {
	outer = big.NewInt(1)
	inner = big.NewInt(1)
	if n.BitLen() > 512 {
		return outer, new(big.Int).Set(n)
	}
	rest := new(big.Int).Set(n)
	mod := new(big.Int)
	for p := int64(2); p < 2000; p++ {
		bp := big.NewInt(p)
		if new(big.Int).Mul(bp, bp).Cmp(rest) > 0 {
			break
		}
		count := int64(0)
		for {
			quo, m := new(big.Int).QuoRem(rest, bp, mod)
			if m.Sign() != 0 {
				break
			}
			rest = quo
			count++
		}
		if count == 0 {
			continue
		}
		outer.Mul(outer, new(big.Int).Exp(bp, big.NewInt(count/q), nil))
		inner.Mul(inner, new(big.Int).Exp(bp, big.NewInt(count%q), nil))
	}
	if rest.Cmp(big.NewInt(1)) > 0 {
		if root, ok := exactRoot(rest, q); ok {
			outer.Mul(outer, root)
		} else {
			inner.Mul(inner, rest)
		}
	}
	return outer, inner
}

func exactRoot(n *big.Int, q int64) (*big.Int, bool) {
	if q == 2 {
		s := new(big.Int).Sqrt(n)
		return s, new(big.Int).Mul(s, s).Cmp(n) == 0
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	guess := int64(math.Round(math.Pow(f, 1/float64(q))))
	for _, c := range []int64{guess - 1, guess, guess + 1} {
		if c < 2 {
			continue
		}
		bc := big.NewInt(c)
		if new(big.Int).Exp(bc, big.NewInt(q), nil).Cmp(n) == 0 {
			return bc, true
		}
	}
	return nil, false
}

func (p *Pow) String() string { return Str(p) }
func (p *Pow) LaTeX() string  { return Latex(p) }

func (p *Pow) Subs(m map[string]Expr) Expr {
	return PowOf(p.base.Subs(m), p.exp.Subs(m))
}

func (p *Pow) Diff(varName string) Expr {
	du := p.base.Diff(varName)
	dv := p.exp.Diff(varName)
	if isZero(dv) {
		if isZero(du) {
			return N(0)
		}
		return MulOf(p.exp, PowOf(p.base, AddOf(p.exp, N(-1))), du)
	}
	if isZero(du) {
		return MulOf(p, FuncOf("log", p.base), dv)
	}
	logTerm := MulOf(dv, FuncOf("log", p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(p, AddOf(logTerm, divTerm))
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) exprType() string { return "pow" }
func (p *Pow) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "pow", "base": p.base.toJSON(), "exp": p.exp.toJSON()}
}
func (p *Pow) Base() Expr    { return p.base }
func (p *Pow) ExpExpr() Expr { return p.exp }

// Convenience constructors.
func Neg(e Expr) Expr       { return MulOf(N(-1), e) }
func SubOf(a, b Expr) Expr  { return AddOf(a, Neg(b)) }
func DivOf(a, b Expr) Expr  { return MulOf(a, PowOf(b, N(-1))) }
func SqrtOf(arg Expr) Expr  { return PowOf(arg, F(1, 2)) }
