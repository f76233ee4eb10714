package symcalc

import (
	"fmt"
	"math/big"
)

// ============================================================
// Dense univariate polynomials over Q
// ============================================================

// poly holds coefficients lowest degree first; the zero polynomial is empty.
type poly []*big.Rat

func ratInt(n int64) *big.Rat { return new(big.Rat).SetInt64(n) }

func (p poly) trim() poly {
	n := len(p)
	for n > 0 && p[n-1].Sign() == 0 {
		n--
	}
	return p[:n]
}

func (p poly) deg() int       { return len(p.trim()) - 1 }
func (p poly) isZero() bool   { return p.deg() < 0 }
func (p poly) lead() *big.Rat { t := p.trim(); return t[len(t)-1] }

func (p poly) coeff(i int) *big.Rat {
	if i < len(p) {
		return p[i]
	}
	return new(big.Rat)
}

func polyAdd(a, b poly) poly {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make(poly, n)
	for i := range out {
		out[i] = new(big.Rat).Add(a.coeff(i), b.coeff(i))
	}
	return out.trim()
}

func polySub(a, b poly) poly { return polyAdd(a, polyScale(b, ratInt(-1))) }

func polyScale(p poly, c *big.Rat) poly {
	out := make(poly, len(p))
	for i, x := range p {
		out[i] = new(big.Rat).Mul(x, c)
	}
	return out.trim()
}

func polyMul(a, b poly) poly {
	a, b = a.trim(), b.trim()
	if len(a) == 0 || len(b) == 0 {
		return poly{}
	}
	out := make(poly, len(a)+len(b)-1)
	for i := range out {
		out[i] = new(big.Rat)
	}
	t := new(big.Rat)
	for i, x := range a {
		for j, y := range b {
			out[i+j].Add(out[i+j], t.Mul(x, y))
		}
	}
	return out.trim()
}

// polyDivMod divides a by a non-zero b.
func polyDivMod(a, b poly) (q, r poly) {
	b = b.trim()
	if len(b) == 0 {
		panic("symcalc: polynomial division by zero")
	}
	r = append(poly{}, a.trim()...)
	for i := range r {
		r[i] = new(big.Rat).Set(r[i])
	}
	if len(r) < len(b) {
		return poly{}, r
	}
	q = make(poly, len(r)-len(b)+1)
	for i := range q {
		q[i] = new(big.Rat)
	}
	lb := b[len(b)-1]
	for len(r) >= len(b) && len(r) > 0 {
		shift := len(r) - len(b)
		c := new(big.Rat).Quo(r[len(r)-1], lb)
		q[shift] = c
		t := new(big.Rat)
		for i, y := range b {
			r[i+shift].Sub(r[i+shift], t.Mul(c, y))
		}
		r = r[:len(r)-1].trim()
	}
	return q.trim(), r
}

// polyExactDiv returns a/b when b divides a.
func polyExactDiv(a, b poly) (poly, bool) {
	q, r := polyDivMod(a, b)
	return q, r.isZero()
}

func (p poly) monic() poly {
	if p.isZero() {
		return p
	}
	return polyScale(p, new(big.Rat).Inv(p.lead()))
}

// polyGCD is the monic greatest common divisor.
func polyGCD(a, b poly) poly {
	a, b = a.trim(), b.trim()
	for !b.isZero() {
		_, r := polyDivMod(a, b)
		a, b = b, r
	}
	return a.monic()
}

func (p poly) deriv() poly {
	if len(p) <= 1 {
		return poly{}
	}
	out := make(poly, len(p)-1)
	for i := 1; i < len(p); i++ {
		out[i-1] = new(big.Rat).Mul(p[i], ratInt(int64(i)))
	}
	return out.trim()
}

func (p poly) eval(x *big.Rat) *big.Rat {
	acc := new(big.Rat)
	for i := len(p) - 1; i >= 0; i-- {
		acc.Mul(acc, x)
		acc.Add(acc, p[i])
	}
	return acc
}

// primitive splits p as c*q with q integer-valued, coefficient gcd 1 and a
// positive leading coefficient.
func (p poly) primitive() (*big.Rat, poly) {
	p = p.trim()
	if len(p) == 0 {
		return new(big.Rat), p
	}
	lcm := big.NewInt(1)
	for _, c := range p {
		d := c.Denom()
		g := new(big.Int).GCD(nil, nil, lcm, d)
		lcm.Mul(lcm, new(big.Int).Quo(d, g))
	}
	g := new(big.Int)
	for _, c := range p {
		n := new(big.Int).Mul(c.Num(), new(big.Int).Quo(lcm, c.Denom()))
		g.GCD(nil, nil, g, new(big.Int).Abs(n))
	}
	content := new(big.Rat).SetFrac(g, lcm)
	if p.lead().Sign() < 0 {
		content.Neg(content)
	}
	return content, polyScale(p, new(big.Rat).Inv(content))
}

func (p poly) toExpr(x Expr) Expr {
	terms := make([]Expr, 0, len(p))
	for i, c := range p {
		if c.Sign() == 0 {
			continue
		}
		terms = append(terms, MulOf(newNum(new(big.Rat).Set(c)), PowOf(x, N(int64(i)))))
	}
	return AddOf(terms...)
}

// squareFree returns the square-free decomposition p = c * prod(f_i**i)
// with monic f_i (Yun's algorithm, characteristic zero).
func (p poly) squareFree() []polyFactor {
	out := []polyFactor{}
	if p.deg() < 1 {
		return out
	}
	c := polyGCD(p, p.deriv())
	w, _ := polyExactDiv(p, c)
	w = w.monic()
	for i := 1; w.deg() > 0; i++ {
		y := polyGCD(w, c)
		z, _ := polyExactDiv(w, y)
		if z.deg() > 0 {
			out = append(out, polyFactor{p: z.monic(), mult: i})
		}
		w = y
		c, _ = polyExactDiv(c, y)
	}
	return out
}

type polyFactor struct {
	p    poly
	mult int
}

// lagrange interpolates the polynomial through (xs[i], ys[i]).
func lagrange(xs, ys []*big.Rat) poly {
	result := poly{}
	for i := range xs {
		term := poly{new(big.Rat).Set(ys[i])}
		for j := range xs {
			if i == j {
				continue
			}
			den := new(big.Rat).Sub(xs[i], xs[j])
			inv := new(big.Rat).Inv(den)
			factor := poly{new(big.Rat).Neg(new(big.Rat).Mul(xs[j], inv)), inv}
			term = polyMul(term, factor)
		}
		result = polyAdd(result, term)
	}
	return result
}

// ============================================================
// Sparse multivariate polynomials over Q
// ============================================================

type mterm struct {
	exps  []int
	coeff *big.Rat
}

// mpoly is a polynomial in vars with exact rational coefficients.
type mpoly struct {
	vars  []string
	terms []mterm
}

// toMPoly reads an expanded expression as a polynomial in vars. It fails on
// floats, negative or fractional powers and anything else not polynomial.
func toMPoly(e Expr, vars []string) (*mpoly, bool) {
	index := map[string]int{}
	for i, v := range vars {
		index[v] = i
	}
	mp := &mpoly{vars: vars}
	byKey := map[string]int{}
	for _, t := range addTerms(e) {
		exps := make([]int, len(vars))
		var coeff *big.Rat
		var rest Expr
		if n, ok := t.(*Num); ok {
			coeff, rest = n.Rat(), nil
		} else {
			c, r := splitCoeff(t)
			n, ok := c.(*Num)
			if !ok {
				return nil, false
			}
			coeff, rest = n.Rat(), r
		}
		if rest != nil {
			factors := []Expr{rest}
			if m, ok := rest.(*Mul); ok {
				factors = m.factors
			}
			for _, f := range factors {
				base, exp := asPow(f)
				s, ok := base.(*Sym)
				if !ok {
					return nil, false
				}
				i, ok := index[s.name]
				if !ok {
					return nil, false
				}
				k, ok := exp.(*Num)
				if !ok {
					return nil, false
				}
				ki, ok := k.smallInt()
				if !ok || ki < 0 {
					return nil, false
				}
				exps[i] += int(ki)
			}
		}
		key := fmt.Sprint(exps)
		if j, seen := byKey[key]; seen {
			mp.terms[j].coeff.Add(mp.terms[j].coeff, coeff)
			continue
		}
		byKey[key] = len(mp.terms)
		mp.terms = append(mp.terms, mterm{exps: exps, coeff: coeff})
	}
	kept := mp.terms[:0]
	for _, t := range mp.terms {
		if t.coeff.Sign() != 0 {
			kept = append(kept, t)
		}
	}
	mp.terms = kept
	return mp, true
}

func (mp *mpoly) toExpr() Expr {
	terms := make([]Expr, 0, len(mp.terms))
	for _, t := range mp.terms {
		factors := []Expr{newNum(new(big.Rat).Set(t.coeff))}
		for i, k := range t.exps {
			if k > 0 {
				factors = append(factors, PowOf(S(mp.vars[i]), N(int64(k))))
			}
		}
		terms = append(terms, MulOf(factors...))
	}
	return AddOf(terms...)
}

// usedVars lists the variables with a positive exponent somewhere.
func (mp *mpoly) usedVars() []int {
	out := []int{}
	for i := range mp.vars {
		for _, t := range mp.terms {
			if t.exps[i] > 0 {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

// minExps is the exponent vector of the largest monomial dividing every term.
func (mp *mpoly) minExps() []int {
	out := make([]int, len(mp.vars))
	for i := range out {
		out[i] = -1
		for _, t := range mp.terms {
			if out[i] < 0 || t.exps[i] < out[i] {
				out[i] = t.exps[i]
			}
		}
		if out[i] < 0 {
			out[i] = 0
		}
	}
	return out
}

func (mp *mpoly) divMonomial(exps []int) *mpoly {
	out := &mpoly{vars: mp.vars, terms: make([]mterm, len(mp.terms))}
	for j, t := range mp.terms {
		ne := make([]int, len(exps))
		for i := range ne {
			ne[i] = t.exps[i] - exps[i]
		}
		out.terms[j] = mterm{exps: ne, coeff: t.coeff}
	}
	return out
}

// homogeneous reports the common total degree of all terms.
func (mp *mpoly) homogeneous() (int, bool) {
	deg := -1
	for _, t := range mp.terms {
		d := 0
		for _, k := range t.exps {
			d += k
		}
		if deg >= 0 && d != deg {
			return 0, false
		}
		deg = d
	}
	return deg, true
}

// univariate collapses the polynomial onto variable i, evaluating the other
// variables at 1.
func (mp *mpoly) univariate(i int) poly {
	maxDeg := 0
	for _, t := range mp.terms {
		if t.exps[i] > maxDeg {
			maxDeg = t.exps[i]
		}
	}
	p := make(poly, maxDeg+1)
	for k := range p {
		p[k] = new(big.Rat)
	}
	for _, t := range mp.terms {
		p[t.exps[i]].Add(p[t.exps[i]], t.coeff)
	}
	return p.trim()
}

// asUnivariate converts an expanded expression into a dense polynomial in x.
func asUnivariate(e Expr, x string) (poly, bool) {
	mp, ok := toMPoly(e, []string{x})
	if !ok {
		return nil, false
	}
	return mp.univariate(0), true
}

// ============================================================
// Degree and coefficients with symbolic coefficients
// ============================================================

// Coeffs returns the coefficients of e as a polynomial in varName, lowest
// degree first. Coefficients may hold other symbols; ok is false when e is
// not polynomial in varName.
func Coeffs(e Expr, varName string) ([]Expr, bool) {
	e = Expand(e)
	byDeg := map[int][]Expr{}
	maxDeg := 0
	for _, t := range addTerms(e) {
		deg := 0
		rest := []Expr{}
		factors := []Expr{t}
		if m, ok := t.(*Mul); ok {
			factors = m.factors
		}
		for _, f := range factors {
			base, exp := asPow(f)
			if s, ok := base.(*Sym); ok && s.name == varName {
				n, ok := exp.(*Num)
				if !ok {
					return nil, false
				}
				k, ok := n.smallInt()
				if !ok || k < 0 {
					return nil, false
				}
				deg += int(k)
				continue
			}
			if dependsOn(f, varName) {
				return nil, false
			}
			rest = append(rest, f)
		}
		byDeg[deg] = append(byDeg[deg], MulOf(rest...))
		if deg > maxDeg {
			maxDeg = deg
		}
	}
	out := make([]Expr, maxDeg+1)
	for d := range out {
		out[d] = AddOf(byDeg[d]...)
	}
	for len(out) > 1 && isZero(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out, true
}

// Degree is the degree of e in varName, or false when e is not a polynomial
// in varName.
func Degree(e Expr, varName string) (int, bool) {
	cs, ok := Coeffs(e, varName)
	if !ok {
		return 0, false
	}
	if len(cs) == 1 && isZero(cs[0]) {
		return -1, true
	}
	return len(cs) - 1, true
}

// ============================================================
// Generators: non-polynomial atoms as fresh symbols
// ============================================================

// generators replaces function applications, constants and fractional
// powers by placeholder symbols so rational-function algorithms see a
// polynomial; restore maps them back.
type generators struct {
	byKey map[string]string
	back  map[string]Expr
}

func newGenerators() *generators {
	return &generators{byKey: map[string]string{}, back: map[string]Expr{}}
}

func (g *generators) atom(e Expr) Expr {
	key := e.String()
	if name, ok := g.byKey[key]; ok {
		return S(name)
	}
	name := fmt.Sprintf("$%d", len(g.byKey))
	g.byKey[key] = name
	g.back[name] = e
	return S(name)
}

func (g *generators) replace(e Expr) Expr {
	switch v := e.(type) {
	case *Num, *Float, *Sym:
		return e
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = g.replace(t)
		}
		return AddOf(terms...)
	case *Mul:
		factors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			factors[i] = g.replace(f)
		}
		return MulOf(factors...)
	case *Pow:
		if n, ok := v.exp.(*Num); ok && n.IsInteger() {
			return PowOf(g.replace(v.base), v.exp)
		}
	}
	return g.atom(e)
}

func (g *generators) restore(e Expr) Expr {
	if len(g.back) == 0 {
		return e
	}
	return e.Subs(g.back)
}

// ============================================================
// Rational functions: numerator/denominator, together, cancel
// ============================================================

// NumerDenom splits e into numerator and denominator, combining sums over a
// common denominator: 1/x + 1/y -> (x + y, x*y).
func NumerDenom(e Expr) (Expr, Expr) {
	switch v := e.(type) {
	case *Num:
		if v.IsInteger() {
			return v, N(1)
		}
		return numFromInt(v.val.Num()), numFromInt(v.val.Denom())
	case *Mul:
		nums := make([]Expr, 0, len(v.factors))
		dens := make([]Expr, 0, len(v.factors))
		for _, f := range v.factors {
			n, d := NumerDenom(f)
			nums = append(nums, n)
			dens = append(dens, d)
		}
		return MulOf(nums...), MulOf(dens...)
	case *Pow:
		exp, ok := v.exp.(*Num)
		if !ok {
			return e, N(1)
		}
		if exp.IsInteger() {
			bn, bd := NumerDenom(v.base)
			if exp.IsNegative() {
				k := numNeg(exp)
				return PowOf(bd, k), PowOf(bn, k)
			}
			return PowOf(bn, exp), PowOf(bd, exp)
		}
		if exp.IsNegative() {
			return N(1), PowOf(v.base, numNeg(exp))
		}
	case *Add:
		var num Expr = N(0)
		var den Expr = N(1)
		for _, t := range v.terms {
			n, d := NumerDenom(t)
			switch {
			case d.Equal(den):
				num = AddOf(num, n)
			case isOne(d):
				num = AddOf(num, MulOf(n, den))
			case isOne(den):
				num, den = AddOf(MulOf(num, d), n), d
			default:
				num = AddOf(MulOf(num, d), MulOf(n, den))
				den = MulOf(den, d)
			}
		}
		return num, den
	}
	return e, N(1)
}

// Together rewrites e as a single fraction.
func Together(e Expr) Expr {
	n, d := NumerDenom(e)
	if isOne(d) {
		return n
	}
	return DivOf(n, d)
}

// Cancel brings e to the form p/q with p and q expanded polynomials sharing
// no common factor: (x**2 - 1)/(x - 1) -> x + 1.
func Cancel(e Expr) Expr {
	if containsNode(e, func(x Expr) bool { _, ok := x.(*Float); return ok }) {
		return e
	}
	gens := newGenerators()
	n, d := NumerDenom(gens.replace(e))
	n, d = Expand(n), Expand(d)
	if isZero(n) {
		return N(0)
	}
	vars := sortedSymbols([]Expr{n, d})
	if len(vars) == 1 {
		pn, okN := asUnivariate(n, vars[0])
		pd, okD := asUnivariate(d, vars[0])
		if okN && okD {
			g := polyGCD(pn, pd)
			pn, _ = polyExactDiv(pn, g)
			pd, _ = polyExactDiv(pd, g)
			cn, qn := pn.primitive()
			cd, qd := pd.primitive()
			x := S(vars[0])
			c := newNum(new(big.Rat).Quo(cn, cd))
			return gens.restore(rationalResult(c, qn.toExpr(x), qd.toExpr(x)))
		}
	}
	if nf, df, ok := cancelFactored(n, d); ok {
		return gens.restore(DivOf(Expand(nf), Expand(df)))
	}
	return gens.restore(DivOf(n, d))
}

// rationalResult assembles c*p/q.
func rationalResult(c, p, q Expr) Expr {
	if isOne(q) {
		return MulOf(c, p)
	}
	return MulOf(c, p, PowOf(q, N(-1)))
}

// cancelFactored removes factors common to a multivariate numerator and
// denominator.
func cancelFactored(n, d Expr) (Expr, Expr, bool) {
	nc, nfs := factorPoly(n)
	dc, dfs := factorPoly(d)
	changed := false
	for i := range nfs {
		for j := range dfs {
			if dfs[j].mult == 0 || !nfs[i].base.Equal(dfs[j].base) {
				continue
			}
			m := nfs[i].mult
			if dfs[j].mult < m {
				m = dfs[j].mult
			}
			nfs[i].mult -= m
			dfs[j].mult -= m
			changed = true
		}
	}
	if !changed {
		return nil, nil, false
	}
	return MulOf(nc, assembleFactors(nfs)), MulOf(dc, assembleFactors(dfs)), true
}
