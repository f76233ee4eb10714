package symcalc

import (
	"math/big"
	"sort"
)

// ============================================================
// Factorisation over Q
// ============================================================

// Limits keeping the integer searches bounded. Polynomials whose constant
// or leading coefficients exceed divisorLimit skip the rational-root and
// Kronecker searches and stay unfactored.
const (
	divisorLimit   = 1e12
	maxRootTrials  = 40000
	maxKroneckerIt = 20000
)

type factorTerm struct {
	base Expr
	mult int
}

// FactorExpr factors e over the rationals. Polynomials split into content,
// monomial part and irreducible factors with multiplicities; rational
// functions factor numerator and denominator; function applications and
// constants are treated as opaque generators: factor(sin(x)**2 - 1) is
// (sin(x) - 1)*(sin(x) + 1).
func FactorExpr(e Expr) Expr {
	switch e.(type) {
	case *Num, *Float, *Sym, *Const:
		return e
	}
	if containsNode(e, func(x Expr) bool { _, ok := x.(*Float); return ok }) {
		return e
	}
	gens := newGenerators()
	n, d := NumerDenom(gens.replace(e))
	nc, nfs := factorPoly(n)
	dc, dfs := factorPoly(d)
	if isZero(dc) {
		panic("symcalc: division by zero")
	}
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
		}
	}
	coeff := MulOf(nc, PowOf(dc, N(-1)))
	factors := []Expr{}
	for _, f := range nfs {
		if f.mult > 0 {
			factors = append(factors, PowOf(gens.restore(f.base), N(int64(f.mult))))
		}
	}
	for _, f := range dfs {
		if f.mult > 0 {
			factors = append(factors, PowOf(gens.restore(f.base), N(int64(-f.mult))))
		}
	}
	return newMul(coeff, factors)
}

func assembleFactors(fs []factorTerm) Expr {
	parts := make([]Expr, 0, len(fs))
	for _, f := range fs {
		if f.mult > 0 {
			parts = append(parts, PowOf(f.base, N(int64(f.mult))))
		}
	}
	return MulOf(parts...)
}

// factorPoly splits a polynomial expression into a rational content and
// primitive factors. Expressions that are not polynomials over Q come back
// whole as a single factor.
func factorPoly(e Expr) (Expr, []factorTerm) {
	e = Expand(e)
	if isNumber(e) {
		return e, nil
	}
	vars := sortedSymbols([]Expr{e})
	mp, ok := toMPoly(e, vars)
	if !ok {
		return N(1), []factorTerm{{base: e, mult: 1}}
	}
	if len(mp.terms) == 0 {
		return N(0), nil
	}

	out := []factorTerm{}
	mins := mp.minExps()
	for i, k := range mins {
		if k > 0 {
			out = append(out, factorTerm{base: S(vars[i]), mult: k})
		}
	}
	mp = mp.divMonomial(mins)
	content := mpolyContent(mp)
	for i := range mp.terms {
		mp.terms[i].coeff = new(big.Rat).Quo(mp.terms[i].coeff, content)
	}

	used := mp.usedVars()
	switch {
	case len(used) == 0:
		content.Mul(content, mp.terms[0].coeff)
	case len(used) == 1:
		x := S(vars[used[0]])
		c, fs := factorUnivariate(mp.univariate(used[0]))
		content.Mul(content, c)
		for _, f := range fs {
			out = append(out, factorTerm{base: f.p.toExpr(x), mult: f.mult})
		}
	case len(used) == 2:
		if deg, homog := mp.homogeneous(); homog {
			content.Mul(content, factorHomogeneous(mp, used[0], used[1], deg, &out))
			break
		}
		out = append(out, factorTerm{base: mp.toExpr(), mult: 1})
	default:
		out = append(out, factorTerm{base: mp.toExpr(), mult: 1})
	}
	return newNum(content), out
}

// mpolyContent is the positive rational gcd of the coefficients, negated
// when the lexicographically leading term is negative.
func mpolyContent(mp *mpoly) *big.Rat {
	num := new(big.Int)
	den := big.NewInt(1)
	for _, t := range mp.terms {
		num.GCD(nil, nil, num, new(big.Int).Abs(t.coeff.Num()))
		d := t.coeff.Denom()
		g := new(big.Int).GCD(nil, nil, den, d)
		den.Mul(den, new(big.Int).Quo(d, g))
	}
	content := new(big.Rat).SetFrac(num, den)
	lead := mp.terms[0]
	for _, t := range mp.terms[1:] {
		if lexGreater(t.exps, lead.exps) {
			lead = t
		}
	}
	if lead.coeff.Sign() < 0 {
		content.Neg(content)
	}
	return content
}

func lexGreater(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}

// factorHomogeneous factors a homogeneous polynomial in two variables by
// setting y = 1, factoring in x and restoring the degrees with powers of y.
func factorHomogeneous(mp *mpoly, xi, yi, deg int, out *[]factorTerm) *big.Rat {
	x, y := S(mp.vars[xi]), S(mp.vars[yi])
	c, fs := factorUnivariate(mp.univariate(xi))
	covered := 0
	for _, f := range fs {
		d := f.p.deg()
		terms := make([]Expr, 0, len(f.p))
		for k, a := range f.p {
			if a.Sign() == 0 {
				continue
			}
			terms = append(terms, MulOf(newNum(new(big.Rat).Set(a)), PowOf(x, N(int64(k))), PowOf(y, N(int64(d-k)))))
		}
		*out = append(*out, factorTerm{base: AddOf(terms...), mult: f.mult})
		covered += d * f.mult
	}
	if covered < deg {
		*out = append(*out, factorTerm{base: y, mult: deg - covered})
	}
	return c
}

// factorUnivariate returns p = c * prod(f_i**m_i) with primitive integer
// irreducible (as far as the searches reach) factors f_i.
func factorUnivariate(p poly) (*big.Rat, []polyFactor) {
	c, prim := p.primitive()
	out := []polyFactor{}
	for _, sf := range prim.squareFree() {
		_, f := sf.p.primitive()
		for _, g := range splitIrreducible(f) {
			out = append(out, polyFactor{p: g, mult: sf.mult})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if di, dj := out[i].p.deg(), out[j].p.deg(); di != dj {
			return di < dj
		}
		return out[i].p.coeff(0).Cmp(out[j].p.coeff(0)) < 0
	})
	return c, out
}

// splitIrreducible factors a square-free primitive integer polynomial with
// positive leading coefficient: rational roots first, then Kronecker's
// method for factors of degree two and up.
func splitIrreducible(f poly) []poly {
	if f.deg() <= 1 {
		return []poly{f}
	}
	if f[0].Sign() == 0 {
		x := poly{new(big.Rat), ratInt(1)}
		q, _ := polyExactDiv(f, x)
		_, q = q.primitive()
		return append([]poly{x}, splitIrreducible(q)...)
	}
	if r, ok := rationalRoot(f); ok {
		lin := poly{new(big.Rat).Neg(new(big.Rat).SetInt(r.Num())), new(big.Rat).SetInt(r.Denom())}
		q, _ := polyExactDiv(f, lin)
		_, q = q.primitive()
		return append([]poly{lin}, splitIrreducible(q)...)
	}
	if f.deg() <= 3 {
		return []poly{f}
	}
	for d := 2; d <= f.deg()/2; d++ {
		if g, ok := kroneckerFactor(f, d); ok {
			q, _ := polyExactDiv(f, g)
			_, q = q.primitive()
			return append(splitIrreducible(g), splitIrreducible(q)...)
		}
	}
	return []poly{f}
}

// rationalRoot searches the candidates p/q with p | f(0) and q | lead(f).
func rationalRoot(f poly) (*big.Rat, bool) {
	a0, an := f[0].Num(), f.lead().Num()
	if !smallInt(a0) || !smallInt(an) {
		return nil, false
	}
	ps := divisors(new(big.Int).Abs(a0).Int64())
	qs := divisors(new(big.Int).Abs(an).Int64())
	if len(ps)*len(qs) > maxRootTrials {
		return nil, false
	}
	for _, q := range qs {
		for _, p := range ps {
			for _, s := range []int64{-1, 1} {
				r := big.NewRat(s*p, q)
				if f.eval(r).Sign() == 0 {
					return r, true
				}
			}
		}
	}
	return nil, false
}

func smallInt(n *big.Int) bool {
	return n.IsInt64() && n.Int64() <= divisorLimit && n.Int64() >= -divisorLimit
}

// divisors lists the positive divisors of n > 0 in increasing order.
func divisors(n int64) []int64 {
	small, large := []int64{}, []int64{}
	for d := int64(1); d*d <= n; d++ {
		if n%d != 0 {
			continue
		}
		small = append(small, d)
		if d*d != n {
			large = append(large, n/d)
		}
	}
	for i := len(large) - 1; i >= 0; i-- {
		small = append(small, large[i])
	}
	return small
}

// kroneckerFactor looks for an integer factor of f of exact degree d by
// interpolating through divisors of f at d+1 integer points.
func kroneckerFactor(f poly, d int) (poly, bool) {
	xs := make([]*big.Rat, 0, d+1)
	choices := [][]int64{}
	total := 1
	for k := int64(0); len(xs) <= d; k++ {
		pt := (k + 1) / 2
		if k%2 == 0 {
			pt = -pt
		}
		x := ratInt(pt)
		v := f.eval(x).Num()
		if v.Sign() == 0 || !smallInt(v) {
			return nil, false
		}
		ds := divisors(new(big.Int).Abs(v).Int64())
		if len(xs) > 0 {
			signed := make([]int64, 0, 2*len(ds))
			for _, dv := range ds {
				signed = append(signed, dv, -dv)
			}
			ds = signed
		}
		total *= len(ds)
		if total > maxKroneckerIt {
			return nil, false
		}
		xs = append(xs, x)
		choices = append(choices, ds)
	}
	idx := make([]int, len(choices))
	ys := make([]*big.Rat, len(choices))
	for {
		for i, c := range choices {
			ys[i] = ratInt(c[idx[i]])
		}
		if g := lagrange(xs, ys); g.deg() == d && integral(g) {
			if g.lead().Sign() < 0 {
				g = polyScale(g, ratInt(-1))
			}
			if q, ok := polyExactDiv(f, g); ok && integral(q) {
				return g, true
			}
		}
		i := 0
		for ; i < len(idx); i++ {
			idx[i]++
			if idx[i] < len(choices[i]) {
				break
			}
			idx[i] = 0
		}
		if i == len(idx) {
			return nil, false
		}
	}
}

func integral(p poly) bool {
	for _, c := range p {
		if !c.IsInt() {
			return false
		}
	}
	return true
}
