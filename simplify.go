package symcalc

// ============================================================
// Simplification
// ============================================================

// SimplifyExpr searches a fixed set of rewrites (expansion, factoring,
// cancellation, trigonometric and power identities, simplification of
// sub-expressions) and keeps the result with the fewest operations. The
// search repeats until no rewrite is strictly smaller, so simplifying a
// simplified expression returns it unchanged.
func SimplifyExpr(e Expr) Expr {
	best, cost := e, CountOps(e)
	for {
		improved := false
		for _, cand := range simplifyCandidates(best) {
			if c := CountOps(cand); c < cost {
				best, cost = cand, c
				improved = true
			}
		}
		if !improved {
			return best
		}
	}
}

func simplifyCandidates(e Expr) []Expr {
	rewrites := []func(Expr) Expr{
		simplifyChildren,
		Expand,
		FactorExpr,
		Cancel,
		TrigSimplify,
		PowSimplify,
		func(x Expr) Expr { return TrigSimplify(Expand(x)) },
		func(x Expr) Expr { return FactorExpr(TrigSimplify(x)) },
	}
	out := make([]Expr, 0, len(rewrites))
	for _, rw := range rewrites {
		if c, ok := tryRewrite(rw, e); ok {
			out = append(out, c)
		}
	}
	return out
}

// tryRewrite applies rw, treating a kernel panic as "no candidate".
func tryRewrite(rw func(Expr) Expr, e Expr) (out Expr, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			out, ok = nil, false
		}
	}()
	return rw(e), true
}

// simplifyChildren simplifies every direct sub-expression.
func simplifyChildren(e Expr) Expr {
	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = SimplifyExpr(t)
		}
		return AddOf(terms...)
	case *Mul:
		factors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			factors[i] = SimplifyExpr(f)
		}
		return MulOf(factors...)
	case *Pow:
		return PowOf(SimplifyExpr(v.base), SimplifyExpr(v.exp))
	case *Func:
		args := make([]Expr, len(v.args))
		for i, a := range v.args {
			args[i] = SimplifyExpr(a)
		}
		return FuncOf(v.name, args...)
	}
	return e
}

// CountOps is the simplification measure: the number of arithmetic
// operations and function applications in e.
func CountOps(e Expr) int {
	switch v := e.(type) {
	case *Num:
		n := 0
		if v.IsNegative() {
			n++
		}
		if !v.IsInteger() {
			n++
		}
		return n
	case *Float:
		if v.val < 0 {
			return 1
		}
		return 0
	case *Sym, *Const:
		return 0
	case *Add:
		n := len(v.terms) - 1
		for _, t := range v.terms {
			n += CountOps(t)
		}
		return n
	case *Mul:
		n := len(v.factors) - 1
		for _, f := range v.factors {
			n += CountOps(f)
		}
		return n
	case *Pow:
		return 1 + CountOps(v.base) + CountOps(v.exp)
	case *Func:
		n := 1
		for _, a := range v.args {
			n += CountOps(a)
		}
		return n
	case *Derivative:
		return v.order + CountOps(v.expr)
	case *Integral:
		n := 1 + CountOps(v.expr)
		if v.Definite() {
			n += CountOps(v.lower) + CountOps(v.upper)
		}
		return n
	}
	return 0
}

// ============================================================
// Trigonometric identities
// ============================================================

// TrigSimplify applies sin**2 + cos**2 = 1 (also in the forms
// sin**2 - 1 = -cos**2 and cos**2 - 1 = -sin**2), sin/cos = tan and
// 2*sin*cos = sin(2*a), bottom-up.
func TrigSimplify(e Expr) Expr {
	e = mapChildren(e, TrigSimplify)
	switch v := e.(type) {
	case *Add:
		return pythagorean(v)
	case *Mul:
		return trigProduct(v)
	}
	return e
}

// mapChildren rebuilds e with f applied to each direct sub-expression.
func mapChildren(e Expr, f func(Expr) Expr) Expr {
	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = f(t)
		}
		return AddOf(terms...)
	case *Mul:
		factors := make([]Expr, len(v.factors))
		for i, x := range v.factors {
			factors[i] = f(x)
		}
		return MulOf(factors...)
	case *Pow:
		return PowOf(f(v.base), f(v.exp))
	case *Func:
		args := make([]Expr, len(v.args))
		for i, a := range v.args {
			args[i] = f(a)
		}
		return FuncOf(v.name, args...)
	}
	return e
}

// squaredTrig finds a factor name(a)**2 in term and returns a and the rest
// of the term.
func squaredTrig(term Expr, name string) (Expr, Expr, bool) {
	factors := []Expr{term}
	if m, ok := term.(*Mul); ok {
		factors = m.factors
	}
	for i, f := range factors {
		p, ok := f.(*Pow)
		if !ok || !isNumEqual(p.exp, 2) {
			continue
		}
		fn, ok := p.base.(*Func)
		if !ok || fn.name != name || len(fn.args) != 1 {
			continue
		}
		rest := make([]Expr, 0, len(factors)-1)
		rest = append(rest, factors[:i]...)
		rest = append(rest, factors[i+1:]...)
		return fn.args[0], MulOf(rest...), true
	}
	return nil, nil, false
}

func pythagorean(a *Add) Expr {
	terms := append([]Expr{}, a.terms...)
	for changed := true; changed; {
		changed = false
	search:
		for i, t := range terms {
			for _, pair := range [][2]string{{"sin", "cos"}, {"cos", "sin"}} {
				arg, rest, ok := squaredTrig(t, pair[0])
				if !ok {
					continue
				}
				for j, u := range terms {
					if i == j {
						continue
					}
					// k*sin(a)**2*R + k*cos(a)**2*R -> k*R
					if arg2, rest2, ok := squaredTrig(u, pair[1]); ok && arg2.Equal(arg) && rest2.Equal(rest) {
						terms = replaceTerms(terms, i, j, rest)
						changed = true
						break search
					}
					// k*sin(a)**2*R - k*R -> -k*cos(a)**2*R
					if AddOf(u, rest).Equal(N(0)) {
						other := FuncOf(pair[1], arg)
						terms = replaceTerms(terms, i, j, Neg(MulOf(PowOf(other, N(2)), rest)))
						changed = true
						break search
					}
				}
			}
		}
	}
	return AddOf(terms...)
}

func replaceTerms(terms []Expr, i, j int, with Expr) []Expr {
	out := make([]Expr, 0, len(terms)-1)
	for k, t := range terms {
		switch k {
		case i:
			out = append(out, with)
		case j:
		default:
			out = append(out, t)
		}
	}
	return out
}

// trigProduct rewrites sin(a)**n/cos(a)**n as tan(a)**n and
// c*sin(a)*cos(a) as c/2*sin(2*a).
func trigProduct(m *Mul) Expr {
	type power struct {
		arg Expr
		exp Expr
		idx int
	}
	sins, coss := []power{}, []power{}
	for i, f := range m.factors {
		base, exp := asPow(f)
		fn, ok := base.(*Func)
		if !ok || len(fn.args) != 1 {
			continue
		}
		switch fn.name {
		case "sin":
			sins = append(sins, power{fn.args[0], exp, i})
		case "cos":
			coss = append(coss, power{fn.args[0], exp, i})
		}
	}
	for _, s := range sins {
		for _, c := range coss {
			if !s.arg.Equal(c.arg) {
				continue
			}
			rest := make([]Expr, 0, len(m.factors))
			for k, f := range m.factors {
				if k != s.idx && k != c.idx {
					rest = append(rest, f)
				}
			}
			switch {
			case AddOf(s.exp, c.exp).Equal(N(0)):
				return MulOf(append(rest, PowOf(TanOf(s.arg), s.exp))...)
			case isOne(s.exp) && isOne(c.exp):
				return MulOf(append(rest, F(1, 2), SinOf(MulOf(N(2), s.arg)))...)
			}
		}
	}
	return m
}

// ============================================================
// Power identities
// ============================================================

// PowSimplify combines exponentials, exp(a)*exp(b) -> exp(a + b), bottom-up.
func PowSimplify(e Expr) Expr {
	e = mapChildren(e, PowSimplify)
	m, ok := e.(*Mul)
	if !ok {
		return e
	}
	exps := []Expr{}
	rest := []Expr{}
	for _, f := range m.factors {
		if fn, ok := f.(*Func); ok && fn.name == "exp" {
			exps = append(exps, fn.args[0])
			continue
		}
		rest = append(rest, f)
	}
	if len(exps) < 2 {
		return e
	}
	return MulOf(append(rest, ExpOf(AddOf(exps...)))...)
}
