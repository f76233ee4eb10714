package symcalc

// ============================================================
// Expansion
// ============================================================

// maxExpandPower bounds the integer powers of sums that Expand multiplies out.
const maxExpandPower = 64

// Expand distributes products over sums everywhere in the tree, multiplies
// out integer powers of sums and splits exponentials of sums:
// (x + 1)**2 -> x**2 + 2*x + 1, exp(a + b) -> exp(a)*exp(b).
func Expand(e Expr) Expr {
	for i := 0; i < 8; i++ {
		next := expandExpr(e)
		if next.Equal(e) {
			return next
		}
		e = next
	}
	return e
}

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = expandExpr(t)
		}
		return AddOf(terms...)
	case *Mul:
		var result Expr = N(1)
		for _, f := range v.factors {
			result = mulExpanded(result, expandExpr(f))
		}
		return result
	case *Pow:
		base := expandExpr(v.base)
		exp := expandExpr(v.exp)
		n, ok := exp.(*Num)
		if !ok || !n.IsInteger() {
			return PowOf(base, exp)
		}
		k, small := n.smallInt()
		if _, isSum := base.(*Add); !isSum || !small || k > maxExpandPower || k < -maxExpandPower {
			return PowOf(base, exp)
		}
		neg := k < 0
		if neg {
			k = -k
		}
		result := powExpanded(base, k)
		if neg {
			return PowOf(result, N(-1))
		}
		return result
	case *Func:
		args := make([]Expr, len(v.args))
		for i, a := range v.args {
			args[i] = expandExpr(a)
		}
		if v.name == "exp" && len(args) == 1 {
			if sum, ok := args[0].(*Add); ok {
				factors := make([]Expr, len(sum.terms))
				for i, t := range sum.terms {
					factors[i] = ExpOf(t)
				}
				return MulOf(factors...)
			}
		}
		return FuncOf(v.name, args...)
	case *Derivative:
		return &Derivative{expr: expandExpr(v.expr), varName: v.varName, order: v.order}
	case *Integral:
		out := &Integral{expr: expandExpr(v.expr), varName: v.varName}
		if v.Definite() {
			out.lower, out.upper = expandExpr(v.lower), expandExpr(v.upper)
		}
		return out
	}
	return e
}

// addTerms returns the terms of a sum, or e itself as a single term.
func addTerms(e Expr) []Expr {
	if a, ok := e.(*Add); ok {
		return a.terms
	}
	return []Expr{e}
}

// mulExpanded multiplies two expanded expressions term by term.
func mulExpanded(a, b Expr) Expr {
	at, bt := addTerms(a), addTerms(b)
	out := make([]Expr, 0, len(at)*len(bt))
	for _, x := range at {
		for _, y := range bt {
			out = append(out, MulOf(x, y))
		}
	}
	return AddOf(out...)
}

// powExpanded raises an expanded sum to a positive integer power by
// repeated squaring.
func powExpanded(base Expr, k int64) Expr {
	var result Expr = N(1)
	sq := base
	for k > 0 {
		if k&1 == 1 {
			result = mulExpanded(result, sq)
		}
		k >>= 1
		if k > 0 {
			sq = mulExpanded(sq, sq)
		}
	}
	return result
}
