package symcalc

import (
	"fmt"
	"math/big"
)

// ============================================================
// Integration (rule-based)
// ============================================================

// maxIntegrateDepth bounds nested rule applications (substitution, parts,
// expansion).
const maxIntegrateDepth = 4

// Integrate returns an antiderivative of e with respect to varName without
// a constant of integration. Terms no rule can handle are left as an
// unevaluated Integral: integrate(x + f(x)) is x**2/2 + Integral(f(x), x).
func Integrate(e Expr, varName string) Expr {
	if r, ok := integrate(e, varName, 0); ok {
		return r
	}
	if a, ok := e.(*Add); ok {
		done, rest := []Expr{}, []Expr{}
		for _, t := range a.terms {
			if r, ok := integrate(t, varName, 0); ok {
				done = append(done, r)
			} else {
				rest = append(rest, t)
			}
		}
		if len(done) > 0 {
			return AddOf(append(done, &Integral{expr: AddOf(rest...), varName: varName})...)
		}
	}
	return &Integral{expr: e, varName: varName}
}

// IntegrateDefinite integrates e from lower to upper as the difference of
// antiderivative values. An integral that cannot be evaluated stays
// unevaluated with its bounds in canonical order, so swapping the bounds
// negates the result.
func IntegrateDefinite(e Expr, varName string, lower, upper Expr) Expr {
	anti, ok := integrate(e, varName, 0)
	if !ok {
		if boundLess(upper, lower) {
			return Neg(&Integral{expr: e, varName: varName, lower: upper, upper: lower})
		}
		return &Integral{expr: e, varName: varName, lower: lower, upper: upper}
	}
	hi := anti.Subs(map[string]Expr{varName: upper})
	lo := anti.Subs(map[string]Expr{varName: lower})
	return SubOf(hi, lo)
}

func boundLess(a, b Expr) bool {
	ar, ai, aok := complexValue(a)
	br, bi, bok := complexValue(b)
	if aok && bok && ai == 0 && bi == 0 {
		return ar < br
	}
	return compareExpr(a, b) < 0
}

func integrate(e Expr, x string, depth int) (Expr, bool) {
	if depth > maxIntegrateDepth {
		return nil, false
	}
	X := S(x)
	if !dependsOn(e, x) {
		return MulOf(e, X), true
	}
	if cs, ok := Coeffs(e, x); ok {
		terms := make([]Expr, len(cs))
		for k, c := range cs {
			terms[k] = MulOf(c, F(1, int64(k+1)), PowOf(X, N(int64(k+1))))
		}
		return AddOf(terms...), true
	}

	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			r, ok := integrate(t, x, depth)
			if !ok {
				return nil, false
			}
			terms[i] = r
		}
		return AddOf(terms...), true
	case *Mul:
		consts, deps := []Expr{}, []Expr{}
		for _, f := range v.factors {
			if dependsOn(f, x) {
				deps = append(deps, f)
			} else {
				consts = append(consts, f)
			}
		}
		if len(consts) > 0 {
			r, ok := integrate(MulOf(deps...), x, depth)
			if !ok {
				return nil, false
			}
			return MulOf(append(consts, r)...), true
		}
	}

	if r, ok := integrateTable(e, x); ok {
		return r, true
	}
	if r, ok := integrateRational(e, x); ok {
		return r, true
	}
	if r, ok := integrateByParts(e, x, depth); ok {
		return r, true
	}
	if r, ok := integrateSubstitution(e, x, depth); ok {
		return r, true
	}
	if ex := Expand(e); !ex.Equal(e) {
		return integrate(ex, x, depth+1)
	}
	return nil, false
}

// linearIn reports u = a*x + b with a non-zero and free of x.
func linearIn(u Expr, x string) (a, b Expr, ok bool) {
	cs, ok := Coeffs(u, x)
	if !ok || len(cs) != 2 || isZero(cs[1]) {
		return nil, nil, false
	}
	return cs[1], cs[0], true
}

// integrateTable handles powers and the elementary functions of a linear
// argument u = a*x + b: the antiderivative F(u)/a.
func integrateTable(e Expr, x string) (Expr, bool) {
	switch v := e.(type) {
	case *Pow:
		if !dependsOn(v.exp, x) {
			a, _, ok := linearIn(v.base, x)
			if !ok {
				if fn, isFn := v.base.(*Func); isFn && isNumEqual(v.exp, 2) && len(fn.args) == 1 {
					return integrateSquaredTrig(fn, x)
				}
				if r, ok := integrateInverseQuadratic(v, x); ok {
					return r, true
				}
				return nil, false
			}
			if isNumEqual(v.exp, -1) {
				return DivOf(LogOf(v.base), a), true
			}
			n1 := AddOf(v.exp, N(1))
			return DivOf(PowOf(v.base, n1), MulOf(a, n1)), true
		}
		if !dependsOn(v.base, x) {
			a, _, ok := linearIn(v.exp, x)
			if !ok {
				return nil, false
			}
			return DivOf(e, MulOf(a, LogOf(v.base))), true
		}
	case *Func:
		if len(v.args) != 1 {
			return nil, false
		}
		u := v.args[0]
		a, _, ok := linearIn(u, x)
		if !ok {
			return nil, false
		}
		var F Expr
		switch v.name {
		case "sin":
			F = Neg(CosOf(u))
		case "cos":
			F = SinOf(u)
		case "tan":
			F = Neg(LogOf(CosOf(u)))
		case "cot":
			F = LogOf(SinOf(u))
		case "exp":
			F = e
		case "sinh":
			F = CoshOf(u)
		case "cosh":
			F = SinhOf(u)
		case "tanh":
			F = LogOf(CoshOf(u))
		case "log":
			F = SubOf(MulOf(u, LogOf(u)), u)
		case "asin":
			F = AddOf(MulOf(u, AsinOf(u)), SqrtOf(SubOf(N(1), PowOf(u, N(2)))))
		case "acos":
			F = SubOf(MulOf(u, AcosOf(u)), SqrtOf(SubOf(N(1), PowOf(u, N(2)))))
		case "atan":
			F = SubOf(MulOf(u, AtanOf(u)), DivOf(LogOf(AddOf(PowOf(u, N(2)), N(1))), N(2)))
		default:
			return nil, false
		}
		return DivOf(F, a), true
	}
	return nil, false
}

// integrateSquaredTrig: sin(u)**2 -> u/2 - sin(2*u)/4, cos(u)**2 -> u/2 + sin(2*u)/4.
func integrateSquaredTrig(fn *Func, x string) (Expr, bool) {
	u := fn.args[0]
	a, _, ok := linearIn(u, x)
	if !ok {
		return nil, false
	}
	X := S(x)
	half := MulOf(F(1, 2), X)
	quarter := DivOf(SinOf(MulOf(N(2), u)), MulOf(N(4), a))
	switch fn.name {
	case "sin":
		return SubOf(half, quarter), true
	case "cos":
		return AddOf(half, quarter), true
	}
	return nil, false
}

// integrateInverseQuadratic handles 1/(p*x**2 + q) with symbolic p, q:
// atan(x*sqrt(p)/sqrt(q))/sqrt(p*q).
func integrateInverseQuadratic(p *Pow, x string) (Expr, bool) {
	if !isNumEqual(p.exp, -1) {
		return nil, false
	}
	cs, ok := Coeffs(p.base, x)
	if !ok || len(cs) != 3 || !isZero(cs[1]) {
		return nil, false
	}
	q, a := cs[0], cs[2]
	if isNumber(q) && isNumber(a) {
		return nil, false
	}
	arg := MulOf(S(x), SqrtOf(a), PowOf(SqrtOf(q), N(-1)))
	return DivOf(AtanOf(arg), SqrtOf(MulOf(a, q))), true
}

// ============================================================
// Rational functions: partial fractions over Q
// ============================================================

// integrateRational integrates P(x)/Q(x) with rational coefficients whose
// denominator splits into linear and quadratic factors over Q.
func integrateRational(e Expr, x string) (Expr, bool) {
	n, d := NumerDenom(e)
	n, d = Expand(n), Expand(d)
	pd, ok := asUnivariate(d, x)
	if !ok || pd.deg() < 1 {
		return nil, false
	}
	pn, ok := asUnivariate(n, x)
	if !ok {
		return nil, false
	}
	X := S(x)
	q, r := polyDivMod(pn, pd)
	out := []Expr{}
	for k, c := range q {
		if c.Sign() != 0 {
			out = append(out, MulOf(newNum(new(big.Rat).Quo(c, ratInt(int64(k+1)))), PowOf(X, N(int64(k+1)))))
		}
	}
	if r.isZero() {
		return AddOf(out...), true
	}
	pieces, ok := partialFractions(r, pd)
	if !ok {
		return nil, false
	}
	for _, pc := range pieces {
		t, ok := integrateFraction(pc, X)
		if !ok {
			return nil, false
		}
		out = append(out, t)
	}
	return AddOf(out...), true
}

// fraction is num/f**k with deg(num) < deg(f).
type fraction struct {
	num poly
	f   poly
	k   int
}

// partialFractions decomposes r/d (deg r < deg d) over the factors of d.
func partialFractions(r, d poly) ([]fraction, bool) {
	c, fs := factorUnivariate(d)
	D := poly{ratInt(1)}
	for _, f := range fs {
		if f.p.deg() > 2 || (f.p.deg() == 2 && f.mult > 1) {
			return nil, false
		}
		for i := 0; i < f.mult; i++ {
			D = polyMul(D, f.p)
		}
	}
	target := polyScale(r, new(big.Rat).Inv(c))
	n := D.deg()

	type unknown struct {
		factor, k, j int
	}
	unknowns := []unknown{}
	columns := []poly{}
	for fi, f := range fs {
		fk := poly{ratInt(1)}
		for k := 1; k <= f.mult; k++ {
			fk = polyMul(fk, f.p)
			cofactor, _ := polyExactDiv(D, fk)
			for j := 0; j < f.p.deg(); j++ {
				shift := make(poly, j+1)
				for i := range shift {
					shift[i] = new(big.Rat)
				}
				shift[j] = ratInt(1)
				unknowns = append(unknowns, unknown{fi, k, j})
				columns = append(columns, polyMul(shift, cofactor))
			}
		}
	}
	mat := make([][]*big.Rat, n)
	rhs := make([]*big.Rat, n)
	for row := 0; row < n; row++ {
		mat[row] = make([]*big.Rat, len(columns))
		for col, p := range columns {
			mat[row][col] = new(big.Rat).Set(p.coeff(row))
		}
		rhs[row] = new(big.Rat).Set(target.coeff(row))
	}
	sol, ok := gaussSolve(mat, rhs)
	if !ok {
		return nil, false
	}
	byKey := map[string]*fraction{}
	order := []string{}
	for i, u := range unknowns {
		key := fmt.Sprintf("%d/%d", u.factor, u.k)
		fr, seen := byKey[key]
		if !seen {
			fr = &fraction{f: fs[u.factor].p, k: u.k}
			byKey[key] = fr
			order = append(order, key)
		}
		for len(fr.num) <= u.j {
			fr.num = append(fr.num, new(big.Rat))
		}
		fr.num[u.j] = sol[i]
	}
	out := make([]fraction, 0, len(order))
	for _, key := range order {
		fr := byKey[key]
		fr.num = fr.num.trim()
		if !fr.num.isZero() {
			out = append(out, *fr)
		}
	}
	return out, true
}

// gaussSolve solves a square linear system over Q.
func gaussSolve(mat [][]*big.Rat, rhs []*big.Rat) ([]*big.Rat, bool) {
	n := len(mat)
	if n == 0 || len(mat[0]) != n {
		return nil, false
	}
	for col := 0; col < n; col++ {
		pivot := -1
		for row := col; row < n; row++ {
			if mat[row][col].Sign() != 0 {
				pivot = row
				break
			}
		}
		if pivot < 0 {
			return nil, false
		}
		mat[col], mat[pivot] = mat[pivot], mat[col]
		rhs[col], rhs[pivot] = rhs[pivot], rhs[col]
		inv := new(big.Rat).Inv(mat[col][col])
		for row := 0; row < n; row++ {
			if row == col || mat[row][col].Sign() == 0 {
				continue
			}
			factor := new(big.Rat).Mul(mat[row][col], inv)
			for k := col; k < n; k++ {
				mat[row][k].Sub(mat[row][k], new(big.Rat).Mul(factor, mat[col][k]))
			}
			rhs[row].Sub(rhs[row], new(big.Rat).Mul(factor, rhs[col]))
		}
	}
	out := make([]*big.Rat, n)
	for i := range out {
		out[i] = new(big.Rat).Quo(rhs[i], mat[i][i])
	}
	return out, true
}

func ratExpr(r *big.Rat) Expr { return newNum(new(big.Rat).Set(r)) }

// integrateFraction integrates one partial fraction.
func integrateFraction(fr fraction, X Expr) (Expr, bool) {
	fExpr := fr.f.toExpr(X)
	if fr.f.deg() == 1 {
		A := ratExpr(fr.num.coeff(0))
		a := ratExpr(fr.f.coeff(1))
		if fr.k == 1 {
			return MulOf(A, PowOf(a, N(-1)), LogOf(fExpr)), true
		}
		k1 := N(int64(1 - fr.k))
		return MulOf(A, PowOf(MulOf(a, k1), N(-1)), PowOf(fExpr, k1)), true
	}
	if fr.k != 1 {
		return nil, false
	}
	// (B*x + C)/(a*x**2 + b*x + c)
	B, C := ratExpr(fr.num.coeff(1)), ratExpr(fr.num.coeff(0))
	a, b, c := ratExpr(fr.f.coeff(2)), ratExpr(fr.f.coeff(1)), ratExpr(fr.f.coeff(0))
	disc := SubOf(PowOf(b, N(2)), MulOf(N(4), a, c))
	twoA := MulOf(N(2), a)
	if numberSign(disc) < 0 {
		// B/(2a)*log(f) + (C - B*b/(2a)) * 2/sqrt(-disc) * atan((2a*x + b)/sqrt(-disc))
		root := SqrtOf(Neg(disc))
		logPart := MulOf(B, PowOf(twoA, N(-1)), LogOf(fExpr))
		D := SubOf(C, MulOf(B, b, PowOf(twoA, N(-1))))
		atanArg := Expand(MulOf(AddOf(MulOf(twoA, X), b), PowOf(root, N(-1))))
		atanPart := MulOf(D, N(2), PowOf(root, N(-1)), AtanOf(atanArg))
		return AddOf(logPart, atanPart), true
	}
	root := SqrtOf(disc)
	r1 := Expand(MulOf(AddOf(Neg(b), root), PowOf(twoA, N(-1))))
	r2 := Expand(MulOf(SubOf(Neg(b), root), PowOf(twoA, N(-1))))
	// (B*x + C)/(a*(x - r1)*(x - r2)) = P/(x - r1) + Q/(x - r2)
	P := Expand(MulOf(AddOf(MulOf(B, r1), C), PowOf(MulOf(a, SubOf(r1, r2)), N(-1))))
	Q := Expand(MulOf(AddOf(MulOf(B, r2), C), PowOf(MulOf(a, SubOf(r2, r1)), N(-1))))
	return AddOf(MulOf(P, LogOf(SubOf(X, r1))), MulOf(Q, LogOf(SubOf(X, r2)))), true
}

// ============================================================
// Integration by parts
// ============================================================

// integrateByParts handles P(x)*g(x) for a polynomial P and g one of exp,
// sin, cos, sinh, cosh or c**x of a linear argument (repeated parts on P),
// or g one of log, atan of a linear argument (parts on g).
func integrateByParts(e Expr, x string, depth int) (Expr, bool) {
	m, ok := e.(*Mul)
	if !ok {
		return nil, false
	}
	polyParts, others := []Expr{}, []Expr{}
	for _, f := range m.factors {
		if _, ok := Coeffs(f, x); ok {
			polyParts = append(polyParts, f)
		} else {
			others = append(others, f)
		}
	}
	if len(others) != 1 || len(polyParts) == 0 {
		return nil, false
	}
	P := MulOf(polyParts...)
	g := others[0]

	if fn, ok := g.(*Func); ok && len(fn.args) == 1 {
		switch fn.name {
		case "log", "atan":
			if _, _, lin := linearIn(fn.args[0], x); !lin {
				return nil, false
			}
			Q, ok := integrate(P, x, depth+1)
			if !ok {
				return nil, false
			}
			rest, ok := integrate(Expand(MulOf(Q, g.Diff(x))), x, depth+1)
			if !ok {
				return nil, false
			}
			return SubOf(MulOf(Q, g), rest), true
		}
	}
	if !repeatable(g, x) {
		return nil, false
	}
	// sum over k of (-1)**k * P^(k) * G_(k+1)
	terms := []Expr{}
	G := g
	sign := N(1)
	for k := 0; !isZero(P); k++ {
		next, ok := integrateScaled(G, x)
		if !ok {
			return nil, false
		}
		G = next
		terms = append(terms, MulOf(sign, P, G))
		P = P.Diff(x)
		sign = numNeg(sign)
		if k > 64 {
			return nil, false
		}
	}
	return Expand(AddOf(terms...)), true
}

// integrateScaled looks up c*g in the table, where c is the x-free part of
// a product: each repeated antiderivative carries a coefficient such as
// -cos(x) or exp(2*x)/2.
func integrateScaled(e Expr, x string) (Expr, bool) {
	m, ok := e.(*Mul)
	if !ok {
		return integrateTable(e, x)
	}
	consts, deps := []Expr{}, []Expr{}
	for _, f := range m.factors {
		if dependsOn(f, x) {
			deps = append(deps, f)
		} else {
			consts = append(consts, f)
		}
	}
	r, ok := integrateTable(MulOf(deps...), x)
	if !ok {
		return nil, false
	}
	return MulOf(append(consts, r)...), true
}

// repeatable reports functions whose repeated antiderivatives stay in the
// integration table.
func repeatable(g Expr, x string) bool {
	switch v := g.(type) {
	case *Func:
		switch v.name {
		case "exp", "sin", "cos", "sinh", "cosh":
			_, _, ok := linearIn(v.args[0], x)
			return ok
		}
	case *Pow:
		if !dependsOn(v.base, x) {
			_, _, ok := linearIn(v.exp, x)
			return ok
		}
	}
	return false
}

// ============================================================
// Substitution (derivative divides)
// ============================================================

// integrateSubstitution looks for an inner expression u whose derivative
// divides the integrand, so that e dx = h(u) du. The quotient e/u' is
// tried with u replaced before dividing, which keeps exp(x)/(exp(x) + 1)
// as 1/(t + 1), and then after cancelling.
func integrateSubstitution(e Expr, x string, depth int) (Expr, bool) {
	t := fmt.Sprintf("$u%d", depth)
	T := S(t)
	for _, u := range substitutionCandidates(e, x) {
		du := u.Diff(x)
		if isZero(du) {
			continue
		}
		quotients := []func() Expr{
			func() Expr {
				return MulOf(replaceSubtree(e, u, T), PowOf(replaceSubtree(du, u, T), N(-1)))
			},
			func() Expr {
				return replaceSubtree(Cancel(MulOf(e, PowOf(du, N(-1)))), u, T)
			},
		}
		for _, quotient := range quotients {
			qt, ok := tryQuotient(quotient)
			if !ok || dependsOn(qt, x) {
				continue
			}
			r, ok := integrate(qt, t, depth+1)
			if !ok {
				continue
			}
			return r.Subs(map[string]Expr{t: u}), true
		}
	}
	return nil, false
}

// tryQuotient builds a substitution quotient; a zero division while
// building it rules the candidate out.
func tryQuotient(f func() Expr) (q Expr, ok bool) {
	defer func() {
		if recover() != nil {
			q, ok = nil, false
		}
	}()
	return f(), true
}

func substitutionCandidates(e Expr, x string) []Expr {
	seen := map[string]bool{}
	out := []Expr{}
	var walk func(Expr)
	add := func(u Expr) {
		if s, ok := u.(*Sym); ok && s.name == x {
			return
		}
		if !dependsOn(u, x) || seen[u.String()] {
			return
		}
		seen[u.String()] = true
		out = append(out, u)
	}
	walk = func(n Expr) {
		switch v := n.(type) {
		case *Func:
			for _, a := range v.args {
				add(a)
			}
			add(v)
		case *Pow:
			add(v.base)
		}
		for _, c := range children(n) {
			walk(c)
		}
	}
	walk(e)
	return out
}

// replaceSubtree substitutes with for every occurrence of target in e.
func replaceSubtree(e, target, with Expr) Expr {
	if e.Equal(target) {
		return with
	}
	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = replaceSubtree(t, target, with)
		}
		return AddOf(terms...)
	case *Mul:
		factors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			factors[i] = replaceSubtree(f, target, with)
		}
		return MulOf(factors...)
	case *Pow:
		return PowOf(replaceSubtree(v.base, target, with), replaceSubtree(v.exp, target, with))
	case *Func:
		args := make([]Expr, len(v.args))
		for i, a := range v.args {
			args[i] = replaceSubtree(a, target, with)
		}
		return FuncOf(v.name, args...)
	}
	return e
}
