package symcalc

import (
	"math"
	"math/big"
)

// ============================================================
// Equation
// ============================================================

// Equation is LHS = RHS; Solve works on its residual LHS - RHS.
type Equation struct{ LHS, RHS Expr }

func Eq(lhs, rhs Expr) *Equation { return &Equation{LHS: lhs, RHS: rhs} }
func (e *Equation) String() string {
	return "Eq(" + e.LHS.String() + ", " + e.RHS.String() + ")"
}
func (e *Equation) LaTeX() string { return e.LHS.LaTeX() + " = " + e.RHS.LaTeX() }
func (e *Equation) Residual() Expr {
	return SubOf(e.LHS, e.RHS)
}

// ============================================================
// Solvers
// ============================================================

// imageVar names the integer parameter of periodic solution families.
const imageVar = "n"

// SolveEquation solves lhs = rhs for varName over the complex numbers.
func SolveEquation(eq *Equation, varName string) Set {
	return Solve(eq.Residual(), varName)
}

// Solve returns the values of varName in ℂ for which e = 0. Roots of the
// denominator are excluded. Identities give Complexes, contradictions the
// empty set and equations no rule can invert a ConditionSet.
func Solve(e Expr, varName string) Set {
	if !dependsOn(e, varName) {
		return constantSolution(e, varName)
	}
	n, d := NumerDenom(e)
	return excludePoles(solveZero(Expand(n), varName), d, varName)
}

func constantSolution(e Expr, x string) Set {
	switch {
	case isZero(e):
		return Complexes
	case len(FreeSymbols(e)) == 0:
		return EmptySet()
	}
	return &ConditionSet{varName: x, cond: e}
}

func solveZero(n Expr, x string) Set {
	if !dependsOn(n, x) {
		return constantSolution(n, x)
	}
	if cs, ok := Coeffs(n, x); ok {
		return solvePolynomial(cs, x)
	}
	if m, ok := n.(*Mul); ok {
		parts := []Set{}
		for _, f := range m.factors {
			if dependsOn(f, x) {
				parts = append(parts, solveZero(f, x))
			}
		}
		return unionOf(parts...)
	}
	return solveTranscendental(n, x)
}

// ============================================================
// Polynomial equations
// ============================================================

// solvePolynomial solves sum(cs[k]*x**k) = 0.
func solvePolynomial(cs []Expr, x string) Set {
	X := S(x)
	roots := []Expr{}
	// x**k divides the polynomial
	lo := 0
	for lo < len(cs)-1 && isZero(cs[lo]) {
		lo++
	}
	if lo > 0 {
		roots = append(roots, N(0))
		cs = cs[lo:]
	}
	if len(cs) == 1 {
		return NewFiniteSet(roots...)
	}
	if p, ok := rationalPoly(cs); ok {
		found, rest := rationalPolyRoots(p, X)
		roots = append(roots, found...)
		if rest != nil {
			return unionOf(NewFiniteSet(roots...), &ConditionSet{varName: x, cond: rest})
		}
		return NewFiniteSet(roots...)
	}
	switch len(cs) - 1 {
	case 0:
	case 1:
		roots = append(roots, linearRoot(cs[1], cs[0]))
	case 2:
		roots = append(roots, quadraticRoots(cs[2], cs[1], cs[0])...)
	default:
		terms := make([]Expr, len(cs))
		for k, c := range cs {
			terms[k] = MulOf(c, PowOf(X, N(int64(k))))
		}
		return unionOf(NewFiniteSet(roots...), &ConditionSet{varName: x, cond: AddOf(terms...)})
	}
	return NewFiniteSet(roots...)
}

func rationalPoly(cs []Expr) (poly, bool) {
	p := make(poly, len(cs))
	for k, c := range cs {
		n, ok := c.(*Num)
		if !ok {
			return nil, false
		}
		p[k] = n.Rat()
	}
	return p, true
}

// rationalPolyRoots finds the roots of a polynomial over Q factor by
// factor. Factors of degree three and up that are neither linear nor
// biquadratic come back multiplied together in rest.
func rationalPolyRoots(p poly, X Expr) (roots []Expr, rest Expr) {
	_, fs := factorUnivariate(p)
	unsolved := []Expr{}
	for _, f := range fs {
		q := f.p
		switch {
		case q.deg() == 1:
			roots = append(roots, newNum(new(big.Rat).Neg(new(big.Rat).Quo(q[0], q[1]))))
		case q.deg() == 2:
			roots = append(roots, quadraticRoots(ratExpr(q[2]), ratExpr(q[1]), ratExpr(q[0]))...)
		case q.deg() == 4 && q.coeff(1).Sign() == 0 && q.coeff(3).Sign() == 0:
			for _, y := range quadraticRoots(ratExpr(q[4]), ratExpr(q[2]), ratExpr(q[0])) {
				r := SqrtOf(y)
				roots = append(roots, r, Neg(r))
			}
		default:
			unsolved = append(unsolved, q.toExpr(X))
		}
	}
	if len(unsolved) > 0 {
		rest = MulOf(unsolved...)
	}
	return roots, rest
}

// linearRoot solves a*x + b = 0.
func linearRoot(a, b Expr) Expr {
	return Expand(Neg(DivOf(b, a)))
}

// quadraticRoots solves a*x**2 + b*x + c = 0 with the quadratic formula;
// negative discriminants give complex roots.
func quadraticRoots(a, b, c Expr) []Expr {
	disc := Expand(SubOf(PowOf(b, N(2)), MulOf(N(4), a, c)))
	twoA := PowOf(MulOf(N(2), a), N(-1))
	if isZero(disc) {
		return []Expr{Expand(MulOf(Neg(b), twoA))}
	}
	sq := SqrtOf(disc)
	return []Expr{
		Expand(MulOf(SubOf(Neg(b), sq), twoA)),
		Expand(MulOf(AddOf(Neg(b), sq), twoA)),
	}
}

// ============================================================
// Inverting elementary functions
// ============================================================

// solveTranscendental handles equations polynomial in a single function
// application g(u): the polynomial is solved for g and each root is
// inverted. Everything else is a ConditionSet.
func solveTranscendental(n Expr, x string) Set {
	unsolved := &ConditionSet{varName: x, cond: n}
	gens := transcendentals(n, x)
	if len(gens) != 1 {
		return unsolved
	}
	g := gens[0]
	const t = "$t"
	nt := replaceSubtree(n, g, S(t))
	if dependsOn(nt, x) {
		return unsolved
	}
	values, ok := solveZero(Expand(nt), t).(*FiniteSet)
	if !ok {
		return unsolved
	}
	parts := make([]Set, 0, len(values.elems))
	for _, v := range values.elems {
		s, ok := invert(g, v, x)
		if !ok {
			return unsolved
		}
		parts = append(parts, s)
	}
	return unionOf(parts...)
}

// transcendentals lists the distinct non-polynomial sub-expressions of e
// that depend on x, outermost first.
func transcendentals(e Expr, x string) []Expr {
	seen := map[string]bool{}
	out := []Expr{}
	var walk func(Expr)
	walk = func(n Expr) {
		if !dependsOn(n, x) {
			return
		}
		switch v := n.(type) {
		case *Func:
			if !seen[v.String()] {
				seen[v.String()] = true
				out = append(out, v)
			}
			return
		case *Pow:
			if k, ok := v.exp.(*Num); !ok || !k.IsInteger() {
				if !seen[v.String()] {
					seen[v.String()] = true
					out = append(out, v)
				}
				return
			}
		}
		for _, c := range children(n) {
			walk(c)
		}
	}
	walk(e)
	return out
}

// invert solves g = v for x.
func invert(g, v Expr, x string) (Set, bool) {
	n := S(imageVar)
	twoPiN := MulOf(N(2), n, Pi)
	switch fn := g.(type) {
	case *Func:
		if len(fn.args) != 1 {
			return nil, false
		}
		u := fn.args[0]
		switch fn.name {
		case "exp":
			if isZero(v) {
				return EmptySet(), true
			}
			return family(u, AddOf(MulOf(twoPiN, I), LogOf(v)), x)
		case "log":
			return Solve(SubOf(u, ExpOf(v)), x), true
		case "sin":
			a := AsinOf(v)
			first, ok := family(u, AddOf(twoPiN, a), x)
			if !ok {
				return nil, false
			}
			if isNumEqual(v, 1) || isNumEqual(v, -1) {
				return first, true
			}
			second, ok := family(u, AddOf(twoPiN, Pi, Neg(a)), x)
			if !ok {
				return nil, false
			}
			return unionOf(first, second), true
		case "cos":
			a := AcosOf(v)
			first, ok := family(u, AddOf(twoPiN, a), x)
			if !ok {
				return nil, false
			}
			if isNumEqual(v, 1) || isNumEqual(v, -1) {
				return first, true
			}
			second, ok := family(u, SubOf(twoPiN, a), x)
			if !ok {
				return nil, false
			}
			return unionOf(first, second), true
		case "tan":
			return family(u, AddOf(MulOf(n, Pi), AtanOf(v)), x)
		}
	case *Pow:
		if dependsOn(fn.exp, x) {
			return nil, false
		}
		cands, ok := Solve(SubOf(fn.base, PowOf(v, PowOf(fn.exp, N(-1)))), x).(*FiniteSet)
		if !ok {
			return nil, false
		}
		kept := []Expr{}
		for _, c := range cands.elems {
			if vanishes(SubOf(g.Subs(map[string]Expr{x: c}), v)) {
				kept = append(kept, c)
			}
		}
		return NewFiniteSet(kept...), true
	}
	return nil, false
}

// family solves u = value for x when u is linear in x, giving the
// integer-indexed ImageSet of value's periodic branch.
func family(u, value Expr, x string) (Set, bool) {
	a, b, ok := linearIn(u, x)
	if !ok {
		return nil, false
	}
	return &ImageSet{lambda: imageVar, expr: Expand(DivOf(SubOf(value, b), a))}, true
}

// vanishes reports a symbol-free expression that evaluates to zero.
func vanishes(e Expr) (zero bool) {
	defer func() {
		if recover() != nil {
			zero = false
		}
	}()
	if isZero(Expand(e)) {
		return true
	}
	re, im, ok := complexValue(e)
	return ok && math.Abs(re) < 1e-12 && math.Abs(im) < 1e-12
}

// excludePoles drops finite roots at which the denominator vanishes.
func excludePoles(s Set, d Expr, x string) Set {
	if !dependsOn(d, x) {
		return s
	}
	switch v := s.(type) {
	case *FiniteSet:
		kept := []Expr{}
		for _, r := range v.elems {
			if !poleAt(d, x, r) {
				kept = append(kept, r)
			}
		}
		return NewFiniteSet(kept...)
	case *Union:
		parts := make([]Set, len(v.sets))
		for i, p := range v.sets {
			parts[i] = excludePoles(p, d, x)
		}
		return unionOf(parts...)
	}
	return s
}

func poleAt(d Expr, x string, r Expr) (pole bool) {
	defer func() {
		if recover() != nil {
			pole = true
		}
	}()
	return vanishes(d.Subs(map[string]Expr{x: r}))
}
