package symcalc

import (
	"sort"
	"strings"
)

// ============================================================
// Canonical ordering
// ============================================================

// Sums print polynomial monomials first, by descending degree vector over
// the alphabetically sorted symbols; then the remaining symbolic terms; then
// the numeric constant; then symbol-free terms such as sqrt(2) or I.
const (
	rankMonomial = iota
	rankSymbolic
	rankNumber
	rankConstant
)

type termKey struct {
	term    Expr
	coeff   Expr
	rest    Expr
	rank    int
	degrees []int
	polyDeg int
}

func sortTerms(terms []Expr) {
	syms := sortedSymbols(terms)
	keys := make([]termKey, len(terms))
	for i, t := range terms {
		keys[i] = makeTermKey(t, syms)
	}
	sort.SliceStable(keys, func(i, j int) bool { return termLess(keys[i], keys[j]) })
	for i := range keys {
		terms[i] = keys[i].term
	}
}

func makeTermKey(t Expr, syms []string) termKey {
	coeff, rest := splitCoeff(t)
	k := termKey{term: t, coeff: coeff, rest: rest}
	switch {
	case isNumber(t):
		k.rank = rankNumber
	case len(FreeSymbols(t)) == 0:
		k.rank = rankConstant
	default:
		if vec, ok := monomialDegrees(rest, syms); ok {
			k.rank = rankMonomial
			k.degrees = vec
		} else {
			k.rank = rankSymbolic
			k.polyDeg = polyPartDegree(rest)
		}
	}
	return k
}

func termLess(a, b termKey) bool {
	if a.rank != b.rank {
		return a.rank < b.rank
	}
	switch a.rank {
	case rankMonomial:
		for i := range a.degrees {
			if a.degrees[i] != b.degrees[i] {
				return a.degrees[i] > b.degrees[i]
			}
		}
		return numberCmp(a.coeff, b.coeff) < 0
	case rankSymbolic:
		if a.polyDeg != b.polyDeg {
			return a.polyDeg > b.polyDeg
		}
	case rankNumber:
		return false
	}
	if c := compareExpr(a.rest, b.rest); c != 0 {
		return c < 0
	}
	return numberCmp(a.coeff, b.coeff) < 0
}

func sortedSymbols(terms []Expr) []string {
	set := map[string]bool{}
	for _, t := range terms {
		for _, s := range FreeSymbols(t) {
			set[s] = true
		}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// monomialDegrees reports the exponent vector of a product of symbols raised
// to positive integer powers.
func monomialDegrees(e Expr, syms []string) ([]int, bool) {
	vec := make([]int, len(syms))
	index := func(name string) int {
		return sort.SearchStrings(syms, name)
	}
	add := func(f Expr) bool {
		switch v := f.(type) {
		case *Sym:
			vec[index(v.name)]++
			return true
		case *Pow:
			s, ok := v.base.(*Sym)
			if !ok {
				return false
			}
			n, ok := v.exp.(*Num)
			if !ok {
				return false
			}
			k, ok := n.smallInt()
			if !ok || k <= 0 {
				return false
			}
			vec[index(s.name)] += int(k)
			return true
		}
		return false
	}
	if m, ok := e.(*Mul); ok {
		for _, f := range m.factors {
			if !add(f) {
				return nil, false
			}
		}
		return vec, true
	}
	if !add(e) {
		return nil, false
	}
	return vec, true
}

// polyPartDegree is the total degree of the symbol-power factors of a term.
func polyPartDegree(e Expr) int {
	deg := 0
	factors := []Expr{e}
	if m, ok := e.(*Mul); ok {
		factors = m.factors
	}
	for _, f := range factors {
		if vec, ok := monomialDegrees(f, FreeSymbols(f)); ok {
			for _, d := range vec {
				deg += d
			}
		}
	}
	return deg
}

// Product factors order by class: numeric radicals, constants, symbols,
// functions, unevaluated calculus nodes, then sums.
func exprClass(e Expr) int {
	switch v := e.(type) {
	case *Num, *Float:
		return 0
	case *Pow:
		if isNumber(v.base) {
			return 1
		}
		return exprClass(v.base)
	case *Const:
		return 2
	case *Sym:
		return 3
	case *Func:
		return 4
	case *Derivative, *Integral:
		return 5
	case *Add:
		return 6
	case *Mul:
		return 7
	}
	return 8
}

// compareExpr is a total order over canonical expressions.
func compareExpr(a, b Expr) int {
	ca, cb := exprClass(a), exprClass(b)
	if ca != cb {
		return cmpInt(ca, cb)
	}
	ab, ae := asPow(a)
	bb, be := asPow(b)
	if c := compareBase(ab, bb); c != 0 {
		return c
	}
	return compareExponent(ae, be)
}

func compareBase(a, b Expr) int {
	if isNumber(a) && isNumber(b) {
		return numberCmp(a, b)
	}
	switch av := a.(type) {
	case *Const:
		if bv, ok := b.(*Const); ok {
			return strings.Compare(av.name, bv.name)
		}
	case *Sym:
		if bv, ok := b.(*Sym); ok {
			return strings.Compare(av.name, bv.name)
		}
	case *Func:
		if bv, ok := b.(*Func); ok {
			if c := strings.Compare(av.name, bv.name); c != 0 {
				return c
			}
			if c := cmpInt(len(av.args), len(bv.args)); c != 0 {
				return c
			}
			for i := range av.args {
				if c := compareExpr(av.args[i], bv.args[i]); c != 0 {
					return c
				}
			}
			return 0
		}
	case *Add:
		if bv, ok := b.(*Add); ok {
			return compareAdd(av, bv)
		}
	case *Mul:
		if bv, ok := b.(*Mul); ok {
			if c := cmpInt(len(av.factors), len(bv.factors)); c != 0 {
				return c
			}
			for i := range av.factors {
				if c := compareExpr(av.factors[i], bv.factors[i]); c != 0 {
					return c
				}
			}
			return 0
		}
	}
	if c := cmpInt(exprClass(a), exprClass(b)); c != 0 {
		return c
	}
	return strings.Compare(a.String(), b.String())
}

func compareExponent(a, b Expr) int {
	an, bn := isNumber(a), isNumber(b)
	switch {
	case an && bn:
		return numberCmp(a, b)
	case an:
		return -1
	case bn:
		return 1
	}
	return compareExpr(a, b)
}

// compareAdd orders sums by degree and then term by term, which puts
// (x - 1)*(x + 1) and (x + 1)*(x**2 - x + 1) in their familiar order.
func compareAdd(a, b *Add) int {
	if c := cmpInt(sumDegree(a), sumDegree(b)); c != 0 {
		return c
	}
	n := len(a.terms)
	if len(b.terms) < n {
		n = len(b.terms)
	}
	for i := 0; i < n; i++ {
		ca, ra := splitCoeff(a.terms[i])
		cb, rb := splitCoeff(b.terms[i])
		if c := compareExpr(ra, rb); c != 0 {
			return c
		}
		if c := numberCmp(ca, cb); c != 0 {
			return c
		}
	}
	return cmpInt(len(a.terms), len(b.terms))
}

func sumDegree(a *Add) int {
	syms := sortedSymbols(a.terms)
	best := 0
	for _, t := range a.terms {
		_, rest := splitCoeff(t)
		vec, ok := monomialDegrees(rest, syms)
		if !ok {
			continue
		}
		total := 0
		for _, d := range vec {
			total += d
		}
		if total > best {
			best = total
		}
	}
	return best
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func sortFactors(fs []Expr) {
	sort.SliceStable(fs, func(i, j int) bool { return compareExpr(fs[i], fs[j]) < 0 })
}
