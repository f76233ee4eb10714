package symcalc

import (
	"math"
	"sort"
	"strings"
)

// ============================================================
// Solution sets
// ============================================================

// Set is the result of Solve: a finite set of roots (possibly empty), the
// whole complex plane, a family of roots indexed by an integer, a union of
// those, or an unsolved condition.
type Set interface {
	String() string
	LaTeX() string
	setType() string
	toJSON() map[string]interface{}
}

// FiniteSet holds distinct elements in canonical order.
type FiniteSet struct{ elems []Expr }

// NewFiniteSet deduplicates and orders elements: real values ascending, then
// complex values by real part and imaginary part, then symbolic elements.
func NewFiniteSet(elems ...Expr) *FiniteSet {
	seen := map[string]bool{}
	out := make([]Expr, 0, len(elems))
	for _, e := range elems {
		k := e.String()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return setElemLess(out[i], out[j]) })
	return &FiniteSet{elems: out}
}

// EmptySet is the finite set with no elements.
func EmptySet() *FiniteSet { return &FiniteSet{} }

func (s *FiniteSet) Elems() []Expr { return s.elems }
func (s *FiniteSet) Len() int      { return len(s.elems) }
func (s *FiniteSet) setType() string {
	if len(s.elems) == 0 {
		return "emptyset"
	}
	return "finiteset"
}

func (s *FiniteSet) String() string {
	if len(s.elems) == 0 {
		return "EmptySet"
	}
	parts := make([]string, len(s.elems))
	for i, e := range s.elems {
		parts[i] = strExpr(e, false)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (s *FiniteSet) LaTeX() string {
	if len(s.elems) == 0 {
		return `\emptyset`
	}
	parts := make([]string, len(s.elems))
	for i, e := range s.elems {
		parts[i] = latexExpr(e, false)
	}
	return `\left\{` + strings.Join(parts, ", ") + `\right\}`
}

func (s *FiniteSet) toJSON() map[string]interface{} {
	es := make([]map[string]interface{}, len(s.elems))
	for i, e := range s.elems {
		es[i] = e.toJSON()
	}
	return map[string]interface{}{"type": s.setType(), "elements": es}
}

// Contains reports whether e is one of the elements.
func (s *FiniteSet) Contains(e Expr) bool {
	for _, x := range s.elems {
		if x.Equal(e) {
			return true
		}
	}
	return false
}

type complexesSet struct{}

// Complexes is the set of all complex numbers, returned for identities.
var Complexes Set = &complexesSet{}

func (*complexesSet) String() string  { return "Complexes" }
func (*complexesSet) LaTeX() string   { return `\mathbb{C}` }
func (*complexesSet) setType() string { return "complexes" }
func (*complexesSet) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "complexes"}
}

// ConditionSet stands for the roots of cond = 0 that could not be found in
// closed form.
type ConditionSet struct {
	varName string
	cond    Expr
}

func (c *ConditionSet) String() string {
	return "ConditionSet(" + c.varName + ", Eq(" + strExpr(c.cond, false) + ", 0), Complexes)"
}

func (c *ConditionSet) LaTeX() string {
	x := latexSymbol(c.varName)
	return `\left\{` + x + `\; \middle|\; ` + x + ` \in \mathbb{C} \wedge ` + latexExpr(c.cond, false) + ` = 0 \right\}`
}

func (c *ConditionSet) setType() string { return "conditionset" }
func (c *ConditionSet) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "conditionset", "var": c.varName, "condition": c.cond.toJSON()}
}

// ImageSet is the family {expr | lambda ∊ ℤ}, e.g. the 2*n*pi periodic
// roots of sin(x) = 0.
type ImageSet struct {
	lambda string
	expr   Expr
}

func (s *ImageSet) String() string {
	return "ImageSet(Lambda(" + s.lambda + ", " + strExpr(s.expr, false) + "), Integers)"
}

func (s *ImageSet) LaTeX() string {
	n := latexSymbol(s.lambda)
	return `\left\{` + latexExpr(s.expr, false) + `\; \middle|\; ` + n + ` \in \mathbb{Z}\right\}`
}

func (s *ImageSet) setType() string { return "imageset" }
func (s *ImageSet) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "imageset", "lambda": s.lambda, "expr": s.expr.toJSON()}
}

// Union joins several solution sets.
type Union struct{ sets []Set }

func (u *Union) String() string {
	parts := make([]string, len(u.sets))
	for i, s := range u.sets {
		parts[i] = s.String()
	}
	return "Union(" + strings.Join(parts, ", ") + ")"
}

func (u *Union) LaTeX() string {
	parts := make([]string, len(u.sets))
	for i, s := range u.sets {
		parts[i] = s.LaTeX()
	}
	return strings.Join(parts, ` \cup `)
}

func (u *Union) setType() string { return "union" }
func (u *Union) toJSON() map[string]interface{} {
	ss := make([]map[string]interface{}, len(u.sets))
	for i, s := range u.sets {
		ss[i] = s.toJSON()
	}
	return map[string]interface{}{"type": "union", "sets": ss}
}

// unionOf flattens, drops empty sets and collapses single members.
func unionOf(sets ...Set) Set {
	out := []Set{}
	finite := []Expr{}
	for _, s := range sets {
		switch v := s.(type) {
		case *FiniteSet:
			finite = append(finite, v.elems...)
		case *Union:
			out = append(out, v.sets...)
		case *complexesSet:
			return Complexes
		default:
			out = append(out, s)
		}
	}
	if len(finite) > 0 {
		out = append([]Set{NewFiniteSet(finite...)}, out...)
	}
	switch len(out) {
	case 0:
		return EmptySet()
	case 1:
		return out[0]
	}
	return &Union{sets: out}
}

// ============================================================
// Element ordering
// ============================================================

// complexValue splits a symbol-free element into real and imaginary parts.
func complexValue(e Expr) (re, im float64, ok bool) {
	if len(FreeSymbols(e)) > 0 {
		return 0, 0, false
	}
	v := Evalf(e)
	re, im = 0, 0
	terms := []Expr{v}
	if a, isAdd := v.(*Add); isAdd {
		terms = a.terms
	}
	for _, t := range terms {
		if isNumber(t) {
			re += numberFloat(t)
			continue
		}
		c, rest := splitCoeff(t)
		if isConst(rest, I) {
			im += numberFloat(c)
			continue
		}
		return 0, 0, false
	}
	if math.IsNaN(re) || math.IsNaN(im) {
		return 0, 0, false
	}
	return re, im, true
}

func setElemLess(a, b Expr) bool {
	ar, ai, aok := complexValue(a)
	br, bi, bok := complexValue(b)
	switch {
	case aok && bok:
		if (ai == 0) != (bi == 0) {
			return ai == 0
		}
		if ar != br {
			return ar < br
		}
		if ai != bi {
			return ai < bi
		}
	case aok:
		return true
	case bok:
		return false
	}
	return compareExpr(a, b) < 0
}
