// Package symcalc provides a deterministic symbolic math kernel and the
// text pipeline around it: parse an expression string, transform it
// (simplify, expand, factor, differentiate, integrate, solve, evaluate) and
// render the result as linear text, a two-dimensional pretty print or LaTeX.
//
// Design goals:
//   - Exact rational arithmetic (math/big.Rat); machine floats appear only
//     after numeric evaluation or when the input contains decimals
//   - Canonical, deterministic ordering of sums and products
//   - Immutable trees: every operation returns a new tree
package symcalc

import (
	"fmt"
	"math"
	"math/big"
)

// ============================================================
// Core Interface
// ============================================================

// Expr is a node of an immutable symbolic expression tree. Values are built
// through the constructors (N, S, AddOf, MulOf, PowOf, FuncOf, ...) which
// always return canonical forms, so Equal is structural.
type Expr interface {
	String() string
	LaTeX() string
	Equal(other Expr) bool
	Diff(varName string) Expr
	Subs(m map[string]Expr) Expr
	exprType() string
	toJSON() map[string]interface{}
}

// ============================================================
// Num: exact rational number
// ============================================================

type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

func F(p, q int64) *Num {
	if q == 0 {
		panic("symcalc: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

func newNum(r *big.Rat) *Num    { return &Num{val: r} }
func numFromInt(i *big.Int) *Num { return &Num{val: new(big.Rat).SetInt(i)} }

func (n *Num) String() string              { return Str(n) }
func (n *Num) LaTeX() string               { return Latex(n) }
func (n *Num) Subs(map[string]Expr) Expr   { return n }
func (n *Num) Diff(string) Expr            { return N(0) }
func (n *Num) Equal(other Expr) bool       { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) exprType() string            { return "num" }
func (n *Num) Float64() float64            { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool                { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool                 { return n.val.IsInt() && n.val.Num().IsInt64() && n.val.Num().Int64() == 1 }
func (n *Num) IsNegOne() bool              { return n.val.IsInt() && n.val.Num().IsInt64() && n.val.Num().Int64() == -1 }
func (n *Num) IsInteger() bool             { return n.val.IsInt() }
func (n *Num) Rat() *big.Rat               { return new(big.Rat).Set(n.val) }
func (n *Num) IsPositive() bool            { return n.val.Sign() > 0 }
func (n *Num) IsNegative() bool            { return n.val.Sign() < 0 }
func (n *Num) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "num", "value": n.val.RatString()}
}

// smallInt reports the value as an int64 when it is an integer that fits.
func (n *Num) smallInt() (int64, bool) {
	if !n.val.IsInt() || !n.val.Num().IsInt64() {
		return 0, false
	}
	return n.val.Num().Int64(), true
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numSub(a, b *Num) *Num { return &Num{val: new(big.Rat).Sub(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("symcalc: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}
func numDiv(a, b *Num) *Num { return numMul(a, numRecip(b)) }
func numAbs(a *Num) *Num    { return &Num{val: new(big.Rat).Abs(a.val)} }
func numCmp(a, b *Num) int  { return a.val.Cmp(b.val) }

// ============================================================
// Float: machine-precision number
// ============================================================

type Float struct{ val float64 }

func NFloat(f float64) *Float { return &Float{val: f} }

func (f *Float) String() string            { return Str(f) }
func (f *Float) LaTeX() string             { return Latex(f) }
func (f *Float) Subs(map[string]Expr) Expr { return f }
func (f *Float) Diff(string) Expr          { return N(0) }
func (f *Float) Equal(other Expr) bool     { o, ok := other.(*Float); return ok && f.val == o.val }
func (f *Float) exprType() string          { return "float" }
func (f *Float) Float64() float64          { return f.val }
func (f *Float) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "float", "value": f.val}
}

// ============================================================
// Sym: symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym                     { return &Sym{name: name} }
func (s *Sym) String() string                { return Str(s) }
func (s *Sym) LaTeX() string                 { return Latex(s) }
func (s *Sym) Equal(other Expr) bool         { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) exprType() string              { return "sym" }
func (s *Sym) Name() string                  { return s.name }
func (s *Sym) toJSON() map[string]interface{} { return map[string]interface{}{"type": "sym", "name": s.name} }

func (s *Sym) Subs(m map[string]Expr) Expr {
	if v, ok := m[s.name]; ok {
		return v
	}
	return s
}

func (s *Sym) Diff(varName string) Expr {
	if s.name == varName {
		return N(1)
	}
	return N(0)
}

// ============================================================
// Const: named mathematical constants
// ============================================================

// Const is one of the built-in constants pi, E (Euler's number), I (the
// imaginary unit), oo (positive infinity) and nan (an undefined value such
// as oo - oo or 0*oo).
type Const struct{ name string }

var (
	Pi  = &Const{name: "pi"}
	E   = &Const{name: "E"}
	I   = &Const{name: "I"}
	Inf = &Const{name: "oo"}
	Nan = &Const{name: "nan"}
)

func constByName(name string) (*Const, bool) {
	switch name {
	case "pi":
		return Pi, true
	case "E":
		return E, true
	case "I":
		return I, true
	case "oo":
		return Inf, true
	case "nan":
		return Nan, true
	}
	return nil, false
}

func (c *Const) String() string              { return Str(c) }
func (c *Const) LaTeX() string               { return Latex(c) }
func (c *Const) Equal(other Expr) bool       { o, ok := other.(*Const); return ok && c.name == o.name }
func (c *Const) Diff(string) Expr            { return N(0) }
func (c *Const) Subs(map[string]Expr) Expr   { return c }
func (c *Const) exprType() string            { return "const" }
func (c *Const) Name() string                { return c.name }
func (c *Const) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "const", "name": c.name}
}

func isConst(e Expr, c *Const) bool {
	o, ok := e.(*Const)
	return ok && o.name == c.name
}

// ============================================================
// Number helpers (Num and Float share the numeric fast paths)
// ============================================================

func isNumber(e Expr) bool {
	switch e.(type) {
	case *Num, *Float:
		return true
	}
	return false
}

func isNumEqual(e Expr, v int64) bool {
	n, ok := e.(*Num)
	return ok && n.val.Cmp(new(big.Rat).SetInt64(v)) == 0
}

func isZero(e Expr) bool {
	switch v := e.(type) {
	case *Num:
		return v.IsZero()
	case *Float:
		return v.val == 0
	}
	return false
}

// isOne only matches the exact rational 1; 1.0 stays visible as a coefficient.
func isOne(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.IsOne()
}

func numberFloat(e Expr) float64 {
	switch v := e.(type) {
	case *Num:
		return v.Float64()
	case *Float:
		return v.val
	}
	panic(fmt.Sprintf("symcalc: %s is not a number", e.String()))
}

func numberSign(e Expr) int {
	switch v := e.(type) {
	case *Num:
		return v.val.Sign()
	case *Float:
		switch {
		case v.val > 0:
			return 1
		case v.val < 0:
			return -1
		}
	}
	return 0
}

func numberCmp(a, b Expr) int {
	an, aok := a.(*Num)
	bn, bok := b.(*Num)
	if aok && bok {
		return numCmp(an, bn)
	}
	af, bf := numberFloat(a), numberFloat(b)
	switch {
	case af < bf:
		return -1
	case af > bf:
		return 1
	}
	return 0
}

func numberAdd(a, b Expr) Expr {
	an, aok := a.(*Num)
	bn, bok := b.(*Num)
	if aok && bok {
		return numAdd(an, bn)
	}
	return NFloat(numberFloat(a) + numberFloat(b))
}

func numberMul(a, b Expr) Expr {
	an, aok := a.(*Num)
	bn, bok := b.(*Num)
	if aok && bok {
		return numMul(an, bn)
	}
	return NFloat(numberFloat(a) * numberFloat(b))
}

func numberNeg(a Expr) Expr {
	if n, ok := a.(*Num); ok {
		return numNeg(n)
	}
	return NFloat(-numberFloat(a))
}

func numberAbs(a Expr) Expr {
	if numberSign(a) < 0 {
		return numberNeg(a)
	}
	return a
}

// floatOrInf converts a float result back into the tree, mapping infinities
// onto the oo constant.
func floatOrInf(f float64) Expr {
	switch {
	case math.IsInf(f, 1):
		return Inf
	case math.IsInf(f, -1):
		return &Mul{factors: []Expr{N(-1), Inf}}
	case math.IsNaN(f):
		return Nan
	}
	return NFloat(f)
}

func gcdInt(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
