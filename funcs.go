package symcalc

import (
	"math"
	"math/big"
	"strings"
)

// ============================================================
// Func: named function application
// ============================================================

// Func applies a named function to its arguments. Built-in names fold exact
// special values (sin(pi) -> 0) and evaluate numerically on float arguments;
// any other name is an undefined function such as f(x).
type Func struct {
	name string
	args []Expr
}

// builtinFuncs lists the one-argument functions the kernel knows.
var builtinFuncs = map[string]bool{
	"sin": true, "cos": true, "tan": true, "cot": true, "sec": true, "csc": true,
	"asin": true, "acos": true, "atan": true,
	"sinh": true, "cosh": true, "tanh": true,
	"exp": true, "log": true, "Abs": true,
	"factorial": true, "floor": true, "ceiling": true, "sign": true,
}

func IsBuiltinFunc(name string) bool { return builtinFuncs[name] }

func SinOf(arg Expr) Expr  { return FuncOf("sin", arg) }
func CosOf(arg Expr) Expr  { return FuncOf("cos", arg) }
func TanOf(arg Expr) Expr  { return FuncOf("tan", arg) }
func ExpOf(arg Expr) Expr  { return FuncOf("exp", arg) }
func LogOf(arg Expr) Expr  { return FuncOf("log", arg) }
func AbsOf(arg Expr) Expr  { return FuncOf("Abs", arg) }
func AsinOf(arg Expr) Expr { return FuncOf("asin", arg) }
func AcosOf(arg Expr) Expr { return FuncOf("acos", arg) }
func AtanOf(arg Expr) Expr { return FuncOf("atan", arg) }
func SinhOf(arg Expr) Expr { return FuncOf("sinh", arg) }
func CoshOf(arg Expr) Expr { return FuncOf("cosh", arg) }
func TanhOf(arg Expr) Expr { return FuncOf("tanh", arg) }

// FuncOf applies name to args, folding what can be folded exactly.
func FuncOf(name string, args ...Expr) Expr {
	if !builtinFuncs[name] || len(args) != 1 {
		return &Func{name: name, args: args}
	}
	arg := args[0]
	if isConst(arg, Nan) {
		return Nan
	}
	if f, ok := arg.(*Float); ok {
		if v, ok := evalFloatFunc(name, f.val); ok {
			return v
		}
	}
	if v := foldFunc(name, arg); v != nil {
		return v
	}
	return &Func{name: name, args: []Expr{arg}}
}

var (
	oddFuncs  = map[string]bool{"sin": true, "tan": true, "cot": true, "csc": true, "asin": true, "atan": true, "sinh": true, "tanh": true}
	evenFuncs = map[string]bool{"cos": true, "sec": true, "cosh": true, "Abs": true}
)

// foldFunc returns the exact value of a built-in application, or nil when
// the application stays symbolic.
func foldFunc(name string, arg Expr) Expr {
	if oddFuncs[name] || evenFuncs[name] {
		if c, rest := splitCoeff(arg); numberSign(c) < 0 && !isNumber(arg) {
			flipped := scaleTerm(numberNeg(c), rest)
			if oddFuncs[name] {
				return Neg(FuncOf(name, flipped))
			}
			return FuncOf(name, flipped)
		}
		if n, ok := arg.(*Num); ok && n.IsNegative() {
			if oddFuncs[name] {
				return Neg(FuncOf(name, numNeg(n)))
			}
			return FuncOf(name, numNeg(n))
		}
	}

	switch name {
	case "sin", "cos", "tan", "cot", "sec", "csc":
		return foldTrig(name, arg)
	case "asin":
		switch {
		case isZero(arg):
			return N(0)
		case isOne(arg):
			return DivOf(Pi, N(2))
		case arg.Equal(F(1, 2)):
			return DivOf(Pi, N(6))
		}
	case "acos":
		switch {
		case isOne(arg):
			return N(0)
		case isZero(arg):
			return DivOf(Pi, N(2))
		case isNumEqual(arg, -1):
			return Pi
		case arg.Equal(F(1, 2)):
			return DivOf(Pi, N(3))
		}
	case "atan":
		switch {
		case isZero(arg):
			return N(0)
		case isOne(arg):
			return DivOf(Pi, N(4))
		case isConst(arg, Inf):
			return DivOf(Pi, N(2))
		}
	case "sinh", "tanh":
		if isZero(arg) {
			return N(0)
		}
	case "cosh":
		if isZero(arg) {
			return N(1)
		}
	case "exp":
		switch {
		case isZero(arg):
			return N(1)
		case isOne(arg):
			return nil
		case isConst(arg, Inf):
			return Inf
		}
		if m, ok := arg.(*Mul); ok && len(m.factors) == 2 && isNumEqual(m.factors[0], -1) && isConst(m.factors[1], Inf) {
			return N(0)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "log" {
			return inner.args[0]
		}
		if v := expImaginaryPi(arg); v != nil {
			return v
		}
	case "log":
		switch {
		case isOne(arg):
			return N(0)
		case isConst(arg, E):
			return N(1)
		case isConst(arg, Inf):
			return Inf
		}
		if n, ok := arg.(*Num); ok && n.IsNegative() {
			return AddOf(LogOf(numNeg(n)), MulOf(I, Pi))
		}
		// log is the principal branch, so log(exp(u)) = u only when the
		// imaginary part of u lies in (-pi, pi].
		if inner, ok := arg.(*Func); ok && inner.name == "exp" && principalArg(inner.args[0]) {
			return inner.args[0]
		}
	case "Abs":
		if isNumber(arg) {
			return numberAbs(arg)
		}
		if isConst(arg, Pi) || isConst(arg, E) || isConst(arg, Inf) {
			return arg
		}
		if isConst(arg, I) {
			return N(1)
		}
		if c, rest := splitCoeff(arg); !isOne(c) {
			return MulOf(numberAbs(c), AbsOf(rest))
		}
	case "factorial":
		if n, ok := arg.(*Num); ok {
			if k, ok := n.smallInt(); ok && k >= 0 && k <= 1000 {
				return numFromInt(new(big.Int).MulRange(1, k))
			}
		}
	case "floor", "ceiling":
		if n, ok := arg.(*Num); ok {
			q := new(big.Int).Div(n.val.Num(), n.val.Denom())
			if name == "ceiling" && !n.val.IsInt() {
				q.Add(q, big.NewInt(1))
			}
			return numFromInt(q)
		}
	case "sign":
		if isNumber(arg) {
			return N(int64(numberSign(arg)))
		}
	}
	return nil
}

// foldTrig evaluates trigonometric functions at rational multiples of pi
// with denominators 1, 2, 3, 4 and 6.
func foldTrig(name string, arg Expr) Expr {
	if isZero(arg) {
		switch name {
		case "sin", "tan":
			return N(0)
		case "cos", "sec":
			return N(1)
		}
		return nil
	}
	r, ok := piMultiple(arg)
	if !ok {
		return nil
	}
	// reduce modulo 2*pi
	two := big.NewRat(2, 1)
	for r.Cmp(two) >= 0 {
		r.Sub(r, two)
	}
	for r.Sign() < 0 {
		r.Add(r, two)
	}
	sinv, cosv, ok := unitCircle(r)
	if !ok {
		return nil
	}
	switch name {
	case "sin":
		return sinv
	case "cos":
		return cosv
	case "tan":
		if isZero(cosv) {
			return nil
		}
		return DivOf(sinv, cosv)
	case "cot":
		if isZero(sinv) {
			return nil
		}
		return DivOf(cosv, sinv)
	case "sec":
		if isZero(cosv) {
			return nil
		}
		return PowOf(cosv, N(-1))
	case "csc":
		if isZero(sinv) {
			return nil
		}
		return PowOf(sinv, N(-1))
	}
	return nil
}

func piMultiple(e Expr) (*big.Rat, bool) {
	if isConst(e, Pi) {
		return big.NewRat(1, 1), true
	}
	m, ok := e.(*Mul)
	if !ok || len(m.factors) != 2 || !isConst(m.factors[1], Pi) {
		return nil, false
	}
	c, ok := m.factors[0].(*Num)
	if !ok {
		return nil, false
	}
	return c.Rat(), true
}

// expImaginaryPi evaluates exp(r*pi*I) = cos(r*pi) + I*sin(r*pi) on the
// unit circle table, or returns nil.
func expImaginaryPi(arg Expr) Expr {
	m, ok := arg.(*Mul)
	if !ok || !containsNode(m, func(e Expr) bool { return isConst(e, I) }) {
		return nil
	}
	r, ok := piMultiple(MulOf(arg, Neg(I)))
	if !ok {
		return nil
	}
	// reduce modulo 2; the period is 2*pi
	two := big.NewRat(2, 1)
	for r.Cmp(two) >= 0 {
		r.Sub(r, two)
	}
	for r.Sign() < 0 {
		r.Add(r, two)
	}
	sinv, cosv, ok := unitCircle(r)
	if !ok {
		return nil
	}
	return AddOf(cosv, MulOf(I, sinv))
}

// principalArg reports a symbol-free u whose imaginary part lies in
// (-pi, pi].
func principalArg(u Expr) bool {
	_, im, ok := complexValue(u)
	return ok && im > -math.Pi && im <= math.Pi
}

// unitCircle returns sin and cos of r*pi for 0 <= r < 2.
func unitCircle(r *big.Rat) (Expr, Expr, bool) {
	// reference angle table over the first quadrant, in units of pi
	type entry struct {
		angle    *big.Rat
		sin, cos Expr
	}
	sqrt2h := DivOf(SqrtOf(N(2)), N(2))
	sqrt3h := DivOf(SqrtOf(N(3)), N(2))
	table := []entry{
		{big.NewRat(0, 1), N(0), N(1)},
		{big.NewRat(1, 6), F(1, 2), sqrt3h},
		{big.NewRat(1, 4), sqrt2h, sqrt2h},
		{big.NewRat(1, 3), sqrt3h, F(1, 2)},
		{big.NewRat(1, 2), N(1), N(0)},
	}
	half := big.NewRat(1, 2)
	quad := 0
	ref := new(big.Rat).Set(r)
	for ref.Cmp(half) > 0 {
		ref.Sub(ref, half)
		quad++
	}
	for _, t := range table {
		if t.angle.Cmp(ref) != 0 {
			continue
		}
		s, c := t.sin, t.cos
		// rotate by quad quarter turns: (s, c) -> (c, -s)
		for i := 0; i < quad; i++ {
			s, c = c, Neg(s)
		}
		return s, c, true
	}
	return nil, nil, false
}

func evalFloatFunc(name string, v float64) (Expr, bool) {
	var r float64
	switch name {
	case "sin":
		r = math.Sin(v)
	case "cos":
		r = math.Cos(v)
	case "tan":
		r = math.Tan(v)
	case "cot":
		r = 1 / math.Tan(v)
	case "sec":
		r = 1 / math.Cos(v)
	case "csc":
		r = 1 / math.Sin(v)
	case "asin":
		if v < -1 || v > 1 {
			return nil, false
		}
		r = math.Asin(v)
	case "acos":
		if v < -1 || v > 1 {
			return nil, false
		}
		r = math.Acos(v)
	case "atan":
		r = math.Atan(v)
	case "sinh":
		r = math.Sinh(v)
	case "cosh":
		r = math.Cosh(v)
	case "tanh":
		r = math.Tanh(v)
	case "exp":
		r = math.Exp(v)
	case "log":
		if v < 0 {
			return AddOf(NFloat(math.Log(-v)), MulOf(NFloat(math.Pi), I)), true
		}
		if v == 0 {
			return nil, false
		}
		r = math.Log(v)
	case "Abs":
		r = math.Abs(v)
	case "factorial":
		if v < 0 {
			return nil, false
		}
		r = math.Gamma(v + 1)
	case "floor":
		r = math.Floor(v)
	case "ceiling":
		r = math.Ceil(v)
	case "sign":
		switch {
		case v > 0:
			return N(1), true
		case v < 0:
			return N(-1), true
		}
		return N(0), true
	default:
		return nil, false
	}
	if math.IsNaN(r) {
		return nil, false
	}
	return floatOrInf(r), true
}

func (f *Func) String() string { return Str(f) }
func (f *Func) LaTeX() string  { return Latex(f) }

func (f *Func) Subs(m map[string]Expr) Expr {
	args := make([]Expr, len(f.args))
	for i, a := range f.args {
		args[i] = a.Subs(m)
	}
	return FuncOf(f.name, args...)
}

func (f *Func) Diff(varName string) Expr {
	if len(f.args) != 1 {
		if !dependsOn(f, varName) {
			return N(0)
		}
		return &Derivative{expr: f, varName: varName, order: 1}
	}
	arg := f.args[0]
	du := arg.Diff(varName)
	if isZero(du) {
		return N(0)
	}
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(arg)
	case "cos":
		outer = Neg(SinOf(arg))
	case "tan":
		outer = AddOf(PowOf(TanOf(arg), N(2)), N(1))
	case "cot":
		outer = Neg(AddOf(PowOf(FuncOf("cot", arg), N(2)), N(1)))
	case "sec":
		outer = MulOf(TanOf(arg), FuncOf("sec", arg))
	case "csc":
		outer = Neg(MulOf(FuncOf("cot", arg), FuncOf("csc", arg)))
	case "exp":
		outer = f
	case "log":
		outer = PowOf(arg, N(-1))
	case "asin":
		outer = PowOf(SubOf(N(1), PowOf(arg, N(2))), F(-1, 2))
	case "acos":
		outer = Neg(PowOf(SubOf(N(1), PowOf(arg, N(2))), F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(PowOf(arg, N(2)), N(1)), N(-1))
	case "sinh":
		outer = CoshOf(arg)
	case "cosh":
		outer = SinhOf(arg)
	case "tanh":
		outer = SubOf(N(1), PowOf(TanhOf(arg), N(2)))
	case "Abs":
		outer = FuncOf("sign", arg)
	case "floor", "ceiling", "sign":
		return N(0)
	default:
		return &Derivative{expr: f, varName: varName, order: 1}
	}
	return MulOf(outer, du)
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	if !ok || f.name != o.name || len(f.args) != len(o.args) {
		return false
	}
	for i := range f.args {
		if !f.args[i].Equal(o.args[i]) {
			return false
		}
	}
	return true
}

func (f *Func) exprType() string { return "func" }
func (f *Func) toJSON() map[string]interface{} {
	as := make([]map[string]interface{}, len(f.args))
	for i, a := range f.args {
		as[i] = a.toJSON()
	}
	return map[string]interface{}{"type": "func", "name": f.name, "args": as}
}
func (f *Func) FuncName() string { return f.name }
func (f *Func) Args() []Expr     { return f.args }

// Arg returns the single argument of a one-argument function.
func (f *Func) Arg() Expr { return f.args[0] }

// ============================================================
// Derivative: unevaluated derivative
// ============================================================

type Derivative struct {
	expr    Expr
	varName string
	order   int
}

func (d *Derivative) String() string { return Str(d) }
func (d *Derivative) LaTeX() string  { return Latex(d) }

func (d *Derivative) Subs(m map[string]Expr) Expr {
	if _, bound := m[d.varName]; bound {
		return d
	}
	inner := d.expr.Subs(m)
	result := inner
	for i := 0; i < d.order; i++ {
		result = result.Diff(d.varName)
	}
	return result
}

func (d *Derivative) Diff(varName string) Expr {
	if !dependsOn(d.expr, varName) {
		return N(0)
	}
	if varName == d.varName {
		return &Derivative{expr: d.expr, varName: d.varName, order: d.order + 1}
	}
	return &Derivative{expr: d, varName: varName, order: 1}
}

func (d *Derivative) Equal(other Expr) bool {
	o, ok := other.(*Derivative)
	return ok && d.varName == o.varName && d.order == o.order && d.expr.Equal(o.expr)
}

func (d *Derivative) exprType() string { return "derivative" }
func (d *Derivative) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "derivative", "expr": d.expr.toJSON(), "var": d.varName, "order": d.order}
}

// ============================================================
// Integral: unevaluated integral
// ============================================================

// Integral is an integral the rule set could not evaluate. lower and upper
// are both nil for an indefinite integral.
type Integral struct {
	expr         Expr
	varName      string
	lower, upper Expr
}

func (in *Integral) String() string { return Str(in) }
func (in *Integral) LaTeX() string  { return Latex(in) }
func (in *Integral) Definite() bool { return in.lower != nil }

func (in *Integral) Subs(m map[string]Expr) Expr {
	inner := map[string]Expr{}
	for k, v := range m {
		if k != in.varName {
			inner[k] = v
		}
	}
	out := &Integral{expr: in.expr.Subs(inner), varName: in.varName}
	if in.Definite() {
		out.lower = in.lower.Subs(m)
		out.upper = in.upper.Subs(m)
	}
	return out
}

func (in *Integral) Diff(varName string) Expr {
	if !in.Definite() && varName == in.varName {
		return in.expr
	}
	if !dependsOn(in, varName) {
		return N(0)
	}
	return &Derivative{expr: in, varName: varName, order: 1}
}

func (in *Integral) Equal(other Expr) bool {
	o, ok := other.(*Integral)
	if !ok || in.varName != o.varName || in.Definite() != o.Definite() || !in.expr.Equal(o.expr) {
		return false
	}
	if !in.Definite() {
		return true
	}
	return in.lower.Equal(o.lower) && in.upper.Equal(o.upper)
}

func (in *Integral) exprType() string { return "integral" }
func (in *Integral) toJSON() map[string]interface{} {
	out := map[string]interface{}{"type": "integral", "expr": in.expr.toJSON(), "var": in.varName}
	if in.Definite() {
		out["lower"] = in.lower.toJSON()
		out["upper"] = in.upper.toJSON()
	}
	return out
}

// ============================================================
// Symbol queries
// ============================================================

// FreeSymbols returns the names of the free symbols of e in order of first
// occurrence in the canonical tree. Integration variables are bound.
func FreeSymbols(e Expr) []string {
	seen := map[string]bool{}
	out := []string{}
	collectSymbols(e, map[string]bool{}, seen, &out)
	return out
}

func collectSymbols(e Expr, bound, seen map[string]bool, out *[]string) {
	switch v := e.(type) {
	case *Sym:
		if !bound[v.name] && !seen[v.name] {
			seen[v.name] = true
			*out = append(*out, v.name)
		}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, bound, seen, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, bound, seen, out)
		}
	case *Pow:
		collectSymbols(v.base, bound, seen, out)
		collectSymbols(v.exp, bound, seen, out)
	case *Func:
		for _, a := range v.args {
			collectSymbols(a, bound, seen, out)
		}
	case *Derivative:
		collectSymbols(v.expr, bound, seen, out)
	case *Integral:
		if v.Definite() {
			collectSymbols(v.lower, bound, seen, out)
			collectSymbols(v.upper, bound, seen, out)
		}
		inner := make(map[string]bool, len(bound)+1)
		for k := range bound {
			inner[k] = true
		}
		inner[v.varName] = true
		collectSymbols(v.expr, inner, seen, out)
	}
}

func dependsOn(e Expr, varName string) bool {
	for _, s := range FreeSymbols(e) {
		if s == varName {
			return true
		}
	}
	return false
}

// containsNode reports whether any subtree of e satisfies pred.
func containsNode(e Expr, pred func(Expr) bool) bool {
	if pred(e) {
		return true
	}
	for _, c := range children(e) {
		if containsNode(c, pred) {
			return true
		}
	}
	return false
}

func children(e Expr) []Expr {
	switch v := e.(type) {
	case *Add:
		return v.terms
	case *Mul:
		return v.factors
	case *Pow:
		return []Expr{v.base, v.exp}
	case *Func:
		return v.args
	case *Derivative:
		return []Expr{v.expr}
	case *Integral:
		if v.Definite() {
			return []Expr{v.expr, v.lower, v.upper}
		}
		return []Expr{v.expr}
	}
	return nil
}

// isGreekName reports whether name is spelled as a Greek letter.
func isGreekName(name string) bool {
	_, ok := greekLetters[strings.ToLower(name)]
	return ok
}

var greekLetters = map[string]string{
	"alpha": "α", "beta": "β", "gamma": "γ", "delta": "δ", "epsilon": "ε",
	"zeta": "ζ", "eta": "η", "theta": "θ", "iota": "ι", "kappa": "κ",
	"lambda": "λ", "mu": "μ", "nu": "ν", "xi": "ξ", "omicron": "ο",
	"rho": "ρ", "sigma": "σ", "tau": "τ", "upsilon": "υ",
	"phi": "φ", "chi": "χ", "psi": "ψ", "omega": "ω",
}
