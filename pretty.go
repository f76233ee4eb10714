package symcalc

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// ============================================================
// Two-dimensional pretty printer
// ============================================================

// PrettyOptions selects the glyph set of the pretty printer.
type PrettyOptions struct {
	// Unicode enables box-drawing and mathematical glyphs (⋅ π √ ∫ ∅).
	// When false only ASCII is emitted.
	Unicode bool
}

// Printable is anything the printers can render: expressions and solution
// sets.
type Printable interface {
	String() string
	LaTeX() string
}

// Pretty renders an expression or solution set as multi-line text with
// raised exponents and stacked fractions.
func Pretty(v Printable, opts PrettyOptions) string {
	p := &prettyPrinter{unicode: opts.Unicode}
	var b *box
	switch x := v.(type) {
	case Expr:
		b = p.expr(x, true)
	case Set:
		b = p.set(x)
	default:
		b = textBox(v.String())
	}
	return b.render()
}

// box is a block of text lines sharing one baseline row.
type box struct {
	lines    []string
	baseline int
}

func textBox(s string) *box { return &box{lines: []string{s}} }

func (b *box) width() int {
	w := 0
	for _, l := range b.lines {
		if lw := runewidth.StringWidth(l); lw > w {
			w = lw
		}
	}
	return w
}

func (b *box) height() int { return len(b.lines) }

func (b *box) render() string {
	out := make([]string, len(b.lines))
	for i, l := range b.lines {
		out[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(out, "\n")
}

func padRight(s string, w int) string {
	if d := w - runewidth.StringWidth(s); d > 0 {
		return s + strings.Repeat(" ", d)
	}
	return s
}

func center(s string, w int) string {
	d := w - runewidth.StringWidth(s)
	if d <= 0 {
		return s
	}
	left := d / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", d-left)
}

// hcat joins boxes side by side, aligning their baselines.
func hcat(parts ...*box) *box {
	above, below := 0, 0
	for _, p := range parts {
		if p.baseline > above {
			above = p.baseline
		}
		if d := p.height() - p.baseline - 1; d > below {
			below = d
		}
	}
	h := above + below + 1
	lines := make([]string, h)
	for _, p := range parts {
		w := p.width()
		top := above - p.baseline
		for row := 0; row < h; row++ {
			src := row - top
			line := ""
			if src >= 0 && src < p.height() {
				line = p.lines[src]
			}
			lines[row] += padRight(line, w)
		}
	}
	return &box{lines: lines, baseline: above}
}

func (p *prettyPrinter) parens(b *box) *box {
	if b.height() == 1 {
		return hcat(textBox("("), b, textBox(")"))
	}
	left := make([]string, b.height())
	right := make([]string, b.height())
	for i := range left {
		switch {
		case i == 0:
			left[i], right[i] = p.glyph("⎛", "/"), p.glyph("⎞", "\\")
		case i == len(left)-1:
			left[i], right[i] = p.glyph("⎝", "\\"), p.glyph("⎠", "/")
		default:
			left[i], right[i] = p.glyph("⎜", "|"), p.glyph("⎟", "|")
		}
	}
	return hcat(&box{lines: left, baseline: b.baseline}, b, &box{lines: right, baseline: b.baseline})
}

type prettyPrinter struct {
	unicode bool
}

func (p *prettyPrinter) glyph(uni, ascii string) string {
	if p.unicode {
		return uni
	}
	return ascii
}

func (p *prettyPrinter) expr(e Expr, top bool) *box {
	switch v := e.(type) {
	case *Num:
		return textBox(v.val.RatString())
	case *Float:
		return textBox(formatFloat(v.val, top))
	case *Sym:
		if p.unicode {
			if g, ok := greekLetters[v.name]; ok {
				return textBox(g)
			}
		}
		return textBox(v.name)
	case *Const:
		switch v.name {
		case "pi":
			return textBox(p.glyph("π", "pi"))
		case "E":
			return textBox(p.glyph("ℯ", "E"))
		case "I":
			return textBox(p.glyph("ⅈ", "I"))
		case "oo":
			return textBox(p.glyph("∞", "oo"))
		}
	case *Add:
		return p.add(v)
	case *Mul:
		return p.mul(v)
	case *Pow:
		return p.pow(v)
	case *Func:
		return p.fn(v, nil)
	case *Derivative:
		return textBox(Str(v))
	case *Integral:
		return p.integral(v)
	}
	return textBox(e.String())
}

func (p *prettyPrinter) add(a *Add) *box {
	parts := []*box{}
	for i, t := range a.terms {
		neg := false
		if c, rest := splitCoeff(t); numberSign(c) < 0 {
			neg = true
			t = scaleTerm(numberNeg(c), rest)
		} else if isNumber(t) && numberSign(t) < 0 {
			neg = true
			t = numberNeg(t)
		}
		tb := p.expr(t, false)
		if _, ok := t.(*Add); ok {
			tb = p.parens(tb)
		}
		switch {
		case i == 0 && neg:
			parts = append(parts, textBox("-"))
		case i > 0 && neg:
			parts = append(parts, textBox(" - "))
		case i > 0:
			parts = append(parts, textBox(" + "))
		}
		parts = append(parts, tb)
	}
	return hcat(parts...)
}

func (p *prettyPrinter) factor(f Expr) *box {
	b := p.expr(f, false)
	if precedence(f) <= precMul {
		if _, ok := f.(*Num); ok {
			return b
		}
		return p.parens(b)
	}
	return b
}

func (p *prettyPrinter) product(fs []Expr) *box {
	if len(fs) == 0 {
		return textBox("1")
	}
	parts := []*box{}
	for i, f := range fs {
		if i > 0 {
			parts = append(parts, textBox(p.glyph("⋅", "*")))
		}
		parts = append(parts, p.factor(f))
	}
	return hcat(parts...)
}

func (p *prettyPrinter) mul(m *Mul) *box {
	neg, numer, denom := mulParts(m)
	var body *box
	if len(denom) == 0 {
		body = p.product(numer)
	} else {
		body = p.fraction(p.product(numer), p.product(denom))
	}
	if neg {
		return hcat(textBox("-"), body)
	}
	return body
}

func (p *prettyPrinter) fraction(num, den *box) *box {
	w := num.width()
	if dw := den.width(); dw > w {
		w = dw
	}
	lines := make([]string, 0, num.height()+den.height()+1)
	for _, l := range num.lines {
		lines = append(lines, center(l, w))
	}
	lines = append(lines, strings.Repeat(p.glyph("─", "-"), w))
	for _, l := range den.lines {
		lines = append(lines, center(l, w))
	}
	return &box{lines: lines, baseline: num.height()}
}

// raise places exp above and to the right of base.
func raise(base, exp *box) *box {
	bw, ew := base.width(), exp.width()
	lines := make([]string, 0, base.height()+exp.height())
	for _, l := range exp.lines {
		lines = append(lines, strings.Repeat(" ", bw)+l)
	}
	for _, l := range base.lines {
		lines = append(lines, padRight(l, bw)+strings.Repeat(" ", ew))
	}
	return &box{lines: lines, baseline: exp.height() + base.baseline}
}

func (p *prettyPrinter) pow(pw *Pow) *box {
	if n, ok := pw.exp.(*Num); ok {
		switch {
		case n.Equal(F(1, 2)):
			return p.sqrt(pw.base)
		case n.IsNegative():
			var inv Expr = pw.base
			if !n.IsNegOne() {
				inv = &Pow{base: pw.base, exp: numNeg(n)}
			}
			return p.fraction(textBox("1"), p.expr(inv, false))
		}
	}
	exp := p.expr(pw.exp, false)
	if f, ok := pw.base.(*Func); ok && f.name != "exp" && IsBuiltinFunc(f.name) && len(f.args) == 1 {
		return p.fn(f, exp)
	}
	base := p.expr(pw.base, false)
	if precedence(pw.base) <= precPow {
		base = p.parens(base)
	}
	return raise(base, exp)
}

func (p *prettyPrinter) sqrt(base Expr) *box {
	arg := p.expr(base, false)
	switch base.(type) {
	case *Sym, *Num, *Const:
		if p.unicode {
			return hcat(textBox("√"), arg)
		}
	}
	w := arg.width()
	lines := []string{"   " + strings.Repeat("_", w)}
	for i, l := range arg.lines {
		prefix := "   "
		if i == len(arg.lines)-1 {
			prefix = p.glyph("╲╱ ", "\\/ ")
		}
		lines = append(lines, prefix+padRight(l, w))
	}
	return &box{lines: lines, baseline: arg.baseline + 1}
}

// fn prints f(args); a non-nil power is raised over the function name as in
// sin²(x).
func (p *prettyPrinter) fn(f *Func, power *box) *box {
	parts := []*box{}
	for i, a := range f.args {
		if i > 0 {
			parts = append(parts, textBox(", "))
		}
		parts = append(parts, p.expr(a, false))
	}
	args := hcat(parts...)
	switch f.name {
	case "Abs":
		bar := &box{lines: make([]string, args.height()), baseline: args.baseline}
		for i := range bar.lines {
			bar.lines[i] = "|"
		}
		if power != nil {
			return raise(hcat(bar, args, bar), power)
		}
		return hcat(bar, args, bar)
	case "factorial":
		inner := p.expr(f.args[0], false)
		if precedence(f.args[0]) < precAtom {
			inner = p.parens(inner)
		}
		return hcat(inner, textBox("!"))
	case "exp":
		if p.unicode {
			return raise(textBox("ℯ"), args)
		}
	}
	name := textBox(f.name)
	if power != nil {
		name = raise(name, power)
	}
	return hcat(name, p.parens(args))
}

func (p *prettyPrinter) integral(in *Integral) *box {
	body := p.expr(in.expr, false)
	if _, ok := in.expr.(*Add); ok {
		body = p.parens(body)
	}
	if !p.unicode {
		if in.Definite() {
			return textBox("Integral(" + Str(in.expr) + ", (" + in.varName + ", " + Str(in.lower) + ", " + Str(in.upper) + "))")
		}
		return textBox("Integral(" + Str(in.expr) + ", " + in.varName + ")")
	}
	sign := &box{lines: []string{"⌠", "⎮", "⌡"}, baseline: 1}
	if in.Definite() {
		upper := Str(in.upper)
		lower := Str(in.lower)
		w := runewidth.StringWidth(upper)
		if lw := runewidth.StringWidth(lower); lw > w {
			w = lw
		}
		if w < 1 {
			w = 1
		}
		sign = &box{lines: []string{
			padRight(upper, w),
			padRight("⌠", w),
			padRight("⎮", w),
			padRight("⌡", w),
			padRight(lower, w),
		}, baseline: 2}
	}
	return hcat(sign, textBox(" "), body, textBox(" d"+in.varName))
}

func (p *prettyPrinter) set(s Set) *box {
	switch v := s.(type) {
	case *FiniteSet:
		if len(v.elems) == 0 {
			return textBox(p.glyph("∅", "EmptySet"))
		}
		parts := []*box{textBox("{")}
		for i, e := range v.elems {
			if i > 0 {
				parts = append(parts, textBox(", "))
			}
			parts = append(parts, p.expr(e, false))
		}
		parts = append(parts, textBox("}"))
		return hcat(parts...)
	case *complexesSet:
		return textBox(p.glyph("ℂ", "Complexes"))
	case *ConditionSet:
		if !p.unicode {
			return textBox(v.String())
		}
		return hcat(textBox("{"+v.varName+" │ "+v.varName+" ∊ ℂ ∧ ("), p.expr(v.cond, false), textBox(" = 0)}"))
	case *ImageSet:
		n := v.lambda
		body := p.expr(v.expr, false)
		if !p.unicode {
			return textBox(v.String())
		}
		return hcat(textBox("{"), body, textBox(" │ "+n+" ∊ ℤ}"))
	case *Union:
		parts := []*box{}
		for i, m := range v.sets {
			if i > 0 {
				parts = append(parts, textBox(p.glyph(" ∪ ", " U ")))
			}
			parts = append(parts, p.set(m))
		}
		return hcat(parts...)
	}
	return textBox(s.String())
}
