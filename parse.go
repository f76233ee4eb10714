package symcalc

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode"
)

// ============================================================
// Grammar
// ============================================================

// Grammar lists the input conveniences accepted on top of ordinary
// arithmetic notation.
type Grammar struct {
	// ImplicitMultiplication reads adjacent factors as a product: 2x, x(y+1).
	ImplicitMultiplication bool
	// ImplicitApplication reads "sin x" as sin(x) and "sin^2 x" as sin(x)**2.
	ImplicitApplication bool
	// SplitSymbols reads an unknown multi-letter name as a product of
	// single-letter symbols (xy -> x*y). Names containing an underscore,
	// Greek letter names and letter+digit names like x1 are not split.
	SplitSymbols bool
	// CaretPower makes ^ a synonym of **.
	CaretPower bool
}

// DefaultGrammar is the grammar used by Parse. It is not modified at run
// time; callers needing a different grammar pass WithGrammar.
var DefaultGrammar = Grammar{
	ImplicitMultiplication: true,
	ImplicitApplication:    true,
	SplitSymbols:           true,
	CaretPower:             true,
}

// undefinedFuncNames are single letters read as function names when followed
// by a parenthesis.
var undefinedFuncNames = map[string]bool{"f": true, "g": true, "h": true}

// nameAliases maps accepted spellings onto canonical function names.
var nameAliases = map[string]string{"ln": "log", "abs": "Abs"}

// ============================================================
// Options and errors
// ============================================================

type parseConfig struct {
	grammar   Grammar
	locals    map[string]Expr
	functions map[string]bool
}

// ParseOption configures a single Parse call.
type ParseOption func(*parseConfig)

// WithLocals binds names to expressions; a bound name is replaced by its
// value wherever it appears.
func WithLocals(locals map[string]Expr) ParseOption {
	return func(c *parseConfig) {
		for k, v := range locals {
			c.locals[k] = v
		}
	}
}

// WithFunctions declares names that are read as undefined functions.
func WithFunctions(names ...string) ParseOption {
	return func(c *parseConfig) {
		for _, n := range names {
			c.functions[n] = true
		}
	}
}

// WithGrammar replaces DefaultGrammar for one call.
func WithGrammar(g Grammar) ParseOption {
	return func(c *parseConfig) { c.grammar = g }
}

// ParseError reports text that could not be read as an expression.
type ParseError struct {
	Text string
	Pos  int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("error parsing expression '%s': %v", e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	ErrEmptyExpression = errors.New("empty expression")
	ErrUnexpectedEnd   = errors.New("unexpected end of input")
)

// ============================================================
// Parse
// ============================================================

// Parse reads text into a canonical expression tree.
func Parse(text string, opts ...ParseOption) (result Expr, err error) {
	cfg := &parseConfig{grammar: DefaultGrammar, locals: map[string]Expr{}, functions: map[string]bool{}}
	for _, opt := range opts {
		opt(cfg)
	}
	toks, pos, lexErr := lex(text)
	if lexErr != nil {
		return nil, &ParseError{Text: text, Pos: pos, Err: lexErr}
	}
	if len(toks) == 1 {
		return nil, &ParseError{Text: text, Err: ErrEmptyExpression}
	}
	p := &parser{text: text, toks: toks, cfg: cfg}
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &ParseError{Text: text, Pos: p.peek().pos, Err: panicError(r)}
		}
	}()
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t, "unexpected %q", t.text)
	}
	return e, nil
}

// MustParse is Parse for known-good input; it panics on error.
func MustParse(text string, opts ...ParseOption) Expr {
	e, err := Parse(text, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// ============================================================
// Lexer
// ============================================================

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNum
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func lex(text string) ([]token, int, error) {
	rs := []rune(text)
	toks := []token{}
	i := 0
	for i < len(rs) {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r) || (r == '.' && i+1 < len(rs) && unicode.IsDigit(rs[i+1])):
			start := i
			for i < len(rs) && unicode.IsDigit(rs[i]) {
				i++
			}
			if i < len(rs) && rs[i] == '.' {
				i++
				for i < len(rs) && unicode.IsDigit(rs[i]) {
					i++
				}
			}
			if i < len(rs) && (rs[i] == 'e' || rs[i] == 'E') {
				j := i + 1
				if j < len(rs) && (rs[j] == '+' || rs[j] == '-') {
					j++
				}
				if j < len(rs) && unicode.IsDigit(rs[j]) {
					for j < len(rs) && unicode.IsDigit(rs[j]) {
						j++
					}
					i = j
				}
			}
			toks = append(toks, token{kind: tokNum, text: string(rs[start:i]), pos: start})
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(rs) && (unicode.IsLetter(rs[i]) || unicode.IsDigit(rs[i]) || rs[i] == '_') {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: string(rs[start:i]), pos: start})
		case r == '*' && i+1 < len(rs) && rs[i+1] == '*':
			toks = append(toks, token{kind: tokOp, text: "**", pos: i})
			i += 2
		case strings.ContainsRune("+-*/^!", r):
			toks = append(toks, token{kind: tokOp, text: string(r), pos: i})
			i++
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		case r == ',':
			toks = append(toks, token{kind: tokComma, text: ",", pos: i})
			i++
		default:
			return nil, i, fmt.Errorf("invalid character %q at position %d", r, i)
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(rs)})
	return toks, 0, nil
}

// ============================================================
// Recursive-descent parser
// ============================================================

type parser struct {
	text string
	toks []token
	pos  int
	cfg  *parseConfig
}

func (p *parser) peek() token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) isOp(ops ...string) bool {
	t := p.peek()
	if t.kind != tokOp {
		return false
	}
	for _, op := range ops {
		if t.text == op {
			return true
		}
	}
	return false
}

func (p *parser) isPowOp() bool {
	if p.isOp("**") {
		return true
	}
	return p.cfg.grammar.CaretPower && p.isOp("^")
}

func (p *parser) errorf(t token, format string, args ...interface{}) error {
	cause := fmt.Errorf(format, args...)
	if t.kind == tokEOF {
		cause = ErrUnexpectedEnd
	}
	return &ParseError{Text: p.text, Pos: t.pos, Err: cause}
}

func (p *parser) expect(kind tokenKind, what string) error {
	t := p.peek()
	if t.kind != kind {
		return p.errorf(t, "expected %s, found %q", what, t.text)
	}
	p.next()
	return nil
}

// startsFactor reports whether the next token can begin an implicitly
// multiplied factor.
func (p *parser) startsFactor() bool {
	switch p.peek().kind {
	case tokNum, tokIdent, tokLParen:
		return true
	}
	return false
}

// expr := term (('+' | '-') term)*
func (p *parser) parseExpr() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.isOp("+", "-") {
		op := p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if op.text == "+" {
			left = AddOf(left, right)
		} else {
			left = SubOf(left, right)
		}
	}
	return left, nil
}

// term := unary (('*' | '/') unary | power)*
func (p *parser) parseTerm() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isOp("*", "/"):
			op := p.next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			if op.text == "*" {
				left = MulOf(left, right)
			} else {
				left = DivOf(left, right)
			}
		case p.cfg.grammar.ImplicitMultiplication && p.startsFactor():
			right, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			left = MulOf(left, right)
		default:
			return left, nil
		}
	}
}

// unary := ('-' | '+') unary | power
func (p *parser) parseUnary() (Expr, error) {
	if p.isOp("-") {
		p.next()
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Neg(e), nil
	}
	if p.isOp("+") {
		p.next()
		return p.parseUnary()
	}
	return p.parsePower()
}

// power := postfix (('**' | '^') unary)?
func (p *parser) parsePower() (Expr, error) {
	base, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if p.isPowOp() {
		p.next()
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil
	}
	return base, nil
}

// postfix := primary '!'*
func (p *parser) parsePostfix() (Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.isOp("!") {
		p.next()
		e = FuncOf("factorial", e)
	}
	return e, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.peek()
	switch t.kind {
	case tokNum:
		p.next()
		return parseNumber(t.text)
	case tokLParen:
		p.next()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return e, nil
	case tokIdent:
		p.next()
		return p.parseName(t)
	}
	if t.kind == tokEOF {
		return nil, p.errorf(t, "")
	}
	return nil, p.errorf(t, "unexpected %q", t.text)
}

func parseNumber(text string) (Expr, error) {
	if strings.ContainsAny(text, ".eE") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", text, err)
		}
		return NFloat(f), nil
	}
	n, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return nil, fmt.Errorf("invalid number %q", text)
	}
	return numFromInt(n), nil
}

func (p *parser) parseName(t token) (Expr, error) {
	name := t.text
	if v, ok := p.cfg.locals[name]; ok {
		return v, nil
	}
	if alias, ok := nameAliases[name]; ok {
		name = alias
	}
	if c, ok := constByName(name); ok {
		return c, nil
	}
	if builtinFuncs[name] || name == "sqrt" {
		return p.parseApplication(t, name)
	}
	followedByParen := p.peek().kind == tokLParen
	if p.cfg.functions[name] || (followedByParen && (undefinedFuncNames[name] || len([]rune(name)) > 1)) {
		if err := p.expect(tokLParen, "'('"); err != nil {
			return nil, err
		}
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		return FuncOf(name, args...), nil
	}
	return p.symbolFor(name), nil
}

// symbolFor turns a name into a symbol, splitting it into single-letter
// symbols when the grammar allows: xy -> x*y, xy1 -> x*y1.
func (p *parser) symbolFor(name string) Expr {
	if !p.cfg.grammar.SplitSymbols || !splittable(name) {
		return S(name)
	}
	rs := []rune(name)
	factors := []Expr{}
	for i := 0; i < len(rs); {
		j := i + 1
		for j < len(rs) && unicode.IsDigit(rs[j]) {
			j++
		}
		piece := string(rs[i:j])
		if v, ok := p.cfg.locals[piece]; ok {
			factors = append(factors, v)
		} else if c, ok := constByName(piece); ok {
			factors = append(factors, c)
		} else {
			factors = append(factors, S(piece))
		}
		i = j
	}
	return MulOf(factors...)
}

func splittable(name string) bool {
	rs := []rune(name)
	if len(rs) < 2 || strings.Contains(name, "_") || isGreekName(name) {
		return false
	}
	// a single letter followed only by digits is one symbol (x1, t0)
	tail := rs[1:]
	for _, r := range tail {
		if !unicode.IsDigit(r) {
			return unicode.IsLetter(rs[0])
		}
	}
	return false
}

// parseApplication reads the argument of a built-in function, either in
// parentheses or, with implicit application, as the following factor. A
// power written on the name (sin^2 x) applies to the result.
func (p *parser) parseApplication(t token, name string) (Expr, error) {
	var power Expr
	if p.isPowOp() {
		p.next()
		neg := false
		if p.isOp("-") {
			p.next()
			neg = true
		}
		e, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		if neg {
			e = Neg(e)
		}
		power = e
	}
	var args []Expr
	switch {
	case p.peek().kind == tokLParen:
		p.next()
		as, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		args = as
	case p.cfg.grammar.ImplicitApplication && p.startsFactor():
		arg, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		args = []Expr{arg}
	default:
		return nil, p.errorf(p.peek(), "missing argument for %s", name)
	}
	f, err := applyBuiltin(name, args)
	if err != nil {
		return nil, &ParseError{Text: p.text, Pos: t.pos, Err: err}
	}
	if power != nil {
		return PowOf(f, power), nil
	}
	return f, nil
}

// parseArgs reads a comma separated list up to the closing parenthesis; the
// opening parenthesis has been consumed.
func (p *parser) parseArgs() ([]Expr, error) {
	args := []Expr{}
	if p.peek().kind == tokRParen {
		p.next()
		return args, nil
	}
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, e)
		if p.peek().kind == tokComma {
			p.next()
			continue
		}
		if err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return args, nil
	}
}

func applyBuiltin(name string, args []Expr) (Expr, error) {
	switch {
	case name == "sqrt" && len(args) == 1:
		return SqrtOf(args[0]), nil
	case name == "log" && len(args) == 2:
		return DivOf(LogOf(args[0]), LogOf(args[1])), nil
	case len(args) == 1:
		return FuncOf(name, args[0]), nil
	}
	return nil, fmt.Errorf("%s takes exactly one argument (%d given)", name, len(args))
}

func panicError(r interface{}) error {
	if err, ok := r.(error); ok {
		return err
	}
	return errors.New(strings.TrimPrefix(fmt.Sprint(r), "symcalc: "))
}
